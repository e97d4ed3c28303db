package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-mclib/server/internal/palette"
)

// writePalettedContainer encodes a NetworkSerialization in the standard
// bits_per_entry-tagged layout: a leading bits-per-entry byte selects single
// (0), indirect (a varint palette followed by packed longs), or direct (packed
// longs only, no palette) mode.
func writePalettedContainer[V palette.RegistryID](buf *bytes.Buffer, ser palette.NetworkSerialization[V]) error {
	if err := buf.WriteByte(byte(ser.BitsPerEntry)); err != nil {
		return err
	}

	switch ser.Mode {
	case palette.ModeSingle:
		if err := WriteVarInt(buf, int32(ser.Single)); err != nil {
			return err
		}
		return WriteVarInt(buf, 0)
	case palette.ModeIndirect:
		if err := WriteVarInt(buf, int32(len(ser.Palette))); err != nil {
			return err
		}
		for _, v := range ser.Palette {
			if err := WriteVarInt(buf, int32(v)); err != nil {
				return err
			}
		}
		return writeLongArray(buf, ser.Packed)
	case palette.ModeDirect:
		return writeLongArray(buf, ser.Packed)
	default:
		return fmt.Errorf("packet: unknown palette mode %d", ser.Mode)
	}
}

func writeLongArray(buf *bytes.Buffer, words []int64) error {
	if err := WriteVarInt(buf, int32(len(words))); err != nil {
		return err
	}
	var tmp [8]byte
	for _, w := range words {
		binary.BigEndian.PutUint64(tmp[:], uint64(w))
		if _, err := buf.Write(tmp[:]); err != nil {
			return err
		}
	}
	return nil
}

// readPalettedContainer is the inverse of writePalettedContainer, parameterized
// by the registry's network thresholds.
func readPalettedContainer[V palette.RegistryID](r *byteReader, dim int, params palette.NetworkParams) (*palette.Container[V], error) {
	bitsByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	bits := int(bitsByte)

	if bits == 0 {
		single, err := ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		if _, err := ReadVarInt(r); err != nil { // data array length, always 0
			return nil, err
		}
		return palette.NewHomogeneous[V](dim, V(single)), nil
	}

	if bits <= params.MaxMapBits {
		paletteLen, err := ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		pal := make([]V, paletteLen)
		for i := range pal {
			v, err := ReadVarInt(r)
			if err != nil {
				return nil, err
			}
			pal[i] = V(v)
		}
		packed, err := readLongArray(r)
		if err != nil {
			return nil, err
		}
		return palette.FromPaletteAndPackedData[V](dim, pal, packed, params.MinMapBits), nil
	}

	packed, err := readLongArray(r)
	if err != nil {
		return nil, err
	}
	return palette.FromNetwork[V](dim, palette.NetworkSerialization[V]{
		BitsPerEntry: bits,
		Mode:         palette.ModeDirect,
		Packed:       packed,
	}), nil
}

func readLongArray(r *byteReader) ([]int64, error) {
	length, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	out := make([]int64, length)
	var tmp [8]byte
	for i := range out {
		if _, err := io.ReadFull(r, tmp[:]); err != nil {
			return nil, err
		}
		out[i] = int64(binary.BigEndian.Uint64(tmp[:]))
	}
	return out, nil
}

// byteReader adapts a byte slice to both io.ByteReader and io.Reader, the two
// shapes varint decoding and fixed-width reads need.
type byteReader struct {
	data []byte
	pos  int
}

func newByteReader(data []byte) *byteReader { return &byteReader{data: data} }

func (r *byteReader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
