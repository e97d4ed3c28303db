package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer encodes NBT to a byte stream, mirroring Reader's disk/network duality.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) writeRaw(b []byte) error {
	_, err := w.w.Write(b)
	return err
}

func (w *Writer) writeByteRaw(b byte) error {
	return w.writeRaw([]byte{b})
}

func (w *Writer) writeShortRaw(v int16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	return w.writeRaw(b[:])
}

func (w *Writer) writeIntRaw(v int32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return w.writeRaw(b[:])
}

func (w *Writer) writeLongRaw(v int64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	return w.writeRaw(b[:])
}

func (w *Writer) writeStringRaw(s string) error {
	if len(s) > 0xFFFF {
		return fmt.Errorf("nbt: string too long (%d bytes)", len(s))
	}
	if err := w.writeShortRaw(int16(uint16(len(s)))); err != nil {
		return err
	}
	return w.writeRaw([]byte(s))
}

// WriteTag writes a fully-typed tag: type byte, name (unless network), payload.
func (w *Writer) WriteTag(tag Tag, name string, network bool) error {
	if err := w.writeByteRaw(byte(tag.Type())); err != nil {
		return err
	}
	if tag.Type() == TypeEnd {
		return nil
	}
	if !network {
		if err := w.writeStringRaw(name); err != nil {
			return err
		}
	}
	return w.writePayload(tag)
}

func (w *Writer) writePayload(tag Tag) error {
	switch v := tag.(type) {
	case Byte:
		return w.writeByteRaw(byte(v))
	case Short:
		return w.writeShortRaw(int16(v))
	case Int:
		return w.writeIntRaw(int32(v))
	case Long:
		return w.writeLongRaw(int64(v))
	case Float:
		return w.writeIntRaw(int32(math.Float32bits(float32(v))))
	case Double:
		return w.writeLongRaw(int64(math.Float64bits(float64(v))))
	case ByteArray:
		if err := w.writeIntRaw(int32(len(v))); err != nil {
			return err
		}
		return w.writeRaw(v)
	case String:
		return w.writeStringRaw(string(v))
	case List:
		return w.writeList(v)
	case *Compound:
		return w.writeCompound(v)
	case IntArray:
		if err := w.writeIntRaw(int32(len(v))); err != nil {
			return err
		}
		for _, n := range v {
			if err := w.writeIntRaw(n); err != nil {
				return err
			}
		}
		return nil
	case LongArray:
		if err := w.writeIntRaw(int32(len(v))); err != nil {
			return err
		}
		for _, n := range v {
			if err := w.writeLongRaw(n); err != nil {
				return err
			}
		}
		return nil
	case End:
		return nil
	default:
		return fmt.Errorf("nbt: unwritable tag type %T", tag)
	}
}

func (w *Writer) writeList(l List) error {
	elemType := l.ElemType
	if len(l.Items) == 0 && elemType == 0 {
		elemType = TypeEnd
	}
	if err := w.writeByteRaw(byte(elemType)); err != nil {
		return err
	}
	if err := w.writeIntRaw(int32(len(l.Items))); err != nil {
		return err
	}
	for _, item := range l.Items {
		if err := w.writePayload(item); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeCompound(c *Compound) error {
	for _, name := range c.order {
		tag := c.tags[name]
		if err := w.writeByteRaw(byte(tag.Type())); err != nil {
			return err
		}
		if err := w.writeStringRaw(name); err != nil {
			return err
		}
		if err := w.writePayload(tag); err != nil {
			return err
		}
	}
	return w.writeByteRaw(byte(TypeEnd))
}

// WriteNamed encodes tag in disk format under the given root name.
func WriteNamed(w io.Writer, name string, tag Tag) error {
	return NewWriter(w).WriteTag(tag, name, false)
}

// WriteNetwork encodes tag in network format: no root name.
func WriteNetwork(w io.Writer, tag Tag) error {
	return NewWriter(w).WriteTag(tag, "", true)
}
