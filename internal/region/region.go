// Package region implements Anvil region file I/O: the 32x32 grid of chunks
// per ".mca" file, its sector-allocated header, and the compressed NBT payload
// framing used by each chunk slot.
package region

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"

	"github.com/go-mclib/server/internal/blockpos"
	"github.com/go-mclib/server/internal/nbt"
)

const (
	sectorSize   = 4096
	headerSize   = 2 * sectorSize
	gridSize     = 32
	tableEntries = gridSize * gridSize
)

// Compression identifies the byte-compression scheme a chunk payload was
// written with.
type Compression uint8

const (
	CompressionGZip Compression = 1
	CompressionZlib Compression = 2
	CompressionNone Compression = 3
	CompressionLZ4  Compression = 4
)

// ChunkNotExist is returned when a region file has no entry for the requested
// local chunk coordinate: a recoverable "needs generation" signal.
var ChunkNotExist = errors.New("region: chunk does not exist")

// ParsingError wraps a recoverable decode failure. ChunkNotGenerated is the
// only sentinel kind callers are expected to special-case; other reasons are
// still recoverable (treat as "needs generation") but worth logging.
type ParsingError struct {
	Reason string
}

func (e *ParsingError) Error() string { return "region: parsing error: " + e.Reason }

// ChunkNotGenerated is the canonical ParsingError reason for a chunk slot that
// exists in the header but decodes to nothing usable.
const ChunkNotGenerated = "chunk not generated"

// entry is one slot of the region header's location table.
type entry struct {
	sectorOffset uint32 // in 4 KiB sectors from file start
	sectorCount  uint8
}

func (e entry) isAbsent() bool { return e.sectorOffset == 0 && e.sectorCount == 0 }

// File is a single open ".mca" region file. All reads and writes to the
// underlying os.File are serialized by mu, matching the source's per-file
// mutex model; multiple File values for the same path are not safe to use
// concurrently, only one should be opened at a time.
type File struct {
	mu   sync.Mutex
	f    *os.File
	locs [tableEntries]entry
}

// RegionOf returns the region coordinates containing a chunk position.
func RegionOf(pos blockpos.ChunkPos) (regionX, regionZ int32) {
	return pos.X >> 5, pos.Z >> 5
}

// FileName returns the canonical "r.<x>.<z>.mca" name for a region.
func FileName(regionX, regionZ int32) string {
	return fmt.Sprintf("r.%d.%d.mca", regionX, regionZ)
}

func localIndex(pos blockpos.ChunkPos) int {
	lx := int(pos.X) & (gridSize - 1)
	lz := int(pos.Z) & (gridSize - 1)
	return lz*gridSize + lx
}

// Open opens (creating if absent) the region file at path and reads its
// header tables into memory.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	rf := &File{f: f}
	if err := rf.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return rf, nil
}

func (rf *File) Close() error {
	rf.mu.Lock()
	defer rf.mu.Unlock()
	return rf.f.Close()
}

func (rf *File) readHeader() error {
	info, err := rf.f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil // freshly created, all entries absent
	}
	if info.Size() < headerSize {
		return fmt.Errorf("region: file shorter than an 8 KiB header (%d bytes)", info.Size())
	}

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(io.NewSectionReader(rf.f, 0, headerSize), header); err != nil {
		return err
	}

	for i := 0; i < tableEntries; i++ {
		raw := header[i*4 : i*4+4]
		rf.locs[i] = entry{
			sectorOffset: uint32(raw[0])<<16 | uint32(raw[1])<<8 | uint32(raw[2]),
			sectorCount:  raw[3],
		}
	}
	return nil
}

// Read decodes the NBT root for the chunk at pos, or ChunkNotExist if the
// region header has no entry for it.
func (rf *File) Read(pos blockpos.ChunkPos) (*nbt.Compound, error) {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	loc := rf.locs[localIndex(pos)]
	if loc.isAbsent() {
		return nil, ChunkNotExist
	}

	payloadOffset := int64(loc.sectorOffset) * sectorSize
	header := make([]byte, 5)
	if _, err := rf.f.ReadAt(header, payloadOffset); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(header[0:4])
	if length == 0 {
		return nil, &ParsingError{Reason: ChunkNotGenerated}
	}
	compression := Compression(header[4])

	body := make([]byte, length-1)
	if _, err := rf.f.ReadAt(body, payloadOffset+5); err != nil {
		return nil, err
	}

	reader, err := decompress(compression, body)
	if err != nil {
		return nil, err
	}
	_, tag, err := nbt.ReadNamed(reader)
	if err != nil {
		return nil, &ParsingError{Reason: err.Error()}
	}
	root, ok := tag.(*nbt.Compound)
	if !ok {
		return nil, &ParsingError{Reason: "root tag is not a compound"}
	}
	return root, nil
}

func decompress(c Compression, body []byte) (io.Reader, error) {
	switch c {
	case CompressionGZip:
		return gzip.NewReader(bytes.NewReader(body))
	case CompressionZlib:
		return zlib.NewReader(bytes.NewReader(body))
	case CompressionNone:
		return bytes.NewReader(body), nil
	case CompressionLZ4:
		return lz4.NewReader(bytes.NewReader(body)), nil
	default:
		return nil, fmt.Errorf("region: unknown compression scheme %d", c)
	}
}

// Write encodes root and stores it at pos, allocating sectors: reusing the
// chunk's existing extent if the new payload still fits, otherwise appending
// to the end of the file. The chunk's 4-byte location entry in the header is
// rewritten after the payload lands, so a reader never observes a header entry
// pointing at a payload that hasn't been written yet.
func (rf *File) Write(pos blockpos.ChunkPos, root *nbt.Compound, compression Compression) error {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	compressed, err := compress(compression, root)
	if err != nil {
		return err
	}

	payload := make([]byte, 5+len(compressed))
	binary.BigEndian.PutUint32(payload[0:4], uint32(len(compressed)+1))
	payload[4] = byte(compression)
	copy(payload[5:], compressed)

	sectorsNeeded := sectorsFor(len(payload))
	idx := localIndex(pos)
	loc := rf.locs[idx]

	var offset uint32
	if !loc.isAbsent() && uint32(sectorsNeeded) <= uint32(loc.sectorCount) {
		offset = loc.sectorOffset
	} else {
		offset, err = rf.allocateAtEnd(sectorsNeeded)
		if err != nil {
			return err
		}
	}

	padded := make([]byte, sectorsNeeded*sectorSize)
	copy(padded, payload)
	if _, err := rf.f.WriteAt(padded, int64(offset)*sectorSize); err != nil {
		return err
	}

	rf.locs[idx] = entry{sectorOffset: offset, sectorCount: uint8(sectorsNeeded)}
	return rf.writeHeaderEntry(idx)
}

func compress(c Compression, root *nbt.Compound) ([]byte, error) {
	var buf bytes.Buffer
	switch c {
	case CompressionGZip:
		w := gzip.NewWriter(&buf)
		if err := nbt.WriteNamed(w, "", root); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	case CompressionZlib:
		w := zlib.NewWriter(&buf)
		if err := nbt.WriteNamed(w, "", root); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	case CompressionNone:
		if err := nbt.WriteNamed(&buf, "", root); err != nil {
			return nil, err
		}
	case CompressionLZ4:
		w := lz4.NewWriter(&buf)
		if err := nbt.WriteNamed(w, "", root); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("region: unknown compression scheme %d", c)
	}
	return buf.Bytes(), nil
}

func sectorsFor(byteLen int) int {
	return (byteLen + sectorSize - 1) / sectorSize
}

// allocateAtEnd appends sectorsNeeded sectors past the current end of the
// file's sector grid, returning the sector offset of the new extent.
func (rf *File) allocateAtEnd(sectorsNeeded int) (uint32, error) {
	info, err := rf.f.Stat()
	if err != nil {
		return 0, err
	}
	currentSectors := (info.Size() + sectorSize - 1) / sectorSize
	if currentSectors < headerSize/sectorSize {
		currentSectors = headerSize / sectorSize
	}
	return uint32(currentSectors), nil
}

func (rf *File) writeHeaderEntry(idx int) error {
	loc := rf.locs[idx]
	raw := make([]byte, 4)
	raw[0] = byte(loc.sectorOffset >> 16)
	raw[1] = byte(loc.sectorOffset >> 8)
	raw[2] = byte(loc.sectorOffset)
	raw[3] = loc.sectorCount
	_, err := rf.f.WriteAt(raw, int64(idx*4))
	return err
}
