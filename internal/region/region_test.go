package region

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-mclib/server/internal/blockpos"
	"github.com/go-mclib/server/internal/chunk"
)

func openTempRegion(t *testing.T) *File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "r.0.0.mca")
	rf, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { rf.Close() })
	return rf
}

func TestReadAbsentChunkReturnsChunkNotExist(t *testing.T) {
	rf := openTempRegion(t)
	_, err := rf.Read(blockpos.ChunkPos{X: 1, Z: 1})
	if !errors.Is(err, ChunkNotExist) {
		t.Fatalf("err = %v, want ChunkNotExist", err)
	}
}

func TestWriteReadRoundTripNoCompression(t *testing.T) {
	rf := openTempRegion(t)
	pos := blockpos.ChunkPos{X: 3, Z: 5}
	c := chunk.New(pos, 3953)

	if err := rf.Write(pos, c.ToDiskNBT(), CompressionNone); err != nil {
		t.Fatalf("Write: %v", err)
	}
	root, err := rf.Read(pos)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	back := chunk.FromDiskNBT(root)
	if back.Pos != pos {
		t.Fatalf("Pos = %+v, want %+v", back.Pos, pos)
	}
}

func TestWriteReadRoundTripGZip(t *testing.T) {
	rf := openTempRegion(t)
	pos := blockpos.ChunkPos{X: -2, Z: 9}
	c := chunk.New(pos, 3953)

	if err := rf.Write(pos, c.ToDiskNBT(), CompressionGZip); err != nil {
		t.Fatalf("Write: %v", err)
	}
	root, err := rf.Read(pos)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	back := chunk.FromDiskNBT(root)
	if back.DataVersion != 3953 {
		t.Fatalf("DataVersion = %d, want 3953", back.DataVersion)
	}
}

func TestWriteReadRoundTripZlib(t *testing.T) {
	rf := openTempRegion(t)
	pos := blockpos.ChunkPos{X: 0, Z: 0}
	c := chunk.New(pos, 3953)

	if err := rf.Write(pos, c.ToDiskNBT(), CompressionZlib); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := rf.Read(pos); err != nil {
		t.Fatalf("Read: %v", err)
	}
}

func TestWriteReadRoundTripLZ4(t *testing.T) {
	rf := openTempRegion(t)
	pos := blockpos.ChunkPos{X: 4, Z: -1}
	c := chunk.New(pos, 3953)

	if err := rf.Write(pos, c.ToDiskNBT(), CompressionLZ4); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := rf.Read(pos); err != nil {
		t.Fatalf("Read: %v", err)
	}
}

func TestOverwriteReusesExtentWhenItFits(t *testing.T) {
	rf := openTempRegion(t)
	pos := blockpos.ChunkPos{X: 0, Z: 0}
	c := chunk.New(pos, 3953)

	if err := rf.Write(pos, c.ToDiskNBT(), CompressionNone); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	firstLoc := rf.locs[localIndex(pos)]

	// Writing the same all-air chunk again, uncompressed, produces a payload of
	// the same size, so the rewrite should reuse the same extent rather than
	// appending a new one.
	if err := rf.Write(pos, c.ToDiskNBT(), CompressionNone); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	secondLoc := rf.locs[localIndex(pos)]

	if secondLoc.sectorOffset != firstLoc.sectorOffset {
		t.Fatalf("offset changed on same-size rewrite: %d -> %d", firstLoc.sectorOffset, secondLoc.sectorOffset)
	}
}

func TestHeaderPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.0.0.mca")
	pos := blockpos.ChunkPos{X: 2, Z: 2}

	rf, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	c := chunk.New(pos, 3953)
	if err := rf.Write(pos, c.ToDiskNBT(), CompressionNone); err != nil {
		t.Fatalf("Write: %v", err)
	}
	rf.Close()

	rf2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer rf2.Close()
	if _, err := rf2.Read(pos); err != nil {
		t.Fatalf("Read after reopen: %v", err)
	}
}

func TestRegionOfAndFileName(t *testing.T) {
	rx, rz := RegionOf(blockpos.ChunkPos{X: 40, Z: -3})
	if rx != 1 || rz != -1 {
		t.Fatalf("RegionOf = %d,%d want 1,-1", rx, rz)
	}
	if got := FileName(1, -1); got != "r.1.-1.mca" {
		t.Fatalf("FileName = %q", got)
	}
}
