package chunk

import "github.com/go-mclib/server/internal/bitpack"

// heightmapBits is wide enough to hold 0..384 (a 1.21.x world is 384 blocks
// tall): ceil(log2(385)) = 9.
const heightmapBits = 9
const heightmapEntries = 16 * 16

// Heightmap is a 16x16 grid of column heights, bit-packed into i64 words the
// same way a palette's index array is.
type Heightmap struct {
	arr *bitpack.Array
}

func NewHeightmap() *Heightmap {
	return &Heightmap{arr: bitpack.NewArray(heightmapBits, heightmapEntries)}
}

// HeightmapFromLongs wraps a packed i64 array read from NBT or the wire.
func HeightmapFromLongs(words []int64) *Heightmap {
	return &Heightmap{arr: &bitpack.Array{Words: int64sToUint64s(words), BitsPerEntry: heightmapBits}}
}

func (h *Heightmap) Get(x, z int) int {
	return int(h.arr.Get(z*16 + x))
}

func (h *Heightmap) Set(x, z, value int) {
	h.arr.Set(z*16+x, uint32(value))
}

// PackedLongs returns the backing words as signed i64s for NBT encoding.
func (h *Heightmap) PackedLongs() []int64 {
	return uint64sToInt64s(h.arr.Words)
}

func int64sToUint64s(in []int64) []uint64 {
	out := make([]uint64, len(in))
	for i, v := range in {
		out[i] = uint64(v)
	}
	return out
}

func uint64sToInt64s(in []uint64) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

// HeightmapKind names one of the three heightmaps a chunk tracks.
type HeightmapKind string

const (
	WorldSurface           HeightmapKind = "WORLD_SURFACE"
	MotionBlocking         HeightmapKind = "MOTION_BLOCKING"
	MotionBlockingNoLeaves HeightmapKind = "MOTION_BLOCKING_NO_LEAVES"
)

// HeightmapSet holds the three heightmaps a chunk persists and transmits.
type HeightmapSet struct {
	WorldSurface           *Heightmap
	MotionBlocking         *Heightmap
	MotionBlockingNoLeaves *Heightmap
}

func NewHeightmapSet() *HeightmapSet {
	return &HeightmapSet{
		WorldSurface:           NewHeightmap(),
		MotionBlocking:         NewHeightmap(),
		MotionBlockingNoLeaves: NewHeightmap(),
	}
}
