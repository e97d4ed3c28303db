// Package blockpos implements block and chunk coordinates and their packed
// integer encodings, used as map keys and as the block-entity wire position field.
package blockpos

// BlockPos is an absolute world block coordinate.
type BlockPos struct {
	X, Y, Z int32
}

const (
	xBits = 22
	zBits = 22
	yBits = 20

	xMask = uint64(1)<<xBits - 1
	zMask = uint64(1)<<zBits - 1
	yMask = uint64(1)<<yBits - 1
)

// Pack encodes p into the layout x[63:42] | z[41:20] | y[19:0], each field a
// signed two's-complement sub-integer of its stated width.
func (p BlockPos) Pack() int64 {
	packed := (uint64(p.X)&xMask)<<(yBits+zBits) |
		(uint64(p.Z)&zMask)<<yBits |
		(uint64(p.Y) & yMask)
	return int64(packed)
}

// Unpack reconstructs a BlockPos from its packed form.
func Unpack(packed int64) BlockPos {
	u := uint64(packed)
	x := signExtend((u>>(yBits+zBits))&xMask, xBits)
	z := signExtend((u>>yBits)&zMask, zBits)
	y := signExtend(u&yMask, yBits)
	return BlockPos{X: x, Y: y, Z: z}
}

func signExtend(v uint64, bits int) int32 {
	shift := 64 - uint(bits)
	return int32(int64(v<<shift) >> shift)
}

// ChunkPos is a chunk column coordinate (world block position >> 4 on X/Z).
type ChunkPos struct {
	X, Z int32
}

// Key returns a value suitable for use as a map key, packing X into the high
// 32 bits and Z into the low 32 bits.
func (c ChunkPos) Key() int64 {
	return int64(c.X)<<32 | int64(uint32(c.Z))
}

// ChunkPosFromKey is the inverse of ChunkPos.Key.
func ChunkPosFromKey(key int64) ChunkPos {
	return ChunkPos{X: int32(key >> 32), Z: int32(uint32(key))}
}

// ChunkPos returns the chunk containing p.
func (p BlockPos) ChunkPos() ChunkPos {
	return ChunkPos{X: p.X >> 4, Z: p.Z >> 4}
}

// LocalXZ returns p's X/Z coordinates modulo 16, always in [0,16), matching the
// packed_local_xz nibble pair written into block-entity chunk data.
func (p BlockPos) LocalXZ() (x, z uint8) {
	return uint8(p.X & 15), uint8(p.Z & 15)
}

// PackedLocalXZ packs LocalXZ into a single byte as (x<<4)|z, the wire format
// used by the block-entity section of the chunk data packet.
func (p BlockPos) PackedLocalXZ() uint8 {
	x, z := p.LocalXZ()
	return x<<4 | z
}
