package blockpos

import "testing"

func TestPackUnpackRoundTrip(t *testing.T) {
	tests := []BlockPos{
		{X: 5, Y: -1, Z: -5},
		{X: 0, Y: 0, Z: 0},
		{X: -2097152, Y: -524288, Z: 2097151},
		{X: 2097151, Y: 524287, Z: -2097152},
		{X: 100, Y: 319, Z: -64},
	}
	for _, p := range tests {
		packed := p.Pack()
		got := Unpack(packed)
		if got != p {
			t.Errorf("Unpack(Pack(%+v)) = %+v", p, got)
		}
	}
}

func TestChunkPosKeyRoundTrip(t *testing.T) {
	tests := []ChunkPos{
		{X: 0, Z: 0},
		{X: -1, Z: -1},
		{X: 12345, Z: -54321},
		{X: -2147483648, Z: 2147483647},
	}
	for _, c := range tests {
		got := ChunkPosFromKey(c.Key())
		if got != c {
			t.Errorf("ChunkPosFromKey(%+v.Key()) = %+v", c, got)
		}
	}
}

func TestBlockPosChunkPos(t *testing.T) {
	tests := []struct {
		pos  BlockPos
		want ChunkPos
	}{
		{BlockPos{X: 0, Y: 0, Z: 0}, ChunkPos{0, 0}},
		{BlockPos{X: 15, Y: 0, Z: 15}, ChunkPos{0, 0}},
		{BlockPos{X: 16, Y: 0, Z: 16}, ChunkPos{1, 1}},
		{BlockPos{X: -1, Y: 0, Z: -1}, ChunkPos{-1, -1}},
		{BlockPos{X: -16, Y: 0, Z: -16}, ChunkPos{-1, -1}},
		{BlockPos{X: -17, Y: 0, Z: -17}, ChunkPos{-2, -2}},
	}
	for _, tt := range tests {
		if got := tt.pos.ChunkPos(); got != tt.want {
			t.Errorf("%+v.ChunkPos() = %+v; want %+v", tt.pos, got, tt.want)
		}
	}
}

func TestPackedLocalXZ(t *testing.T) {
	tests := []struct {
		pos  BlockPos
		want uint8
	}{
		{BlockPos{X: 0, Y: 0, Z: 0}, 0x00},
		{BlockPos{X: 1, Y: 0, Z: 2}, 0x12},
		{BlockPos{X: 15, Y: 0, Z: 15}, 0xFF},
		{BlockPos{X: 16, Y: 0, Z: 16}, 0x00},
		{BlockPos{X: -1, Y: 0, Z: -1}, 0xFF},
	}
	for _, tt := range tests {
		if got := tt.pos.PackedLocalXZ(); got != tt.want {
			t.Errorf("%+v.PackedLocalXZ() = %#x; want %#x", tt.pos, got, tt.want)
		}
	}
}
