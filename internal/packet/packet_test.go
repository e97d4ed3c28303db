package packet

import (
	"bytes"
	"testing"

	"github.com/go-mclib/server/internal/blockentity"
	"github.com/go-mclib/server/internal/blockpos"
	"github.com/go-mclib/server/internal/chunk"
	"github.com/go-mclib/server/internal/registry"
)

func TestVarIntRoundTrip(t *testing.T) {
	cases := []int32{0, 1, 2, 127, 128, 255, 25565, -1, -2147483648, 2147483647}
	for _, v := range cases {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, v); err != nil {
			t.Fatalf("WriteVarInt(%d): %v", v, err)
		}
		got, err := ReadVarInt(&buf)
		if err != nil {
			t.Fatalf("ReadVarInt after %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d -> %d", v, got)
		}
	}
}

func TestVarIntKnownEncodings(t *testing.T) {
	cases := []struct {
		v    int32
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xff, 0x01}},
		{-1, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, c.v); err != nil {
			t.Fatalf("WriteVarInt(%d): %v", c.v, err)
		}
		if !bytes.Equal(buf.Bytes(), c.want) {
			t.Fatalf("WriteVarInt(%d) = % x, want % x", c.v, buf.Bytes(), c.want)
		}
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	cases := []int64{0, 1, 127, 128, -1, 1 << 40, -(1 << 40)}
	for _, v := range cases {
		var buf bytes.Buffer
		if err := WriteVarLong(&buf, v); err != nil {
			t.Fatalf("WriteVarLong(%d): %v", v, err)
		}
		got, err := ReadVarLong(&buf)
		if err != nil {
			t.Fatalf("ReadVarLong after %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d -> %d", v, got)
		}
	}
}

func TestVarIntSize(t *testing.T) {
	cases := []struct {
		v    int32
		want int
	}{
		{0, 1}, {127, 1}, {128, 2}, {16383, 2}, {16384, 3}, {-1, 5},
	}
	for _, c := range cases {
		if got := VarIntSize(c.v); got != c.want {
			t.Fatalf("VarIntSize(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestEncodeDecodeAllAirChunk(t *testing.T) {
	c := chunk.New(blockpos.ChunkPos{X: 2, Z: -3}, 3953)

	frame, err := EncodeLevelChunkWithLight(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	back, err := DecodeLevelChunkWithLight(frame, 3953)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if back.Pos != c.Pos {
		t.Fatalf("Pos = %+v, want %+v", back.Pos, c.Pos)
	}
	if got := back.GetBlock(0, chunk.MinSectionY*16, 0); got != registry.AirBlockID {
		t.Fatalf("GetBlock = %d, want air", got)
	}
}

func TestEncodeIsDeterministicForAllAirChunk(t *testing.T) {
	a := chunk.New(blockpos.ChunkPos{X: 0, Z: 0}, 3953)
	b := chunk.New(blockpos.ChunkPos{X: 0, Z: 0}, 3953)

	fa, err := EncodeLevelChunkWithLight(a)
	if err != nil {
		t.Fatalf("Encode a: %v", err)
	}
	fb, err := EncodeLevelChunkWithLight(b)
	if err != nil {
		t.Fatalf("Encode b: %v", err)
	}
	if !bytes.Equal(fa, fb) {
		t.Fatal("two freshly generated all-air chunks at the same position should encode identically")
	}
}

func TestEncodeDecodeChunkWithBlocksAndEntity(t *testing.T) {
	c := chunk.New(blockpos.ChunkPos{X: 0, Z: 0}, 3953)
	stoneID := uint16(registry.Blocks.MustID("minecraft:stone"))
	c.SetBlock(4, 64, 4, stoneID)

	sign := blockentity.NewSign(blockpos.BlockPos{X: 5, Y: 65, Z: 5})
	sign.FrontLines[0] = "hello"
	c.PutBlockEntity(sign)

	frame, err := EncodeLevelChunkWithLight(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := DecodeLevelChunkWithLight(frame, 3953)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := back.GetBlock(4, 64, 4); got != stoneID {
		t.Fatalf("GetBlock(4,64,4) = %d, want %d", got, stoneID)
	}
	be, ok := back.BlockEntityAt(blockpos.BlockPos{X: 5, Y: 65, Z: 5})
	if !ok {
		t.Fatal("sign not found after decode")
	}
	restored, ok := be.(*blockentity.Sign)
	if !ok {
		t.Fatalf("restored entity has type %T, want *blockentity.Sign", be)
	}
	if restored.FrontLines[0] != "hello" {
		t.Fatalf("FrontLines[0] = %q, want hello", restored.FrontLines[0])
	}
}

func TestEncodeDecodeLightRoundTrip(t *testing.T) {
	c := chunk.New(blockpos.ChunkPos{X: 0, Z: 0}, 3953)
	full := chunk.NewFullLight()
	full.Set(10, 7)
	c.SkyLight[3] = full

	frame, err := EncodeLevelChunkWithLight(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := DecodeLevelChunkWithLight(frame, 3953)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if back.SkyLight[3].IsEmpty() {
		t.Fatal("SkyLight[3] should round-trip non-empty")
	}
	if got := back.SkyLight[3].Get(10); got != 7 {
		t.Fatalf("SkyLight[3].Get(10) = %d, want 7", got)
	}
}
