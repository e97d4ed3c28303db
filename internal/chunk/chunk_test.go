package chunk

import (
	"testing"

	"github.com/go-mclib/server/internal/blockentity"
	"github.com/go-mclib/server/internal/blockpos"
	"github.com/go-mclib/server/internal/registry"
)

func TestNewChunkIsAllAir(t *testing.T) {
	c := New(blockpos.ChunkPos{X: 3, Z: -5}, 3953)
	if got := c.GetBlock(3*16, 0, -5*16); got != registry.AirBlockID {
		t.Fatalf("new chunk block = %d, want air", got)
	}
	if c.Status != "minecraft:full" {
		t.Fatalf("Status = %q, want minecraft:full", c.Status)
	}
	if len(c.Sections) != SectionCount {
		t.Fatalf("len(Sections) = %d, want %d", len(c.Sections), SectionCount)
	}
}

func TestSetGetBlockRoundTrip(t *testing.T) {
	c := New(blockpos.ChunkPos{X: 0, Z: 0}, 3953)
	stoneID := uint16(registry.Blocks.MustID("minecraft:stone"))

	prev := c.SetBlock(5, 64, 9, stoneID)
	if prev != registry.AirBlockID {
		t.Fatalf("prev = %d, want air", prev)
	}
	if got := c.GetBlock(5, 64, 9); got != stoneID {
		t.Fatalf("GetBlock after set = %d, want %d", got, stoneID)
	}
	if !c.IsDirty() {
		t.Fatal("chunk should be dirty after a block state changed")
	}
}

func TestSetBlockOutOfRangeIsNoOp(t *testing.T) {
	c := New(blockpos.ChunkPos{X: 0, Z: 0}, 3953)
	prev := c.SetBlock(0, 10000, 0, 1)
	if prev != 0 {
		t.Fatalf("out-of-range SetBlock returned %d, want 0", prev)
	}
	if c.IsDirty() {
		t.Fatal("out-of-range SetBlock should not mark the chunk dirty")
	}
}

func TestBlockEntityLifecycle(t *testing.T) {
	c := New(blockpos.ChunkPos{X: 0, Z: 0}, 3953)
	pos := blockpos.BlockPos{X: 1, Y: 70, Z: 1}
	chest := blockentity.NewChest(pos)

	c.PutBlockEntity(chest)
	got, ok := c.BlockEntityAt(pos)
	if !ok || got.ResourceLocation() != blockentity.ChestResourceLocation {
		t.Fatalf("BlockEntityAt = %v, %v", got, ok)
	}

	c.RemoveBlockEntity(pos)
	if _, ok := c.BlockEntityAt(pos); ok {
		t.Fatal("block entity should be gone after RemoveBlockEntity")
	}
}

// TestAllAirChunkDiskRoundTrip exercises the Anvil-simplified NBT shape on a
// freshly generated chunk: every section homogeneous air/plains, no light data,
// no block entities.
func TestAllAirChunkDiskRoundTrip(t *testing.T) {
	orig := New(blockpos.ChunkPos{X: 7, Z: -2}, 3953)
	orig.LastUpdate = 100
	orig.InhabitedTime = 5

	root := orig.ToDiskNBT()

	xPos, _ := root.GetInt("xPos")
	zPos, _ := root.GetInt("zPos")
	if xPos != 7 || zPos != -2 {
		t.Fatalf("xPos/zPos = %d/%d, want 7/-2", xPos, zPos)
	}

	sections, ok := root.GetList("sections")
	if !ok || len(sections.Items) != SectionCount {
		t.Fatalf("sections list missing or wrong length: ok=%v len=%d", ok, len(sections.Items))
	}

	back := FromDiskNBT(root)
	if back.Pos != orig.Pos {
		t.Fatalf("Pos = %+v, want %+v", back.Pos, orig.Pos)
	}
	if back.DataVersion != orig.DataVersion {
		t.Fatalf("DataVersion = %d, want %d", back.DataVersion, orig.DataVersion)
	}
	if back.LastUpdate != 100 || back.InhabitedTime != 5 {
		t.Fatalf("LastUpdate/InhabitedTime = %d/%d, want 100/5", back.LastUpdate, back.InhabitedTime)
	}
	for y := int32(MinSectionY * 16); y < (MinSectionY+SectionCount)*16; y += 16 {
		if got := back.GetBlock(0, y, 0); got != registry.AirBlockID {
			t.Fatalf("round-tripped block at y=%d = %d, want air", y, got)
		}
	}
}

func TestChunkDiskRoundTripWithBlocksAndEntities(t *testing.T) {
	orig := New(blockpos.ChunkPos{X: 0, Z: 0}, 3953)
	stoneID := uint16(registry.Blocks.MustID("minecraft:stone"))
	dirtID := uint16(registry.Blocks.MustID("minecraft:dirt"))

	orig.SetBlock(0, 64, 0, stoneID)
	orig.SetBlock(1, 64, 0, dirtID)
	orig.SetBlock(15, 70, 15, stoneID)

	chest := blockentity.NewChest(blockpos.BlockPos{X: 0, Y: 64, Z: 1})
	chest.SetSlot(0, blockentity.ItemStack{Item: "minecraft:diamond", Count: 3})
	orig.PutBlockEntity(chest)

	root := orig.ToDiskNBT()
	back := FromDiskNBT(root)

	if got := back.GetBlock(0, 64, 0); got != stoneID {
		t.Fatalf("GetBlock(0,64,0) = %d, want %d", got, stoneID)
	}
	if got := back.GetBlock(1, 64, 0); got != dirtID {
		t.Fatalf("GetBlock(1,64,0) = %d, want %d", got, dirtID)
	}
	if got := back.GetBlock(15, 70, 15); got != stoneID {
		t.Fatalf("GetBlock(15,70,15) = %d, want %d", got, stoneID)
	}

	be, ok := back.BlockEntityAt(blockpos.BlockPos{X: 0, Y: 64, Z: 1})
	if !ok {
		t.Fatal("chest not found after round trip")
	}
	restored, ok := be.(*blockentity.Chest)
	if !ok {
		t.Fatalf("restored entity has type %T, want *blockentity.Chest", be)
	}
	if slot := restored.Slot(0); slot.Item != "minecraft:diamond" || slot.Count != 3 {
		t.Fatalf("restored chest slot 0 = %+v", slot)
	}
}

func TestHeightmapDiskRoundTrip(t *testing.T) {
	orig := New(blockpos.ChunkPos{X: 0, Z: 0}, 3953)
	orig.Heightmaps.MotionBlocking.Set(3, 9, 142)

	root := orig.ToDiskNBT()
	back := FromDiskNBT(root)

	if got := back.Heightmaps.MotionBlocking.Get(3, 9); got != 142 {
		t.Fatalf("MotionBlocking.Get(3,9) = %d, want 142", got)
	}
}

func TestLightArraysSkippedWhenEmpty(t *testing.T) {
	orig := New(blockpos.ChunkPos{X: 0, Z: 0}, 3953)
	root := orig.ToDiskNBT()

	sections, _ := root.GetList("sections")
	sec := sections.Items[0].(interface {
		GetByteArray(string) ([]byte, bool)
	})
	if _, ok := sec.GetByteArray("BlockLight"); ok {
		t.Fatal("BlockLight should be absent for an all-empty-light chunk")
	}
}

func TestLightArrayRoundTrip(t *testing.T) {
	orig := New(blockpos.ChunkPos{X: 0, Z: 0}, 3953)
	full := NewFullLight()
	full.Set(0, 15)
	full.Set(1, 3)
	orig.BlockLight[1] = full // section index 0 -> light slot 1

	root := orig.ToDiskNBT()
	back := FromDiskNBT(root)

	if back.BlockLight[1].IsEmpty() {
		t.Fatal("BlockLight should round-trip as non-empty")
	}
	if got := back.BlockLight[1].Get(0); got != 15 {
		t.Fatalf("BlockLight.Get(0) = %d, want 15", got)
	}
	if got := back.BlockLight[1].Get(1); got != 3 {
		t.Fatalf("BlockLight.Get(1) = %d, want 3", got)
	}
}

func TestFreshChunkStaysAirAfterRoundTrip(t *testing.T) {
	orig := New(blockpos.ChunkPos{X: 0, Z: 0}, 3953)
	root := orig.ToDiskNBT()
	back := FromDiskNBT(root)
	if back.GetBlock(0, MinSectionY*16, 0) != registry.AirBlockID {
		t.Fatal("expected air in a freshly round-tripped chunk")
	}
}
