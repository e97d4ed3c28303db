package blockentity

import (
	"testing"

	"github.com/go-mclib/server/internal/blockpos"
	"github.com/go-mclib/server/internal/nbt"
)

func TestTypeIDMatchesRegistrationOrder(t *testing.T) {
	for i, name := range Types {
		id, ok := TypeID(name)
		if !ok || int(id) != i {
			t.Errorf("TypeID(%q) = %d,%v; want %d,true", name, id, ok, i)
		}
	}
	if _, ok := TypeID("minecraft:does_not_exist"); ok {
		t.Error("unknown resource location should not resolve")
	}
}

func TestChestRoundTrip(t *testing.T) {
	c := NewChest(blockpos.BlockPos{X: 1, Y: 2, Z: 3})
	c.SetSlot(0, ItemStack{Item: "minecraft:diamond", Count: 5})
	c.SetSlot(26, ItemStack{Item: "minecraft:stick", Count: 1})

	out := nbt.NewCompound()
	WriteEnvelope(out, c.ResourceLocation(), c.Pos)
	c.WriteNBT(out)

	entity, ok := FromNBT(out)
	if !ok {
		t.Fatal("FromNBT failed to dispatch chest")
	}
	back, ok := entity.(*Chest)
	if !ok {
		t.Fatalf("dispatched type = %T; want *Chest", entity)
	}
	if back.Position() != c.Pos {
		t.Errorf("position = %+v; want %+v", back.Position(), c.Pos)
	}
	if back.Slot(0) != (ItemStack{Item: "minecraft:diamond", Count: 5}) {
		t.Errorf("slot 0 = %+v", back.Slot(0))
	}
	if back.Slot(26) != (ItemStack{Item: "minecraft:stick", Count: 1}) {
		t.Errorf("slot 26 = %+v", back.Slot(26))
	}
	if back.Slot(1) != (ItemStack{}) {
		t.Errorf("slot 1 should be empty, got %+v", back.Slot(1))
	}
}

func TestSignRoundTrip(t *testing.T) {
	s := NewSign(blockpos.BlockPos{X: 0, Y: 64, Z: 0})
	s.FrontLines = [4]string{"hello", "world", "", ""}
	s.Waxed = true

	out := nbt.NewCompound()
	WriteEnvelope(out, s.ResourceLocation(), s.Pos)
	s.WriteNBT(out)

	entity, ok := FromNBT(out)
	if !ok {
		t.Fatal("FromNBT failed to dispatch sign")
	}
	back := entity.(*Sign)
	if back.FrontLines != s.FrontLines {
		t.Errorf("front lines = %v; want %v", back.FrontLines, s.FrontLines)
	}
	if !back.Waxed {
		t.Error("waxed flag should round-trip true")
	}
}

func TestFurnaceTickConsumesFuelAndCooks(t *testing.T) {
	f := NewFurnace(blockpos.BlockPos{})
	f.SetSlot(furnaceSlotInput, ItemStack{Item: "minecraft:iron_ore", Count: 1})
	f.SetSlot(furnaceSlotFuel, ItemStack{Item: "minecraft:coal", Count: 1})
	f.CookTimeTotal = 2

	f.Tick()
	if f.BurnTime != 1599 {
		t.Errorf("BurnTime after first tick = %d; want 1599", f.BurnTime)
	}
	if f.Slot(furnaceSlotFuel) != (ItemStack{}) {
		t.Errorf("fuel slot should be consumed, got %+v", f.Slot(furnaceSlotFuel))
	}
	f.Tick()
	if f.Slot(furnaceSlotOutput).Count != 1 {
		t.Errorf("output count = %d; want 1 after CookTimeTotal reached", f.Slot(furnaceSlotOutput).Count)
	}
	if f.Slot(furnaceSlotInput) != (ItemStack{}) {
		t.Errorf("input should be consumed, got %+v", f.Slot(furnaceSlotInput))
	}
}

func TestUnknownIDSkippedSilently(t *testing.T) {
	c := nbt.NewCompound()
	c.PutString("id", "minecraft:nonexistent")
	c.PutInt("x", 0)
	c.PutInt("y", 0)
	c.PutInt("z", 0)
	if _, ok := FromNBT(c); ok {
		t.Error("unknown block entity id should not dispatch")
	}
}
