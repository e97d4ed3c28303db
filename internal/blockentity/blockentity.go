// Package blockentity implements the auxiliary per-block state attached to
// container and mechanism blocks (chests, signs, furnaces) and the NBT-keyed
// dispatch table that reconstructs the right concrete type on chunk load.
//
// The source models this as an open trait object hierarchy with default method
// bodies; here the closed set of capabilities (tick, chunk-data export, inventory)
// are separate interfaces a concrete type opts into, composed on top of a shared
// Base rather than inherited.
package blockentity

import (
	"github.com/go-mclib/server/internal/blockpos"
	"github.com/go-mclib/server/internal/nbt"
)

// BlockEntity is the capability every registered kind has unconditionally.
type BlockEntity interface {
	ResourceLocation() string
	Position() blockpos.BlockPos
	WriteNBT(c *nbt.Compound)
	IsDirty() bool
}

// Ticker is implemented by kinds with per-tick behavior (e.g. furnaces burning
// fuel). Most kinds do not implement it.
type Ticker interface {
	Tick()
}

// ChunkDataProvider is implemented by kinds that send a subset of their state in
// the chunk data packet's block_entities section, distinct from (and usually
// smaller than) their full disk NBT.
type ChunkDataProvider interface {
	ChunkDataNBT() *nbt.Compound
}

// InventoryHolder is implemented by kinds that hold item slots, so their
// contents can be scattered on block removal.
type InventoryHolder interface {
	Inventory() Inventory
}

// Inventory is a fixed-size sequence of item slots.
type Inventory interface {
	Size() int
	Slot(i int) ItemStack
	SetSlot(i int, s ItemStack)
}

// ItemStack is a minimal item stack: an item registry name and a count. Item
// component data (enchantments, custom names, etc.) is out of scope.
type ItemStack struct {
	Item  string
	Count int32
}

// IsEmpty reports whether the stack holds no items.
func (s ItemStack) IsEmpty() bool { return s.Item == "" || s.Count <= 0 }

// Base implements Position/IsDirty for every concrete kind. The shared
// write_internal envelope (id, x, y, z) is written by WriteEnvelope, not by
// Base, so kinds only need to implement their own field layout in WriteNBT.
type Base struct {
	Pos   blockpos.BlockPos
	dirty bool
}

func (b *Base) Position() blockpos.BlockPos { return b.Pos }
func (b *Base) IsDirty() bool               { return b.dirty }
func (b *Base) MarkDirty()                  { b.dirty = true }
func (b *Base) ClearDirty()                 { b.dirty = false }

// WriteEnvelope writes the id/x/y/z header every on-disk block entity compound
// carries, ahead of the kind-specific fields.
func WriteEnvelope(c *nbt.Compound, resourceLocation string, pos blockpos.BlockPos) {
	c.PutString("id", resourceLocation)
	c.PutInt("x", pos.X)
	c.PutInt("y", pos.Y)
	c.PutInt("z", pos.Z)
}

func positionFromNBT(c *nbt.Compound) blockpos.BlockPos {
	x, _ := c.GetInt("x")
	y, _ := c.GetInt("y")
	z, _ := c.GetInt("z")
	return blockpos.BlockPos{X: x, Y: y, Z: z}
}
