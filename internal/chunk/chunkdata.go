package chunk

import (
	"github.com/df-mc/atomic"

	"github.com/go-mclib/server/internal/blockentity"
	"github.com/go-mclib/server/internal/blockpos"
)

// ChunkData is a full chunk column: its coordinate, its vertical stack of
// sections, heightmaps, block entities, and the extra sky/block light layers for
// the sections immediately below and above the world.
type ChunkData struct {
	Pos blockpos.ChunkPos

	Sections [SectionCount]*Section

	// SkyLight and BlockLight carry one entry per section plus one below and one
	// above the world, matching the source's N+2 light-array convention.
	SkyLight   [SectionCount + 2]Light
	BlockLight [SectionCount + 2]Light

	Heightmaps *HeightmapSet

	BlockEntities map[blockpos.BlockPos]blockentity.BlockEntity

	DataVersion   int32
	Status        string
	LastUpdate    int64
	InhabitedTime int64

	dirty atomic.Bool
}

// New builds an empty, all-air chunk column ready for a generator (or the
// network codec in tests) to populate.
func New(pos blockpos.ChunkPos, dataVersion int32) *ChunkData {
	c := &ChunkData{
		Pos:           pos,
		Heightmaps:    NewHeightmapSet(),
		BlockEntities: make(map[blockpos.BlockPos]blockentity.BlockEntity),
		DataVersion:   dataVersion,
		Status:        "minecraft:full",
	}
	for i := range c.Sections {
		c.Sections[i] = NewAirSection()
	}
	return c
}

func (c *ChunkData) IsDirty() bool { return c.dirty.Load() }
func (c *ChunkData) MarkDirty()    { c.dirty.Store(true) }
func (c *ChunkData) ClearDirty()   { c.dirty.Store(false) }

// sectionIndex converts a world Y coordinate to its section slot, or -1 if out
// of the world's vertical range.
func sectionIndex(y int32) int {
	idx := int(y>>4) - MinSectionY
	if idx < 0 || idx >= SectionCount {
		return -1
	}
	return idx
}

// GetBlock returns the block state id at the given absolute world position, or
// the air id if the position is outside the world's vertical range.
func (c *ChunkData) GetBlock(x, y, z int32) uint16 {
	idx := sectionIndex(y)
	if idx < 0 {
		return 0
	}
	lx, ly, lz := int(x&15), int(y&15), int(z&15)
	return c.Sections[idx].Blocks.Get(lx, ly, lz)
}

// SetBlock stores a block state id at an absolute world position and returns the
// previous value. Out-of-range positions are a no-op returning 0.
func (c *ChunkData) SetBlock(x, y, z int32, state uint16) uint16 {
	idx := sectionIndex(y)
	if idx < 0 {
		return 0
	}
	lx, ly, lz := int(x&15), int(y&15), int(z&15)
	prev := c.Sections[idx].Blocks.Set(lx, ly, lz, state)
	if prev != state {
		c.MarkDirty()
	}
	return prev
}

// BlockEntityAt looks up the block entity at an absolute position, if any.
func (c *ChunkData) BlockEntityAt(pos blockpos.BlockPos) (blockentity.BlockEntity, bool) {
	be, ok := c.BlockEntities[pos]
	return be, ok
}

// PutBlockEntity stores or replaces a block entity at its own position.
func (c *ChunkData) PutBlockEntity(be blockentity.BlockEntity) {
	c.BlockEntities[be.Position()] = be
	c.MarkDirty()
}

// RemoveBlockEntity removes any block entity at pos.
func (c *ChunkData) RemoveBlockEntity(pos blockpos.BlockPos) {
	if _, ok := c.BlockEntities[pos]; ok {
		delete(c.BlockEntities, pos)
		c.MarkDirty()
	}
}
