// Package chunk implements the chunk column: a vertical stack of 16x16x16
// sections, their heightmaps, light, and block entities, plus the NBT shape used
// to persist a chunk to an Anvil region file.
package chunk

import "github.com/go-mclib/server/internal/palette"

// SectionCount is the number of vertical sections in a 1.21.x world: y=-64..319
// inclusive, 384 blocks tall, 16 blocks per section.
const SectionCount = 24

// MinSectionY is the section index of the lowest section (y=-64).
const MinSectionY = -4

// Section is one 16x16x16 slice of a chunk column.
type Section struct {
	Blocks *palette.BlockPalette
	Biomes *palette.BiomePalette
}

// NewAirSection builds an empty section: all air blocks, all plains biome.
func NewAirSection() *Section {
	return &Section{
		Blocks: palette.NewBlockPalette(0),
		Biomes: palette.NewBiomePalette(0),
	}
}

// NonAirBlockCount is the count the wire packet reports per section.
func (s *Section) NonAirBlockCount() int {
	return palette.NonAirBlockCount(s.Blocks)
}
