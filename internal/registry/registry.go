// Package registry provides the opaque name<->id tables the spec treats as an
// external static resource: block state ids (16 bits, 0 reserved for air) and
// biome ids (8 bits). Contents are fixed at process start and read-only after.
package registry

import "fmt"

// Table is a bidirectional name<->id mapping assigned by registration order,
// starting at 0.
type Table struct {
	names []string
	ids   map[string]uint32
}

// New builds a Table from names in registration order; names[0] gets id 0.
func New(names ...string) *Table {
	t := &Table{names: append([]string(nil), names...), ids: make(map[string]uint32, len(names))}
	for i, name := range names {
		t.ids[name] = uint32(i)
	}
	return t
}

// ID looks up a registry id by name.
func (t *Table) ID(name string) (uint32, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// Name looks up the name for an id.
func (t *Table) Name(id uint32) (string, bool) {
	if int(id) >= len(t.names) {
		return "", false
	}
	return t.names[id], true
}

// MustID looks up a name, panicking if absent. Intended for lookups of names
// that are compile-time constants known to be registered.
func (t *Table) MustID(name string) uint32 {
	id, ok := t.ID(name)
	if !ok {
		panic(fmt.Sprintf("registry: unknown name %q", name))
	}
	return id
}

func (t *Table) Len() int { return len(t.names) }

// Blocks is the static block-state registry. Index 0 is always air, per the
// reserved-id invariant the container/chunk code relies on.
var Blocks = New(
	"minecraft:air",
	"minecraft:stone",
	"minecraft:granite",
	"minecraft:diorite",
	"minecraft:andesite",
	"minecraft:grass_block",
	"minecraft:dirt",
	"minecraft:coarse_dirt",
	"minecraft:podzol",
	"minecraft:cobblestone",
	"minecraft:oak_planks",
	"minecraft:bedrock",
	"minecraft:water",
	"minecraft:lava",
	"minecraft:sand",
	"minecraft:gravel",
	"minecraft:gold_ore",
	"minecraft:iron_ore",
	"minecraft:coal_ore",
	"minecraft:oak_log",
	"minecraft:oak_leaves",
	"minecraft:glass",
	"minecraft:chest",
	"minecraft:furnace",
	"minecraft:sign",
	"minecraft:torch",
)

// Biomes is the static biome registry.
var Biomes = New(
	"minecraft:plains",
	"minecraft:forest",
	"minecraft:desert",
	"minecraft:ocean",
	"minecraft:river",
	"minecraft:mountains",
	"minecraft:swamp",
	"minecraft:taiga",
	"minecraft:the_void",
)

// AirBlockID is the reserved block state id for air.
const AirBlockID uint16 = 0

// PlainsBiomeID is used as the default single-entry biome fill for generated or
// placeholder sections.
const PlainsBiomeID uint8 = 0

// IsAirBlock reports whether id is the reserved air block state.
func IsAirBlock(id uint16) bool { return id == AirBlockID }
