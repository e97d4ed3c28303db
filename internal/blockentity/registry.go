package blockentity

import "github.com/go-mclib/server/internal/nbt"

// Types is the static registration list. A kind's numeric type id (sent in the
// chunk data packet's block_entities section) is its position here, matching the
// source's BLOCK_ENTITY_TYPES-index derivation instead of a separately maintained
// id table.
var Types = []string{
	"minecraft:chest",
	"minecraft:sign",
	"minecraft:furnace",
}

// TypeID returns resourceLocation's position in Types.
func TypeID(resourceLocation string) (uint32, bool) {
	for i, name := range Types {
		if name == resourceLocation {
			return uint32(i), true
		}
	}
	return 0, false
}

var factories = map[string]func(c *nbt.Compound) BlockEntity{
	"minecraft:chest":  func(c *nbt.Compound) BlockEntity { return chestFromNBT(c) },
	"minecraft:sign":   func(c *nbt.Compound) BlockEntity { return signFromNBT(c) },
	"minecraft:furnace": func(c *nbt.Compound) BlockEntity { return furnaceFromNBT(c) },
}

// FromNBT dispatches on the compound's "id" field to reconstruct the concrete
// kind. An unknown or missing id produces no entity, matching the source's
// silent-skip behavior for unrecognized block entities.
func FromNBT(c *nbt.Compound) (BlockEntity, bool) {
	id, ok := c.GetString("id")
	if !ok {
		return nil, false
	}
	make, ok := factories[id]
	if !ok {
		return nil, false
	}
	return make(c), true
}
