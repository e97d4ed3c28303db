package chunk

import (
	"github.com/sirupsen/logrus"

	"github.com/go-mclib/server/internal/blockentity"
	"github.com/go-mclib/server/internal/blockpos"
	"github.com/go-mclib/server/internal/nbt"
	"github.com/go-mclib/server/internal/palette"
	"github.com/go-mclib/server/internal/registry"
)

// ToDiskNBT encodes the chunk into the Anvil on-disk compound shape.
func (c *ChunkData) ToDiskNBT() *nbt.Compound {
	root := nbt.NewCompound()
	root.PutInt("DataVersion", c.DataVersion)
	root.PutInt("xPos", c.Pos.X)
	root.PutInt("zPos", c.Pos.Z)
	root.PutInt("yPos", int32(MinSectionY))
	root.PutString("Status", c.Status)
	root.PutLong("LastUpdate", c.LastUpdate)
	root.PutLong("InhabitedTime", c.InhabitedTime)

	sections := nbt.List{ElemType: nbt.TypeCompound}
	for i, section := range c.Sections {
		sections.Items = append(sections.Items, c.sectionToDiskNBT(section, int8(i+MinSectionY), i))
	}
	root.PutList("sections", sections)

	root.PutCompound("Heightmaps", heightmapsToDiskNBT(c.Heightmaps))

	entities := nbt.List{ElemType: nbt.TypeCompound}
	for _, be := range c.BlockEntities {
		entry := nbt.NewCompound()
		blockentity.WriteEnvelope(entry, be.ResourceLocation(), be.Position())
		be.WriteNBT(entry)
		entities.Items = append(entities.Items, entry)
	}
	root.PutList("block_entities", entities)

	return root
}

func (c *ChunkData) sectionToDiskNBT(s *Section, y int8, sectionIdx int) *nbt.Compound {
	sec := nbt.NewCompound()
	sec.PutByte("Y", y)
	sec.PutCompound("block_states", blockStatesToDiskNBT(s.Blocks))
	sec.PutCompound("biomes", biomesToDiskNBT(s.Biomes))

	if !c.BlockLight[sectionIdx+1].IsEmpty() {
		sec.PutByteArray("BlockLight", c.BlockLight[sectionIdx+1].Bytes())
	}
	if !c.SkyLight[sectionIdx+1].IsEmpty() {
		sec.PutByteArray("SkyLight", c.SkyLight[sectionIdx+1].Bytes())
	}
	return sec
}

func blockStatesToDiskNBT(p *palette.BlockPalette) *nbt.Compound {
	bits := p.NaturalBitsPerEntry()
	if bits < palette.BlockDiskMinBits {
		bits = palette.BlockDiskMinBits
	}
	ids, packed := p.ToPaletteAndPackedData(bits)

	out := nbt.NewCompound()
	paletteList := nbt.List{ElemType: nbt.TypeCompound}
	for _, id := range ids {
		name, ok := registry.Blocks.Name(uint32(id))
		if !ok {
			logrus.Warnf("chunk: unknown block state id %d in palette, writing as air", id)
			name = "minecraft:air"
		}
		entry := nbt.NewCompound()
		entry.PutString("Name", name)
		paletteList.Items = append(paletteList.Items, entry)
	}
	out.PutList("palette", paletteList)
	if len(packed) > 0 {
		out.PutLongArray("data", packed)
	}
	return out
}

func biomesToDiskNBT(p *palette.BiomePalette) *nbt.Compound {
	bits := p.NaturalBitsPerEntry()
	if bits < palette.BiomeDiskMinBits {
		bits = palette.BiomeDiskMinBits
	}
	ids, packed := p.ToPaletteAndPackedData(bits)

	out := nbt.NewCompound()
	paletteList := nbt.List{ElemType: nbt.TypeString}
	for _, id := range ids {
		name, ok := registry.Biomes.Name(uint32(id))
		if !ok {
			logrus.Warnf("chunk: unknown biome id %d in palette, writing as plains", id)
			name = "minecraft:plains"
		}
		paletteList.Items = append(paletteList.Items, nbt.String(name))
	}
	out.PutList("palette", paletteList)
	if len(packed) > 0 {
		out.PutLongArray("data", packed)
	}
	return out
}

func heightmapsToDiskNBT(h *HeightmapSet) *nbt.Compound {
	out := nbt.NewCompound()
	out.PutLongArray(string(WorldSurface), h.WorldSurface.PackedLongs())
	out.PutLongArray(string(MotionBlocking), h.MotionBlocking.PackedLongs())
	out.PutLongArray(string(MotionBlockingNoLeaves), h.MotionBlockingNoLeaves.PackedLongs())
	return out
}

// FromDiskNBT decodes a chunk previously written by ToDiskNBT. Any section,
// light array, heightmap, or block entity that fails to parse is skipped rather
// than aborting the whole chunk load. Out-of-range section Ys and wrong-size
// light arrays are logged; non-compound entries and unknown block entity ids
// are skipped without a log.
func FromDiskNBT(root *nbt.Compound) *ChunkData {
	xPos, _ := root.GetInt("xPos")
	zPos, _ := root.GetInt("zPos")
	dataVersion, _ := root.GetInt("DataVersion")

	c := New(blockpos.ChunkPos{X: xPos, Z: zPos}, dataVersion)
	if status, ok := root.GetString("Status"); ok {
		c.Status = status
	}
	c.LastUpdate, _ = root.GetLong("LastUpdate")
	c.InhabitedTime, _ = root.GetLong("InhabitedTime")

	if sections, ok := root.GetList("sections"); ok {
		for _, item := range sections.Items {
			sec, ok := item.(*nbt.Compound)
			if !ok {
				continue
			}
			yByte, _ := sec.GetByte("Y")
			idx := int(yByte) - MinSectionY
			if idx < 0 || idx >= SectionCount {
				logrus.Warnf("chunk: section Y=%d out of range, skipping", yByte)
				continue
			}
			c.Sections[idx] = sectionFromDiskNBT(sec)
			if light, ok := sec.GetByteArray("BlockLight"); ok {
				c.BlockLight[idx+1] = chunkLightFromBytes(light)
			}
			if light, ok := sec.GetByteArray("SkyLight"); ok {
				c.SkyLight[idx+1] = chunkLightFromBytes(light)
			}
		}
	}

	if hm, ok := root.GetCompound("Heightmaps"); ok {
		c.Heightmaps = heightmapsFromDiskNBT(hm)
	}

	if entities, ok := root.GetList("block_entities"); ok {
		for _, item := range entities.Items {
			entry, ok := item.(*nbt.Compound)
			if !ok {
				continue
			}
			if be, ok := blockentity.FromNBT(entry); ok {
				c.BlockEntities[be.Position()] = be
			}
		}
	}

	return c
}

func sectionFromDiskNBT(sec *nbt.Compound) *Section {
	out := NewAirSection()
	if bs, ok := sec.GetCompound("block_states"); ok {
		out.Blocks = blockStatesFromDiskNBT(bs)
	}
	if biomes, ok := sec.GetCompound("biomes"); ok {
		out.Biomes = biomesFromDiskNBT(biomes)
	}
	return out
}

func blockStatesFromDiskNBT(c *nbt.Compound) *palette.BlockPalette {
	paletteList, _ := c.GetList("palette")
	ids := make([]uint16, 0, len(paletteList.Items))
	for _, item := range paletteList.Items {
		entry, ok := item.(*nbt.Compound)
		if !ok {
			continue
		}
		name, _ := entry.GetString("Name")
		id, ok := registry.Blocks.ID(name)
		if !ok {
			logrus.Warnf("chunk: unknown block name %q, defaulting to air", name)
			id = uint32(registry.AirBlockID)
		}
		ids = append(ids, uint16(id))
	}
	packed, _ := c.GetLongArray("data")
	return palette.FromPaletteAndPackedData[uint16](palette.BlockDim, ids, packed, palette.BlockDiskMinBits)
}

func biomesFromDiskNBT(c *nbt.Compound) *palette.BiomePalette {
	paletteList, _ := c.GetList("palette")
	ids := make([]uint8, 0, len(paletteList.Items))
	for _, item := range paletteList.Items {
		name, ok := item.(nbt.String)
		if !ok {
			continue
		}
		id, ok := registry.Biomes.ID(string(name))
		if !ok {
			logrus.Warnf("chunk: unknown biome name %q, defaulting to plains", name)
			id = uint32(registry.PlainsBiomeID)
		}
		ids = append(ids, uint8(id))
	}
	packed, _ := c.GetLongArray("data")
	return palette.FromPaletteAndPackedData[uint8](palette.BiomeDim, ids, packed, palette.BiomeDiskMinBits)
}

func heightmapsFromDiskNBT(c *nbt.Compound) *HeightmapSet {
	h := NewHeightmapSet()
	if v, ok := c.GetLongArray(string(WorldSurface)); ok {
		h.WorldSurface = HeightmapFromLongs(v)
	}
	if v, ok := c.GetLongArray(string(MotionBlocking)); ok {
		h.MotionBlocking = HeightmapFromLongs(v)
	}
	if v, ok := c.GetLongArray(string(MotionBlockingNoLeaves)); ok {
		h.MotionBlockingNoLeaves = HeightmapFromLongs(v)
	}
	return h
}

func chunkLightFromBytes(b []byte) Light {
	if len(b) != 2048 {
		logrus.Warnf("chunk: light array has %d bytes, want 2048, discarding", len(b))
		return EmptyLight()
	}
	return FullLightFromBytes(b)
}
