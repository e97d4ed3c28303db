package packet

import (
	"bytes"
	"encoding/binary"

	"github.com/go-mclib/server/internal/blockentity"
	"github.com/go-mclib/server/internal/blockpos"
	"github.com/go-mclib/server/internal/chunk"
	"github.com/go-mclib/server/internal/nbt"
	"github.com/go-mclib/server/internal/palette"
)

// lightArrayCount is the number of light containers a chunk carries: one per
// section plus one below and one above the world.
const lightArrayCount = chunk.SectionCount + 2

// EncodeLevelChunkWithLight assembles the "level chunk with light" frame body
// (everything after the packet id) for c, in the field order:
// coordinates, heightmaps, the blocks-and-biomes blob, block entities, light
// masks, then light payloads.
func EncodeLevelChunkWithLight(c *chunk.ChunkData) ([]byte, error) {
	var buf bytes.Buffer

	var coords [8]byte
	binary.BigEndian.PutUint32(coords[0:4], uint32(c.Pos.X))
	binary.BigEndian.PutUint32(coords[4:8], uint32(c.Pos.Z))
	if _, err := buf.Write(coords[:]); err != nil {
		return nil, err
	}

	if err := writeHeightmaps(&buf, c.Heightmaps); err != nil {
		return nil, err
	}

	blob, err := encodeSectionsBlob(c)
	if err != nil {
		return nil, err
	}
	if err := WriteVarInt(&buf, int32(len(blob))); err != nil {
		return nil, err
	}
	if _, err := buf.Write(blob); err != nil {
		return nil, err
	}

	if err := writeBlockEntities(&buf, c); err != nil {
		return nil, err
	}

	if err := writeLightSection(&buf, c); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// heightmapWireIndex is the protocol's numeric index for each heightmap kind.
var heightmapWireIndex = map[chunk.HeightmapKind]int32{
	chunk.WorldSurface:           1,
	chunk.MotionBlocking:         4,
	chunk.MotionBlockingNoLeaves: 5,
}

func writeHeightmaps(buf *bytes.Buffer, hm *chunk.HeightmapSet) error {
	entries := []struct {
		kind chunk.HeightmapKind
		hm   *chunk.Heightmap
	}{
		{chunk.WorldSurface, hm.WorldSurface},
		{chunk.MotionBlocking, hm.MotionBlocking},
		// This sends motion_blocking_no_leaves's own packed data. The source
		// implementation this was ported from sends motion_blocking's data
		// again here instead of computing its own.
		{chunk.MotionBlockingNoLeaves, hm.MotionBlockingNoLeaves},
	}

	if err := WriteVarInt(buf, int32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := WriteVarInt(buf, heightmapWireIndex[e.kind]); err != nil {
			return err
		}
		if err := writeLongArray(buf, e.hm.PackedLongs()); err != nil {
			return err
		}
	}
	return nil
}

func encodeSectionsBlob(c *chunk.ChunkData) ([]byte, error) {
	var buf bytes.Buffer
	for _, sec := range c.Sections {
		var countBytes [2]byte
		binary.BigEndian.PutUint16(countBytes[:], uint16(sec.NonAirBlockCount()))
		if _, err := buf.Write(countBytes[:]); err != nil {
			return nil, err
		}

		blockSer := sec.Blocks.ToNetwork(palette.BlockNetworkParams)
		if err := writePalettedContainer(&buf, blockSer); err != nil {
			return nil, err
		}

		biomeSer := sec.Biomes.ToNetwork(palette.BiomeNetworkParams)
		if err := writePalettedContainer(&buf, biomeSer); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func writeBlockEntities(buf *bytes.Buffer, c *chunk.ChunkData) error {
	if err := WriteVarInt(buf, int32(len(c.BlockEntities))); err != nil {
		return err
	}
	for pos, be := range c.BlockEntities {
		if err := buf.WriteByte(pos.PackedLocalXZ()); err != nil {
			return err
		}
		var yBytes [2]byte
		binary.BigEndian.PutUint16(yBytes[:], uint16(pos.Y))
		if _, err := buf.Write(yBytes[:]); err != nil {
			return err
		}
		typeID, ok := blockentity.TypeID(be.ResourceLocation())
		if !ok {
			typeID = 0
		}
		if err := WriteVarInt(buf, int32(typeID)); err != nil {
			return err
		}

		provider, ok := be.(blockentity.ChunkDataProvider)
		if !ok {
			if err := buf.WriteByte(0x00); err != nil {
				return err
			}
			continue
		}
		tagBuf := provider.ChunkDataNBT()
		if tagBuf == nil {
			if err := buf.WriteByte(0x00); err != nil {
				return err
			}
			continue
		}
		if err := nbt.WriteNetwork(buf, tagBuf); err != nil {
			return err
		}
	}
	return nil
}

func writeLightSection(buf *bytes.Buffer, c *chunk.ChunkData) error {
	skyPresent, skyEmpty := lightMasks(c.SkyLight[:])
	blockPresent, blockEmpty := lightMasks(c.BlockLight[:])

	for _, mask := range [][]uint64{skyPresent, blockPresent, skyEmpty, blockEmpty} {
		if err := writeBitSet(buf, mask); err != nil {
			return err
		}
	}

	if err := writeFullLightArrays(buf, c.SkyLight[:]); err != nil {
		return err
	}
	return writeFullLightArrays(buf, c.BlockLight[:])
}

// lightMasks returns the present and empty bitmasks for a light array: bit i
// set in present iff container i is Full, bit i set in empty iff it is not.
func lightMasks(lights []chunk.Light) (present, empty []uint64) {
	words := (len(lights) + 63) / 64
	present = make([]uint64, words)
	empty = make([]uint64, words)
	for i, l := range lights {
		word, bit := i/64, uint(i%64)
		if !l.IsEmpty() {
			present[word] |= 1 << bit
		} else {
			empty[word] |= 1 << bit
		}
	}
	return present, empty
}

func writeBitSet(buf *bytes.Buffer, words []uint64) error {
	ints := make([]int64, len(words))
	for i, w := range words {
		ints[i] = int64(w)
	}
	return writeLongArray(buf, ints)
}

func writeFullLightArrays(buf *bytes.Buffer, lights []chunk.Light) error {
	full := make([][]byte, 0, len(lights))
	for _, l := range lights {
		if !l.IsEmpty() {
			full = append(full, l.Bytes())
		}
	}
	if err := WriteVarInt(buf, int32(len(full))); err != nil {
		return err
	}
	for _, b := range full {
		if err := WriteVarInt(buf, int32(len(b))); err != nil {
			return err
		}
		if _, err := buf.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLevelChunkWithLight parses a frame produced by EncodeLevelChunkWithLight
// back into a ChunkData. Block entities that declined their chunk data, or
// whose NBT is not a compound or carries an unknown id, are skipped; an NBT
// read error aborts the whole decode.
func DecodeLevelChunkWithLight(data []byte, dataVersion int32) (*chunk.ChunkData, error) {
	r := newByteReader(data)

	var coords [8]byte
	if _, err := r.Read(coords[:]); err != nil {
		return nil, err
	}
	cx := int32(binary.BigEndian.Uint32(coords[0:4]))
	cz := int32(binary.BigEndian.Uint32(coords[4:8]))

	c := chunk.New(blockpos.ChunkPos{X: cx, Z: cz}, dataVersion)

	if err := readHeightmaps(r, c.Heightmaps); err != nil {
		return nil, err
	}

	blobLen, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	blob := make([]byte, blobLen)
	if _, err := r.Read(blob); err != nil {
		return nil, err
	}
	if err := decodeSectionsBlob(blob, c); err != nil {
		return nil, err
	}

	if err := readBlockEntities(r, c); err != nil {
		return nil, err
	}

	if err := readLightSection(r, c); err != nil {
		return nil, err
	}

	return c, nil
}

func readHeightmaps(r *byteReader, hm *chunk.HeightmapSet) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	byIndex := map[int32]*chunk.Heightmap{
		1: hm.WorldSurface,
		4: hm.MotionBlocking,
		5: hm.MotionBlockingNoLeaves,
	}
	for i := int32(0); i < count; i++ {
		idx, err := ReadVarInt(r)
		if err != nil {
			return err
		}
		words, err := readLongArray(r)
		if err != nil {
			return err
		}
		if target := byIndex[idx]; target != nil {
			*target = *chunk.HeightmapFromLongs(words)
		}
	}
	return nil
}

func decodeSectionsBlob(blob []byte, c *chunk.ChunkData) error {
	r := newByteReader(blob)
	for i := range c.Sections {
		var countBytes [2]byte
		if _, err := r.Read(countBytes[:]); err != nil {
			return err
		}
		blocks, err := readPalettedContainer[uint16](r, palette.BlockDim, palette.BlockNetworkParams)
		if err != nil {
			return err
		}
		biomes, err := readPalettedContainer[uint8](r, palette.BiomeDim, palette.BiomeNetworkParams)
		if err != nil {
			return err
		}
		c.Sections[i].Blocks = blocks
		c.Sections[i].Biomes = biomes
	}
	return nil
}

func readBlockEntities(r *byteReader, c *chunk.ChunkData) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		if _, err := r.ReadByte(); err != nil { // packed_local_xz, redundant with the NBT position
			return err
		}
		var yBytes [2]byte
		if _, err := r.Read(yBytes[:]); err != nil {
			return err
		}
		if _, err := ReadVarInt(r); err != nil { // type id, re-derived from NBT id on decode
			return err
		}

		tag, _, err := nbt.NewReader(r).ReadTag(true)
		if err != nil {
			return err
		}
		entry, ok := tag.(*nbt.Compound)
		if !ok {
			continue
		}
		if be, ok := blockentity.FromNBT(entry); ok {
			c.BlockEntities[be.Position()] = be
		}
	}
	return nil
}

func readLightSection(r *byteReader, c *chunk.ChunkData) error {
	skyPresent, err := readBitSet(r)
	if err != nil {
		return err
	}
	blockPresent, err := readBitSet(r)
	if err != nil {
		return err
	}
	if _, err := readBitSet(r); err != nil { // sky empty mask, redundant with present
		return err
	}
	if _, err := readBitSet(r); err != nil { // block empty mask, redundant with present
		return err
	}

	if err := readFullLightArrays(r, c.SkyLight[:], skyPresent); err != nil {
		return err
	}
	return readFullLightArrays(r, c.BlockLight[:], blockPresent)
}

func readBitSet(r *byteReader) ([]uint64, error) {
	words, err := readLongArray(r)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, len(words))
	for i, w := range words {
		out[i] = uint64(w)
	}
	return out, nil
}

func readFullLightArrays(r *byteReader, lights []chunk.Light, present []uint64) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	indices := make([]int, 0, count)
	for i := range lights {
		word, bit := i/64, uint(i%64)
		if word < len(present) && present[word]&(1<<bit) != 0 {
			indices = append(indices, i)
		}
	}
	for n := int32(0); n < count; n++ {
		length, err := ReadVarInt(r)
		if err != nil {
			return err
		}
		b := make([]byte, length)
		if _, err := r.Read(b); err != nil {
			return err
		}
		if int(n) < len(indices) {
			lights[indices[n]] = chunk.FullLightFromBytes(b)
		}
	}
	return nil
}
