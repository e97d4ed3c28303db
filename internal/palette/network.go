package palette

import "github.com/go-mclib/server/internal/bitpack"

// NetworkMode is the palette encoding the bits-per-entry byte selects on the wire.
type NetworkMode int

const (
	// ModeSingle: bits_per_entry byte is 0, a single varint registry id follows.
	ModeSingle NetworkMode = iota
	// ModeIndirect: bits_per_entry in 1..=max_map, a varint palette plus packed data.
	ModeIndirect
	// ModeDirect: bits_per_entry above max_map, no palette, raw ids packed at MaxBits.
	ModeDirect
)

// NetworkParams fixes the thresholds that select between the three network
// encoding modes. Blocks and biomes each use their own.
type NetworkParams struct {
	MaxMapBits int
	MinMapBits int
	MaxBits    int
}

var (
	BlockNetworkParams = NetworkParams{MaxMapBits: 8, MinMapBits: 4, MaxBits: 15}
	BiomeNetworkParams = NetworkParams{MaxMapBits: 3, MinMapBits: 1, MaxBits: 7}
)

// NetworkSerialization is the decomposed wire representation of a container.
type NetworkSerialization[V RegistryID] struct {
	BitsPerEntry int
	Mode         NetworkMode
	Single       V
	Palette      []V
	Packed       []int64
}

// ToNetwork encodes c per the three-mode scheme described by params.
func (c *Container[V]) ToNetwork(params NetworkParams) NetworkSerialization[V] {
	if !c.heterogeneous {
		return NetworkSerialization[V]{BitsPerEntry: 0, Mode: ModeSingle, Single: c.single}
	}

	rawBits := bitpack.BitsPerEntry(len(c.counts))
	if rawBits > params.MaxMapBits {
		bits := params.MaxBits
		indices := make([]uint32, len(c.cube))
		for i, v := range c.cube {
			indices[i] = uint32(v)
		}
		return NetworkSerialization[V]{
			BitsPerEntry: bits,
			Mode:         ModeDirect,
			Packed:       asInt64(bitpack.Pack(indices, bits)),
		}
	}

	bits := rawBits
	if bits < params.MinMapBits {
		bits = params.MinMapBits
	}
	pal, packed := c.ToPaletteAndPackedData(bits)
	return NetworkSerialization[V]{BitsPerEntry: bits, Mode: ModeIndirect, Palette: pal, Packed: packed}
}

// FromNetwork reconstructs a container from its decomposed wire representation.
func FromNetwork[V RegistryID](dim int, ser NetworkSerialization[V]) *Container[V] {
	switch ser.Mode {
	case ModeSingle:
		return NewHomogeneous[V](dim, ser.Single)
	case ModeIndirect:
		return FromPaletteAndPackedData[V](dim, ser.Palette, ser.Packed, ser.BitsPerEntry)
	case ModeDirect:
		volume := dim * dim * dim
		indices := bitpack.Unpack(asUint64(ser.Packed), ser.BitsPerEntry, volume)
		cube := make([]V, volume)
		for i, idx := range indices {
			cube[i] = V(idx)
		}
		return fromCube(dim, cube)
	default:
		var zero V
		return NewHomogeneous[V](dim, zero)
	}
}

// NonAirBlockCount sums the entry counts whose registry id is not the reserved
// air id (0), matching BlockPalette::non_air_block_count.
func NonAirBlockCount(c *Container[uint16]) int {
	if !c.heterogeneous {
		if c.single != 0 {
			return c.Volume()
		}
		return 0
	}
	total := 0
	for id, count := range c.counts {
		if id != 0 {
			total += count
		}
	}
	return total
}
