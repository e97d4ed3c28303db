// Package palette implements paletted voxel containers: DIM x DIM x DIM cubes of
// registry ids, stored either as a single homogeneous value or as a palette-backed
// bit-packed cube, with both disk and network serialization shapes.
package palette

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/go-mclib/server/internal/bitpack"
)

// RegistryID is the set of integer widths a container can hold: 16-bit block
// state ids and 8-bit biome ids.
type RegistryID interface {
	~uint8 | ~uint16 | ~uint32
}

// Container is a DIM x DIM x DIM cube of registry ids. The zero value is not
// usable; construct with NewHomogeneous.
type Container[V RegistryID] struct {
	dim           int
	heterogeneous bool
	single        V
	cube          []V
	counts        map[V]int
}

// NewHomogeneous builds a dim x dim x dim container where every cell holds value.
func NewHomogeneous[V RegistryID](dim int, value V) *Container[V] {
	return &Container[V]{dim: dim, single: value}
}

// Dim returns the container's edge length.
func (c *Container[V]) Dim() int { return c.dim }

// Volume returns dim^3.
func (c *Container[V]) Volume() int { return c.dim * c.dim * c.dim }

func (c *Container[V]) index(x, y, z int) int {
	return (y*c.dim+z)*c.dim + x
}

// Get returns the value at (x,y,z).
func (c *Container[V]) Get(x, y, z int) V {
	if !c.heterogeneous {
		return c.single
	}
	return c.cube[c.index(x, y, z)]
}

// Set stores value at (x,y,z) and returns the previous value, promoting a
// homogeneous container to heterogeneous on divergence and demoting back when
// only one distinct value remains.
func (c *Container[V]) Set(x, y, z int, value V) V {
	if !c.heterogeneous {
		if value == c.single {
			return c.single
		}
		c.promote()
	}

	idx := c.index(x, y, z)
	original := c.cube[idx]
	c.counts[original]--
	if c.counts[original] == 0 {
		delete(c.counts, original)
	}
	c.cube[idx] = value
	c.counts[value]++

	if len(c.counts) == 1 {
		var only V
		for v := range c.counts {
			only = v
		}
		c.heterogeneous = false
		c.single = only
		c.cube = nil
		c.counts = nil
	}
	return original
}

func (c *Container[V]) promote() {
	volume := c.Volume()
	c.cube = make([]V, volume)
	for i := range c.cube {
		c.cube[i] = c.single
	}
	c.counts = map[V]int{c.single: volume}
	c.heterogeneous = true
}

// ForEach visits every cell in cube storage order (y-major, z-minor-middle,
// x-minor).
func (c *Container[V]) ForEach(f func(V)) {
	if !c.heterogeneous {
		for i := 0; i < c.Volume(); i++ {
			f(c.single)
		}
		return
	}
	for _, v := range c.cube {
		f(v)
	}
}

// NaturalBitsPerEntry returns the smallest bits-per-entry that fits the
// container's current distinct-value count: 0 for a homogeneous container.
func (c *Container[V]) NaturalBitsPerEntry() int {
	if !c.heterogeneous {
		return 0
	}
	return bitpack.BitsPerEntry(len(c.counts))
}

func (c *Container[V]) sortedPalette() []V {
	palette := make([]V, 0, len(c.counts))
	for v := range c.counts {
		palette = append(palette, v)
	}
	sort.Slice(palette, func(i, j int) bool { return palette[i] < palette[j] })
	return palette
}

// ToPaletteAndPackedData returns the ordered distinct values present and the
// bit-packed cube indices into that palette, at the given bits-per-entry (which
// must be >= NaturalBitsPerEntry()). For a homogeneous container the palette is
// the single value and packed is empty.
func (c *Container[V]) ToPaletteAndPackedData(bitsPerEntry int) (palette []V, packed []int64) {
	if !c.heterogeneous {
		return []V{c.single}, nil
	}

	pal := c.sortedPalette()
	keyIndex := make(map[V]uint32, len(pal))
	for i, v := range pal {
		keyIndex[v] = uint32(i)
	}

	indices := make([]uint32, len(c.cube))
	for i, v := range c.cube {
		indices[i] = keyIndex[v]
	}

	return pal, asInt64(bitpack.Pack(indices, bitsPerEntry))
}

// FromPaletteAndPackedData rebuilds a dim^3 container from a palette and its
// packed index data. An empty palette decodes to a homogeneous container holding
// the zero value, with a warning; a too-short or too-long packed array is
// tolerated and logged rather than rejected, matching the source's resilience
// policy for corrupt chunk data.
func FromPaletteAndPackedData[V RegistryID](dim int, palette []V, packedData []int64, minimumBitsPerEntry int) *Container[V] {
	volume := dim * dim * dim

	if len(palette) == 0 {
		logrus.Warn("palette: no palette data, defaulting to zero value")
		var zero V
		return NewHomogeneous[V](dim, zero)
	}
	if len(palette) == 1 {
		return NewHomogeneous[V](dim, palette[0])
	}

	bitsPerKey := bitpack.BitsPerEntry(len(palette))
	if bitsPerKey < minimumBitsPerEntry {
		bitsPerKey = minimumBitsPerEntry
	}

	expectedWords := bitpack.WordCount(volume, bitsPerKey)
	switch {
	case len(packedData) > expectedWords:
		logrus.Warn("palette: more packed words than expected, ignoring the extra")
	case len(packedData) < expectedWords:
		logrus.Warnf("palette: fewer packed words than expected (%d vs %d), defaulting the remainder", len(packedData), expectedWords)
	}

	indices := bitpack.Unpack(asUint64(packedData), bitsPerKey, volume)

	cube := make([]V, volume)
	for i, idx := range indices {
		if int(idx) < len(palette) {
			cube[i] = palette[idx]
		} else {
			logrus.Warn("palette: lookup index out of bounds, defaulting to zero value")
		}
	}

	return fromCube(dim, cube)
}

func fromCube[V RegistryID](dim int, cube []V) *Container[V] {
	counts := make(map[V]int)
	for _, v := range cube {
		counts[v]++
	}
	if len(counts) == 1 {
		var only V
		for v := range counts {
			only = v
		}
		return NewHomogeneous[V](dim, only)
	}
	return &Container[V]{dim: dim, heterogeneous: true, cube: cube, counts: counts}
}

func asInt64(words []uint64) []int64 {
	out := make([]int64, len(words))
	for i, w := range words {
		out[i] = int64(w)
	}
	return out
}

func asUint64(words []int64) []uint64 {
	out := make([]uint64, len(words))
	for i, w := range words {
		out[i] = uint64(w)
	}
	return out
}
