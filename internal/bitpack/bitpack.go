// Package bitpack implements the fixed-width index arrays backing paletted
// containers: N entries of k bits each, packed least-significant-bit first into
// 64-bit words, with no entry split across a word boundary.
package bitpack

import "github.com/sirupsen/logrus"

// BitsPerEntry returns the smallest k such that 2^k >= paletteLen, or 0 when
// paletteLen <= 1 (a single-value palette needs no backing array at all).
func BitsPerEntry(paletteLen int) int {
	if paletteLen <= 1 {
		return 0
	}
	bits := 0
	for (1 << uint(bits)) < paletteLen {
		bits++
	}
	return bits
}

// WordCount returns the number of i64 words needed to hold volume entries of
// bitsPerEntry bits each, with the final word zero-padded if it isn't full.
func WordCount(volume, bitsPerEntry int) int {
	if bitsPerEntry == 0 {
		return 0
	}
	perWord := 64 / bitsPerEntry
	return (volume + perWord - 1) / perWord
}

// Array is a packed sequence of fixed-width unsigned entries.
type Array struct {
	Words        []uint64
	BitsPerEntry int
}

// NewArray allocates a zeroed array wide enough for volume entries.
func NewArray(bitsPerEntry, volume int) *Array {
	return &Array{
		Words:        make([]uint64, WordCount(volume, bitsPerEntry)),
		BitsPerEntry: bitsPerEntry,
	}
}

func (a *Array) entriesPerWord() int {
	if a.BitsPerEntry == 0 {
		return 0
	}
	return 64 / a.BitsPerEntry
}

func (a *Array) mask() uint64 {
	return uint64(1)<<uint(a.BitsPerEntry) - 1
}

// Get returns the entry at index, or 0 if bitsPerEntry is 0 or index falls
// outside the backing words. The latter is treated as a soft decode error: it is
// logged rather than returned as an error, matching the source's "corrupt payload
// degrades gracefully" decode policy.
func (a *Array) Get(index int) uint32 {
	if a.BitsPerEntry == 0 {
		return 0
	}
	perWord := a.entriesPerWord()
	wordIndex := index / perWord
	if wordIndex < 0 || wordIndex >= len(a.Words) {
		logrus.WithFields(logrus.Fields{
			"index":     index,
			"wordIndex": wordIndex,
			"words":     len(a.Words),
		}).Warn("bitpack: index out of range, returning default 0")
		return 0
	}
	bitOffset := uint(index%perWord) * uint(a.BitsPerEntry)
	return uint32((a.Words[wordIndex] >> bitOffset) & a.mask())
}

// Set writes value into the entry at index, masking it to bitsPerEntry bits. An
// out-of-range index is a no-op, logged the same way Get's is.
func (a *Array) Set(index int, value uint32) {
	if a.BitsPerEntry == 0 {
		return
	}
	perWord := a.entriesPerWord()
	wordIndex := index / perWord
	if wordIndex < 0 || wordIndex >= len(a.Words) {
		logrus.WithFields(logrus.Fields{
			"index":     index,
			"wordIndex": wordIndex,
			"words":     len(a.Words),
		}).Warn("bitpack: set index out of range, ignored")
		return
	}
	bitOffset := uint(index%perWord) * uint(a.BitsPerEntry)
	mask := a.mask()
	a.Words[wordIndex] &^= mask << bitOffset
	a.Words[wordIndex] |= (uint64(value) & mask) << bitOffset
}

// Pack bit-packs indices at bitsPerEntry width into freshly allocated words.
func Pack(indices []uint32, bitsPerEntry int) []uint64 {
	a := NewArray(bitsPerEntry, len(indices))
	for i, v := range indices {
		a.Set(i, v)
	}
	return a.Words
}

// Unpack reads count entries of bitsPerEntry width out of words. If words is
// shorter than WordCount(count, bitsPerEntry) expects, Get's out-of-range
// handling defaults each missing entry to 0 and logs a warning per entry; if it
// is longer, the extra words are ignored. This matches the source's tolerant
// from_palette_and_packed_data.
func Unpack(words []uint64, bitsPerEntry, count int) []uint32 {
	a := &Array{Words: words, BitsPerEntry: bitsPerEntry}
	out := make([]uint32, count)
	for i := range out {
		out[i] = a.Get(i)
	}
	return out
}
