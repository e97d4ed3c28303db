package bitpack

import "testing"

func TestBitsPerEntry(t *testing.T) {
	tests := []struct {
		paletteLen int
		want       int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{7, 3},
		{8, 3},
		{9, 4},
		{256, 8},
		{257, 9},
	}
	for _, tt := range tests {
		if got := BitsPerEntry(tt.paletteLen); got != tt.want {
			t.Errorf("BitsPerEntry(%d) = %d; want %d", tt.paletteLen, got, tt.want)
		}
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		volume, bits int
		want         int
	}{
		{4096, 0, 0},
		{4096, 4, 256},  // 16 entries/word
		{4096, 8, 512},  // 8 entries/word
		{4096, 15, 1024}, // 4 entries/word
	}
	for _, tt := range tests {
		if got := WordCount(tt.volume, tt.bits); got != tt.want {
			t.Errorf("WordCount(%d,%d) = %d; want %d", tt.volume, tt.bits, got, tt.want)
		}
	}
}

func TestArrayRoundTrip(t *testing.T) {
	for _, bits := range []int{1, 2, 3, 4, 5, 8, 15} {
		volume := 4096
		indices := make([]uint32, volume)
		max := uint32(1)<<uint(bits) - 1
		for i := range indices {
			indices[i] = uint32(i) % (max + 1)
		}
		words := Pack(indices, bits)
		got := Unpack(words, bits, volume)
		for i := range indices {
			if got[i] != indices[i] {
				t.Fatalf("bits=%d: index %d: got %d want %d", bits, i, got[i], indices[i])
			}
		}
	}
}

func TestArrayGetSetInPlace(t *testing.T) {
	a := NewArray(4, 20)
	for i := 0; i < 20; i++ {
		a.Set(i, uint32(i%16))
	}
	for i := 0; i < 20; i++ {
		if got := a.Get(i); got != uint32(i%16) {
			t.Fatalf("index %d: got %d want %d", i, got, i%16)
		}
	}
}

func TestArrayOutOfRangeDefaultsToZero(t *testing.T) {
	a := NewArray(4, 16)
	if got := a.Get(1000); got != 0 {
		t.Fatalf("out-of-range Get = %d; want 0", got)
	}
	// Must not panic.
	a.Set(1000, 5)
}

func TestArrayZeroBitsAlwaysZero(t *testing.T) {
	a := NewArray(0, 4096)
	if len(a.Words) != 0 {
		t.Fatalf("zero-bit array should allocate no words, got %d", len(a.Words))
	}
	if got := a.Get(0); got != 0 {
		t.Fatalf("Get on zero-bit array = %d; want 0", got)
	}
}
