package rice_test

import (
	"math/rand"
	"testing"

	"github.com/hello/sela/internal/rice"
)

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cases := [][]uint32{
		{},
		{0},
		{0, 0, 0, 0},
		{1, 2, 3, 4, 5, 100, 1000},
		{0xFFFFFFFF, 0, 1, 2},
	}

	random := make([]uint32, 240)
	for i := range random {
		random[i] = rng.Uint32() % 5000
	}
	cases = append(cases, random)

	for _, values := range cases {
		k, _, words, err := rice.EncodeBlock(values)
		if err != nil {
			t.Fatalf("EncodeBlock: %v", err)
		}

		got, err := rice.DecodeBlock(words, k, len(values))
		if err != nil {
			t.Fatalf("DecodeBlock: %v", err)
		}

		if len(got) != len(values) {
			t.Fatalf("length mismatch: want %d, got %d", len(values), len(got))
		}

		for i := range values {
			if got[i] != values[i] {
				t.Fatalf("value %d mismatch: want %d, got %d", i, values[i], got[i])
			}
		}
	}
}

func TestOptimalParameterSelection(t *testing.T) {
	// Constant low-magnitude block: k=0 and k=1 both cost 2 bits per
	// value and every larger k costs more, so the tie-break picks k=0.
	values := make([]uint32, 240)
	for i := range values {
		values[i] = 1
	}

	k, _, _, err := rice.EncodeBlock(values)
	if err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}

	if k != 0 {
		t.Fatalf("expected k=0 for unit-magnitude block, got k=%d", k)
	}

	// Large, roughly uniform magnitudes should prefer a large k: unary
	// quotients would otherwise dominate the encoding. k=19, 20 and 21
	// all cost 22 bits per value, so the tie-break picks k=19.
	large := make([]uint32, 240)
	for i := range large {
		large[i] = 1 << 20
	}

	k, _, _, err = rice.EncodeBlock(large)
	if err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}

	if k != 19 {
		t.Fatalf("expected k=19 for 2^20-magnitude block, got k=%d", k)
	}
}

func TestTieBreaksTowardSmallerParameter(t *testing.T) {
	// All values 2: k=0, 1 and 2 each cost 3 bits per value (larger k
	// cost more), so the smallest of the tied parameters (0) must be chosen.
	values := make([]uint32, 16)
	for i := range values {
		values[i] = 2
	}
	k, _, _, err := rice.EncodeBlock(values)
	if err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}

	if k != 0 {
		t.Fatalf("expected tie-break toward k=0, got k=%d", k)
	}
}
