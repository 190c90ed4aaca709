package lpc

import (
	"math"
	"math/rand"
	"testing"
)

const (
	testOrder = 8
	testQ     = 35
)

func TestAutocorrelateSilence(t *testing.T) {
	samples := make([]int16, 240)
	r := Autocorrelate(samples, testOrder)
	for i, v := range r {
		if v != 0 {
			t.Fatalf("r[%d] = %v, want 0 for silent block", i, v)
		}
	}
}

func TestLevinsonSilentBlockFallback(t *testing.T) {
	r := make([]float64, testOrder+1)
	res := Levinson(r, testOrder)
	if res.Order != 1 {
		t.Fatalf("order = %d, want 1", res.Order)
	}
	if res.Reflection[0] != 0 {
		t.Fatalf("k[0] = %v, want 0", res.Reflection[0])
	}
}

func TestLevinsonStability(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	samples := make([]int16, 240)
	for i := range samples {
		samples[i] = int16(rng.Intn(1 << 15))
	}

	r := Autocorrelate(samples, testOrder)
	res := Levinson(r, testOrder)
	if res.Order < 1 || res.Order > testOrder {
		t.Fatalf("order = %d, want in [1, %d]", res.Order, testOrder)
	}

	for i, k := range res.Reflection {
		if math.Abs(k) >= 1 {
			t.Fatalf("k[%d] = %v, want magnitude < 1", i, k)
		}
	}
}

func TestQuantizeRoundTripBound(t *testing.T) {
	ks := []float64{0, 0.5, -0.5, 0.999, -0.999, 0.000001}
	q := QuantizeReflection(ks)
	back := DequantizeReflection(q)
	for i, k := range ks {
		if diff := math.Abs(k - back[i]); diff > 1.0/(1<<15) {
			t.Fatalf("round-trip error %v exceeds 2^-15 for k[%d]=%v", diff, i, k)
		}
	}
}

func TestResidualReconstructRoundTrip(t *testing.T) {
	cases := map[string][]int32{
		"silence": make([]int32, 240),
		"impulse": impulse(240, 0, 16384),
		"ramp":    ramp(240),
	}

	for name, samples := range cases {
		t.Run(name, func(t *testing.T) {
			int16s := make([]int16, len(samples))
			for i, s := range samples {
				int16s[i] = int16(s)
			}

			r := Autocorrelate(int16s, testOrder)
			res := Levinson(r, testOrder)
			q := QuantizeReflection(res.Reflection)
			dq := DequantizeReflection(q)
			a := ReflectionToLPC(dq, res.Order, testQ)

			residual := Residual(samples, a, res.Order, testQ)
			got := Reconstruct(residual, a, res.Order, testQ)

			for i := range samples {
				if got[i] != samples[i] {
					t.Fatalf("sample %d: want %d, got %d", i, samples[i], got[i])
				}
			}
		})
	}
}

func impulse(n, at int, v int32) []int32 {
	s := make([]int32, n)
	s[at] = v
	return s
}

func ramp(n int) []int32 {
	s := make([]int32, n)
	for i := range s {
		s[i] = int32((i - n/2) * 100)
	}
	return s
}
