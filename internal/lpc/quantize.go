package lpc

import "math"

// QuantizeReflection maps reflection coefficients in [-1, 1] to signed
// 16-bit fixed-point integers (scaled by 2^15), clamped to int16 range
// and widened to int32 (§4.3).
func QuantizeReflection(k []float64) []int32 {
	q := make([]int32, len(k))
	for i, ki := range k {
		v := math.Round(ki * (1 << 15))
		switch {
		case v > math.MaxInt16:
			v = math.MaxInt16
		case v < math.MinInt16:
			v = math.MinInt16
		}
		q[i] = int32(v)
	}

	return q
}

// DequantizeReflection is the inverse scaling of QuantizeReflection.
func DequantizeReflection(q []int32) []float64 {
	k := make([]float64, len(q))
	for i, qi := range q {
		k[i] = float64(qi) / (1 << 15)
	}

	return k
}

// ReflectionToLPC expands order reflection coefficients into the LPC
// polynomial via the Levinson-Durbin step-up recursion, then scales the
// result by 2^Q and widens to int64 (§3, §4.4). The returned slice has
// length order+1 with a[0] == 0, so prediction can be written uniformly
// as Σ a[i]*x[n-i] for i in [0, order].
func ReflectionToLPC(k []float64, order int, q uint) []int64 {
	a := make([]float64, 0, order)
	for i := 0; i < order; i++ {
		newA := make([]float64, i+1)
		newA[i] = k[i]
		for j := 0; j < i; j++ {
			newA[j] = a[j] - k[i]*a[i-1-j]
		}
		a = newA
	}

	scale := float64(int64(1) << q)
	lpc := make([]int64, order+1)
	for i, ai := range a {
		lpc[i+1] = int64(math.Round(ai * scale))
	}

	return lpc
}
