// Package lpc implements the linear-predictive-coding stages of the
// codec core: autocorrelation, the Levinson-Durbin recursion over
// reflection coefficients, coefficient quantization, and the integer
// predictor used for both residual computation and reconstruction.
//
// Autocorrelation and Levinson-Durbin run in double precision, the way
// mainstream FLAC encoders compute their predictor search; only the
// quantization step (QuantizeReflection) is lossy, and both encoder and
// decoder derive the LPC vector from the same transmitted quantized
// integers via the same deterministic recursion (ReflectionToLPC), so the
// double-precision search never has to round-trip bit-exactly on its own.
package lpc

// Autocorrelate computes r[0..maxOrder] for one channel's sample block,
// after pre-scaling each sample by treating it as a Q15 fraction of full
// scale (§4.1).
func Autocorrelate(samples []int16, maxOrder int) []float64 {
	scaled := make([]float64, len(samples))
	for i, s := range samples {
		scaled[i] = float64(int32(s) << 15)
	}

	r := make([]float64, maxOrder+1)
	for m := 0; m <= maxOrder; m++ {
		var sum float64
		for n := m; n < len(scaled); n++ {
			sum += scaled[n] * scaled[n-m]
		}
		r[m] = sum
	}

	return r
}

// Result is the outcome of the Levinson-Durbin recursion: the effective
// order reached before termination and the reflection coefficients at
// that order.
type Result struct {
	Order      int
	Reflection []float64
}

// Levinson runs the Levinson-Durbin recursion on autocorrelation lags r,
// up to maxOrder steps, terminating early when the prediction error
// becomes non-positive or a reflection coefficient reaches unit
// magnitude (§4.2). If the block is silent (r[0] == 0) it falls back to
// order 1 with a zero reflection coefficient, as spec.md requires.
func Levinson(r []float64, maxOrder int) Result {
	if r[0] <= 0 {
		return Result{Order: 1, Reflection: []float64{0}}
	}

	err := r[0]
	a := make([]float64, 0, maxOrder)
	k := make([]float64, 0, maxOrder)

	for i := 0; i < maxOrder; i++ {
		acc := r[i+1]
		for j := 0; j < i; j++ {
			acc -= a[j] * r[i-j]
		}

		if err <= 0 {
			break
		}

		ki := acc / err
		if ki >= 1 || ki <= -1 {
			break
		}

		newA := make([]float64, i+1)
		newA[i] = ki
		for j := 0; j < i; j++ {
			newA[j] = a[j] - ki*a[i-1-j]
		}
		a = newA
		k = append(k, ki)

		err *= 1 - ki*ki
	}

	if len(k) == 0 {
		return Result{Order: 1, Reflection: []float64{0}}
	}

	return Result{Order: len(k), Reflection: k}
}
