package lpc

// predict returns floor(Σ_{i=1..order} a[i]*hist(n-i) / 2^q), using an
// arithmetic right shift for the division so the result is rounded
// toward negative infinity exactly as spec.md §4.4 requires. History
// positions j < 0 are taken as 0 without calling hist, matching the
// zero-history convention used for the first `order` samples of a block.
func predict(a []int64, order int, q uint, at int, hist func(int) int32) int64 {
	var sum int64
	for i := 1; i <= order; i++ {
		j := at - i
		var x int32
		if j >= 0 {
			x = hist(j)
		}
		sum += a[i] * int64(x)
	}

	return sum >> q
}

// Residual computes the prediction residual for every sample in the
// block, using out-of-range history samples as silence (§4.4). a is the
// LPC vector returned by ReflectionToLPC, scaled by 2^q.
func Residual(samples []int32, a []int64, order int, q uint) []int32 {
	residual := make([]int32, len(samples))
	hist := func(j int) int32 { return samples[j] }
	for n := range samples {
		pred := predict(a, order, q, n, hist)
		residual[n] = samples[n] - int32(pred)
	}

	return residual
}

// Reconstruct inverts Residual: given the same LPC vector and the
// transmitted residuals, it rebuilds the original sample block by
// predicting each sample from the samples already reconstructed before
// it.
func Reconstruct(residual []int32, a []int64, order int, q uint) []int32 {
	samples := make([]int32, len(residual))
	hist := func(j int) int32 { return samples[j] }
	for n := range residual {
		pred := predict(a, order, q, n, hist)
		samples[n] = residual[n] + int32(pred)
	}

	return samples
}
