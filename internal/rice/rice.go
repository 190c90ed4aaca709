// Package rice implements block Golomb-Rice coding of unsigned 32-bit
// integers, with exhaustive search for the bit-optimal parameter.
package rice

import (
	"fmt"

	"github.com/hello/sela/internal/bits"
	"github.com/icza/bitio"
)

// MaxParam is the largest valid Rice parameter; rice_param fields are
// stored as a byte in the container but only k in [0, MaxParam] is valid.
const MaxParam = 31

// cost returns the number of bits needed to Rice-code values using
// parameter k: one unary-coded quotient plus k tail bits per value.
func cost(values []uint32, k uint) uint64 {
	var bits uint64
	for _, v := range values {
		bits += uint64(v>>k) + 1 + uint64(k)
	}

	return bits
}

// bestParam returns the Rice parameter in [0, MaxParam] minimizing the
// total encoded bit length of values, breaking ties toward the smaller
// parameter.
func bestParam(values []uint32) uint {
	best := uint(0)
	bestCost := cost(values, 0)
	for k := uint(1); k <= MaxParam; k++ {
		if c := cost(values, k); c < bestCost {
			bestCost, best = c, k
		}
	}

	return best
}

// EncodeBlock Rice-codes values, selecting the parameter that minimizes
// total encoded size. It returns the chosen parameter, the raw encoded
// bit length (before word padding), and the encoded bits packed into
// 32-bit words per internal/bits.PackWords.
func EncodeBlock(values []uint32) (k uint, bitLen uint64, words []uint32, err error) {
	k = bestParam(values)
	bitLen = cost(values, k)
	words, err = bits.PackWords(func(bw *bitio.Writer) error {
		for _, v := range values {
			if err := encodeValue(bw, k, v); err != nil {
				return err
			}
		}

		return nil
	})

	return k, bitLen, words, err
}

// encodeValue writes one Rice-coded value: the quotient v>>k in unary,
// followed by the low k bits of v.
func encodeValue(bw *bitio.Writer, k uint, v uint32) error {
	if err := bits.WriteUnary(bw, uint64(v>>k)); err != nil {
		return err
	}

	if k == 0 {
		return nil
	}

	return bw.WriteBits(uint64(v&((1<<k)-1)), uint8(k))
}

// DecodeBlock reverses EncodeBlock, reading exactly n values coded with
// parameter k from words.
func DecodeBlock(words []uint32, k uint, n int) ([]uint32, error) {
	if k > MaxParam {
		return nil, fmt.Errorf("rice: parameter %d exceeds maximum %d", k, MaxParam)
	}

	values := make([]uint32, n)
	err := bits.UnpackWords(words, func(r *bits.Reader) error {
		for i := range values {
			high, err := r.ReadUnary()
			if err != nil {
				return err
			}

			var low uint64
			if k > 0 {
				low, err = r.ReadBits(uint8(k))
				if err != nil {
					return err
				}
			}

			values[i] = uint32(high<<k) | uint32(low)
		}

		return nil
	})

	return values, err
}
