package bits

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/icza/bitio"
)

// WriteUnary writes v as a unary code: v one-bits followed by a
// terminating zero-bit.
func WriteUnary(bw *bitio.Writer, v uint64) error {
	for ; v > 0; v-- {
		if err := bw.WriteBool(true); err != nil {
			return err
		}
	}

	return bw.WriteBool(false)
}

// Reader wraps a bitio.Reader with the unary decoding
// the Rice coder needs on top of plain bit reads.
type Reader struct {
	br *bitio.Reader
}

// NewReader returns a Reader reading bits from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bitio.NewReader(r)}
}

// ReadBits reads the next n bits and returns them as the low n bits of
// the result.
func (r *Reader) ReadBits(n uint8) (uint64, error) {
	return r.br.ReadBits(n)
}

// ReadUnary reads a unary code and returns the number of one-bits read
// before the terminating zero-bit.
func (r *Reader) ReadUnary() (uint64, error) {
	var n uint64
	for {
		b, err := r.br.ReadBool()
		if err != nil {
			return 0, err
		}

		if !b {
			return n, nil
		}

		n++
	}
}

// PackWords runs write against a fresh bitio.Writer, pads the result up
// to a whole number of 32-bit words with zero bits, and returns those
// words. Because bitio packs bits most-significant-bit first and emits
// bytes in stream order, each group of four consecutive bytes already
// holds the bits of one word in MSB-first order; reading that group as a
// big-endian uint32 recovers the word value spec §4.5 describes. Callers
// are responsible for emitting the resulting words little-endian to the
// wire, as the container format requires.
func PackWords(write func(bw *bitio.Writer) error) ([]uint32, error) {
	buf := &bytes.Buffer{}
	bw := bitio.NewWriter(buf)
	if err := write(bw); err != nil {
		return nil, err
	}

	if _, err := bw.Align(); err != nil {
		return nil, err
	}

	raw := buf.Bytes()
	for len(raw)%4 != 0 {
		raw = append(raw, 0)
	}

	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(raw[i*4:])
	}

	return words, nil
}

// UnpackWords reconstructs the byte stream PackWords produced from words
// and runs read against a Reader over it.
func UnpackWords(words []uint32, read func(r *Reader) error) error {
	raw := make([]byte, len(words)*4)
	for i, w := range words {
		binary.BigEndian.PutUint32(raw[i*4:], w)
	}

	return read(NewReader(bytes.NewReader(raw)))
}
