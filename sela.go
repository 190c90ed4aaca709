// Package sela implements a lossless codec for 16-bit PCM audio: linear
// predictive coding over fixed-size blocks, Golomb-Rice entropy coding of
// the residuals and quantized reflection coefficients, and a small framed
// container tying the two together.
//
// The package is the compression core only. WAV parsing and command-line
// handling live in the internal/wavio package and cmd/sela, as thin
// adapters around the block-oriented API exposed here. No metadata
// tagging is implemented.
package sela

import "io"

// Fixed parameters of the bitstream format. Both BlockSize and
// MaxLPCOrder must match between an encoder and any decoder reading its
// output; they are compile-time constants rather than stream fields.
const (
	// BlockSize is the number of samples per channel in every frame.
	BlockSize = 240
	// MaxLPCOrder bounds the effective LPC order chosen by Levinson-
	// Durbin.
	MaxLPCOrder = 8
	// Q is the fixed-point scaling exponent used for LPC coefficients:
	// a coefficient c is held in the predictor as round(c * 2^Q). The
	// stream carries only the quantized reflection coefficients; both
	// sides rebuild the LPC vector from them.
	Q = 35
)

// Stats summarizes the work an Encoder or Decoder has done so far, for
// the CLI's end-of-run report: frame/sample counts to derive a duration,
// Bytes to derive a compression ratio and bitrate, and the running MD5 of
// the audio seen so far.
type Stats struct {
	Frames  uint64
	Samples uint64
	Bytes   uint64
	MD5Sum  [16]byte
}

// countingWriter tracks the number of bytes written through it, so an
// Encoder can report compression ratio and bitrate without the caller
// having to stat the underlying file.
type countingWriter struct {
	w io.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	return n, err
}

// countingReader tracks the number of bytes read through it, so a Decoder
// can report how much of the compressed stream it has consumed.
type countingReader struct {
	r io.Reader
	n uint64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += uint64(n)
	return n, err
}
