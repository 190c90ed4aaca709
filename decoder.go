package sela

import (
	"crypto/md5"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/hello/sela/frame"
	"github.com/hello/sela/internal/bits"
	"github.com/hello/sela/internal/lpc"
	"github.com/hello/sela/internal/rice"
)

// Decoder reads a sela stream one frame at a time.
type Decoder struct {
	r        *countingReader
	Info     frame.MediaInfo
	channels int
	md5sum   hash.Hash
	frames   uint64
	samples  uint64
}

// NewDecoder reads and validates the stream's magic bytes and media info.
func NewDecoder(r io.Reader) (*Decoder, error) {
	cr := &countingReader{r: r}
	info, err := frame.ReadMediaInfo(cr)
	if err != nil {
		if errors.Is(err, frame.ErrBadMagic) {
			return nil, fmt.Errorf("%w: %v", ErrBadMagic, err)
		}
		return nil, wrapReadErr(err)
	}
	if info.BitsPerSample != 16 {
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, info.BitsPerSample)
	}
	if info.Channels != 1 && info.Channels != 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, info.Channels)
	}

	return &Decoder{r: cr, Info: info, channels: int(info.Channels), md5sum: md5.New()}, nil
}

// DecodeBlock reads and decodes one frame, returning its samples
// interleaved the same way EncodeBlock accepts them. It returns io.EOF
// once the stream's sync word no longer matches, or the underlying reader
// reaches a clean end between frames (§4.8, §7); any other error is
// fatal.
func (d *Decoder) DecodeBlock() ([]int16, error) {
	ok, err := frame.ReadSync(d.r)
	if err != nil {
		return nil, wrapReadErr(err)
	}
	if !ok {
		return nil, io.EOF
	}

	channelBufs := make([][]int16, d.channels)
	for c := 0; c < d.channels; c++ {
		rec, err := frame.ReadChannelRecord(d.r)
		if err != nil {
			return nil, wrapReadErr(err)
		}

		buf, err := decodeChannel(rec)
		if err != nil {
			return nil, err
		}
		channelBufs[c] = buf
	}

	interleaved := make([]int16, BlockSize*d.channels)
	for c, buf := range channelBufs {
		for i, s := range buf {
			interleaved[i*d.channels+c] = s
		}
	}

	for _, s := range interleaved {
		binary := [2]byte{byte(s), byte(s >> 8)}
		d.md5sum.Write(binary[:])
	}

	d.frames++
	d.samples += uint64(BlockSize)
	return interleaved, nil
}

// decodeChannel reverses encodeChannel: it Rice-decodes the reflection
// coefficients and residuals, rebuilds the LPC vector, and runs the
// synthesis filter forward to reconstruct the block's samples (§4.6-§4.7).
func decodeChannel(rec frame.ChannelRecord) ([]int16, error) {
	order := int(rec.LPCOrder)
	if order < 1 || order > MaxLPCOrder {
		return nil, fmt.Errorf("%w: lpc_order %d out of range", ErrInternalInvariant, order)
	}
	if rec.RiceParamRef > rice.MaxParam || rec.RiceParamResidue > rice.MaxParam {
		return nil, fmt.Errorf("%w: rice parameter out of range", ErrInternalInvariant)
	}

	refZigZag, err := rice.DecodeBlock(rec.EncodedRef, uint(rec.RiceParamRef), order)
	if err != nil {
		return nil, wrapReadErr(err)
	}
	quantized := make([]int32, order)
	for i, z := range refZigZag {
		quantized[i] = bits.DecodeZigZag(z)
	}

	a := lpc.ReflectionToLPC(lpc.DequantizeReflection(quantized), order, Q)

	resZigZag, err := rice.DecodeBlock(rec.EncodedResidues, uint(rec.RiceParamResidue), BlockSize)
	if err != nil {
		return nil, wrapReadErr(err)
	}
	residual := make([]int32, BlockSize)
	for i, z := range resZigZag {
		residual[i] = bits.DecodeZigZag(z)
	}

	samples := lpc.Reconstruct(residual, a, order, Q)

	out := make([]int16, BlockSize)
	for i, s := range samples {
		if s < -32768 || s > 32767 {
			return nil, fmt.Errorf("%w: reconstructed sample %d out of int16 range", ErrInternalInvariant, s)
		}
		out[i] = int16(s)
	}
	return out, nil
}

// Stats reports how much audio has been decoded so far.
func (d *Decoder) Stats() Stats {
	var sum [16]byte
	copy(sum[:], d.md5sum.Sum(nil))
	return Stats{Frames: d.frames, Samples: d.samples, Bytes: d.r.n, MD5Sum: sum}
}
