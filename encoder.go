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

// Encoder writes a sela stream one block at a time.
type Encoder struct {
	w        *countingWriter
	channels int
	md5sum   hash.Hash
	frames   uint64
	samples  uint64
}

// NewEncoder writes the stream's magic bytes and media info, then returns
// an Encoder ready to accept blocks via EncodeBlock. sampleRate is carried
// through unexamined; bitsPerSample and channels are validated against
// the formats the core supports (§2, Non-goals).
func NewEncoder(w io.Writer, sampleRate int32, bitsPerSample int16, channels int8, estimatedFrames uint32) (*Encoder, error) {
	if bitsPerSample != 16 {
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, bitsPerSample)
	}
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, channels)
	}

	cw := &countingWriter{w: w}
	info := frame.MediaInfo{
		SampleRate:      sampleRate,
		BitsPerSample:   bitsPerSample,
		Channels:        channels,
		EstimatedFrames: estimatedFrames,
	}
	if err := frame.WriteMediaInfo(cw, info); err != nil {
		return nil, wrapWriteErr(err)
	}

	return &Encoder{w: cw, channels: int(channels), md5sum: md5.New()}, nil
}

// EncodeBlock encodes one block of interleaved samples and writes it as a
// frame. interleaved holds up to BlockSize*channels samples, channel
// interleaved (L,R,L,R,... for stereo); a final short block is zero-padded
// to BlockSize per channel before coding (§9.2). The trailing padding
// samples are not mixed into the running MD5 so Stats().MD5Sum reflects
// only the audio actually presented to EncodeBlock.
func (e *Encoder) EncodeBlock(interleaved []int16) error {
	if e.channels <= 0 {
		return ErrInternalInvariant
	}
	if len(interleaved)%e.channels != 0 {
		return fmt.Errorf("%w: %d samples is not a multiple of %d channels", ErrInternalInvariant, len(interleaved), e.channels)
	}

	n := len(interleaved) / e.channels
	if n == 0 {
		return nil
	}
	if n > BlockSize {
		return fmt.Errorf("%w: block has %d samples per channel, max %d", ErrInternalInvariant, n, BlockSize)
	}

	for _, s := range interleaved {
		binary := [2]byte{byte(s), byte(s >> 8)}
		e.md5sum.Write(binary[:])
	}

	channelBufs := make([][]int16, e.channels)
	for c := range channelBufs {
		buf := make([]int16, BlockSize)
		for i := 0; i < n; i++ {
			buf[i] = interleaved[i*e.channels+c]
		}
		channelBufs[c] = buf
	}

	if err := frame.WriteSync(e.w); err != nil {
		return wrapWriteErr(err)
	}

	for _, buf := range channelBufs {
		rec, err := encodeChannel(buf)
		if err != nil {
			return err
		}
		if err := frame.WriteChannelRecord(e.w, rec); err != nil {
			return wrapWriteErr(err)
		}
	}

	e.frames++
	e.samples += uint64(n)
	return nil
}

// encodeChannel runs one channel's block through autocorrelation,
// Levinson-Durbin, reflection quantization, LPC residual computation and
// Rice coding, assembling the resulting ChannelRecord (§4.1-§4.6).
func encodeChannel(samples []int16) (frame.ChannelRecord, error) {
	r := lpc.Autocorrelate(samples, MaxLPCOrder)
	result := lpc.Levinson(r, MaxLPCOrder)

	quantized := lpc.QuantizeReflection(result.Reflection)
	refZigZag := make([]uint32, len(quantized))
	for i, q := range quantized {
		refZigZag[i] = bits.EncodeZigZag(q)
	}

	refParam, refBits, refWords, err := rice.EncodeBlock(refZigZag)
	if err != nil {
		return frame.ChannelRecord{}, err
	}

	a := lpc.ReflectionToLPC(lpc.DequantizeReflection(quantized), result.Order, Q)

	wide := make([]int32, len(samples))
	for i, s := range samples {
		wide[i] = int32(s)
	}
	residual := lpc.Residual(wide, a, result.Order, Q)

	resZigZag := make([]uint32, len(residual))
	for i, v := range residual {
		resZigZag[i] = bits.EncodeZigZag(v)
	}

	resParam, resBits, resWords, err := rice.EncodeBlock(resZigZag)
	if err != nil {
		return frame.ChannelRecord{}, err
	}

	return frame.ChannelRecord{
		RiceParamRef:     uint8(refParam),
		ReqIntRef:        frame.WordCount(refBits),
		LPCOrder:         uint8(result.Order),
		EncodedRef:       refWords,
		RiceParamResidue: uint8(resParam),
		ReqIntResidues:   frame.WordCount(resBits),
		EncodedResidues:  resWords,
	}, nil
}

// Close finalizes encoding. The underlying writer, if it needs closing, is
// the caller's responsibility; Close only validates that at least one
// block was written.
func (e *Encoder) Close() error {
	if e.frames == 0 {
		return errors.New("sela: Close called with no frames encoded")
	}
	return nil
}

// Stats reports how much audio has been encoded so far.
func (e *Encoder) Stats() Stats {
	var sum [16]byte
	copy(sum[:], e.md5sum.Sum(nil))
	return Stats{Frames: e.frames, Samples: e.samples, Bytes: e.w.n, MD5Sum: sum}
}
