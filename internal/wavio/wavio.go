// Package wavio adapts between WAV files and the interleaved int16 blocks
// the sela codec core operates on. It is a thin wrapper around
// github.com/go-audio/wav and github.com/go-audio/audio; all LPC and Rice
// coding logic lives in the root package.
package wavio

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Reader reads interleaved 16-bit PCM samples from a WAV stream,
// converting from whatever bit depth the file actually carries.
type Reader struct {
	dec         *wav.Decoder
	SampleRate  int
	Channels    int
	BitDepth    int
	TotalFrames uint32 // samples per channel, from the WAV data chunk length
	buf         *audio.IntBuffer
}

// NewReader validates r as a WAV stream and positions it at the start of
// the PCM data.
func NewReader(r io.Reader) (*Reader, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wavio: not a valid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("wavio: seek to PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  int(dec.SampleRate),
		},
		Data:           make([]int, channels*4096),
		SourceBitDepth: int(dec.BitDepth),
	}

	frameSize := int64(channels) * int64(dec.BitDepth) / 8
	var totalFrames uint32
	if frameSize > 0 {
		totalFrames = uint32(dec.PCMLen() / frameSize)
	}

	return &Reader{
		dec:         dec,
		SampleRate:  int(dec.SampleRate),
		Channels:    channels,
		BitDepth:    int(dec.BitDepth),
		TotalFrames: totalFrames,
		buf:         buf,
	}, nil
}

// ReadBlock fills out with up to len(out) interleaved int16 samples and
// returns how many it wrote. It returns io.EOF once the source PCM data
// is exhausted, consistent with dec.PCMBuffer's own convention.
func (r *Reader) ReadBlock(out []int16) (int, error) {
	if len(out)%r.Channels != 0 {
		return 0, fmt.Errorf("wavio: buffer length %d is not a multiple of %d channels", len(out), r.Channels)
	}

	if cap(r.buf.Data) < len(out) {
		r.buf.Data = make([]int, len(out))
	}
	r.buf.Data = r.buf.Data[:len(out)]

	n, err := r.dec.PCMBuffer(r.buf)
	if err != nil {
		return 0, fmt.Errorf("wavio: read PCM: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i := 0; i < n; i++ {
		v := r.buf.Data[i]
		switch {
		case r.BitDepth > 16:
			v >>= uint(r.BitDepth - 16)
		case r.BitDepth < 16:
			v <<= uint(16 - r.BitDepth)
		}
		out[i] = int16(v)
	}

	return n, nil
}

// Writer writes interleaved int16 samples to a 16-bit PCM WAV stream.
type Writer struct {
	enc *wav.Encoder
	buf *audio.IntBuffer
}

// NewWriter creates a 16-bit PCM WAV encoder over w.
func NewWriter(w io.WriteSeeker, sampleRate, channels int) *Writer {
	enc := wav.NewEncoder(w, sampleRate, 16, channels, 1)
	return &Writer{
		enc: enc,
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}
}

// WriteBlock appends interleaved int16 samples to the WAV stream.
func (w *Writer) WriteBlock(samples []int16) error {
	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = int(s)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("wavio: write PCM: %w", err)
	}
	return nil
}

// Close flushes the WAV header and trailer.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("wavio: close: %w", err)
	}
	return nil
}
