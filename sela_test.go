package sela_test

import (
	"bytes"
	"io"
	"math/rand"
	"testing"

	"github.com/hello/sela"
)

// roundTrip encodes samples (interleaved, channels as given) as a single
// stream and decodes it back, returning every sample the decoder
// produced across all blocks.
func roundTrip(t *testing.T, channels int8, samples []int16) []int16 {
	t.Helper()

	buf := &bytes.Buffer{}
	enc, err := sela.NewEncoder(buf, 44100, 16, channels, 0)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	blockLen := sela.BlockSize * int(channels)
	for i := 0; i < len(samples); i += blockLen {
		end := i + blockLen
		if end > len(samples) {
			end = len(samples)
		}
		if err := enc.EncodeBlock(samples[i:end]); err != nil {
			t.Fatalf("EncodeBlock: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	dec, err := sela.NewDecoder(buf)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	var out []int16
	for {
		block, err := dec.DecodeBlock()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("DecodeBlock: %v", err)
		}
		out = append(out, block...)
	}

	return out
}

func TestRoundTripSilenceMono(t *testing.T) {
	samples := make([]int16, sela.BlockSize)
	got := roundTrip(t, 1, samples)
	for i, s := range got[:len(samples)] {
		if s != 0 {
			t.Fatalf("sample %d: want 0, got %d", i, s)
		}
	}
}

func TestRoundTripDCStereo(t *testing.T) {
	samples := make([]int16, sela.BlockSize*2)
	for i := 0; i < sela.BlockSize; i++ {
		samples[i*2] = 1000
		samples[i*2+1] = -1000
	}

	got := roundTrip(t, 2, samples)
	for i := 0; i < sela.BlockSize; i++ {
		if got[i*2] != 1000 || got[i*2+1] != -1000 {
			t.Fatalf("frame %d: want (1000,-1000), got (%d,%d)", i, got[i*2], got[i*2+1])
		}
	}
}

func TestRoundTripImpulse(t *testing.T) {
	samples := make([]int16, sela.BlockSize)
	samples[0] = 16384

	got := roundTrip(t, 1, samples)
	for i, s := range got[:len(samples)] {
		if s != samples[i] {
			t.Fatalf("sample %d: want %d, got %d", i, samples[i], s)
		}
	}
}

func TestRoundTripRamp(t *testing.T) {
	samples := make([]int16, sela.BlockSize)
	for i := range samples {
		samples[i] = int16((i - 120) * 100)
	}

	got := roundTrip(t, 1, samples)
	for i, s := range got[:len(samples)] {
		if s != samples[i] {
			t.Fatalf("sample %d: want %d, got %d", i, samples[i], s)
		}
	}
}

func TestRoundTripWhiteNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	samples := make([]int16, sela.BlockSize)
	for i := range samples {
		samples[i] = int16(rng.Intn(1<<16) - 1<<15)
	}

	got := roundTrip(t, 1, samples)
	for i, s := range got[:len(samples)] {
		if s != samples[i] {
			t.Fatalf("sample %d: want %d, got %d", i, samples[i], s)
		}
	}
}

func TestRoundTripPartialFinalBlock(t *testing.T) {
	samples := make([]int16, sela.BlockSize+37)
	for i := range samples {
		samples[i] = int16(i)
	}

	got := roundTrip(t, 1, samples)
	if len(got) != 2*sela.BlockSize {
		t.Fatalf("got %d samples, want %d (final block zero-padded)", len(got), 2*sela.BlockSize)
	}
	for i := 0; i < len(samples); i++ {
		if got[i] != samples[i] {
			t.Fatalf("sample %d: want %d, got %d", i, samples[i], got[i])
		}
	}
	for i := len(samples); i < len(got); i++ {
		if got[i] != 0 {
			t.Fatalf("padding sample %d: want 0, got %d", i, got[i])
		}
	}
}

func TestDecodeStopsOnSyncLoss(t *testing.T) {
	buf := &bytes.Buffer{}
	enc, err := sela.NewEncoder(buf, 44100, 16, 1, 0)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	block := make([]int16, sela.BlockSize)
	for i := range block {
		block[i] = int16(i)
	}
	if err := enc.EncodeBlock(block); err != nil {
		t.Fatalf("EncodeBlock 1: %v", err)
	}
	if err := enc.EncodeBlock(block); err != nil {
		t.Fatalf("EncodeBlock 2: %v", err)
	}

	raw := buf.Bytes()

	// Corrupt the sync word of the second frame by flipping a byte just
	// past where the first frame's encoded payload ends. Since frame
	// boundaries are not indexed, scan for the second occurrence of the
	// sync word's little-endian byte pattern and corrupt it.
	sync := []byte{0x00, 0xFF, 0x55, 0xAA}
	first := bytes.Index(raw, sync)
	if first < 0 {
		t.Fatal("sync word not found in encoded stream")
	}
	second := bytes.Index(raw[first+1:], sync)
	if second < 0 {
		t.Fatal("second sync word not found in encoded stream")
	}
	second += first + 1
	raw[second] ^= 0xFF

	dec, err := sela.NewDecoder(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	if _, err := dec.DecodeBlock(); err != nil {
		t.Fatalf("first DecodeBlock: %v", err)
	}

	if _, err := dec.DecodeBlock(); err == nil {
		t.Fatal("expected an error or clean EOF decoding past a corrupted sync word")
	}
}

func TestEncoderRejectsUnsupportedFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	if _, err := sela.NewEncoder(buf, 44100, 8, 1, 0); err == nil {
		t.Fatal("expected error for 8-bit samples")
	}
	if _, err := sela.NewEncoder(buf, 44100, 16, 3, 0); err == nil {
		t.Fatal("expected error for 3 channels")
	}
}

func TestDecoderRejectsBadMagic(t *testing.T) {
	if _, err := sela.NewDecoder(bytes.NewBufferString("not-a-sela-stream-at-all")); err == nil {
		t.Fatal("expected error for bad magic")
	}
}
