// Package frame implements the container format tying the LPC and Rice
// coding stages together: the file-level magic and media info, and the
// per-frame sync word and channel records (§6.1).
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrBadMagic is returned by ReadMediaInfo when the stream does not begin
// with Magic.
var ErrBadMagic = errors.New("frame: bad magic")

// Magic marks the beginning of a sela stream.
var Magic = [5]byte{'h', 'e', 'l', 'l', 'o'}

const (
	// Sync is the frame sync word, written before each frame's channel
	// records.
	Sync uint32 = 0xAA55FF00
	// MetaSync is reserved for a future metadata block and is never
	// written or read by the core.
	MetaSync uint32 = 0xAA5500FF
)

// MediaInfo is the fixed-size header following the magic bytes.
type MediaInfo struct {
	SampleRate      int32
	BitsPerSample   int16
	Channels        int8
	EstimatedFrames uint32
}

// WriteMediaInfo writes the magic bytes followed by info, little-endian,
// exactly as laid out in §6.1.
func WriteMediaInfo(w io.Writer, info MediaInfo) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return fmt.Errorf("frame: write magic: %w", err)
	}

	for _, field := range []any{info.SampleRate, info.BitsPerSample, info.Channels, info.EstimatedFrames} {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return fmt.Errorf("frame: write media info: %w", err)
		}
	}

	return nil
}

// ReadMediaInfo reads and validates the magic bytes, then reads the
// fixed-size media info that follows.
func ReadMediaInfo(r io.Reader) (MediaInfo, error) {
	var magic [5]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return MediaInfo{}, fmt.Errorf("frame: read magic: %w", err)
	}

	if magic != Magic {
		return MediaInfo{}, fmt.Errorf("%w: got %q", ErrBadMagic, magic)
	}

	var info MediaInfo
	for _, field := range []any{&info.SampleRate, &info.BitsPerSample, &info.Channels, &info.EstimatedFrames} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return MediaInfo{}, fmt.Errorf("frame: read media info: %w", err)
		}
	}

	return info, nil
}

// WriteSync writes the frame sync word.
func WriteSync(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, Sync)
}

// ReadSync reads one 32-bit word and reports whether it matched the
// frame sync word. A non-matching word, or a clean EOF, both signal the
// end of the stream rather than an error (§4.8, §7).
func ReadSync(r io.Reader) (ok bool, err error) {
	var word uint32
	if err := binary.Read(r, binary.LittleEndian, &word); err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("frame: read sync: %w", err)
	}

	return word == Sync, nil
}
