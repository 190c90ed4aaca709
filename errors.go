package sela

import (
	"errors"
	"fmt"
	"io"
)

// Error kinds surfaced by the codec core (§7). Callers should wrap these
// with fmt.Errorf("...: %w", Err...) for context; the adapter layer
// (cmd/sela) decides how each kind maps to an exit code.
var (
	// ErrBadMagic means the input does not begin with the expected
	// "hello" signature.
	ErrBadMagic = errors.New("sela: bad magic")
	// ErrUnsupportedFormat means the media info names a format the core
	// cannot handle (anything but 16 bits-per-sample, mono or stereo).
	ErrUnsupportedFormat = errors.New("sela: unsupported format")
	// ErrTruncated means the stream ended unexpectedly while media info
	// or a frame was being read: a short read, mid-frame EOF, or an
	// incomplete final word.
	ErrTruncated = errors.New("sela: truncated stream")
	// ErrIoError means a read or write against the underlying stream
	// failed for a reason other than running out of data: a disk or
	// network failure reported by the io.Reader/io.Writer the core was
	// given.
	ErrIoError = errors.New("sela: i/o error")
	// ErrInternalInvariant means a value the core computed or decoded
	// violates an invariant that should be unreachable with correct
	// inputs: an LPC order or Rice parameter out of range, or a
	// reconstructed sample outside int16 range.
	ErrInternalInvariant = errors.New("sela: internal invariant violated")
)

// wrapReadErr classifies a read failure from the frame package as either
// a truncated stream (ran out of data mid-frame, whether via io.EOF or
// io.ErrUnexpectedEOF) or a genuine I/O error.
func wrapReadErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return fmt.Errorf("%w: %v", ErrIoError, err)
}

// wrapWriteErr classifies a write failure from the frame package; writes
// never end cleanly partway through a value, so any failure here is a
// genuine I/O error rather than a truncation.
func wrapWriteErr(err error) error {
	return fmt.Errorf("%w: %v", ErrIoError, err)
}
