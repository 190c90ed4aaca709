package frame

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ChannelRecord is the per-channel tuple written after the frame sync
// word (§6.1). Field order matches the reference layout exactly: the
// reflection section (rice_param_ref, req_int_ref, lpc_order,
// encoded_ref) precedes the residue section (rice_param_residue,
// req_int_residues, encoded_residues), with lpc_order written between
// req_int_ref and encoded_ref (§9.4).
type ChannelRecord struct {
	RiceParamRef uint8
	ReqIntRef    uint16
	LPCOrder     uint8
	EncodedRef   []uint32

	RiceParamResidue uint8
	ReqIntResidues   uint16
	EncodedResidues  []uint32
}

// WriteChannelRecord writes rec to w.
func WriteChannelRecord(w io.Writer, rec ChannelRecord) error {
	fields := []any{
		rec.RiceParamRef,
		rec.ReqIntRef,
		rec.LPCOrder,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return fmt.Errorf("frame: write channel record header: %w", err)
		}
	}

	if err := binary.Write(w, binary.LittleEndian, rec.EncodedRef); err != nil {
		return fmt.Errorf("frame: write encoded reflection: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, rec.RiceParamResidue); err != nil {
		return fmt.Errorf("frame: write rice_param_residue: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, rec.ReqIntResidues); err != nil {
		return fmt.Errorf("frame: write req_int_residues: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, rec.EncodedResidues); err != nil {
		return fmt.Errorf("frame: write encoded residues: %w", err)
	}

	return nil
}

// ReadChannelRecord reads one ChannelRecord from r. A short read at any
// point is fatal (Truncated), matching §7: only a mismatched frame sync
// word is a clean end of stream, never a short read mid-frame.
func ReadChannelRecord(r io.Reader) (ChannelRecord, error) {
	var rec ChannelRecord
	if err := binary.Read(r, binary.LittleEndian, &rec.RiceParamRef); err != nil {
		return rec, fmt.Errorf("frame: read rice_param_ref: %w", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &rec.ReqIntRef); err != nil {
		return rec, fmt.Errorf("frame: read req_int_ref: %w", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &rec.LPCOrder); err != nil {
		return rec, fmt.Errorf("frame: read lpc_order: %w", err)
	}

	rec.EncodedRef = make([]uint32, rec.ReqIntRef)
	if err := binary.Read(r, binary.LittleEndian, rec.EncodedRef); err != nil {
		return rec, fmt.Errorf("frame: read encoded_ref: %w", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &rec.RiceParamResidue); err != nil {
		return rec, fmt.Errorf("frame: read rice_param_residue: %w", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &rec.ReqIntResidues); err != nil {
		return rec, fmt.Errorf("frame: read req_int_residues: %w", err)
	}

	rec.EncodedResidues = make([]uint32, rec.ReqIntResidues)
	if err := binary.Read(r, binary.LittleEndian, rec.EncodedResidues); err != nil {
		return rec, fmt.Errorf("frame: read encoded_residues: %w", err)
	}

	return rec, nil
}

// WordCount returns ⌈bits/32⌉, the req_int_* value for a Rice-coded
// payload of the given total bit length.
func WordCount(bits uint64) uint16 {
	return uint16((bits + 31) / 32)
}
