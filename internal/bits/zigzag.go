// Package bits provides bit-level packing primitives for the Rice coder:
// ZigZag mapping between signed and unsigned integers, and a word-oriented
// bit writer/reader built on top of github.com/icza/bitio.
package bits

// EncodeZigZag maps a signed integer to an unsigned integer so that
// small-magnitude values (positive or negative) map to small unsigned
// values, keeping them cheap to Rice-code.
//
// Examples of decoded values on the left and ZigZag encoded values on the
// right:
//
//	 0 => 0
//	-1 => 1
//	 1 => 2
//	-2 => 3
//	 2 => 4
//	-3 => 5
//	 3 => 6
func EncodeZigZag(s int32) uint32 {
	return uint32(s<<1) ^ uint32(s>>31)
}

// DecodeZigZag decodes a ZigZag encoded integer and returns it.
//
// Examples of ZigZag encoded values on the left and decoded values on the
// right:
//
//	0 =>  0
//	1 => -1
//	2 =>  1
//	3 => -2
//	4 =>  2
//	5 => -3
//	6 =>  3
//
// Examples of ZigZag encoded values on the left and decoded values on the
// right:
//
//	0 =>  0
//	1 => -1
//	2 =>  1
//	3 => -2
//	4 =>  2
//	5 => -3
//	6 =>  3
func DecodeZigZag(x uint32) int32 {
	return int32(x>>1) ^ -int32(x&1)
}
