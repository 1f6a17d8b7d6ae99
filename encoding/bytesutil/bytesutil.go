// Package bytesutil defines helper functions for converting fixed-width byte
// slices into the slice/array shapes the SSZ codec and its callers need.
// Grounded on the teacher's shared/bytesutil package.
package bytesutil

import "encoding/binary"

// ToBytes32 truncates or zero-pads x to a 32-byte array.
func ToBytes32(x []byte) [32]byte {
	var y [32]byte
	copy(y[:], x)
	return y
}

// ToBytes4 truncates or zero-pads x to a 4-byte array.
func ToBytes4(x []byte) [4]byte {
	var y [4]byte
	copy(y[:], x)
	return y
}

// Bytes8 little-endian encodes x into an 8-byte slice.
func Bytes8(x uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, x)
	return b
}

// Bytes4 little-endian encodes x into a 4-byte slice.
func Bytes4(x uint64) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(x))
	return b
}

// FromBytes8 little-endian decodes an 8-byte slice into a uint64. Panics if
// x is shorter than 8 bytes; callers are expected to have already validated
// field widths during schema-bound decode.
func FromBytes8(x []byte) uint64 {
	return binary.LittleEndian.Uint64(x)
}

// FromBytes4 little-endian decodes a 4-byte slice into a uint32.
func FromBytes4(x []byte) uint32 {
	return binary.LittleEndian.Uint32(x)
}

// PadTo right-pads x with zero bytes until it is length n. If x is already
// >= n bytes, it is returned unmodified.
func PadTo(x []byte, n int) []byte {
	if len(x) >= n {
		return x
	}
	y := make([]byte, n)
	copy(y, x)
	return y
}

// SafeCopy2d returns a deep copy of a slice of byte slices, as used for
// vector fields (block_roots, state_roots, randao_mixes) that must not
// alias the pre-state's backing arrays once a working copy diverges.
func SafeCopy2d(src [][]byte) [][]byte {
	dst := make([][]byte, len(src))
	for i, s := range src {
		c := make([]byte, len(s))
		copy(c, s)
		dst[i] = c
	}
	return dst
}
