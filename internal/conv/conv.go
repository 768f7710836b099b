// Package conv provides checked integer conversions for the XDR codecs.
//
// Counts and indices are stored as uint32 on the wire. Narrowing panics on
// overflow since no in-memory automaton can be that large.
package conv

import "math"

// IntToUint32 converts a count or index to its wire form.
// Panics if n < 0 or n > math.MaxUint32.
func IntToUint32(n int) uint32 {
	// Use uint for comparison to avoid overflow on 32-bit platforms
	// where int cannot represent math.MaxUint32
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// RuneToUint32 converts a non-negative character to its wire form.
// Panics if r < 0.
func RuneToUint32(r rune) uint32 {
	if r < 0 {
		panic("integer overflow: negative rune")
	}
	return uint32(r)
}

// Uint32ToInt converts a wire count to an int, reporting whether it is at
// most limit. The converted value is returned either way so callers can
// report it.
func Uint32ToInt(v uint32, limit int) (int, bool) {
	return int(v), uint64(v) <= uint64(limit)
}
