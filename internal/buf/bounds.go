// Package buf contains overflow-checked size arithmetic shared by the
// allocator and its backends.
package buf

import "math/bits"

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow uintptr.
func AddOverflowSafe(a, b uintptr) (uintptr, bool) {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 || sum > uint64(^uintptr(0)) {
		return 0, false
	}
	return uintptr(sum), true
}

// MulOverflowSafe multiplies a and b, returning ok = false when the result would overflow uintptr.
// This is the count * elementSize calculation behind every array layout.
func MulOverflowSafe(a, b uintptr) (uintptr, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > uint64(^uintptr(0)) {
		return 0, false
	}
	return uintptr(lo), true
}

// IsPowerOfTwo reports whether n is a non-zero power of two.
func IsPowerOfTwo(n uintptr) bool {
	return n != 0 && n&(n-1) == 0
}

// AlignUp rounds n up to the next multiple of align. align must be a power of two.
// Returns ok = false when rounding would overflow uintptr.
func AlignUp(n, align uintptr) (uintptr, bool) {
	mask := align - 1
	sum, ok := AddOverflowSafe(n, mask)
	if !ok {
		return 0, false
	}
	return sum &^ mask, true
}

// PaddingFor returns the number of bytes needed after n to reach a multiple of align.
func PaddingFor(n, align uintptr) uintptr {
	return (align - n&(align-1)) & (align - 1)
}

// CheckRange validates that a region of size bytes starting at offset fits in a
// buffer of bufLen bytes. Returns the end offset when it does.
func CheckRange(bufLen, offset, size uintptr) (uintptr, bool) {
	end, ok := AddOverflowSafe(offset, size)
	if !ok || end > bufLen {
		return 0, false
	}
	return end, true
}
