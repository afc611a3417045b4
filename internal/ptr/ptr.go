// Package ptr holds the pointer and slice plumbing shared by allocator
// implementations: taking the address of a block, synthesizing the dangling
// sentinel used for zero-size blocks, and asserting invariants.
package ptr

import (
	"fmt"
	"unsafe"
)

// Addr returns the address of the first byte of b's backing array, or 0 for a
// slice with no backing array.
func Addr(b []byte) uintptr {
	if cap(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// Dangling returns the sentinel address for a zero-size block with the given
// alignment. The alignment itself is used as the address: non-zero, correctly
// aligned, and never backed by storage.
func Dangling(align uintptr) uintptr {
	return align
}

// IsAligned reports whether addr is a multiple of align. align must be a power of two.
func IsAligned(addr, align uintptr) bool {
	return addr&(align-1) == 0
}

// Len returns the usable length of b. A nil block has length 0.
func Len(b []byte) uintptr {
	return uintptr(len(b))
}

// Prefix returns b[:n] when n fits within cap(b), growing the visible
// length up to the capacity if needed.
func Prefix(b []byte, n uintptr) ([]byte, bool) {
	if n > uintptr(cap(b)) {
		return nil, false
	}
	return b[:n], true
}

// Zero clears every byte of b.
func Zero(b []byte) {
	clear(b)
}

// Assume panics with an invariant violation when cond is false. It marks
// states an allocator has already ruled out; reaching one is a bug in the
// allocator, never a recoverable condition.
func Assume(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("alloc: invariant violated: "+format, args...))
	}
}
