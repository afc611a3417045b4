// Package arena provides a bump-pointer Backend over a fixed byte region.
//
// Allocation is O(1): the bump pointer is aligned and advanced. Free only
// reclaims space when it releases the most recent block; anything else
// becomes dead space until Reset. Realloc resizes the most recent block in
// place. When the region is exhausted Malloc returns nil, which Global
// reports as alloc.ErrAlloc.
package arena

import (
	"sync"

	"github.com/joshuapare/allockit/internal/buf"
	"github.com/joshuapare/allockit/internal/ptr"
)

// Arena is a bump allocator. It is safe for concurrent use.
type Arena struct {
	mu     sync.Mutex
	region []byte
	base   uintptr

	// off is the bump pointer: the region offset where the next block may start.
	off uintptr

	// last is the start of the most recent block. Valid while hasLast is set;
	// cleared when that block is rolled back, since earlier starts are not kept.
	last    uintptr
	hasLast bool

	// peak is the high-water mark of off. Not reset by Reset.
	peak uintptr
}

// New creates an arena with capacity bytes of backing storage.
func New(capacity int) *Arena {
	region := make([]byte, max(capacity, 0))
	return &Arena{region: region, base: ptr.Addr(region)}
}

// Malloc bumps the pointer to the next address aligned to align.
func (a *Arena) Malloc(size, align uintptr, zeroed bool) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	start, ok := buf.AddOverflowSafe(a.off, buf.PaddingFor(a.base+a.off, align))
	if !ok {
		return nil
	}
	end, ok := buf.CheckRange(ptr.Len(a.region), start, size)
	if !ok {
		return nil
	}
	b := a.region[start:end:end]
	if zeroed {
		ptr.Zero(b)
	}
	a.last, a.hasLast = start, true
	a.advance(end)
	return b
}

// Free rolls the bump pointer back when b is the most recent block.
func (a *Arena) Free(b []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start, ok := a.offsetOf(b)
	if !ok || !a.isLast(start, b) {
		return
	}
	a.off = start
	a.hasLast = false
}

// Realloc resizes the most recent block in place. Any other block, or a
// request that does not fit in the remaining region, is left to Global.
func (a *Arena) Realloc(b []byte, size, _ uintptr) ([]byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start, ok := a.offsetOf(b)
	if !ok || !a.isLast(start, b) {
		return nil, false
	}
	end, ok := buf.CheckRange(ptr.Len(a.region), start, size)
	if !ok {
		return nil, false
	}
	a.advance(end)
	return a.region[start:end:end], true
}

// Reset discards every block. Slices handed out earlier must not be used again.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.off = 0
	a.hasLast = false
}

// Len returns the number of bytes between the region start and the bump pointer.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return int(a.off)
}

// Cap returns the size of the backing region.
func (a *Arena) Cap() int {
	return len(a.region)
}

// Peak returns the highest Len observed, including before any Reset.
func (a *Arena) Peak() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return int(a.peak)
}

// offsetOf returns b's start offset within the region.
func (a *Arena) offsetOf(b []byte) (uintptr, bool) {
	addr := ptr.Addr(b)
	if addr < a.base || addr-a.base >= ptr.Len(a.region) {
		return 0, false
	}
	return addr - a.base, true
}

// isLast reports whether the block starting at start ends at the bump pointer.
func (a *Arena) isLast(start uintptr, b []byte) bool {
	return a.hasLast && start == a.last && start+uintptr(cap(b)) == a.off
}

// advance moves the bump pointer to end, which may lie below it after a
// shrinking Realloc.
func (a *Arena) advance(end uintptr) {
	a.off = end
	a.peak = max(a.peak, end)
}
