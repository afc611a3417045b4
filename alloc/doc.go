// Package alloc provides a pluggable, fallible memory-allocation interface for
// growable collections.
//
// # Overview
//
// Collections describe the memory they need with a Layout (a validated size
// and alignment), ask an Allocator for a Block of that shape, and report
// capacity failures to their own callers as a TryReserveError value instead
// of panicking.
//
// # Allocator Interface
//
// The core abstraction is the Allocator interface:
//
//   - Allocate / AllocateZeroed(layout): obtain a fresh block
//   - Deallocate(ptr, layout): release a block exactly once
//   - Grow / GrowZeroed(ptr, old, new): enlarge a block, keeping its prefix
//   - Shrink(ptr, old, new): reduce a block, keeping its prefix
//
// Zero-size layouts never reach the memory source. They are served with a
// dangling pointer equal to the layout's alignment.
//
// # Implementations
//
// Global: the default allocator. It delegates to a Backend and keeps a
// registry of live blocks, so a release with an unknown pointer or a
// mismatched layout fails with ErrInvalidBlock instead of corrupting memory.
//
//   - GoHeap: Go runtime heap (the default backend, see Default())
//   - arena.Arena: bump pointer over a fixed region
//   - slab.Slab: fixed-size slots with FIFO reuse
//   - internal/mmap: anonymous page mappings
//
// Tracked: wraps any Allocator and counts calls, failures, and live bytes.
//
// # Usage Example
//
//	l, err := alloc.FromSizeAlign(256, 8)
//	if err != nil {
//	    return alloc.NewTryReserveError(alloc.KindFromLayoutError(err))
//	}
//
//	a := alloc.Default()
//	blk, err := a.Allocate(l)
//	if err != nil {
//	    return alloc.NewTryReserveError(alloc.AllocErrorKind(l))
//	}
//	copy(blk.Bytes(), payload)
//
//	bigger := alloc.MustLayout(512, 8)
//	blk, err = a.Grow(blk.Ptr(), l, bigger)
//	...
//	err = a.Deallocate(blk.Ptr(), bigger)
//
// # Errors
//
// ErrLayout and ErrAlloc carry no detail: the caller already knows the layout
// it passed. TryReserveError renders one of two fixed messages and exposes the
// structured TryReserveErrorKind through Kind().
//
// # Thread Safety
//
// Global and Tracked are safe for concurrent use, as are all shipped backends.
//
// # Related Packages
//
//   - github.com/joshuapare/allockit/collections/rawbuf: fallible reservation on top of an Allocator
//   - github.com/joshuapare/allockit/alloc/arena: bump backend
//   - github.com/joshuapare/allockit/alloc/slab: slot backend
package alloc
