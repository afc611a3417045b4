package alloc

import (
	"github.com/joshuapare/allockit/internal/buf"
	"github.com/joshuapare/allockit/internal/ptr"
)

// Backend is the raw memory source behind Global. It speaks plain sizes and
// byte slices; Global handles layouts, zero-size requests, and ownership.
//
// Implementations must be safe for concurrent use.
type Backend interface {
	// Malloc returns at least size bytes starting at an address aligned to
	// align, or nil when the request cannot be satisfied. size is never zero.
	// When zeroed is set every returned byte must be zero.
	Malloc(size, align uintptr, zeroed bool) []byte

	// Free releases a slice previously returned by Malloc or Realloc.
	Free(b []byte)
}

// Reallocator is implemented by backends with a native resize primitive.
//
// Realloc resizes b to at least size bytes, preserving the common prefix.
// It returns ok = false when it cannot serve the request, in which case b is
// untouched and Global falls back to allocate, copy, and free.
type Reallocator interface {
	Realloc(b []byte, size, align uintptr) ([]byte, bool)
}

// GoHeap delegates to the Go runtime heap. Memory is reclaimed by the garbage
// collector once Global drops its reference, so Free is a no-op.
type GoHeap struct {
	// MaxBytes caps a single request. Larger requests are declined.
	// Default: MaxSize
	MaxBytes uintptr
}

// Malloc over-allocates by align-1 bytes and returns the aligned window.
func (h GoHeap) Malloc(size, align uintptr, _ bool) (b []byte) {
	limit := h.MaxBytes
	if limit == 0 {
		limit = MaxSize
	}
	total, ok := buf.AddOverflowSafe(size, align-1)
	if !ok || size > limit || total > MaxSize {
		return nil
	}
	// make panics on lengths the runtime refuses; report those as a decline.
	defer func() {
		if recover() != nil {
			b = nil
		}
	}()
	raw := make([]byte, total)
	shift := buf.PaddingFor(ptr.Addr(raw), align)
	return raw[shift : shift+size : total]
}

// Free is a no-op; the garbage collector owns reclamation.
func (GoHeap) Free([]byte) {}

// Realloc resizes in place when the slice's capacity already covers size.
func (h GoHeap) Realloc(b []byte, size, _ uintptr) ([]byte, bool) {
	if h.MaxBytes != 0 && size > h.MaxBytes {
		return nil, false
	}
	return ptr.Prefix(b, size)
}

var (
	_ Backend     = GoHeap{}
	_ Reallocator = GoHeap{}
)
