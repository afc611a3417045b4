//go:build !unix

package mmap

// Backend is unavailable on this platform.
type Backend struct{}

// New reports ErrUnsupported.
func New() (*Backend, error) {
	return nil, ErrUnsupported
}

// PageSize returns 0.
func (*Backend) PageSize() int { return 0 }

// Malloc always declines.
func (*Backend) Malloc(uintptr, uintptr, bool) []byte { return nil }

// Free does nothing.
func (*Backend) Free([]byte) {}

// Realloc always declines.
func (*Backend) Realloc([]byte, uintptr, uintptr) ([]byte, bool) { return nil, false }
