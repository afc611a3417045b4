//go:build unix

package mmap

import (
	"math"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/allockit/internal/buf"
	"github.com/joshuapare/allockit/internal/ptr"
)

// Backend maps one anonymous region per block. Safe for concurrent use.
type Backend struct {
	pageSize uintptr
}

// New returns a Backend using the system page size.
func New() (*Backend, error) {
	return &Backend{pageSize: uintptr(unix.Getpagesize())}, nil
}

// PageSize returns the mapping granularity.
func (m *Backend) PageSize() int {
	return int(m.pageSize)
}

// Malloc maps size bytes rounded up to whole pages. The returned slice has
// length size and capacity equal to the mapping length.
func (m *Backend) Malloc(size, align uintptr, _ bool) []byte {
	length, ok := m.mappingLen(size, align)
	if !ok {
		return nil
	}
	data, err := unix.Mmap(-1, 0, int(length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil
	}
	return data[:size]
}

// Free unmaps the mapping that starts at b.
func (m *Backend) Free(b []byte) {
	if cap(b) == 0 {
		return
	}
	// Munmap only fails for slices it did not map; nothing to recover.
	_ = unix.Munmap(b[:cap(b)])
}

// mappingLen returns size rounded up to whole pages.
func (m *Backend) mappingLen(size, align uintptr) (uintptr, bool) {
	if size == 0 || align > m.pageSize {
		return 0, false
	}
	length, ok := buf.AlignUp(size, m.pageSize)
	if !ok || length > math.MaxInt {
		return 0, false
	}
	return length, true
}

// resizeInPlace serves requests that keep the same number of pages.
func (m *Backend) resizeInPlace(b []byte, length, size uintptr) ([]byte, bool) {
	if length != uintptr(cap(b)) {
		return nil, false
	}
	return ptr.Prefix(b, size)
}
