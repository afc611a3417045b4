//go:build linux

package mmap

import "golang.org/x/sys/unix"

// Realloc remaps the block, letting the kernel move it when it cannot grow
// in place.
func (m *Backend) Realloc(b []byte, size, align uintptr) ([]byte, bool) {
	length, ok := m.mappingLen(size, align)
	if !ok || cap(b) == 0 {
		return nil, false
	}
	if out, ok := m.resizeInPlace(b, length, size); ok {
		return out, true
	}
	data, err := unix.Mremap(b[:cap(b)], int(length), unix.MREMAP_MAYMOVE)
	if err != nil {
		return nil, false
	}
	return data[:size], true
}
