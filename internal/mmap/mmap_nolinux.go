//go:build unix && !linux

package mmap

// Realloc resizes only within the pages already mapped; anything else is
// served by allocate, copy, and free.
func (m *Backend) Realloc(b []byte, size, align uintptr) ([]byte, bool) {
	length, ok := m.mappingLen(size, align)
	if !ok {
		return nil, false
	}
	return m.resizeInPlace(b, length, size)
}
