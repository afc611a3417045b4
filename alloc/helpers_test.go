package alloc

import (
	"sync/atomic"
	"testing"
)

// forbiddenBackend fails the test on any call. Used to prove a code path
// never reaches the memory source.
type forbiddenBackend struct {
	t testing.TB
}

func (f forbiddenBackend) Malloc(size, align uintptr, _ bool) []byte {
	f.t.Errorf("backend Malloc called with size=%d align=%d", size, align)
	return nil
}

func (f forbiddenBackend) Free(b []byte) {
	f.t.Errorf("backend Free called with %d bytes", len(b))
}

// countingBackend is a GoHeap without a native resize primitive that counts
// its calls, so Global has to take the allocate, copy, free path.
type countingBackend struct {
	heap    GoHeap
	mallocs atomic.Int64
	frees   atomic.Int64
}

func (c *countingBackend) Malloc(size, align uintptr, zeroed bool) []byte {
	c.mallocs.Add(1)
	return c.heap.Malloc(size, align, zeroed)
}

func (c *countingBackend) Free(b []byte) {
	c.frees.Add(1)
	c.heap.Free(b)
}

func fillPattern(b []byte) {
	for i := range b {
		b[i] = byte(i*7 + 3)
	}
}

func requirePattern(t testing.TB, b []byte, n uintptr) {
	t.Helper()
	for i := range n {
		if b[i] != byte(i*7+3) {
			t.Fatalf("byte %d = %#x, want %#x", i, b[i], byte(i*7+3))
		}
	}
}

func requireZero(t testing.TB, b []byte) {
	t.Helper()
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, v)
		}
	}
}
