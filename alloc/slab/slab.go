// Package slab provides a fixed-slot Backend.
//
// A Slab carves one aligned region into equally sized slots. Released slots
// go to the back of a FIFO queue and are handed out oldest-first, which
// spreads reuse across the region. Requests larger than a slot, or aligned
// more strictly than the slot alignment, are declined.
package slab

import (
	"math"
	"sync"

	"github.com/eapache/queue"

	"github.com/joshuapare/allockit/internal/buf"
	"github.com/joshuapare/allockit/internal/ptr"
)

// Slab is a fixed-slot allocator. It is safe for concurrent use.
type Slab struct {
	mu     sync.Mutex
	region []byte
	base   uintptr

	slotSize uintptr
	stride   uintptr
	align    uintptr
	inUse    []bool

	// free holds the indices (int) of released slots in release order.
	free *queue.Queue
}

// New creates a slab of slots slots, each slotSize bytes and aligned to align.
func New(slotSize, slots int, align uintptr) (*Slab, error) {
	if slotSize <= 0 {
		return nil, ErrSlotSize
	}
	if slots <= 0 {
		return nil, ErrSlotCount
	}
	if !buf.IsPowerOfTwo(align) {
		return nil, ErrAlign
	}
	stride, ok := buf.AlignUp(uintptr(slotSize), align)
	if !ok {
		return nil, ErrTooLarge
	}
	total, ok := buf.MulOverflowSafe(stride, uintptr(slots))
	if !ok {
		return nil, ErrTooLarge
	}
	padded, ok := buf.AddOverflowSafe(total, align-1)
	if !ok || padded > math.MaxInt {
		return nil, ErrTooLarge
	}

	raw := make([]byte, padded)
	shift := buf.PaddingFor(ptr.Addr(raw), align)
	region := raw[shift : shift+total : shift+total]

	s := &Slab{
		region:   region,
		base:     ptr.Addr(region),
		slotSize: uintptr(slotSize),
		stride:   stride,
		align:    align,
		inUse:    make([]bool, slots),
		free:     queue.New(),
	}
	for i := range slots {
		s.free.Add(i)
	}
	return s, nil
}

// Malloc hands out the oldest free slot.
func (s *Slab) Malloc(size, align uintptr, zeroed bool) []byte {
	if size > s.slotSize || align > s.align {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.free.Length() == 0 {
		return nil
	}
	idx := s.free.Remove().(int)
	s.inUse[idx] = true

	b := s.slot(idx)[:size]
	if zeroed {
		ptr.Zero(b)
	}
	return b
}

// Free returns b's slot to the back of the queue. Releasing a slot that is
// already free is ignored.
func (s *Slab) Free(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indexOf(b)
	if !ok || !s.inUse[idx] {
		return
	}
	s.inUse[idx] = false
	s.free.Add(idx)
}

// Realloc resizes within the slot.
func (s *Slab) Realloc(b []byte, size, align uintptr) ([]byte, bool) {
	if size > s.slotSize || align > s.align {
		return nil, false
	}
	return ptr.Prefix(b, size)
}

// SlotSize returns the largest request a slot can serve.
func (s *Slab) SlotSize() int {
	return int(s.slotSize)
}

// Slots returns the total number of slots.
func (s *Slab) Slots() int {
	return len(s.inUse)
}

// Available returns the number of free slots.
func (s *Slab) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.free.Length()
}

func (s *Slab) slot(idx int) []byte {
	start := uintptr(idx) * s.stride
	return s.region[start : start+s.slotSize : start+s.slotSize]
}

func (s *Slab) indexOf(b []byte) (int, bool) {
	addr := ptr.Addr(b)
	if addr < s.base {
		return 0, false
	}
	off := addr - s.base
	if off%s.stride != 0 || off/s.stride >= uintptr(len(s.inUse)) {
		return 0, false
	}
	return int(off / s.stride), true
}
