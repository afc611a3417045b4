// Package rawbuf provides Buf, the untyped storage behind a growable
// collection. It owns one block from an alloc.Allocator, measured in
// elements, and grows or shrinks it on request. Every capacity failure is
// reported as an alloc.TryReserveError value.
package rawbuf

import (
	"errors"
	"fmt"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/internal/buf"
)

// ErrShrinkLarger indicates TryShrinkTo was asked for more than the current capacity.
var ErrShrinkLarger = errors.New("rawbuf: cannot shrink to a larger capacity")

// Buf is a capacity-managed block of elements. It is not safe for concurrent use.
type Buf struct {
	a      alloc.Allocator
	elem   alloc.Layout
	blk    alloc.Block
	layout alloc.Layout
	cap    uintptr
}

// New returns an empty Buf. elem is padded to its own alignment, so the
// element size doubles as the stride.
func New(a alloc.Allocator, elem alloc.Layout) *Buf {
	elem = elem.PadToAlign()
	empty, _, err := elem.Repeat(0)
	if err != nil {
		panic(fmt.Sprintf("rawbuf: empty layout for %v: %v", elem, err))
	}
	return &Buf{a: a, elem: elem, blk: alloc.DanglingBlock(empty), layout: empty}
}

// TryWithCapacity returns a Buf holding exactly capacity elements.
func TryWithCapacity(a alloc.Allocator, elem alloc.Layout, capacity uintptr) (*Buf, error) {
	b := New(a, elem)
	if err := b.TryReserveExact(0, capacity); err != nil {
		return nil, err
	}
	return b, nil
}

// Cap returns the capacity in elements. Zero-size elements never need
// storage, so their capacity is alloc.MaxSize.
func (b *Buf) Cap() uintptr {
	if b.elem.Size() == 0 {
		return alloc.MaxSize
	}
	return b.cap
}

// Elem returns the padded element layout.
func (b *Buf) Elem() alloc.Layout { return b.elem }

// Layout returns the layout of the block currently held.
func (b *Buf) Layout() alloc.Layout { return b.layout }

// Ptr returns the address of the block currently held.
func (b *Buf) Ptr() alloc.Ptr { return b.blk.Ptr() }

// Bytes returns the storage for Cap() elements.
func (b *Buf) Bytes() []byte {
	return b.blk.Bytes()[:b.layout.Size()]
}

// TryReserve ensures room for at least additional elements beyond length,
// growing amortized so repeated pushes stay linear overall.
func (b *Buf) TryReserve(length, additional uintptr) error {
	if !b.needsToGrow(length, additional) {
		return nil
	}
	if b.elem.Size() == 0 {
		return alloc.NewTryReserveError(alloc.CapacityOverflow())
	}
	required, ok := buf.AddOverflowSafe(length, additional)
	if !ok {
		return alloc.NewTryReserveError(alloc.CapacityOverflow())
	}
	newCap := max(b.cap*2, required, minNonZeroCap(b.elem.Size()))
	return b.growTo(newCap)
}

// TryReserveExact ensures room for exactly additional elements beyond length.
func (b *Buf) TryReserveExact(length, additional uintptr) error {
	if !b.needsToGrow(length, additional) {
		return nil
	}
	if b.elem.Size() == 0 {
		return alloc.NewTryReserveError(alloc.CapacityOverflow())
	}
	required, ok := buf.AddOverflowSafe(length, additional)
	if !ok {
		return alloc.NewTryReserveError(alloc.CapacityOverflow())
	}
	return b.growTo(required)
}

// TryShrinkTo reduces the capacity to capacity elements.
func (b *Buf) TryShrinkTo(capacity uintptr) error {
	if capacity > b.Cap() {
		return ErrShrinkLarger
	}
	if b.elem.Size() == 0 || capacity == b.cap {
		return nil
	}
	if capacity == 0 {
		return b.Free()
	}
	newLayout, _, err := b.elem.Repeat(capacity)
	if err != nil {
		return alloc.NewTryReserveError(alloc.KindFromLayoutError(err))
	}
	blk, err := b.a.Shrink(b.blk.Ptr(), b.layout, newLayout)
	if err != nil {
		return b.allocFailure("shrink", newLayout, err)
	}
	b.set(blk, newLayout, capacity)
	return nil
}

// Free releases the block. The Buf is empty and reusable afterwards.
func (b *Buf) Free() error {
	if b.layout.Size() != 0 {
		if err := b.a.Deallocate(b.blk.Ptr(), b.layout); err != nil {
			return fmt.Errorf("rawbuf: free: %w", err)
		}
	}
	empty, _, _ := b.elem.Repeat(0)
	b.set(alloc.DanglingBlock(empty), empty, 0)
	return nil
}

func (b *Buf) needsToGrow(length, additional uintptr) bool {
	c := b.Cap()
	return length > c || additional > c-length
}

// growTo moves the buffer to newCap elements. Layout failures surface as
// CapacityOverflow before the allocator is asked; allocator declines surface
// as AllocError carrying the requested layout.
func (b *Buf) growTo(newCap uintptr) error {
	newLayout, _, err := b.elem.Repeat(newCap)
	if err != nil {
		return alloc.NewTryReserveError(alloc.KindFromLayoutError(err))
	}
	var blk alloc.Block
	if b.layout.Size() == 0 {
		blk, err = b.a.Allocate(newLayout)
	} else {
		blk, err = b.a.Grow(b.blk.Ptr(), b.layout, newLayout)
	}
	if err != nil {
		return b.allocFailure("grow", newLayout, err)
	}
	b.set(blk, newLayout, newCap)
	return nil
}

func (b *Buf) allocFailure(op string, l alloc.Layout, err error) error {
	if errors.Is(err, alloc.ErrAlloc) {
		return alloc.NewTryReserveError(alloc.AllocErrorKind(l))
	}
	return fmt.Errorf("rawbuf: %s: %w", op, err)
}

func (b *Buf) set(blk alloc.Block, l alloc.Layout, capacity uintptr) {
	b.blk, b.layout, b.cap = blk, l, capacity
}

// minNonZeroCap skips the tiny capacities that would only cause extra regrowth.
func minNonZeroCap(elemSize uintptr) uintptr {
	switch {
	case elemSize == 1:
		return 8
	case elemSize <= 1024:
		return 4
	default:
		return 1
	}
}
