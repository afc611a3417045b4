package alloc

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/joshuapare/allockit/internal/buf"
	"github.com/joshuapare/allockit/internal/ptr"
)

// MaxSize is the address-space ceiling: the largest signed offset on the
// target platform. A Layout's size rounded up to its alignment never exceeds it.
const MaxSize = uintptr(math.MaxInt)

// Layout describes the shape of a memory block: its size in bytes and its
// alignment. Layouts are immutable values; every constructor validates.
//
// The zero Layout is not valid. Use FromSizeAlign or one of the typed helpers.
type Layout struct {
	size  uintptr
	align uintptr
}

// FromSizeAlign validates size and align against MaxSize.
// It returns ErrLayout when align is not a power of two or when size,
// rounded up to align, exceeds MaxSize.
func FromSizeAlign(size, align uintptr) (Layout, error) {
	return FromSizeAlignLimit(size, align, MaxSize)
}

// FromSizeAlignLimit is FromSizeAlign with an explicit address-space ceiling.
func FromSizeAlignLimit(size, align, limit uintptr) (Layout, error) {
	if !buf.IsPowerOfTwo(align) {
		return Layout{}, ErrLayout
	}
	rounded, ok := buf.AlignUp(size, align)
	if !ok || rounded > limit {
		return Layout{}, ErrLayout
	}
	return Layout{size: size, align: align}, nil
}

// MustLayout is like FromSizeAlign but panics on invalid input.
func MustLayout(size, align uintptr) Layout {
	l, err := FromSizeAlign(size, align)
	if err != nil {
		panic(fmt.Sprintf("alloc: MustLayout(%d, %d): %v", size, align, err))
	}
	return l
}

// ForType returns the layout of a value of type T.
func ForType[T any]() Layout {
	var zero T
	return Layout{size: unsafe.Sizeof(zero), align: unsafe.Alignof(zero)}
}

// ArrayOf returns the layout of n contiguous values of type T.
func ArrayOf[T any](n uintptr) (Layout, error) {
	l, _, err := ForType[T]().Repeat(n)
	return l, err
}

// Size returns the size in bytes.
func (l Layout) Size() uintptr { return l.size }

// Align returns the alignment in bytes.
func (l Layout) Align() uintptr { return l.align }

// Dangling returns the sentinel pointer for a zero-size block of this layout.
// It is non-zero and aligned, and must never be dereferenced.
func (l Layout) Dangling() Ptr {
	return Ptr(ptr.Dangling(l.align))
}

// AlignTo returns a layout with the same size and an alignment of at least align.
func (l Layout) AlignTo(align uintptr) (Layout, error) {
	return FromSizeAlign(l.size, max(l.align, align))
}

// PaddingNeededFor returns the padding to insert after l so the following
// address is a multiple of align.
func (l Layout) PaddingNeededFor(align uintptr) uintptr {
	return buf.PaddingFor(l.size, align)
}

// PadToAlign returns l with its size rounded up to a multiple of its alignment.
func (l Layout) PadToAlign() Layout {
	rounded, ok := buf.AlignUp(l.size, l.align)
	ptr.Assume(ok, "validated layout %v overflows when padded", l)
	return Layout{size: rounded, align: l.align}
}

// Repeat returns the layout of n copies of l, each padded to its alignment,
// along with the stride between copies.
func (l Layout) Repeat(n uintptr) (Layout, uintptr, error) {
	stride := l.PadToAlign().size
	total, ok := buf.MulOverflowSafe(stride, n)
	if !ok {
		return Layout{}, 0, ErrLayout
	}
	out, err := FromSizeAlign(total, l.align)
	if err != nil {
		return Layout{}, 0, err
	}
	return out, stride, nil
}

// Extend returns the layout of l followed by next, with next placed at its
// required alignment, plus the offset where next begins. The result is not
// padded to its own alignment.
func (l Layout) Extend(next Layout) (Layout, uintptr, error) {
	offset, ok := buf.AddOverflowSafe(l.size, l.PaddingNeededFor(next.align))
	if !ok {
		return Layout{}, 0, ErrLayout
	}
	size, ok := buf.AddOverflowSafe(offset, next.size)
	if !ok {
		return Layout{}, 0, ErrLayout
	}
	out, err := FromSizeAlign(size, max(l.align, next.align))
	if err != nil {
		return Layout{}, 0, err
	}
	return out, offset, nil
}

func (l Layout) valid() bool {
	return buf.IsPowerOfTwo(l.align)
}

// String renders the layout for logs.
func (l Layout) String() string {
	return fmt.Sprintf("Layout{size: %d, align: %d}", l.size, l.align)
}
