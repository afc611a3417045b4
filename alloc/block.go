package alloc

import (
	"fmt"

	"github.com/joshuapare/allockit/internal/ptr"
)

// Ptr is the address of a block's first byte. It doubles as the handle an
// allocator uses to find the block again on release or resize.
type Ptr uintptr

// String renders the pointer in hex.
func (p Ptr) String() string {
	return fmt.Sprintf("%#x", uintptr(p))
}

// Block is a contiguous range of memory handed out by an Allocator.
// Its usable length is at least the size of the Layout that produced it.
type Block struct {
	ptr Ptr
	buf []byte
}

// NewBlock wraps memory obtained from a backend as a Block.
func NewBlock(b []byte) Block {
	return Block{ptr: Ptr(ptr.Addr(b)), buf: b}
}

// DanglingBlock returns the empty block handed out for zero-size layouts.
func DanglingBlock(l Layout) Block {
	return Block{ptr: l.Dangling(), buf: []byte{}}
}

// Ptr returns the block's address.
func (b Block) Ptr() Ptr { return b.ptr }

// Len returns the usable length. Callers may rely only on it being at least
// the requested size.
func (b Block) Len() int { return len(b.buf) }

// Bytes returns the block's memory. The slice is invalid once the block is
// released or resized.
func (b Block) Bytes() []byte { return b.buf }
