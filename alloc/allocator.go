package alloc

// Allocator is the capability a collection uses to obtain, resize, and
// release memory blocks without knowing where the memory comes from.
//
// Every operation on a Layout whose size is zero is served without touching
// the backing memory source: allocation returns DanglingBlock, releasing the
// dangling pointer does nothing, and shrinking to zero releases the old block
// and returns DanglingBlock.
//
// A block must be released exactly once, through the allocator that produced
// it, with its producing Layout or a Layout whose size lies between the
// requested size and the block's usable length. Grow and Shrink never change
// alignment. On a failed Grow or Shrink the old block stays valid.
type Allocator interface {
	// Allocate returns a block of at least l.Size() bytes with unspecified contents.
	Allocate(l Layout) (Block, error)

	// AllocateZeroed is Allocate with every byte set to zero.
	AllocateZeroed(l Layout) (Block, error)

	// Deallocate releases the block at p described by l.
	Deallocate(p Ptr, l Layout) error

	// Grow returns a block of at least newLayout.Size() bytes whose first
	// old.Size() bytes equal the old block's. The old block is invalidated.
	Grow(p Ptr, old, newLayout Layout) (Block, error)

	// GrowZeroed is Grow with every byte past old.Size() set to zero.
	GrowZeroed(p Ptr, old, newLayout Layout) (Block, error)

	// Shrink returns a block of at least newLayout.Size() bytes whose first
	// newLayout.Size() bytes equal the old block's. The old block is invalidated.
	Shrink(p Ptr, old, newLayout Layout) (Block, error)
}
