package alloc

import "errors"

var (
	// ErrLayout indicates a size/alignment pair that cannot describe a block:
	// the alignment is not a power of two, or the size rounded up to the
	// alignment exceeds the address-space ceiling.
	ErrLayout = errors.New("alloc: invalid layout parameters")

	// ErrAlloc indicates the backend could not satisfy a valid request.
	ErrAlloc = errors.New("alloc: memory allocation failed")

	// ErrInvalidBlock indicates a pointer/layout pair that does not describe a
	// live block owned by this allocator, or a resize whose direction or
	// alignment does not match the operation.
	ErrInvalidBlock = errors.New("alloc: pointer and layout do not describe a live block")
)
