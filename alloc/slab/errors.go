package slab

import "errors"

var (
	// ErrSlotSize indicates a non-positive slot size.
	ErrSlotSize = errors.New("slab: slot size must be positive")

	// ErrSlotCount indicates a non-positive slot count.
	ErrSlotCount = errors.New("slab: slot count must be positive")

	// ErrAlign indicates a slot alignment that is not a power of two.
	ErrAlign = errors.New("slab: alignment must be a power of two")

	// ErrTooLarge indicates slotSize * slots does not fit in the address space.
	ErrTooLarge = errors.New("slab: region too large")
)
