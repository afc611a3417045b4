package alloc

// reason distinguishes the two TryReserveErrorKind variants.
type reason uint8

const (
	reasonCapacityOverflow reason = iota + 1
	reasonAllocError
)

// TryReserveErrorKind details why a capacity reservation failed: either the
// computed capacity exceeded what a Layout can describe, or the allocator
// declined a valid Layout, which is kept for diagnostics.
//
// Kinds are comparable with ==; equality covers the variant and its Layout.
type TryReserveErrorKind struct {
	reason reason
	layout Layout
}

// CapacityOverflow is the kind for capacity arithmetic exceeding MaxSize.
func CapacityOverflow() TryReserveErrorKind {
	return TryReserveErrorKind{reason: reasonCapacityOverflow}
}

// AllocErrorKind is the kind for an allocator declining l.
func AllocErrorKind(l Layout) TryReserveErrorKind {
	return TryReserveErrorKind{reason: reasonAllocError, layout: l}
}

// KindFromLayoutError maps a Layout validation failure to a reservation
// error kind. It always yields CapacityOverflow.
func KindFromLayoutError(error) TryReserveErrorKind {
	return CapacityOverflow()
}

// IsCapacityOverflow reports whether k is the CapacityOverflow variant.
func (k TryReserveErrorKind) IsCapacityOverflow() bool {
	return k.reason == reasonCapacityOverflow
}

// Layout returns the rejected Layout for the AllocError variant.
func (k TryReserveErrorKind) Layout() (Layout, bool) {
	if k.reason != reasonAllocError {
		return Layout{}, false
	}
	return k.layout, true
}

// String names the variant.
func (k TryReserveErrorKind) String() string {
	switch k.reason {
	case reasonCapacityOverflow:
		return "CapacityOverflow"
	case reasonAllocError:
		return "AllocError{layout: " + k.layout.String() + "}"
	default:
		return "TryReserveErrorKind(invalid)"
	}
}

const (
	reserveMsgPrefix   = "memory allocation failed"
	reserveMsgOverflow = " because the computed capacity exceeded the collection's maximum"
	reserveMsgAlloc    = " because the memory allocator returned a error"
)

// TryReserveError is returned by fallible capacity reservations.
// It is a comparable value; use errors.As to recover it and Kind to inspect it.
type TryReserveError struct {
	kind TryReserveErrorKind
}

// NewTryReserveError wraps kind.
func NewTryReserveError(kind TryReserveErrorKind) TryReserveError {
	return TryReserveError{kind: kind}
}

// Kind returns the details of the failure.
func (e TryReserveError) Kind() TryReserveErrorKind {
	return e.kind
}

// Error renders one of two fixed messages. Sizes are deliberately left out;
// Kind is the machine-readable channel.
func (e TryReserveError) Error() string {
	if e.kind.reason == reasonAllocError {
		return reserveMsgPrefix + reserveMsgAlloc
	}
	return reserveMsgPrefix + reserveMsgOverflow
}

// Unwrap exposes ErrAlloc for the allocator variant so errors.Is matches it.
func (e TryReserveError) Unwrap() error {
	if e.kind.reason == reasonAllocError {
		return ErrAlloc
	}
	return nil
}
