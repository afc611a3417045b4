package alloc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryReserveError_AllocError(t *testing.T) {
	l := MustLayout(1<<20, 64)
	kind := AllocErrorKind(l)
	err := NewTryReserveError(kind)

	assert.Equal(t, kind, err.Kind())
	assert.Equal(t, "memory allocation failed because the memory allocator returned a error", err.Error())
	assert.False(t, err.Kind().IsCapacityOverflow())

	got, ok := err.Kind().Layout()
	require.True(t, ok)
	assert.Equal(t, l, got)

	assert.ErrorIs(t, err, ErrAlloc)
}

func TestTryReserveError_CapacityOverflow(t *testing.T) {
	err := NewTryReserveError(CapacityOverflow())

	assert.Equal(t, "memory allocation failed because the computed capacity exceeded the collection's maximum", err.Error())
	assert.True(t, err.Kind().IsCapacityOverflow())

	_, ok := err.Kind().Layout()
	assert.False(t, ok)
	assert.NotErrorIs(t, err, ErrAlloc)
}

func TestTryReserveErrorKind_Equality(t *testing.T) {
	a := MustLayout(64, 8)
	b := MustLayout(64, 16)

	assert.Equal(t, CapacityOverflow(), CapacityOverflow())
	assert.Equal(t, AllocErrorKind(a), AllocErrorKind(a))
	assert.NotEqual(t, AllocErrorKind(a), AllocErrorKind(b), "payload takes part in equality")
	assert.NotEqual(t, CapacityOverflow(), AllocErrorKind(a))

	assert.True(t, NewTryReserveError(AllocErrorKind(a)) == NewTryReserveError(AllocErrorKind(a)))
}

func TestTryReserveError_ErrorsAs(t *testing.T) {
	l := MustLayout(32, 4)
	wrapped := fmt.Errorf("push: %w", NewTryReserveError(AllocErrorKind(l)))

	var tre TryReserveError
	require.True(t, errors.As(wrapped, &tre))
	assert.Equal(t, AllocErrorKind(l), tre.Kind())
	assert.ErrorIs(t, wrapped, ErrAlloc)
}

func TestTryReserveErrorKind_String(t *testing.T) {
	assert.Equal(t, "CapacityOverflow", CapacityOverflow().String())
	assert.Equal(t, "AllocError{layout: Layout{size: 8, align: 8}}", AllocErrorKind(MustLayout(8, 8)).String())
	assert.Equal(t, "TryReserveErrorKind(invalid)", TryReserveErrorKind{}.String())
}

func TestKindFromLayoutError(t *testing.T) {
	assert.Equal(t, CapacityOverflow(), KindFromLayoutError(ErrLayout))
	assert.Equal(t, CapacityOverflow(), KindFromLayoutError(nil))
}
