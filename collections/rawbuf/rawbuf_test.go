package rawbuf

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/alloc/arena"
)

func TestBuf_AmortizedGrowth(t *testing.T) {
	g := alloc.NewGlobal(alloc.GoHeap{}, nil)
	b := New(g, alloc.MustLayout(8, 8))
	assert.Zero(t, b.Cap())
	assert.Equal(t, alloc.MustLayout(0, 8).Dangling(), b.Ptr())

	require.NoError(t, b.TryReserve(0, 1))
	assert.Equal(t, uintptr(4), b.Cap(), "minimum non-zero capacity for 8-byte elements")

	copy(b.Bytes(), "abcdefgh")
	require.NoError(t, b.TryReserve(4, 1))
	assert.Equal(t, uintptr(8), b.Cap(), "capacity doubles")
	assert.Equal(t, "abcdefgh", string(b.Bytes()[:8]), "contents survive growth")

	require.NoError(t, b.TryReserve(8, 100))
	assert.Equal(t, uintptr(108), b.Cap(), "large requests win over doubling")
	assert.Len(t, b.Bytes(), 108*8)

	require.NoError(t, b.TryReserve(50, 10), "fits already")
	assert.Equal(t, uintptr(108), b.Cap())

	require.NoError(t, b.Free())
	assert.Zero(t, b.Cap())
	assert.Zero(t, g.Live())
}

func TestBuf_MinNonZeroCap(t *testing.T) {
	tests := []struct {
		elem alloc.Layout
		want uintptr
	}{
		{alloc.MustLayout(1, 1), 8},
		{alloc.MustLayout(16, 8), 4},
		{alloc.MustLayout(1024, 8), 4},
		{alloc.MustLayout(2048, 8), 1},
	}
	for _, tt := range tests {
		b := New(alloc.Default(), tt.elem)
		require.NoError(t, b.TryReserve(0, 1))
		assert.Equal(t, tt.want, b.Cap(), "elem %v", tt.elem)
		require.NoError(t, b.Free())
	}
}

func TestBuf_ReserveExact(t *testing.T) {
	b, err := TryWithCapacity(alloc.Default(), alloc.MustLayout(3, 1), 5)
	require.NoError(t, err)
	assert.Equal(t, uintptr(5), b.Cap())
	assert.Equal(t, alloc.MustLayout(15, 1), b.Layout())

	require.NoError(t, b.TryReserveExact(5, 2))
	assert.Equal(t, uintptr(7), b.Cap())
	require.NoError(t, b.Free())
}

func TestBuf_ElemPaddedToAlign(t *testing.T) {
	b := New(alloc.Default(), alloc.MustLayout(6, 4))
	assert.Equal(t, alloc.MustLayout(8, 4), b.Elem())
	require.NoError(t, b.TryReserveExact(0, 3))
	assert.Equal(t, uintptr(24), b.Layout().Size())
	require.NoError(t, b.Free())
}

func TestBuf_CapacityOverflow(t *testing.T) {
	g := alloc.NewGlobal(alloc.GoHeap{}, nil)
	b := New(g, alloc.MustLayout(16, 8))

	tests := []struct {
		name               string
		length, additional uintptr
	}{
		{"length plus additional wraps", 1, ^uintptr(0)},
		{"array layout exceeds ceiling", 0, alloc.MaxSize/16 + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.TryReserveExact(tt.length, tt.additional)
			var tre alloc.TryReserveError
			require.True(t, errors.As(err, &tre))
			assert.True(t, tre.Kind().IsCapacityOverflow())
			assert.Equal(t, "memory allocation failed because the computed capacity exceeded the collection's maximum", err.Error())
		})
	}
	assert.Zero(t, g.Live(), "overflow is detected before the allocator is asked")
}

func TestBuf_AllocErrorCarriesLayout(t *testing.T) {
	g := alloc.NewGlobal(arena.New(200), nil)
	b := New(g, alloc.MustLayout(8, 8))

	require.NoError(t, b.TryReserveExact(0, 16))
	copy(b.Bytes(), "survives")

	err := b.TryReserve(16, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, alloc.ErrAlloc)

	var tre alloc.TryReserveError
	require.True(t, errors.As(err, &tre))
	l, ok := tre.Kind().Layout()
	require.True(t, ok)
	assert.Equal(t, alloc.MustLayout(32*8, 8), l, "doubling asked for 32 elements")
	assert.Equal(t, "memory allocation failed because the memory allocator returned a error", err.Error())

	assert.Equal(t, uintptr(16), b.Cap(), "failed reservation keeps the old buffer")
	assert.Equal(t, "survives", string(b.Bytes()[:8]))
	require.NoError(t, b.Free())
	assert.Zero(t, g.Live())
}

func TestBuf_SharedArenaKeepsBuffersApart(t *testing.T) {
	ar := arena.New(1024)
	g := alloc.NewGlobal(ar, nil)
	first := New(g, alloc.MustLayout(8, 8))
	second := New(g, alloc.MustLayout(8, 8))

	require.NoError(t, first.TryReserveExact(0, 4))
	require.NoError(t, second.TryReserveExact(0, 4))
	assert.NotEqual(t, first.Ptr(), second.Ptr())
	assert.Equal(t, 64, ar.Len())

	copy(first.Bytes(), bytes.Repeat([]byte{'a'}, 32))
	copy(second.Bytes(), bytes.Repeat([]byte{'b'}, 32))

	require.NoError(t, second.TryReserveExact(4, 4))
	assert.Equal(t, 96, ar.Len(), "most recent buffer grows in place")

	require.NoError(t, first.TryReserveExact(4, 4))
	assert.Equal(t, 160, ar.Len(), "older buffer moves past the newer one")

	assert.Equal(t, bytes.Repeat([]byte{'a'}, 32), first.Bytes()[:32])
	assert.Equal(t, bytes.Repeat([]byte{'b'}, 32), second.Bytes()[:32])
	assert.Equal(t, 2, g.Live())

	require.NoError(t, first.Free())
	require.NoError(t, second.Free())
	assert.Zero(t, g.Live())
}

func TestBuf_ZeroSizedElements(t *testing.T) {
	g := alloc.NewGlobal(nil, nil)
	b := New(g, alloc.MustLayout(0, 4))

	assert.Equal(t, alloc.MaxSize, b.Cap())
	require.NoError(t, b.TryReserve(1000, 1000))
	assert.Zero(t, g.Live())

	err := b.TryReserve(alloc.MaxSize, 1)
	var tre alloc.TryReserveError
	require.True(t, errors.As(err, &tre))
	assert.True(t, tre.Kind().IsCapacityOverflow())

	require.NoError(t, b.TryShrinkTo(0))
	require.NoError(t, b.Free())
}

func TestBuf_ShrinkTo(t *testing.T) {
	g := alloc.NewGlobal(alloc.GoHeap{}, nil)
	b, err := TryWithCapacity(g, alloc.MustLayout(4, 4), 64)
	require.NoError(t, err)
	copy(b.Bytes(), "0123456789")

	require.ErrorIs(t, b.TryShrinkTo(65), ErrShrinkLarger)

	require.NoError(t, b.TryShrinkTo(3))
	assert.Equal(t, uintptr(3), b.Cap())
	assert.Equal(t, "0123456789", string(b.Bytes()[:10]))
	assert.Equal(t, uintptr(12), g.LiveBytes())

	require.NoError(t, b.TryShrinkTo(0))
	assert.Zero(t, b.Cap())
	assert.Zero(t, g.Live())
}

func TestBuf_PushLoopOnTrackedAllocator(t *testing.T) {
	tr := alloc.NewTracked(alloc.NewGlobal(nil, nil), nil)
	b := New(tr, alloc.ForType[uint32]())

	var length uintptr
	for range 1000 {
		require.NoError(t, b.TryReserve(length, 1))
		length++
	}
	assert.GreaterOrEqual(t, b.Cap(), uintptr(1000))
	require.NoError(t, b.Free())

	stats := tr.Stats()
	assert.Equal(t, uint64(1), stats.Allocs)
	assert.Less(t, stats.Grows, uint64(16), "amortized growth keeps regrowth logarithmic")
	assert.Zero(t, stats.LiveBytes)
}
