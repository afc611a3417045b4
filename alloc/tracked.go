package alloc

import (
	"errors"
	"log/slog"
	"sync/atomic"
)

// TrackedStats is a snapshot of a Tracked allocator's counters.
type TrackedStats struct {
	Allocs    uint64 `json:"allocs"`
	Deallocs  uint64 `json:"deallocs"`
	Grows     uint64 `json:"grows"`
	Shrinks   uint64 `json:"shrinks"`
	Declined  uint64 `json:"declined"`  // ErrAlloc results
	Rejected  uint64 `json:"rejected"`  // ErrInvalidBlock and ErrLayout results
	LiveBytes int64  `json:"liveBytes"` // sum of layout sizes currently outstanding
	PeakBytes int64  `json:"peakBytes"`
}

// Tracked wraps an Allocator and counts what flows through it.
// It is safe for concurrent use when the wrapped allocator is.
type Tracked struct {
	inner Allocator
	log   *slog.Logger

	allocs, deallocs, grows, shrinks atomic.Uint64
	declined, rejected               atomic.Uint64
	live, peak                       atomic.Int64
}

// NewTracked wraps a. A nil logger discards.
func NewTracked(a Allocator, logger *slog.Logger) *Tracked {
	if logger == nil {
		logger = discardLogger()
	}
	return &Tracked{inner: a, log: logger}
}

// Allocate implements Allocator.
func (t *Tracked) Allocate(l Layout) (Block, error) {
	t.allocs.Add(1)
	b, err := t.inner.Allocate(l)
	t.settle("allocate", l, err, int64(l.size))
	return b, err
}

// AllocateZeroed implements Allocator.
func (t *Tracked) AllocateZeroed(l Layout) (Block, error) {
	t.allocs.Add(1)
	b, err := t.inner.AllocateZeroed(l)
	t.settle("allocate_zeroed", l, err, int64(l.size))
	return b, err
}

// Deallocate implements Allocator.
func (t *Tracked) Deallocate(p Ptr, l Layout) error {
	t.deallocs.Add(1)
	err := t.inner.Deallocate(p, l)
	t.settle("deallocate", l, err, -int64(l.size))
	return err
}

// Grow implements Allocator.
func (t *Tracked) Grow(p Ptr, old, newLayout Layout) (Block, error) {
	t.grows.Add(1)
	b, err := t.inner.Grow(p, old, newLayout)
	t.settle("grow", newLayout, err, int64(newLayout.size)-int64(old.size))
	return b, err
}

// GrowZeroed implements Allocator.
func (t *Tracked) GrowZeroed(p Ptr, old, newLayout Layout) (Block, error) {
	t.grows.Add(1)
	b, err := t.inner.GrowZeroed(p, old, newLayout)
	t.settle("grow_zeroed", newLayout, err, int64(newLayout.size)-int64(old.size))
	return b, err
}

// Shrink implements Allocator.
func (t *Tracked) Shrink(p Ptr, old, newLayout Layout) (Block, error) {
	t.shrinks.Add(1)
	b, err := t.inner.Shrink(p, old, newLayout)
	t.settle("shrink", newLayout, err, int64(newLayout.size)-int64(old.size))
	return b, err
}

// Stats returns a snapshot of the counters.
func (t *Tracked) Stats() TrackedStats {
	return TrackedStats{
		Allocs:    t.allocs.Load(),
		Deallocs:  t.deallocs.Load(),
		Grows:     t.grows.Load(),
		Shrinks:   t.shrinks.Load(),
		Declined:  t.declined.Load(),
		Rejected:  t.rejected.Load(),
		LiveBytes: t.live.Load(),
		PeakBytes: t.peak.Load(),
	}
}

func (t *Tracked) settle(op string, l Layout, err error, delta int64) {
	switch {
	case err == nil:
		now := t.live.Add(delta)
		for {
			peak := t.peak.Load()
			if now <= peak || t.peak.CompareAndSwap(peak, now) {
				break
			}
		}
	case errors.Is(err, ErrAlloc):
		t.declined.Add(1)
		t.log.Debug("allocation declined", "op", op, "layout", l)
	default:
		t.rejected.Add(1)
		t.log.Debug("allocation rejected", "op", op, "layout", l, "err", err)
	}
}

var _ Allocator = (*Tracked)(nil)
