package alloc

import (
	"log/slog"
	"sync"

	"github.com/joshuapare/allockit/internal/ptr"
)

// entry records a live block: the slice the backend returned, the size the
// caller asked for, and the alignment it was produced with.
type entry struct {
	raw       []byte
	requested uintptr
	align     uintptr
}

// Global is the default Allocator. It delegates every non-empty request to a
// Backend and keeps a registry of live blocks so that releases and resizes
// are checked against what was actually handed out.
//
// Global is safe for concurrent use.
type Global struct {
	backend Backend
	realloc Reallocator
	log     *slog.Logger
	name    string

	mu        sync.Mutex
	live      map[Ptr]entry
	liveBytes uintptr
}

var defaultGlobal = sync.OnceValue(func() *Global {
	return NewGlobal(GoHeap{}, nil)
})

// Default returns the process-wide allocator backed by the Go heap.
func Default() *Global {
	return defaultGlobal()
}

// NewGlobal creates an allocator over b. A nil backend means GoHeap{}; nil
// opts means DefaultOptions().
func NewGlobal(b Backend, opts *Options) *Global {
	if b == nil {
		b = GoHeap{}
	}
	o := opts.withDefaults()
	g := &Global{
		backend: b,
		log:     o.Logger,
		name:    o.Name,
		live:    make(map[Ptr]entry),
	}
	if r, ok := b.(Reallocator); ok {
		g.realloc = r
	}
	return g
}

// Allocate implements Allocator.
func (g *Global) Allocate(l Layout) (Block, error) {
	return g.allocate(l, false)
}

// AllocateZeroed implements Allocator.
func (g *Global) AllocateZeroed(l Layout) (Block, error) {
	return g.allocate(l, true)
}

func (g *Global) allocate(l Layout, zeroed bool) (Block, error) {
	if !l.valid() {
		return Block{}, ErrLayout
	}
	if l.size == 0 {
		return DanglingBlock(l), nil
	}
	raw := g.backend.Malloc(l.size, l.align, zeroed)
	if raw == nil {
		g.log.Debug("backend declined allocation", "allocator", g.name, "size", l.size, "align", l.align)
		return Block{}, ErrAlloc
	}
	g.checkFresh(raw, l)
	p := g.register(raw, l)
	return Block{ptr: p, buf: raw}, nil
}

// Deallocate implements Allocator.
func (g *Global) Deallocate(p Ptr, l Layout) error {
	if !l.valid() {
		return ErrInvalidBlock
	}
	if l.size == 0 {
		if p != l.Dangling() {
			return g.reject("deallocate", p, l)
		}
		return nil
	}
	g.mu.Lock()
	e, ok := g.lookup(p, l)
	if ok {
		g.forget(p, e)
	}
	g.mu.Unlock()
	if !ok {
		return g.reject("deallocate", p, l)
	}
	g.backend.Free(e.raw)
	return nil
}

// Grow implements Allocator.
func (g *Global) Grow(p Ptr, old, newLayout Layout) (Block, error) {
	return g.grow(p, old, newLayout, false)
}

// GrowZeroed implements Allocator.
func (g *Global) GrowZeroed(p Ptr, old, newLayout Layout) (Block, error) {
	return g.grow(p, old, newLayout, true)
}

func (g *Global) grow(p Ptr, old, newLayout Layout, zeroed bool) (Block, error) {
	if !old.valid() || !newLayout.valid() || old.align != newLayout.align || newLayout.size < old.size {
		return Block{}, g.reject("grow", p, old)
	}
	if old.size == 0 {
		if p != old.Dangling() {
			return Block{}, g.reject("grow", p, old)
		}
		return g.allocate(newLayout, zeroed)
	}
	nb, err := g.resize(p, old, newLayout)
	if err != nil {
		return Block{}, err
	}
	if zeroed {
		ptr.Zero(nb.buf[old.size:])
	}
	return nb, nil
}

// Shrink implements Allocator.
func (g *Global) Shrink(p Ptr, old, newLayout Layout) (Block, error) {
	if !old.valid() || !newLayout.valid() || old.align != newLayout.align || newLayout.size > old.size {
		return Block{}, g.reject("shrink", p, old)
	}
	if newLayout.size == 0 {
		if err := g.Deallocate(p, old); err != nil {
			return Block{}, err
		}
		return DanglingBlock(newLayout), nil
	}
	return g.resize(p, old, newLayout)
}

// resize moves the live block at p to newLayout, through the backend's
// native primitive when it has one and by allocate, copy, free otherwise.
// On failure the block at p is still live.
func (g *Global) resize(p Ptr, old, newLayout Layout) (Block, error) {
	g.mu.Lock()
	e, ok := g.lookup(p, old)
	g.mu.Unlock()
	if !ok {
		return Block{}, g.reject("resize", p, old)
	}

	if g.realloc != nil {
		if raw, ok := g.realloc.Realloc(e.raw, newLayout.size, newLayout.align); ok {
			g.checkFresh(raw, newLayout)
			return g.replace(p, e, raw, newLayout), nil
		}
	}

	raw := g.backend.Malloc(newLayout.size, newLayout.align, false)
	if raw == nil {
		g.log.Debug("backend declined resize", "allocator", g.name,
			"old_size", old.size, "new_size", newLayout.size, "align", newLayout.align)
		return Block{}, ErrAlloc
	}
	g.checkFresh(raw, newLayout)
	copy(raw[:min(old.size, newLayout.size)], e.raw[:min(old.size, newLayout.size)])
	nb := g.replace(p, e, raw, newLayout)
	g.backend.Free(e.raw)
	return nb, nil
}

// Live returns the number of blocks currently handed out.
func (g *Global) Live() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.live)
}

// LiveBytes returns the total requested size of blocks currently handed out.
func (g *Global) LiveBytes() uintptr {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.liveBytes
}

func (g *Global) checkFresh(raw []byte, l Layout) {
	ptr.Assume(ptr.Len(raw) >= l.size, "backend returned %d bytes for %v", len(raw), l)
	ptr.Assume(ptr.IsAligned(ptr.Addr(raw), l.align), "backend returned misaligned block for %v", l)
}

func (g *Global) register(raw []byte, l Layout) Ptr {
	p := Ptr(ptr.Addr(raw))
	g.mu.Lock()
	defer g.mu.Unlock()
	_, dup := g.live[p]
	ptr.Assume(!dup, "backend returned live address %v", p)
	g.live[p] = entry{raw: raw, requested: l.size, align: l.align}
	g.liveBytes += l.size
	return p
}

// replace swaps the registry entry for p with the resized block.
func (g *Global) replace(p Ptr, old entry, raw []byte, l Layout) Block {
	np := Ptr(ptr.Addr(raw))
	g.mu.Lock()
	defer g.mu.Unlock()
	g.forget(p, old)
	if np != p {
		_, dup := g.live[np]
		ptr.Assume(!dup, "backend returned live address %v", np)
	}
	g.live[np] = entry{raw: raw, requested: l.size, align: l.align}
	g.liveBytes += l.size
	return Block{ptr: np, buf: raw}
}

// lookup returns the entry for p if l describes it. Callers hold g.mu.
func (g *Global) lookup(p Ptr, l Layout) (entry, bool) {
	e, ok := g.live[p]
	if !ok || e.align != l.align || l.size < e.requested || l.size > ptr.Len(e.raw) {
		return entry{}, false
	}
	return e, true
}

// forget drops p from the registry. Callers hold g.mu.
func (g *Global) forget(p Ptr, e entry) {
	delete(g.live, p)
	g.liveBytes -= e.requested
}

func (g *Global) reject(op string, p Ptr, l Layout) error {
	g.log.Debug("rejected block", "allocator", g.name, "op", op, "ptr", p, "layout", l)
	return ErrInvalidBlock
}

var _ Allocator = (*Global)(nil)
