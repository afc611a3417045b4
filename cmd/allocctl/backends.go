package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/alloc/arena"
	"github.com/joshuapare/allockit/alloc/slab"
	"github.com/joshuapare/allockit/internal/logger"
	"github.com/joshuapare/allockit/internal/mmap"
)

const (
	backendGo    = "go"
	backendArena = "arena"
	backendSlab  = "slab"
	backendMmap  = "mmap"
)

// backendFlags selects and sizes the backend behind a Global allocator.
type backendFlags struct {
	name       string
	maxBytes   uint64
	arenaBytes int
	slotSize   int
	slots      int
	slotAlign  uint64
}

func (f *backendFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "backend", backendGo, "Backend: go, arena, slab, or mmap")
	cmd.Flags().Uint64Var(&f.maxBytes, "max-bytes", 0, "Per-request ceiling for the go backend (0 = none)")
	cmd.Flags().IntVar(&f.arenaBytes, "arena-bytes", 1<<20, "Region size for the arena backend")
	cmd.Flags().IntVar(&f.slotSize, "slot-size", 1024, "Slot size for the slab backend")
	cmd.Flags().IntVar(&f.slots, "slots", 64, "Slot count for the slab backend")
	cmd.Flags().Uint64Var(&f.slotAlign, "slot-align", 16, "Slot alignment for the slab backend")
}

// build returns a tracked Global over the selected backend.
func (f *backendFlags) build() (*alloc.Tracked, *alloc.Global, error) {
	var b alloc.Backend
	switch f.name {
	case backendGo:
		b = alloc.GoHeap{MaxBytes: uintptr(f.maxBytes)}
	case backendArena:
		b = arena.New(f.arenaBytes)
	case backendSlab:
		s, err := slab.New(f.slotSize, f.slots, uintptr(f.slotAlign))
		if err != nil {
			return nil, nil, err
		}
		b = s
	case backendMmap:
		m, err := mmap.New()
		if err != nil {
			return nil, nil, err
		}
		b = m
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want go, arena, slab, or mmap)", f.name)
	}
	g := alloc.NewGlobal(b, &alloc.Options{Logger: logger.L, Name: f.name})
	return alloc.NewTracked(g, logger.L), g, nil
}
