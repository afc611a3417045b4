package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/internal/logger"
)

type exerciseFlags struct {
	backend backendFlags
	size    uint64
	align   uint64
	grow    uint64
	shrink  uint64
	zeroed  bool
}

// exerciseStep records one allocator call.
type exerciseStep struct {
	Op   string  `json:"op"`
	Ptr  string  `json:"ptr"`
	Size uintptr `json:"size"`
	Len  int     `json:"len"`
}

// exerciseReport is the JSON shape of the exercise command.
type exerciseReport struct {
	Backend string             `json:"backend"`
	Steps   []exerciseStep     `json:"steps"`
	Stats   alloc.TrackedStats `json:"stats"`
	Live    int                `json:"live"`
}

func newExerciseCmd(g *globalFlags) *cobra.Command {
	f := &exerciseFlags{}
	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Run an allocate/grow/shrink/deallocate cycle against a backend",
		Long: `Allocate a block, fill it with a byte pattern, grow it, verify the pattern
survived, shrink it, verify again, and release it. Any mismatch is reported as
an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExercise(newPrinter(cmd, g), g.jsonOut, f)
		},
	}
	f.backend.register(cmd)
	cmd.Flags().Uint64Var(&f.size, "size", 64, "Initial block size in bytes")
	cmd.Flags().Uint64Var(&f.align, "align", 8, "Block alignment in bytes")
	cmd.Flags().Uint64Var(&f.grow, "grow", 256, "Size to grow to")
	cmd.Flags().Uint64Var(&f.shrink, "shrink", 32, "Size to shrink to")
	cmd.Flags().BoolVar(&f.zeroed, "zeroed", false, "Use zeroing variants and verify the zeroed tail")
	return cmd
}

func runExercise(p *printer, jsonOut bool, f *exerciseFlags) error {
	tracked, global, err := f.backend.build()
	if err != nil {
		return err
	}
	initial, err := alloc.FromSizeAlign(uintptr(f.size), uintptr(f.align))
	if err != nil {
		return fmt.Errorf("initial layout: %w", err)
	}
	grown, err := alloc.FromSizeAlign(uintptr(f.grow), uintptr(f.align))
	if err != nil {
		return fmt.Errorf("grow layout: %w", err)
	}
	shrunk, err := alloc.FromSizeAlign(uintptr(f.shrink), uintptr(f.align))
	if err != nil {
		return fmt.Errorf("shrink layout: %w", err)
	}

	report := exerciseReport{Backend: f.backend.name}
	record := func(op string, l alloc.Layout, b alloc.Block) {
		report.Steps = append(report.Steps, exerciseStep{Op: op, Ptr: b.Ptr().String(), Size: l.Size(), Len: b.Len()})
		logger.L.Debug("exercise step", "op", op, "ptr", b.Ptr(), "layout", l, "len", b.Len())
	}

	allocate, grow := tracked.Allocate, tracked.Grow
	if f.zeroed {
		allocate, grow = tracked.AllocateZeroed, tracked.GrowZeroed
	}

	blk, err := allocate(initial)
	if err != nil {
		return fmt.Errorf("allocate %v: %w", initial, err)
	}
	record("allocate", initial, blk)
	fillPattern(blk.Bytes()[:initial.Size()])

	blk, err = grow(blk.Ptr(), initial, grown)
	if err != nil {
		return fmt.Errorf("grow to %v: %w", grown, err)
	}
	record("grow", grown, blk)
	if err := checkPattern(blk.Bytes(), min(initial.Size(), grown.Size())); err != nil {
		return fmt.Errorf("after grow: %w", err)
	}
	if f.zeroed {
		if err := checkZero(blk.Bytes()[initial.Size():grown.Size()]); err != nil {
			return fmt.Errorf("after grow: %w", err)
		}
	}

	blk, err = tracked.Shrink(blk.Ptr(), grown, shrunk)
	if err != nil {
		return fmt.Errorf("shrink to %v: %w", shrunk, err)
	}
	record("shrink", shrunk, blk)
	if err := checkPattern(blk.Bytes(), min(initial.Size(), shrunk.Size())); err != nil {
		return fmt.Errorf("after shrink: %w", err)
	}

	if err := tracked.Deallocate(blk.Ptr(), shrunk); err != nil {
		return fmt.Errorf("deallocate: %w", err)
	}
	record("deallocate", shrunk, alloc.Block{})

	report.Stats = tracked.Stats()
	report.Live = global.Live()
	if jsonOut {
		return p.json(report)
	}
	p.info("backend %s\n", report.Backend)
	for _, s := range report.Steps {
		p.info("  %-10s ptr=%-16s size=%d len=%d\n", s.Op, s.Ptr, s.Size, s.Len)
	}
	p.info("calls: %d allocs, %d grows, %d shrinks, %d deallocs\n",
		report.Stats.Allocs, report.Stats.Grows, report.Stats.Shrinks, report.Stats.Deallocs)
	p.info("peak: %d bytes, live blocks: %d\n", report.Stats.PeakBytes, report.Live)
	return nil
}

func fillPattern(b []byte) {
	for i := range b {
		b[i] = byte(i % 251)
	}
}

func checkPattern(b []byte, n uintptr) error {
	for i := range n {
		if b[i] != byte(i%251) {
			return fmt.Errorf("byte %d = %#x, want %#x", i, b[i], byte(i%251))
		}
	}
	return nil
}

func checkZero(b []byte) error {
	for i, v := range b {
		if v != 0 {
			return fmt.Errorf("byte %d of grown tail = %#x, want 0", i, v)
		}
	}
	return nil
}
