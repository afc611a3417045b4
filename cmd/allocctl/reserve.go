package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/collections/rawbuf"
	"github.com/joshuapare/allockit/internal/logger"
)

type reserveFlags struct {
	backend    backendFlags
	elemSize   uint64
	elemAlign  uint64
	additional uint64
	steps      int
	exact      bool
}

// reserveReport is the JSON shape of the reserve command.
type reserveReport struct {
	Backend    string             `json:"backend"`
	Elem       string             `json:"elem"`
	Capacities []uintptr          `json:"capacities"`
	Failed     bool               `json:"failed"`
	Kind       string             `json:"kind,omitempty"`
	Error      string             `json:"error,omitempty"`
	Stats      alloc.TrackedStats `json:"stats"`
}

func newReserveCmd(g *globalFlags) *cobra.Command {
	f := &reserveFlags{}
	cmd := &cobra.Command{
		Use:   "reserve",
		Short: "Grow a buffer until the backend declines",
		Long: `Repeatedly reserve room for more elements in a raw buffer, the way a growable
collection does, and report each capacity reached. Stops at the first
reservation error or after --steps reservations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReserve(newPrinter(cmd, g), g.jsonOut, f)
		},
	}
	f.backend.register(cmd)
	cmd.Flags().Uint64Var(&f.elemSize, "elem-size", 8, "Element size in bytes")
	cmd.Flags().Uint64Var(&f.elemAlign, "elem-align", 8, "Element alignment in bytes")
	cmd.Flags().Uint64Var(&f.additional, "additional", 1, "Elements requested past the current capacity at each step")
	cmd.Flags().IntVar(&f.steps, "steps", 32, "Maximum number of reservations")
	cmd.Flags().BoolVar(&f.exact, "exact", false, "Reserve exactly instead of amortized")
	return cmd
}

func runReserve(p *printer, jsonOut bool, f *reserveFlags) error {
	tracked, _, err := f.backend.build()
	if err != nil {
		return err
	}
	elem, err := alloc.FromSizeAlign(uintptr(f.elemSize), uintptr(f.elemAlign))
	if err != nil {
		return alloc.NewTryReserveError(alloc.KindFromLayoutError(err))
	}

	rb := rawbuf.New(tracked, elem)
	report := reserveReport{Backend: f.backend.name, Elem: rb.Elem().String()}

	reserve := rb.TryReserve
	if f.exact {
		reserve = rb.TryReserveExact
	}
	for range f.steps {
		err := reserve(rb.Cap(), uintptr(f.additional))
		if err != nil {
			var tre alloc.TryReserveError
			if !errors.As(err, &tre) {
				return err
			}
			report.Failed = true
			report.Kind = tre.Kind().String()
			report.Error = tre.Error()
			logger.L.Info("reserve failed", "backend", f.backend.name, "capacity", rb.Cap(), "kind", report.Kind)
			break
		}
		report.Capacities = append(report.Capacities, rb.Cap())
	}
	if err := rb.Free(); err != nil {
		return err
	}
	report.Stats = tracked.Stats()

	if jsonOut {
		return p.json(report)
	}
	p.info("backend %s, element %s\n", report.Backend, report.Elem)
	for i, c := range report.Capacities {
		p.info("  step %d: capacity %d\n", i+1, c)
	}
	if report.Failed {
		p.info("reservation failed: %s\n", report.Error)
		p.info("  kind: %s\n", report.Kind)
	} else {
		p.info("no failure after %d steps\n", len(report.Capacities))
	}
	p.info("peak: %d bytes\n", report.Stats.PeakBytes)
	return nil
}
