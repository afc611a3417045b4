package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/internal/logger"
)

// layoutReport is the JSON shape of the layout command.
type layoutReport struct {
	Valid      bool    `json:"valid"`
	Size       uintptr `json:"size,omitempty"`
	Align      uintptr `json:"align,omitempty"`
	PaddedSize uintptr `json:"paddedSize,omitempty"`
	Dangling   string  `json:"dangling,omitempty"`
	Kind       string  `json:"kind,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func newLayoutCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "layout SIZE ALIGN",
		Short: "Validate a size/alignment pair",
		Long: `Validate a size/alignment pair the way a collection would before asking an
allocator for memory. Invalid layouts are reported as the capacity-overflow
reservation error a collection would surface.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := parseSize(args[0])
			if err != nil {
				return err
			}
			align, err := parseSize(args[1])
			if err != nil {
				return err
			}
			return runLayout(newPrinter(cmd, g), g.jsonOut, size, align)
		},
	}
}

func runLayout(p *printer, jsonOut bool, size, align uintptr) error {
	l, err := alloc.FromSizeAlign(size, align)
	if err != nil {
		if !errors.Is(err, alloc.ErrLayout) {
			return err
		}
		tre := alloc.NewTryReserveError(alloc.KindFromLayoutError(err))
		logger.L.Debug("layout rejected", "size", size, "align", align, "kind", tre.Kind())
		if jsonOut {
			if err := p.json(layoutReport{Kind: tre.Kind().String(), Error: tre.Error()}); err != nil {
				return err
			}
		}
		return fmt.Errorf("layout(%d, %d): %w", size, align, tre)
	}

	report := layoutReport{
		Valid:      true,
		Size:       l.Size(),
		Align:      l.Align(),
		PaddedSize: l.PadToAlign().Size(),
		Dangling:   l.Dangling().String(),
	}
	if jsonOut {
		return p.json(report)
	}
	p.info("%v\n", l)
	p.info("  size:     %d bytes\n", report.Size)
	p.info("  align:    %d bytes\n", report.Align)
	p.info("  padded:   %d bytes\n", report.PaddedSize)
	p.info("  dangling: %s\n", report.Dangling)
	return nil
}
