package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/allockit/internal/logger"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose bool
	quiet   bool
	jsonOut bool
	logFile string

	closeLog func() error
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "allocctl",
		Short: "Validate memory layouts and exercise allocator backends",
		Long: `allocctl drives the allockit allocator interface from the command line.
It validates size/alignment layouts, runs allocate/grow/shrink cycles against
the Go heap, arena, slab, and mmap backends, and simulates fallible capacity
reservation until the backend declines.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			closeFn, err := logger.Init(logger.Options{
				Verbose: g.verbose && !g.quiet,
				File:    g.logFile,
				Stderr:  cmd.ErrOrStderr(),
			})
			g.closeLog = closeFn
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if g.closeLog == nil {
				return nil
			}
			return g.closeLog()
		},
	}

	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose output")
	root.PersistentFlags().
		BoolVarP(&g.quiet, "quiet", "q", false, "Suppress all output except errors")
	root.PersistentFlags().BoolVar(&g.jsonOut, "json", false, "Output in JSON format")
	root.PersistentFlags().StringVar(&g.logFile, "log-file", "", "Append JSON logs to this file")

	root.AddCommand(
		newLayoutCmd(g),
		newExerciseCmd(g),
		newReserveCmd(g),
		newVersionCmd(),
	)
	return root
}

// printer writes human output with locale-grouped numbers.
type printer struct {
	w     io.Writer
	quiet bool
	p     *message.Printer
}

func newPrinter(cmd *cobra.Command, g *globalFlags) *printer {
	return &printer{
		w:     cmd.OutOrStdout(),
		quiet: g.quiet,
		p:     message.NewPrinter(language.English),
	}
}

// info prints a message unless quiet mode is on.
func (p *printer) info(format string, args ...any) {
	if !p.quiet {
		p.p.Fprintf(p.w, format, args...)
	}
}

// json writes v as indented JSON regardless of quiet mode.
func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseSize parses a non-negative byte count that fits in uintptr.
func parseSize(s string) (uintptr, error) {
	var n uint64
	if _, err := fmt.Sscan(s, &n); err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if uint64(uintptr(n)) != n {
		return 0, fmt.Errorf("size %q exceeds the address space", s)
	}
	return uintptr(n), nil
}
