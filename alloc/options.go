package alloc

import "log/slog"

const defaultName = "global"

// Options configures a Global allocator.
//
// Use DefaultOptions() for production-ready defaults.
type Options struct {
	// Logger receives debug records for declined requests and rejected releases.
	// Default: a logger that discards everything
	Logger *slog.Logger

	// Name labels this allocator in log records.
	// Default: "global"
	Name string
}

// DefaultOptions returns the default Global configuration.
func DefaultOptions() *Options {
	return &Options{
		Logger: discardLogger(),
		Name:   defaultName,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func (o *Options) withDefaults() Options {
	out := *DefaultOptions()
	if o == nil {
		return out
	}
	if o.Logger != nil {
		out.Logger = o.Logger
	}
	if o.Name != "" {
		out.Name = o.Name
	}
	return out
}
