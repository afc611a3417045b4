// Package mmap provides a Backend that serves every block from its own
// anonymous private mapping. Mappings are page granular and come back zeroed
// from the kernel; alignment stricter than the page size is declined.
package mmap

import "errors"

// ErrUnsupported is returned by New on platforms without anonymous mappings.
var ErrUnsupported = errors.New("mmap: anonymous mappings not supported on this platform")
