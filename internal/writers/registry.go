// internal/writers/registry.go
package writers

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"syscall"

	"oligoscreen/core/screen"
)

// Options tunes the text writers; JSON ignores them.
type Options struct {
	Header  bool // TSV and summary header row
	RevComp bool // FASTA: reverse-complement variants
}

// ResultWriter serializes one screening result.
type ResultWriter func(w io.Writer, r *screen.Result, opt Options) error

// Result writers (format → handler). Register in init() blocks.
var resultWriters = map[string]ResultWriter{}

// Register installs fn for format (idempotent last-wins).
func Register(format string, fn ResultWriter) { resultWriters[format] = fn }

// Formats lists the registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(resultWriters))
	for f := range resultWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Known reports whether a writer is registered for format.
func Known(format string) bool {
	_, ok := resultWriters[format]
	return ok
}

// Write dispatches to the writer registered for format.
func Write(format string, w io.Writer, r *screen.Result, opt Options) error {
	fn, ok := resultWriters[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(w, r, opt)
}

// IsBrokenPipe reports whether err means the reader went away, as when
// output is piped into head. Callers treat it as success.
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && errno == syscall.EPIPE {
		return true
	}
	return errors.Is(err, io.ErrClosedPipe)
}
