// internal/appcore/sink.go
package appcore

import (
	"bufio"
	"io"
	"os"

	"oligoscreen/core/screen"
	"oligoscreen/internal/cli"
	"oligoscreen/internal/writers"
)

// Sink is where a command's result goes: a format and a destination.
type Sink struct {
	Format string
	Path   string // "" or "-" = stdout
	Opt    writers.Options
}

func NewSink(o cli.Output) Sink {
	return Sink{Format: o.Format, Path: o.Out, Opt: writers.Options{Header: o.Header, RevComp: o.RevComp}}
}

// Write serializes r through a buffered writer and flushes it.
func (s Sink) Write(stdout io.Writer, r *screen.Result) error {
	dst := stdout
	var fh *os.File
	if s.Path != "" && s.Path != "-" {
		var err error
		if fh, err = os.Create(s.Path); err != nil {
			return err
		}
		defer fh.Close()
		dst = fh
	}
	bw := bufio.NewWriter(dst)
	if err := writers.Write(s.Format, bw, r, s.Opt); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if fh != nil {
		return fh.Close()
	}
	return nil
}
