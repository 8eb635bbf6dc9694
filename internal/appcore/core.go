// internal/appcore/core.go
package appcore

import (
	"context"
	"errors"
	"fmt"
	"io"
	golog "log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/grailbio/base/log"
	"github.com/pkg/profile"
	"golang.org/x/sync/errgroup"

	"oligoscreen/core/fasta"
	"oligoscreen/core/screen"
	"oligoscreen/internal/cli"
	"oligoscreen/internal/output"
	"oligoscreen/internal/runutil"
	"oligoscreen/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2 // bad flags, invalid parameters or input
	ExitRuntime  = 3 // I/O and everything else
	ExitCanceled = 130
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.Is(err, screen.ErrInvalidInput), errors.Is(err, fasta.ErrFormat):
		return ExitUsage
	}
	return ExitRuntime
}

// SetupLog routes log output (grailbio/base/log writes through the standard
// logger) to stderr, or discards it when quiet.
func SetupLog(stderr io.Writer, quiet bool) {
	if quiet {
		golog.SetOutput(io.Discard)
		return
	}
	golog.SetOutput(stderr)
}

// Inputs names the FASTA files of one screening run.
type Inputs struct {
	Template    string
	References  []string
	Exclusivity []string
}

// Loaded holds parsed inputs. References and Exclusivity keep file order.
type Loaded struct {
	Template    fasta.Record
	References  []fasta.Record
	Exclusivity []fasta.Record
}

// LoadInputs reads every input file concurrently and concatenates the
// reference and exclusivity sets in the order given.
func LoadInputs(ctx context.Context, in Inputs) (*Loaded, error) {
	g, gctx := errgroup.WithContext(ctx)
	var l Loaded
	g.Go(func() error {
		t, err := fasta.LoadTemplate(gctx, in.Template)
		l.Template = t
		return err
	})
	refs := make([][]fasta.Record, len(in.References))
	for i, path := range in.References {
		i, path := i, path
		g.Go(func() error {
			recs, err := fasta.LoadSequences(gctx, path)
			refs[i] = recs
			return err
		})
	}
	excl := make([][]fasta.Record, len(in.Exclusivity))
	for i, path := range in.Exclusivity {
		i, path := i, path
		g.Go(func() error {
			recs, err := fasta.LoadSequences(gctx, path)
			excl[i] = recs
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, r := range refs {
		l.References = append(l.References, r...)
	}
	for _, r := range excl {
		l.Exclusivity = append(l.Exclusivity, r...)
	}
	return &l, nil
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintln(stderr, "error:", err)
	return ExitCode(err)
}

// RunScreen executes the screen command.
func RunScreen(ctx context.Context, stdout, stderr io.Writer, o cli.ScreenOptions) int {
	p, a, err := o.Params()
	if err != nil {
		return fail(stderr, err)
	}
	SetupLog(stderr, o.Quiet)

	switch o.Profile {
	case cli.ProfileCPU:
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	case cli.ProfileMem:
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet).Stop()
	}

	start := time.Now()
	in, err := LoadInputs(ctx, Inputs{Template: o.Template, References: o.References, Exclusivity: o.Exclusivity})
	if err != nil {
		return fail(stderr, err)
	}
	log.Printf("loaded template %s (%s bp), %s references, %s exclusivity sequences",
		in.Template.Name, humanize.Comma(int64(in.Template.Len())),
		humanize.Comma(int64(len(in.References))), humanize.Comma(int64(len(in.Exclusivity))))

	var opts []screen.Option
	var bar *progressBar
	if !o.Quiet && p.MaxLength <= in.Template.Len() {
		bar = newProgressBar(stderr, TotalPositions(in.Template.Len(), p))
		opts = append(opts, screen.WithProgress(bar.update))
	}
	s, err := screen.New(p, a, opts...)
	if err != nil {
		return fail(stderr, err)
	}

	res, err := runScreen(ctx, s, in)
	bar.finish()
	if err != nil {
		return fail(stderr, err)
	}
	log.Printf("screen %s finished in %s", res.ID, time.Since(start).Round(time.Millisecond))

	if o.OutDir != "" {
		if err := os.MkdirAll(o.OutDir, 0o755); err != nil {
			return fail(stderr, err)
		}
		path := runutil.AutoSavePath(o.OutDir, res.TemplateName, res.ID)
		if err := output.SaveJSON(path, res); err != nil {
			return fail(stderr, err)
		}
		log.Printf("saved %s", path)
	}
	return emit(stdout, stderr, NewSink(o.Output), res)
}

// runScreen runs s to completion in the background. On cancellation the
// caller gets ctx.Err() at once and the result is discarded.
func runScreen(ctx context.Context, s *screen.Screener, in *Loaded) (*screen.Result, error) {
	type outcome struct {
		res *screen.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := s.Run(in.Template, in.References, in.Exclusivity)
		done <- outcome{res, err}
	}()
	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RunRescore executes the rescore command.
func RunRescore(ctx context.Context, stdout, stderr io.Writer, o cli.RescoreOptions) int {
	if err := ctx.Err(); err != nil {
		return fail(stderr, err)
	}
	res, err := output.LoadJSON(o.Results)
	if err != nil {
		return fail(stderr, err)
	}
	threshold, ignore := res.Params.CoverageThreshold, res.Params.IgnoreCount
	if o.Threshold > 0 {
		threshold = o.Threshold
	}
	if o.Ignore >= 0 {
		ignore = o.Ignore
	}
	if err := res.Rescore(threshold, ignore); err != nil {
		return fail(stderr, err)
	}
	return emit(stdout, stderr, NewSink(o.Output), res)
}

func emit(stdout, stderr io.Writer, sink Sink, res *screen.Result) int {
	if err := sink.Write(stdout, res); writers.IsBrokenPipe(err) {
		return ExitOK
	} else if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitRuntime
	}
	return ExitOK
}

// TotalPositions counts the grid cells a run with p visits on a template of
// length n.
func TotalPositions(n int, p screen.Params) int {
	total := 0
	for L := p.MinLength; L <= p.MaxLength && L <= n; L++ {
		total += (n-L)/p.Resolution + 1
	}
	return total
}
