// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"oligoscreen/core/align"
	"oligoscreen/core/screen"
	"oligoscreen/core/variant"
	"oligoscreen/internal/cliutil"
	"oligoscreen/internal/writers"
)

// Profile modes for --profile.
const (
	ProfileCPU = "cpu"
	ProfileMem = "mem"
)

// Output holds the flags shared by every command that writes a result.
type Output struct {
	Format  string
	Out     string // file; "" or "-" = stdout
	Header  bool   // true unless --no-header
	RevComp bool
}

func registerOutput(fs *pflag.FlagSet, o *Output, def string) *bool {
	fs.StringVarP(&o.Format, "output", "o", def, "output format: json | tsv | summary | fasta")
	fs.StringVar(&o.Out, "out", "", "write output to FILE instead of stdout")
	fs.BoolVar(&o.RevComp, "revcomp", false, "fasta: reverse-complement variants")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in tsv/summary")
	return &noHeader
}

func (o *Output) validate() error {
	if !writers.Known(o.Format) {
		return fmt.Errorf("invalid --output %q", o.Format)
	}
	return nil
}

// ScreenOptions holds the flags of the screen command.
type ScreenOptions struct {
	// Input
	Template    string
	References  []string
	Exclusivity []string

	// Screening grid
	MinLength  int
	MaxLength  int
	Resolution int
	Threshold  float64
	ExcludeN   bool
	Ignore     int

	// Variant method
	Method         string
	MaxAmbiguities int
	TargetPercent  int
	IncrementalMax int

	// Alignment scoring
	Match         int
	Mismatch      int
	GapOpen       int
	GapExtend     int
	MaxMismatches int

	// Performance
	Threads int
	Profile string

	Output
	OutDir string
	Quiet  bool

	noHeader *bool
}

// RegisterScreen wires the screen flags onto fs with their defaults.
func RegisterScreen(fs *pflag.FlagSet, o *ScreenOptions) {
	sp, ap := screen.DefaultParams(), align.DefaultParams()

	fs.StringVarP(&o.Template, "template", "T", "", "template FASTA (exactly one A/C/G/T sequence) [*]")
	fs.StringArrayVarP(&o.References, "references", "r", nil, "reference FASTA (repeatable, '-' = stdin) [*]")
	fs.StringArrayVarP(&o.Exclusivity, "exclusivity", "x", nil, "exclusivity (off-target) FASTA, enables differential scoring (repeatable)")

	fs.IntVar(&o.MinLength, "min-length", sp.MinLength, "minimum oligo length")
	fs.IntVar(&o.MaxLength, "max-length", sp.MaxLength, "maximum oligo length")
	fs.IntVar(&o.Resolution, "resolution", sp.Resolution, "step between screened positions")
	fs.Float64Var(&o.Threshold, "threshold", sp.CoverageThreshold, "coverage threshold (percent)")
	fs.BoolVar(&o.ExcludeN, "exclude-n", false, "never merge a position into N")
	fs.IntVar(&o.Ignore, "ignore", 0, "differential: closest off-targets to disregard")

	fs.StringVarP(&o.Method, "method", "m", variant.NoAmbiguity.String(), "variant method: none | fixed | incremental")
	fs.IntVar(&o.MaxAmbiguities, "fixed-ambiguities", 1, "fixed: ambiguity budget per variant")
	fs.IntVar(&o.TargetPercent, "target", 50, "incremental: coverage of the remaining pool per variant (percent)")
	fs.IntVar(&o.IncrementalMax, "incremental-max", -1, "incremental: ambiguity cap (-1 = unlimited)")

	fs.IntVar(&o.Match, "match", ap.Match, "alignment match score")
	fs.IntVar(&o.Mismatch, "mismatch", ap.Mismatch, "alignment mismatch score")
	fs.IntVar(&o.GapOpen, "gap-open", ap.GapOpen, "alignment gap open score")
	fs.IntVar(&o.GapExtend, "gap-extend", ap.GapExtend, "alignment gap extend score")
	fs.IntVar(&o.MaxMismatches, "mismatches", ap.MaxMismatches, "max mismatches for an accepted match")

	fs.IntVarP(&o.Threads, "threads", "t", 0, "worker threads (0 = all CPUs)")
	fs.StringVar(&o.Profile, "profile", "", "write a cpu | mem profile to the working directory")

	o.noHeader = registerOutput(fs, &o.Output, "summary")
	fs.StringVar(&o.OutDir, "out-dir", "", "also save the JSON result as DIR/<template>_<id>.json")
	fs.BoolVarP(&o.Quiet, "quiet", "q", false, "no progress bar or log lines")
}

// AfterParse adds positional reference files and validates.
func (o *ScreenOptions) AfterParse(posArgs []string) error {
	if o.noHeader != nil {
		o.Header = !*o.noHeader
	}
	if len(posArgs) > 0 {
		exp, err := cliutil.ExpandPositionals(posArgs)
		if err != nil {
			return err
		}
		o.References = append(o.References, exp...)
	}
	return o.Validate()
}

// Validate applies the CLI rules. Parameter ranges the engine checks
// itself are left to Params.
func (o *ScreenOptions) Validate() error {
	switch {
	case o.Template == "":
		return errors.New("--template is required")
	case len(o.References) == 0:
		return errors.New("at least one --references file is required")
	case cliutil.CountStdin([]string{o.Template}, o.References, o.Exclusivity) > 1:
		return errors.New("stdin ('-') can be used for one input only")
	case o.Threads < 0:
		return errors.New("--threads must be ≥ 0")
	}
	switch o.Profile {
	case "", ProfileCPU, ProfileMem:
	default:
		return fmt.Errorf("invalid --profile %q", o.Profile)
	}
	if _, err := variant.ParseKind(o.Method); err != nil {
		return err
	}
	return o.Output.validate()
}

// Params maps the options onto engine parameters and validates them.
func (o *ScreenOptions) Params() (screen.Params, align.Params, error) {
	kind, err := variant.ParseKind(o.Method)
	if err != nil {
		return screen.Params{}, align.Params{}, fmt.Errorf("%w: %v", screen.ErrInvalidInput, err)
	}
	m := variant.Method{Kind: kind, IncrementalMax: -1}
	switch kind {
	case variant.FixedAmbiguity:
		m = variant.Fixed(o.MaxAmbiguities)
	case variant.Incremental:
		m = variant.Stepwise(o.TargetPercent, o.IncrementalMax)
	}
	p := screen.Params{
		MinLength:         o.MinLength,
		MaxLength:         o.MaxLength,
		Resolution:        o.Resolution,
		CoverageThreshold: o.Threshold,
		ExcludeN:          o.ExcludeN,
		IgnoreCount:       o.Ignore,
		Method:            m,
		Threads:           o.Threads,
	}
	a := align.Params{
		Match:         o.Match,
		Mismatch:      o.Mismatch,
		GapOpen:       o.GapOpen,
		GapExtend:     o.GapExtend,
		MaxMismatches: o.MaxMismatches,
	}
	if err := p.Validate(); err != nil {
		return p, a, err
	}
	return p, a, nil
}

// RescoreOptions holds the flags of the rescore command.
type RescoreOptions struct {
	Results   string
	Threshold float64
	Ignore    int
	Output

	noHeader *bool
}

// RegisterRescore wires the rescore flags onto fs. A negative --threshold or
// --ignore keeps the value stored in the result.
func RegisterRescore(fs *pflag.FlagSet, o *RescoreOptions) {
	fs.StringVar(&o.Results, "results", "", "saved JSON result [*]")
	fs.Float64Var(&o.Threshold, "threshold", -1, "new coverage threshold (percent)")
	fs.IntVar(&o.Ignore, "ignore", -1, "new differential ignore count")
	o.noHeader = registerOutput(fs, &o.Output, "tsv")
}

func (o *RescoreOptions) AfterParse(posArgs []string) error {
	if o.noHeader != nil {
		o.Header = !*o.noHeader
	}
	if o.Results == "" && len(posArgs) == 1 {
		o.Results = posArgs[0]
	} else if len(posArgs) > 0 {
		return fmt.Errorf("unexpected arguments %q", posArgs)
	}
	return o.Validate()
}

func (o *RescoreOptions) Validate() error {
	if o.Results == "" {
		return errors.New("--results is required")
	}
	if o.Threshold == 0 || o.Threshold > 100 {
		return fmt.Errorf("--threshold %g outside (0,100]", o.Threshold)
	}
	return o.Output.validate()
}

// ServeOptions holds the flags of the serve command.
type ServeOptions struct {
	Addr    string
	OutDir  string
	Threads int
	Retain  int
}

func RegisterServe(fs *pflag.FlagSet, o *ServeOptions) {
	fs.StringVar(&o.Addr, "addr", ":8080", "listen address")
	fs.StringVar(&o.OutDir, "out-dir", "", "auto-save finished jobs as DIR/<template>_<id>.json")
	fs.IntVarP(&o.Threads, "threads", "t", 0, "worker threads per job (0 = all CPUs)")
	fs.IntVar(&o.Retain, "retain", 100, "finished jobs kept in memory")
}

func (o *ServeOptions) Validate() error {
	switch {
	case o.Addr == "":
		return errors.New("--addr is required")
	case o.Threads < 0:
		return errors.New("--threads must be ≥ 0")
	case o.Retain < 1:
		return errors.New("--retain must be ≥ 1")
	}
	return nil
}
