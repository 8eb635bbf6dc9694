// Package screen drives the alignment engine and the variant analyzer over
// every (oligo length, template position) cell of a screening grid.
package screen

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"

	"oligoscreen/core/align"
	"oligoscreen/core/fasta"
	"oligoscreen/core/variant"
)

// ErrInvalidInput is wrapped by every parameter or input validation error.
// Nothing is aligned when it is returned.
var ErrInvalidInput = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Params configures one screening run.
type Params struct {
	MinLength         int
	MaxLength         int
	Resolution        int     // step between screened positions
	CoverageThreshold float64 // percent, (0,100]
	ExcludeN          bool
	IgnoreCount       int // closest off-targets discarded by the differential score
	Method            variant.Method
	Threads           int // 0 = one worker per CPU
}

// DefaultParams returns the settings used when nothing is configured.
func DefaultParams() Params {
	return Params{
		MinLength:         18,
		MaxLength:         24,
		Resolution:        1,
		CoverageThreshold: 95,
		Method:            variant.Exact(),
	}
}

// Validate checks everything that does not depend on the input sequences.
func (p Params) Validate() error {
	switch {
	case p.MinLength < 1:
		return invalid("min length %d must be ≥ 1", p.MinLength)
	case p.MinLength > p.MaxLength:
		return invalid("min length %d exceeds max length %d", p.MinLength, p.MaxLength)
	case p.Resolution < 1:
		return invalid("resolution %d must be ≥ 1", p.Resolution)
	case !(p.CoverageThreshold > 0 && p.CoverageThreshold <= 100):
		return invalid("coverage threshold %g outside (0,100]", p.CoverageThreshold)
	case p.IgnoreCount < 0:
		return invalid("ignore count %d must be ≥ 0", p.IgnoreCount)
	case p.Threads < 0:
		return invalid("threads %d must be ≥ 0", p.Threads)
	}
	if err := p.Method.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Workers resolves Threads to a worker count.
func (p Params) Workers() int {
	if p.Threads > 0 {
		return p.Threads
	}
	return runtime.NumCPU()
}

func validateAlignment(a align.Params) error {
	switch {
	case a.Match <= 0:
		return invalid("match score %d must be > 0", a.Match)
	case a.Mismatch > 0 || a.GapOpen > 0 || a.GapExtend > 0:
		return invalid("mismatch and gap penalties must be ≤ 0")
	case a.MaxMismatches < 0:
		return invalid("max mismatches %d must be ≥ 0", a.MaxMismatches)
	}
	return nil
}

// Progress is reported after every screened position.
type Progress struct {
	OligoLength int
	LengthIndex int // 0-based
	Lengths     int
	Done        int // positions finished at this length
	Positions   int
}

// Option customizes a Screener.
type Option func(*Screener)

// WithProgress installs a hook called from worker goroutines after each
// position; it must be safe for concurrent use and should return quickly.
func WithProgress(fn func(Progress)) Option {
	return func(s *Screener) { s.progress = fn }
}

// Screener runs screening jobs. It holds no per-run state and may be reused.
type Screener struct {
	p        Params
	a        align.Params
	progress func(Progress)
}

// New validates the parameters and returns a Screener.
func New(p Params, a align.Params, opts ...Option) (*Screener, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := validateAlignment(a); err != nil {
		return nil, err
	}
	s := &Screener{p: p, a: a}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Params returns the screening parameters.
func (s *Screener) Params() Params { return s.p }

// plainBases returns the index of the first byte of seq that is not an
// upper-case A, C, G or T, or -1.
func plainBases(seq []byte) int {
	for i, b := range seq {
		switch b {
		case 'A', 'C', 'G', 'T':
		default:
			return i
		}
	}
	return -1
}

func (s *Screener) check(template fasta.Record, refs, excl []fasta.Record) error {
	if len(template.Seq) == 0 {
		return invalid("template %q is empty", template.Name)
	}
	if i := plainBases(template.Seq); i >= 0 {
		return invalid("template %q: non-ACGT symbol %q at %d", template.Name, template.Seq[i], i+1)
	}
	if s.p.MaxLength > len(template.Seq) {
		return invalid("max length %d exceeds template length %d", s.p.MaxLength, len(template.Seq))
	}
	if len(refs) == 0 {
		return invalid("no reference sequences")
	}
	for _, r := range refs {
		if i := plainBases(r.Seq); i >= 0 {
			return invalid("reference %q: non-ACGT symbol %q at %d", r.Name, r.Seq[i], i+1)
		}
	}
	for _, r := range excl {
		if i := plainBases(r.Seq); i >= 0 {
			return invalid("exclusivity %q: non-ACGT symbol %q at %d", r.Name, r.Seq[i], i+1)
		}
	}
	return nil
}

// Run screens template against refs and, when excl is non-empty, scores
// every window against the exclusivity set. Inputs are only read.
func (s *Screener) Run(template fasta.Record, refs, excl []fasta.Record) (*Result, error) {
	if err := s.check(template, refs, excl); err != nil {
		return nil, err
	}
	res := &Result{
		ID:             uuid.New().String(),
		TemplateName:   template.Name,
		Template:       string(template.Seq),
		ReferenceCount: len(refs),
		Params:         s.p,
		Alignment:      s.a,
	}
	if len(excl) > 0 {
		n := len(excl)
		res.ExclusivityCount = &n
	}

	lengths := s.p.MaxLength - s.p.MinLength + 1
	workers := s.p.Workers()
	log.Printf("screen %s: %s bp template, %s references, %s off-targets, lengths %d..%d, %d workers",
		res.ID, humanize.Comma(int64(len(template.Seq))), humanize.Comma(int64(len(refs))),
		humanize.Comma(int64(len(excl))), s.p.MinLength, s.p.MaxLength, workers)

	// One aligner per worker slot, created on first use and kept across lengths.
	aligners := make([]*align.Aligner, workers)
	scratch := make([][][]byte, workers)

	res.Lengths = make([]LengthResult, lengths)
	for li := range res.Lengths {
		L := s.p.MinLength + li
		n := (len(template.Seq)-L)/s.p.Resolution + 1
		positions := make([]PositionResult, n)
		w := min(workers, n)
		var done atomic.Int64

		err := traverse.Limit(w).Each(w, func(wi int) error {
			if aligners[wi] == nil {
				aligners[wi] = align.NewAligner(s.a)
				scratch[wi] = make([][]byte, 0, len(refs))
			}
			a := aligners[wi]
			for k := wi * n / w; k < (wi+1)*n/w; k++ {
				pos := k * s.p.Resolution
				oligo := template.Seq[pos : pos+L]
				positions[k] = s.screenWindow(a, oligo, pos, refs, excl, scratch[wi][:0])
				if s.progress != nil {
					s.progress(Progress{
						OligoLength: L,
						LengthIndex: li,
						Lengths:     lengths,
						Done:        int(done.Add(1)),
						Positions:   n,
					})
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		res.Lengths[li] = LengthResult{OligoLength: L, Positions: positions}
		log.Debug.Printf("screen %s: length %d done (%s positions)", res.ID, L, humanize.Comma(int64(n)))
	}
	return res, nil
}

// screenWindow evaluates one grid cell. matched is reusable scratch.
func (s *Screener) screenWindow(a *align.Aligner, oligo []byte, pos int, refs, excl []fasta.Record, matched [][]byte) PositionResult {
	pr := PositionResult{Position: pos}
	for _, r := range refs {
		m := a.Align(oligo, r.Seq)
		if !m.Matched {
			pr.NoMatch++
			continue
		}
		matched = append(matched, m.Subseq)
	}
	pr.Matched = len(matched)
	if pr.Matched == 0 {
		pr.Skipped = true
	} else {
		pr.Variants = variant.Analyze(matched, len(refs), s.p.Method, s.p.ExcludeN)
		pr.VariantsNeeded, pr.CoverageAtThreshold = variant.VariantsNeeded(pr.Variants, len(refs), s.p.CoverageThreshold)
	}
	if len(excl) > 0 {
		pr.Differential = profile(a, oligo, excl, s.p.IgnoreCount)
	}
	return pr
}
