// core/screen/result.go
package screen

import (
	"oligoscreen/core/align"
	"oligoscreen/core/variant"
)

// Result is the full screening grid. It is owned by the caller.
type Result struct {
	ID               string
	TemplateName     string
	Template         string
	ReferenceCount   int
	ExclusivityCount *int // nil when no exclusivity set was screened
	Params           Params
	Alignment        align.Params
	Lengths          []LengthResult // index = OligoLength - Params.MinLength
}

// LengthResult holds every screened position for one oligo length.
type LengthResult struct {
	OligoLength int
	Positions   []PositionResult // ascending Position
}

// PositionResult is one grid cell.
type PositionResult struct {
	Position            int // 0-based window start in the template
	Variants            []variant.Variant
	Matched             int // references with an accepted alignment
	NoMatch             int
	VariantsNeeded      int
	CoverageAtThreshold float64
	Skipped             bool // no reference matched
	Differential        *DifferentialProfile
}

// Differential reports whether an exclusivity set was screened.
func (r *Result) Differential() bool { return r.ExclusivityCount != nil }

// TemplateLength is the template length in bases.
func (r *Result) TemplateLength() int { return len(r.Template) }

// Length returns the row for oligo length L, or nil.
func (r *Result) Length(L int) *LengthResult {
	i := L - r.Params.MinLength
	if i < 0 || i >= len(r.Lengths) {
		return nil
	}
	return &r.Lengths[i]
}

// Oligo returns the template window of length L starting at pos.
func (r *Result) Oligo(L, pos int) string { return r.Template[pos : pos+L] }

// Rescore recomputes the threshold-dependent fields for a new coverage
// threshold and differential ignore count without aligning anything again.
func (r *Result) Rescore(threshold float64, ignore int) error {
	if !(threshold > 0 && threshold <= 100) {
		return invalid("coverage threshold %g outside (0,100]", threshold)
	}
	if ignore < 0 {
		return invalid("ignore count %d must be ≥ 0", ignore)
	}
	r.Params.CoverageThreshold = threshold
	r.Params.IgnoreCount = ignore
	for li := range r.Lengths {
		for pi := range r.Lengths[li].Positions {
			p := &r.Lengths[li].Positions[pi]
			if !p.Skipped {
				p.VariantsNeeded, p.CoverageAtThreshold = variant.VariantsNeeded(p.Variants, p.Matched+p.NoMatch, threshold)
			}
			if p.Differential != nil {
				p.Differential.Score = p.Differential.EffectiveMinMismatches(ignore)
			}
		}
	}
	return nil
}

// LengthSummary condenses one oligo length for reporting.
type LengthSummary struct {
	OligoLength  int
	Positions    int
	Skipped      int
	MinVariants  int // fewest variants needed at any screened position; 0 if all skipped
	BestPosition int // fewest variants, then highest coverage, then leftmost; -1 if all skipped
	BestCoverage float64
}

// Summaries returns one LengthSummary per oligo length, in length order.
func (r *Result) Summaries() []LengthSummary {
	out := make([]LengthSummary, len(r.Lengths))
	for i, l := range r.Lengths {
		s := LengthSummary{OligoLength: l.OligoLength, Positions: len(l.Positions), BestPosition: -1}
		for _, p := range l.Positions {
			if p.Skipped {
				s.Skipped++
				continue
			}
			if s.BestPosition < 0 || p.VariantsNeeded < s.MinVariants ||
				(p.VariantsNeeded == s.MinVariants && p.CoverageAtThreshold > s.BestCoverage) {
				s.MinVariants, s.BestPosition, s.BestCoverage = p.VariantsNeeded, p.Position, p.CoverageAtThreshold
			}
		}
		out[i] = s
	}
	return out
}
