// internal/output/api.go
package output

import (
	"fmt"

	"oligoscreen/core/align"
	"oligoscreen/core/iupac"
	"oligoscreen/core/screen"
	"oligoscreen/core/variant"
	"oligoscreen/pkg/api"
)

// ToAPI converts a screening result to the stable wire schema (v1).
func ToAPI(r *screen.Result) api.ScreenResultV1 {
	v := api.ScreenResultV1{
		SchemaVersion:  api.SchemaVersion,
		ID:             r.ID,
		TemplateName:   r.TemplateName,
		Template:       r.Template,
		TemplateLength: r.TemplateLength(),
		ReferenceCount: r.ReferenceCount,
		Params:         ParamsToAPI(r.Params, r.Alignment),
		Lengths:        make([]api.LengthResultV1, len(r.Lengths)),
	}
	if r.ExclusivityCount != nil {
		n := *r.ExclusivityCount
		v.ExclusivityCount = &n
	}
	for i, l := range r.Lengths {
		lv := api.LengthResultV1{OligoLength: l.OligoLength, Positions: make([]api.PositionV1, len(l.Positions))}
		for k, p := range l.Positions {
			lv.Positions[k] = positionToAPI(p)
		}
		v.Lengths[i] = lv
	}
	return v
}

func positionToAPI(p screen.PositionResult) api.PositionV1 {
	pv := api.PositionV1{
		Position:            p.Position,
		Matched:             p.Matched,
		NoMatch:             p.NoMatch,
		VariantsNeeded:      p.VariantsNeeded,
		CoverageAtThreshold: p.CoverageAtThreshold,
		Skipped:             p.Skipped,
	}
	for _, vr := range p.Variants {
		pv.Variants = append(pv.Variants, api.VariantV1{
			Sequence:    vr.Sequence(),
			Count:       vr.Count,
			Percentage:  vr.Percentage,
			Cumulative:  vr.Cumulative,
			Rank:        vr.Rank,
			Ambiguities: vr.Ambiguities,
		})
	}
	if d := p.Differential; d != nil {
		dv := &api.DifferentialV1{
			Total:          d.Total,
			NoMatch:        d.NoMatch,
			NoMatchExample: d.NoMatchExample,
			MinMismatches:  copyInt(d.MinMismatches),
			Score:          copyInt(d.Score),
		}
		for _, b := range d.Histogram {
			dv.Histogram = append(dv.Histogram, api.MismatchBucketV1{Mismatches: b.Mismatches, Count: b.Count, Example: b.Example})
		}
		pv.Differential = dv
	}
	return pv
}

// ParamsToAPI converts engine parameters to the wire block. Threads is a
// runtime setting and is not recorded.
func ParamsToAPI(p screen.Params, a align.Params) api.ParamsV1 {
	m := api.MethodV1{
		Kind:           p.Method.Kind.String(),
		MaxAmbiguities: p.Method.MaxAmbiguities,
		TargetPercent:  p.Method.TargetPercent,
	}
	if p.Method.IncrementalMax >= 0 {
		n := p.Method.IncrementalMax
		m.IncrementalMax = &n
	}
	return api.ParamsV1{
		MinLength:         p.MinLength,
		MaxLength:         p.MaxLength,
		Resolution:        p.Resolution,
		CoverageThreshold: p.CoverageThreshold,
		ExcludeN:          p.ExcludeN,
		IgnoreCount:       p.IgnoreCount,
		Method:            m,
		Alignment: api.AlignmentV1{
			Match:         a.Match,
			Mismatch:      a.Mismatch,
			GapOpen:       a.GapOpen,
			GapExtend:     a.GapExtend,
			MaxMismatches: a.MaxMismatches,
		},
	}
}

// ParamsFromAPI is the inverse of ParamsToAPI; it does not validate.
func ParamsFromAPI(v api.ParamsV1) (screen.Params, align.Params, error) {
	kind, err := variant.ParseKind(v.Method.Kind)
	if err != nil {
		return screen.Params{}, align.Params{}, fmt.Errorf("%w: %v", screen.ErrInvalidInput, err)
	}
	m := variant.Method{
		Kind:           kind,
		MaxAmbiguities: v.Method.MaxAmbiguities,
		TargetPercent:  v.Method.TargetPercent,
		IncrementalMax: -1,
	}
	if v.Method.IncrementalMax != nil {
		m.IncrementalMax = *v.Method.IncrementalMax
	}
	p := screen.Params{
		MinLength:         v.MinLength,
		MaxLength:         v.MaxLength,
		Resolution:        v.Resolution,
		CoverageThreshold: v.CoverageThreshold,
		ExcludeN:          v.ExcludeN,
		IgnoreCount:       v.IgnoreCount,
		Method:            m,
	}
	a := align.Params{
		Match:         v.Alignment.Match,
		Mismatch:      v.Alignment.Mismatch,
		GapOpen:       v.Alignment.GapOpen,
		GapExtend:     v.Alignment.GapExtend,
		MaxMismatches: v.Alignment.MaxMismatches,
	}
	return p, a, nil
}

// FromAPI rebuilds a screening result from its wire form.
func FromAPI(v api.ScreenResultV1) (*screen.Result, error) {
	if v.SchemaVersion != api.SchemaVersion {
		return nil, fmt.Errorf("unsupported schema version %d", v.SchemaVersion)
	}
	p, a, err := ParamsFromAPI(v.Params)
	if err != nil {
		return nil, err
	}
	r := &screen.Result{
		ID:             v.ID,
		TemplateName:   v.TemplateName,
		Template:       v.Template,
		ReferenceCount: v.ReferenceCount,
		Params:         p,
		Alignment:      a,
		Lengths:        make([]screen.LengthResult, len(v.Lengths)),
	}
	if v.ExclusivityCount != nil {
		n := *v.ExclusivityCount
		r.ExclusivityCount = &n
	}
	for i, lv := range v.Lengths {
		l := screen.LengthResult{OligoLength: lv.OligoLength, Positions: make([]screen.PositionResult, len(lv.Positions))}
		for k, pv := range lv.Positions {
			pr, err := positionFromAPI(pv)
			if err != nil {
				return nil, fmt.Errorf("length %d position %d: %w", lv.OligoLength, pv.Position, err)
			}
			l.Positions[k] = pr
		}
		r.Lengths[i] = l
	}
	return r, nil
}

func positionFromAPI(pv api.PositionV1) (screen.PositionResult, error) {
	p := screen.PositionResult{
		Position:            pv.Position,
		Matched:             pv.Matched,
		NoMatch:             pv.NoMatch,
		VariantsNeeded:      pv.VariantsNeeded,
		CoverageAtThreshold: pv.CoverageAtThreshold,
		Skipped:             pv.Skipped,
	}
	for _, vv := range pv.Variants {
		c := iupac.Parse(vv.Sequence)
		for i, m := range c {
			if m == 0 {
				return p, fmt.Errorf("variant %q: invalid symbol at %d", vv.Sequence, i+1)
			}
		}
		p.Variants = append(p.Variants, variant.Variant{
			Consensus:   c,
			Count:       vv.Count,
			Percentage:  vv.Percentage,
			Cumulative:  vv.Cumulative,
			Rank:        vv.Rank,
			Ambiguities: vv.Ambiguities,
		})
	}
	if dv := pv.Differential; dv != nil {
		d := &screen.DifferentialProfile{
			Total:          dv.Total,
			NoMatch:        dv.NoMatch,
			NoMatchExample: dv.NoMatchExample,
			MinMismatches:  copyInt(dv.MinMismatches),
			Score:          copyInt(dv.Score),
		}
		for _, b := range dv.Histogram {
			d.Histogram = append(d.Histogram, screen.MismatchBucket{Mismatches: b.Mismatches, Count: b.Count, Example: b.Example})
		}
		p.Differential = d
	}
	return p, nil
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	n := *p
	return &n
}
