// core/screen/differential.go
package screen

import (
	"oligoscreen/core/align"
	"oligoscreen/core/fasta"
)

// MismatchBucket counts off-target sequences aligning with Mismatches
// substitutions. Example is the first such sequence in input order.
type MismatchBucket struct {
	Mismatches int
	Count      int
	Example    string
}

// DifferentialProfile describes how well one oligo window hits the
// exclusivity set. Higher mismatch counts mean better specificity.
type DifferentialProfile struct {
	Total          int
	NoMatch        int
	NoMatchExample string
	Histogram      []MismatchBucket // matched sequences only, ascending Mismatches
	MinMismatches  *int             // nil when nothing matched
	Score          *int             // EffectiveMinMismatches(IgnoreCount)
}

// EffectiveMinMismatches is the smallest mismatch count left after
// discarding the ignore closest matched sequences. It returns nil when every
// matched sequence is discarded (or none matched), meaning the oligo does
// not hit the remaining exclusivity set at all.
func (d *DifferentialProfile) EffectiveMinMismatches(ignore int) *int {
	for _, b := range d.Histogram {
		if b.Count <= ignore {
			ignore -= b.Count
			continue
		}
		mm := b.Mismatches
		return &mm
	}
	return nil
}

// profile aligns oligo against every exclusivity sequence.
func profile(a *align.Aligner, oligo []byte, excl []fasta.Record, ignore int) *DifferentialProfile {
	d := &DifferentialProfile{Total: len(excl)}
	// accepted alignments never exceed MaxMismatches, so index by count
	buckets := make([]MismatchBucket, a.Params().MaxMismatches+1)
	for _, e := range excl {
		m := a.Align(oligo, e.Seq)
		if !m.Matched {
			if d.NoMatch == 0 {
				d.NoMatchExample = e.Name
			}
			d.NoMatch++
			continue
		}
		b := &buckets[m.Mismatches]
		if b.Count == 0 {
			b.Mismatches, b.Example = m.Mismatches, e.Name
		}
		b.Count++
	}
	for _, b := range buckets {
		if b.Count > 0 {
			d.Histogram = append(d.Histogram, b)
		}
	}
	if len(d.Histogram) > 0 {
		mm := d.Histogram[0].Mismatches
		d.MinMismatches = &mm
	}
	d.Score = d.EffectiveMinMismatches(ignore)
	return d
}
