// Package variant reduces the set of subsequences matched at one screening
// position to a short list of (possibly degenerate) oligo variants.
//
// Three strategies are available:
//
//   - NoAmbiguity groups identical sequences.
//   - FixedAmbiguity is a greedy set cover where every consensus may spend at
//     most MaxAmbiguities ambiguous positions (sum of popcount-1).
//   - Incremental extracts one variant per round, using the smallest
//     ambiguity budget whose best consensus covers TargetPercent of what is
//     still uncovered.
//
// Every input sequence ends up in exactly one variant, and variants are
// ordered by descending coverage.
package variant

import (
	"errors"
	"fmt"
	"sort"

	"oligoscreen/core/iupac"
)

// Kind selects the variant strategy.
type Kind int

const (
	NoAmbiguity Kind = iota
	FixedAmbiguity
	Incremental
)

var kindNames = [...]string{"none", "fixed", "incremental"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown method %q (want none | fixed | incremental)", s)
}

// Method configures the analyzer.
type Method struct {
	Kind           Kind
	MaxAmbiguities int // FixedAmbiguity budget per consensus
	TargetPercent  int // Incremental: coverage of the remaining pool per round, 1..100
	IncrementalMax int // Incremental: ambiguity cap; < 0 means unlimited
}

// Exact returns the NoAmbiguity method.
func Exact() Method { return Method{Kind: NoAmbiguity, IncrementalMax: -1} }

// Fixed returns the FixedAmbiguity method with budget n.
func Fixed(n int) Method { return Method{Kind: FixedAmbiguity, MaxAmbiguities: n, IncrementalMax: -1} }

// Stepwise returns the Incremental method; pass max < 0 for no cap.
func Stepwise(pct, max int) Method {
	return Method{Kind: Incremental, TargetPercent: pct, IncrementalMax: max}
}

// Validate checks the parameters relevant to m.Kind.
func (m Method) Validate() error {
	switch m.Kind {
	case NoAmbiguity:
	case FixedAmbiguity:
		if m.MaxAmbiguities < 0 {
			return errors.New("max ambiguities must be ≥ 0")
		}
	case Incremental:
		if m.TargetPercent < 1 || m.TargetPercent > 100 {
			return fmt.Errorf("incremental target %d%% outside 1..100", m.TargetPercent)
		}
	default:
		return fmt.Errorf("unknown method kind %d", int(m.Kind))
	}
	return nil
}

func (m Method) String() string {
	switch m.Kind {
	case FixedAmbiguity:
		return fmt.Sprintf("fixed(%d)", m.MaxAmbiguities)
	case Incremental:
		if m.IncrementalMax < 0 {
			return fmt.Sprintf("incremental(%d%%)", m.TargetPercent)
		}
		return fmt.Sprintf("incremental(%d%%, max %d)", m.TargetPercent, m.IncrementalMax)
	}
	return m.Kind.String()
}

// Variant is one consensus oligo and the matched sequences it covers.
type Variant struct {
	Consensus   iupac.Consensus
	Count       int     // matched sequences covered
	Percentage  float64 // Count as a share of all attempted references
	Cumulative  float64 // running Percentage along the ordered list
	Rank        int     // 1-based position in the ordered list
	Ambiguities int
}

// Sequence renders the consensus as IUPAC letters.
func (v Variant) Sequence() string { return v.Consensus.String() }

// Analyze computes the covering variants for seqs, all of the same length.
// total is the number of references attempted at this position (matched plus
// unmatched) and is the denominator of every percentage. With excludeN set
// no consensus position may become N.
func Analyze(seqs [][]byte, total int, m Method, excludeN bool) []Variant {
	if len(seqs) == 0 {
		return nil
	}
	if total < len(seqs) {
		total = len(seqs)
	}
	groups := collapse(seqs)

	var picks []pick
	switch m.Kind {
	case FixedAmbiguity:
		picks = newPool(groups, excludeN).fixed(m.MaxAmbiguities)
	case Incremental:
		picks = newPool(groups, excludeN).incremental(m.TargetPercent, m.IncrementalMax)
	default:
		picks = make([]pick, len(groups))
		for i, g := range groups {
			picks[i] = pick{cons: g.seq, count: g.weight}
		}
	}
	return finish(picks, total)
}

type pick struct {
	cons  iupac.Consensus
	count int
}

// finish orders picks by descending count (stable) and fills percentages.
func finish(picks []pick, total int) []Variant {
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].count > picks[j].count })
	out := make([]Variant, len(picks))
	cum := 0
	for i, p := range picks {
		cum += p.count
		out[i] = Variant{
			Consensus:   p.cons,
			Count:       p.count,
			Percentage:  percent(p.count, total),
			Cumulative:  percent(cum, total),
			Rank:        i + 1,
			Ambiguities: p.cons.Ambiguities(),
		}
	}
	return out
}

func percent(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

// VariantsNeeded returns how many leading variants are needed for the
// cumulative coverage to reach threshold percent of total, and the coverage
// reached at that point. When the threshold is never reached it returns the
// full list length and its final coverage.
func VariantsNeeded(vs []Variant, total int, threshold float64) (int, float64) {
	if len(vs) == 0 {
		return 0, 0
	}
	if total <= 0 {
		for _, v := range vs {
			total += v.Count
		}
	}
	cum := 0
	for i, v := range vs {
		cum += v.Count
		// compare on counts so 80+15 reaches 95 exactly
		if float64(cum)*100 >= threshold*float64(total)-1e-9 {
			return i + 1, percent(cum, total)
		}
	}
	return len(vs), percent(cum, total)
}
