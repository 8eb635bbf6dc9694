// internal/output/rows.go
package output

import (
	"strconv"
	"strings"

	"oligoscreen/core/screen"
)

func optInt(p *int) string {
	if p == nil {
		return "NA"
	}
	return strconv.Itoa(*p)
}

func pct(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

// FormatPositionRow returns the TSVHeader columns for one grid cell
// (no trailing newline).
func FormatPositionRow(r *screen.Result, L int, p screen.PositionResult) string {
	top, topPct := "", "0.00"
	if len(p.Variants) > 0 {
		top, topPct = p.Variants[0].Sequence(), pct(p.Variants[0].Percentage)
	}
	diffMin, diffScore := "", ""
	if p.Differential != nil {
		diffMin, diffScore = optInt(p.Differential.MinMismatches), optInt(p.Differential.Score)
	}
	cols := []string{
		strconv.Itoa(L),
		strconv.Itoa(p.Position),
		r.Oligo(L, p.Position),
		strconv.Itoa(p.Matched),
		strconv.Itoa(p.NoMatch),
		strconv.Itoa(p.VariantsNeeded),
		pct(p.CoverageAtThreshold),
		strconv.FormatBool(p.Skipped),
		top,
		topPct,
		diffMin,
		diffScore,
	}
	return strings.Join(cols, "\t")
}
