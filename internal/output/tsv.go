// internal/output/tsv.go
package output

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"oligoscreen/core/screen"
)

// WriteTSV writes one row per grid cell, lengths ascending, then positions.
func WriteTSV(w io.Writer, r *screen.Result, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for _, l := range r.Lengths {
		for _, p := range l.Positions {
			if _, err := fmt.Fprintln(w, FormatPositionRow(r, l.OligoLength, p)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteSummary writes the per-length summary table followed by a one-line
// run description.
func WriteSummary(w io.Writer, r *screen.Result, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, SummaryHeader); err != nil {
			return err
		}
	}
	cells := 0
	for _, s := range r.Summaries() {
		cells += s.Positions
		best := "NA"
		if s.BestPosition >= 0 {
			best = fmt.Sprint(s.BestPosition)
		}
		if _, err := fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\t%s\n",
			s.OligoLength, s.Positions, s.Skipped, s.MinVariants, best, pct(s.BestCoverage)); err != nil {
			return err
		}
	}
	excl := "no exclusivity set"
	if r.ExclusivityCount != nil {
		excl = humanize.Comma(int64(*r.ExclusivityCount)) + " exclusivity sequences"
	}
	_, err := fmt.Fprintf(w, "# %s: %s bp, %s references, %s, %s cells at %s%% coverage\n",
		r.TemplateName, humanize.Comma(int64(r.TemplateLength())), humanize.Comma(int64(r.ReferenceCount)),
		excl, humanize.Comma(int64(cells)), pct(r.Params.CoverageThreshold))
	return err
}
