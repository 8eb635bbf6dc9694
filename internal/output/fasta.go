package output

import (
	"fmt"
	"io"

	"oligoscreen/core/screen"
)

// WriteFASTA writes, for each oligo length, the variants needed at its best
// position (see screen.Result.Summaries). With revcomp set the sequences are
// reverse-complemented, as needed for a reverse primer or probe.
func WriteFASTA(w io.Writer, r *screen.Result, revcomp bool) error {
	for i, s := range r.Summaries() {
		if s.BestPosition < 0 {
			continue
		}
		l := r.Lengths[i]
		p := l.Positions[s.BestPosition/r.Params.Resolution]
		for _, v := range p.Variants[:p.VariantsNeeded] {
			c := v.Consensus
			strand := "+"
			if revcomp {
				c, strand = c.ReverseComplement(), "-"
			}
			if _, err := fmt.Fprintf(w, ">%s_len%d_pos%d_v%d count=%d pct=%s amb=%d strand=%s\n%s\n",
				r.TemplateName, l.OligoLength, p.Position, v.Rank, v.Count, pct(v.Percentage), v.Ambiguities, strand, c.String()); err != nil {
				return err
			}
		}
	}
	return nil
}
