package output

import "testing"

func TestFormats_Stable(t *testing.T) {
	if FormatJSON != "json" || FormatTSV != "tsv" || FormatSummary != "summary" || FormatFASTA != "fasta" {
		t.Fatalf("output format constants changed")
	}
}
