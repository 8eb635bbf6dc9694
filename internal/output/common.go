package output

// Output formats accepted by --output.
const (
	FormatJSON    = "json"
	FormatTSV     = "tsv"
	FormatSummary = "summary"
	FormatFASTA   = "fasta"
)

// TSVHeader is the canonical header row of the per-position table.
// Keep this as the single source of truth; all writers should use it.
const TSVHeader = "oligo_length\tposition\toligo\tmatched\tno_match\tvariants_needed\tcoverage\tskipped\ttop_variant\ttop_pct\tdiff_min_mm\tdiff_score"

// SummaryHeader heads the per-length summary.
const SummaryHeader = "oligo_length\tpositions\tskipped\tmin_variants\tbest_position\tbest_coverage"
