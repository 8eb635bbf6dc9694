// pkg/api/screen_v1.go
package api

// SchemaVersion is written into every ScreenResultV1.
const SchemaVersion = 1

// ScreenResultV1 is the stable JSON schema of a screening run.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ScreenResultV1 struct {
	SchemaVersion    int              `json:"schema_version"`
	ID               string           `json:"id"`
	TemplateName     string           `json:"template_name"`
	Template         string           `json:"template"`
	TemplateLength   int              `json:"template_length"`
	ReferenceCount   int              `json:"reference_count"`
	ExclusivityCount *int             `json:"exclusivity_count,omitempty"` // present iff differential
	Params           ParamsV1         `json:"params"`
	Lengths          []LengthResultV1 `json:"lengths"`
}

// ParamsV1 is the parameter block shared by results and job requests.
type ParamsV1 struct {
	MinLength         int         `json:"min_length"`
	MaxLength         int         `json:"max_length"`
	Resolution        int         `json:"resolution"`
	CoverageThreshold float64     `json:"coverage_threshold"`
	ExcludeN          bool        `json:"exclude_n"`
	IgnoreCount       int         `json:"ignore_count,omitempty"`
	Method            MethodV1    `json:"method"`
	Alignment         AlignmentV1 `json:"alignment"`
}

// MethodV1 selects the variant strategy.
type MethodV1 struct {
	Kind           string `json:"kind"` // "none" | "fixed" | "incremental"
	MaxAmbiguities int    `json:"max_ambiguities,omitempty"`
	TargetPercent  int    `json:"target_percent,omitempty"`
	IncrementalMax *int   `json:"incremental_max,omitempty"` // absent = unlimited
}

type AlignmentV1 struct {
	Match         int `json:"match"`
	Mismatch      int `json:"mismatch"`
	GapOpen       int `json:"gap_open"`
	GapExtend     int `json:"gap_extend"`
	MaxMismatches int `json:"max_mismatches"`
}

// DefaultParams mirrors the engine defaults.
func DefaultParams() ParamsV1 {
	return ParamsV1{
		MinLength:         18,
		MaxLength:         24,
		Resolution:        1,
		CoverageThreshold: 95,
		Method:            MethodV1{Kind: "none"},
		Alignment:         AlignmentV1{Match: 2, Mismatch: -1, GapOpen: -5, GapExtend: -2, MaxMismatches: 3},
	}
}

type LengthResultV1 struct {
	OligoLength int          `json:"oligo_length"`
	Positions   []PositionV1 `json:"positions"`
}

type PositionV1 struct {
	Position            int             `json:"position"`
	Matched             int             `json:"matched"`
	NoMatch             int             `json:"no_match"`
	VariantsNeeded      int             `json:"variants_needed"`
	CoverageAtThreshold float64         `json:"coverage_at_threshold"`
	Skipped             bool            `json:"skipped,omitempty"`
	Variants            []VariantV1     `json:"variants,omitempty"`
	Differential        *DifferentialV1 `json:"differential,omitempty"`
}

type VariantV1 struct {
	Sequence    string  `json:"sequence"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"`
	Cumulative  float64 `json:"cumulative"`
	Rank        int     `json:"rank"`
	Ambiguities int     `json:"ambiguities"`
}

type DifferentialV1 struct {
	Total          int                `json:"total"`
	NoMatch        int                `json:"no_match"`
	NoMatchExample string             `json:"no_match_example,omitempty"`
	Histogram      []MismatchBucketV1 `json:"histogram,omitempty"`
	MinMismatches  *int               `json:"min_mismatches,omitempty"`
	Score          *int               `json:"score,omitempty"`
}

type MismatchBucketV1 struct {
	Mismatches int    `json:"mismatches"`
	Count      int    `json:"count"`
	Example    string `json:"example"`
}
