// pkg/api/jobs_v1.go
package api

import "time"

// SequenceV1 is one named sequence in a job request.
type SequenceV1 struct {
	Name string `json:"name"`
	Seq  string `json:"seq"`
}

// JobRequestV1 submits a screening job. Params defaults to DefaultParams().
type JobRequestV1 struct {
	Template    SequenceV1   `json:"template"`
	References  []SequenceV1 `json:"references"`
	Exclusivity []SequenceV1 `json:"exclusivity,omitempty"`
	Params      *ParamsV1    `json:"params,omitempty"`
}

// Job states.
const (
	JobQueued  = "queued"
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)

// JobStatusV1 reports a job in the worklist.
type JobStatusV1 struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	TemplateName string     `json:"template_name"`
	Submitted    time.Time  `json:"submitted"`
	Finished     *time.Time `json:"finished,omitempty"`
	Lengths      int        `json:"lengths"`
	LengthsDone  int        `json:"lengths_done"`
	Positions    int        `json:"positions,omitempty"` // at the current length
	PositionDone int        `json:"positions_done,omitempty"`
	Error        string     `json:"error,omitempty"`
	SavedTo      string     `json:"saved_to,omitempty"`
}
