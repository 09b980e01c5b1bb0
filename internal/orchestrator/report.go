package orchestrator

import (
	"github.com/google/uuid"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/extraction"
	"github.com/AIbySomnath/Linkdin-Scraper/internal/types"
)

// Report is the JSON form of an Outcome written by the CLI.
type Report struct {
	RunID    string            `json:"run_id,omitempty"`
	Plan     types.SearchPlan  `json:"plan"`
	Tier     types.Tier        `json:"tier"`
	Method   extraction.Method `json:"method"`
	Status   string            `json:"status"`
	States   []State           `json:"states,omitempty"`
	Attempts []AttemptReport   `json:"attempts,omitempty"`
	Jobs     []types.JobRecord `json:"jobs"`
}

// AttemptReport is the JSON form of an Attempt.
type AttemptReport struct {
	Tier       types.Tier `json:"tier"`
	Jobs       int        `json:"jobs"`
	Error      string     `json:"error,omitempty"`
	DurationMS int64      `json:"duration_ms"`
}

// Report converts o for serialization. Jobs is never null.
func (o Outcome) Report() Report {
	r := Report{
		Plan:   o.Plan,
		Tier:   o.Tier,
		Method: o.Method,
		Status: o.Status,
		States: o.States,
		Jobs:   o.Jobs,
	}
	if o.RunID != uuid.Nil {
		r.RunID = o.RunID.String()
	}
	if r.Jobs == nil {
		r.Jobs = []types.JobRecord{}
	}
	for _, a := range o.Attempts {
		ar := AttemptReport{Tier: a.Tier, Jobs: a.Jobs, DurationMS: a.Duration.Milliseconds()}
		if a.Err != nil {
			ar.Error = a.Err.Error()
		}
		r.Attempts = append(r.Attempts, ar)
	}
	return r
}
