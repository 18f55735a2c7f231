package model

import (
	"github.com/rotisserie/eris"
)

// RunRequest describes one requested prospecting run.
type RunRequest struct {
	WorkspaceID   string   `json:"workspace_id"`
	ICPs          []string `json:"icps"`
	States        []string `json:"states"`
	City          string   `json:"city,omitempty"`
	Strategy      string   `json:"strategy,omitempty"`
	ResultsPerICP int      `json:"results_per_icp"`
}

// Validate checks the request for required fields. It is called before any
// provider work starts, so a bad request never consumes search quota.
func (r *RunRequest) Validate() error {
	if r.WorkspaceID == "" {
		return eris.New("run request: workspace_id is required")
	}
	if len(r.ICPs) == 0 {
		return eris.New("run request: at least one ICP is required")
	}
	if len(r.States) == 0 && r.City == "" {
		return eris.New("run request: states or city is required")
	}
	return nil
}

// PrimaryState returns the first requested state, or empty when the run is
// scoped to a city only.
func (r *RunRequest) PrimaryState() string {
	if len(r.States) == 0 {
		return ""
	}
	return r.States[0]
}

// LaneSummary holds the per-ICP counters of one run.
type LaneSummary struct {
	ICP             string     `json:"icp"`
	Status          LaneStatus `json:"status"`
	QueriesExecuted int        `json:"queries_executed"`
	ResultsFound    int        `json:"results_found"`
	Kept            int        `json:"kept"`
	Dropped         int        `json:"dropped"`
	Error           string     `json:"error,omitempty"`
}

// RunSummary is the aggregate outcome of one run. Only its side effects
// (prospect rows) are persisted; the summary itself is returned to the caller.
type RunSummary struct {
	RunID        string        `json:"run_id"`
	Status       RunStatus     `json:"status"`
	Lanes        []LaneSummary `json:"lanes"`
	TotalKept    int           `json:"total_kept"`
	TotalDropped int           `json:"total_dropped"`
}

// Totals recomputes TotalKept and TotalDropped from the lane summaries.
func (s *RunSummary) Totals() {
	s.TotalKept = 0
	s.TotalDropped = 0
	for _, lane := range s.Lanes {
		s.TotalKept += lane.Kept
		s.TotalDropped += lane.Dropped
	}
}
