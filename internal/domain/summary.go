package domain

// NodeResult is the persisted terminal state of one case from the last run.
type NodeResult struct {
	NodeID   string  `json:"node_id"`
	Label    string  `json:"label"`
	Outcome  Outcome `json:"outcome"`
	Message  string  `json:"message,omitempty"`
	Detail   string  `json:"detail,omitempty"`
	Seconds  float64 `json:"seconds,omitempty"`
	Resolved bool    `json:"resolved,omitempty"` // Track if a failure is marked as resolved in the viewer
}

// RunMeta contains metadata about a test run.
type RunMeta struct {
	RunID           string  `json:"run_id"`
	TotalCases      int     `json:"total_cases"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	Skipped         int     `json:"skipped"`
	Errored         int     `json:"errored"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// RunSummary is the complete stored output of one run: counts plus the
// terminal results of every case that did not pass.
type RunSummary struct {
	Meta     RunMeta      `json:"meta"`
	Failures []NodeResult `json:"failures"`
}

// Count updates the meta counters for one terminal outcome.
func (m *RunMeta) Count(o Outcome) {
	m.TotalCases++
	switch o {
	case OutcomePassed:
		m.Passed++
	case OutcomeFailed:
		m.Failed++
	case OutcomeSkipped:
		m.Skipped++
	case OutcomeErrored:
		m.Errored++
	}
}
