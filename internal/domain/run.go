package domain

import "time"

// Outcome is the terminal state of a single test case.
type Outcome string

const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
	OutcomeErrored Outcome = "errored"
)

// RunRequest selects the nodes to execute. Ids may mix suites and cases;
// suite ids expand to all descendant cases. An empty selection means
// "run the entire tree".
type RunRequest struct {
	IDs []string
}

// RunEventType tags the variants of RunEvent.
type RunEventType string

const (
	SuiteStartedEvent  RunEventType = "suite-started"
	SuiteFinishedEvent RunEventType = "suite-finished"
	TestStartedEvent   RunEventType = "test-started"
	TestFinishedEvent  RunEventType = "test-finished"
)

// RunEvent is one state transition observed during a run, delivered to
// subscribers in the exact order the runner's output implies.
type RunEvent struct {
	Type     RunEventType
	NodeID   string
	Outcome  Outcome       // test-finished only
	Message  string        // failure message, when the runner reported one
	Detail   string        // longer diagnostic (stack trace, stderr tail)
	Duration time.Duration // test-finished only, zero when unreported
}
