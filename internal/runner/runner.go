// Package runner orchestrates discovery and execution of PHPUnit tests.
//
// A Runner drives one external process at a time through a small state
// machine: Idle -> Discovering -> Idle and Idle -> Running -> Idle, with
// Running -> Cancelling -> Idle reachable through Cancel. A second
// discover or run while not Idle is rejected with BusyError.
package runner

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"pta/internal/config"
	"pta/internal/domain"
	"pta/internal/parser"
	"pta/internal/process"
	"pta/internal/tree"
)

// State is the runner's lifecycle state.
type State int

const (
	Idle State = iota
	Discovering
	Running
	Cancelling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Discovering:
		return "discovering"
	case Running:
		return "running"
	case Cancelling:
		return "cancelling"
	}
	return "unknown"
}

// Runner owns the lifetime of a single process invocation per operation.
type Runner struct {
	cfg *config.Config

	mu     sync.Mutex
	state  State
	handle *process.Handle

	subscriber func(domain.RunEvent)
}

// New creates a Runner for the given resolved configuration.
func New(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg}
}

// Subscribe registers the run event subscriber. Events are delivered from
// the goroutine executing Run, in the order the runner's output implies.
func (r *Runner) Subscribe(fn func(domain.RunEvent)) {
	r.subscriber = fn
}

// State reports the current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Discover lists the available tests without executing them and builds
// the test tree. A spawn failure aborts with *process.SpawnError. A
// runner that executed but produced nothing usable yields an empty tree
// plus a *DiscoveryError.
func (r *Runner) Discover() (*domain.TestTree, error) {
	if err := r.begin("discover", Discovering); err != nil {
		return nil, err
	}
	defer r.finish()

	h, err := r.start("--list-tests")
	if err != nil {
		return nil, err
	}

	p := parser.NewListParser()
	var events []parser.Event
	for chunk := range h.Output() {
		events = append(events, p.Feed(chunk)...)
	}
	events = append(events, p.Flush()...)
	res := h.Wait()

	t := tree.Build(filepath.Base(r.cfg.WorkspacePath), events)
	if len(t.Index) == 0 && res.ExitCode != 0 {
		return t, &DiscoveryError{Reason: "runner listed no tests", Stderr: res.Stderr}
	}
	return t, nil
}

// Run executes the requested selection against the given tree and streams
// a RunEvent to the subscriber for every observed transition. Every case
// in the selection receives exactly one terminal event: results come from
// the runner's output, cases unresolved at process exit are synthesized
// as errored ("no result reported"), or as skipped after a cancellation.
func (r *Runner) Run(t *domain.TestTree, req domain.RunRequest) error {
	if err := r.begin("run", Running); err != nil {
		return err
	}
	defer r.finish()

	cases := t.Expand(req.IDs)
	wholeTree := len(req.IDs) == 0

	args := []string{"--teamcity"}
	if !wholeTree {
		args = append(args, "--filter", buildFilter(cases))
	}
	h, err := r.start(args...)
	if err != nil {
		for _, c := range cases {
			r.emit(domain.RunEvent{
				Type:    domain.TestFinishedEvent,
				NodeID:  c.ID,
				Outcome: domain.OutcomeErrored,
				Message: "runner failed to start",
				Detail:  err.Error(),
			})
		}
		return err
	}

	d := newDispatcher(r, t, cases)
	p := parser.NewTeamCityParser()
	for chunk := range h.Output() {
		for _, ev := range p.Feed(chunk) {
			d.handle(ev)
		}
	}
	for _, ev := range p.Flush() {
		d.handle(ev)
	}
	res := h.Wait()
	d.closeSuites()

	if r.State() == Cancelling {
		d.finalize(domain.OutcomeSkipped, "cancelled", "")
	} else {
		d.finalize(domain.OutcomeErrored, "no result reported", res.Stderr)
	}
	return nil
}

// Cancel is only meaningful from Running: it forwards cancellation to the
// process and the run finalizes unresolved cases as skipped once the
// process exits. From any other state it is a no-op.
func (r *Runner) Cancel() {
	r.mu.Lock()
	if r.state != Running {
		r.mu.Unlock()
		return
	}
	r.state = Cancelling
	h := r.handle
	r.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
}

func (r *Runner) begin(op string, next State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Idle {
		return &BusyError{Op: op, State: r.state}
	}
	r.state = next
	return nil
}

func (r *Runner) finish() {
	r.mu.Lock()
	r.state = Idle
	r.handle = nil
	r.mu.Unlock()
}

// start launches the runner binary with the configured extra args plus
// the mode-specific ones, and records the handle for cancellation.
func (r *Runner) start(args ...string) (*process.Handle, error) {
	spec := process.Spec{
		Command: r.cfg.GetRunnerPath(),
		Args:    append(append([]string{}, r.cfg.RunnerArgs...), args...),
		Dir:     r.cfg.WorkspacePath,
		Env:     r.cfg.RunnerEnv,
	}
	h, err := process.Start(spec, r.cfg.GracePeriod)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.handle = h
	cancelled := r.state == Cancelling
	r.mu.Unlock()
	if cancelled {
		h.Cancel()
	}
	return h, nil
}

func (r *Runner) emit(ev domain.RunEvent) {
	if r.subscriber != nil {
		r.subscriber(ev)
	}
}

// buildFilter encodes a case selection as a PHPUnit --filter regex over
// method names (including data set suffixes).
func buildFilter(cases []*domain.TestNode) string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range cases {
		q := regexp.QuoteMeta(c.Label)
		if !seen[q] {
			seen[q] = true
			names = append(names, q)
		}
	}
	return "^(" + strings.Join(names, "|") + ")$"
}
