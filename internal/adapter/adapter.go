// Package adapter exposes the host-facing test explorer contract: load a
// test tree, run a selection, cancel, dispose. It holds the single source
// of truth for the currently loaded tree and translates runner output
// into the host's event vocabulary; it carries no other business logic.
package adapter

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"pta/internal/config"
	"pta/internal/domain"
	"pta/internal/runner"
)

// Adapter is one workspace's test explorer adapter. At most one
// discovery or run is active at a time; concurrent calls are rejected
// with a BusyError rather than queued.
type Adapter struct {
	workspace string
	cfg       *config.Config
	runner    *runner.Runner
	sink      Sink

	mu       sync.Mutex
	tree     *domain.TestTree
	runID    string
	active   bool
	disposed bool
}

// New is the adapter factory the host registers per workspace folder:
// it returns a fresh adapter wired to a fresh runner.
func New(workspace string, cfg *config.Config, sink Sink) *Adapter {
	a := &Adapter{
		workspace: workspace,
		cfg:       cfg,
		runner:    runner.New(cfg),
		sink:      sink,
	}
	a.runner.Subscribe(a.forward)
	return a
}

// Tree returns the currently loaded tree, or nil before the first
// successful load.
func (a *Adapter) Tree() *domain.TestTree {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tree
}

// Load triggers discovery and emits tree-loaded on success or
// tree-load-failed when the runner could not be started. A runner that
// ran but produced no usable tree loads the empty tree with a diagnostic
// attached, so the rest of the host keeps working.
func (a *Adapter) Load() error {
	if err := a.guard(); err != nil {
		return err
	}

	t, err := a.runner.Discover()
	if err != nil {
		var discErr *runner.DiscoveryError
		if errors.As(err, &discErr) {
			a.setTree(t)
			a.emit(HostEvent{Type: TreeLoaded, Tree: t, Diagnostic: discErr.Error()})
			return nil
		}
		var busyErr *runner.BusyError
		if errors.As(err, &busyErr) {
			return err // rejected, no state change, nothing to report
		}
		// Spawn failure: the previous tree, if any, stays loaded.
		a.emit(HostEvent{Type: TreeLoadFailed, Diagnostic: err.Error()})
		return err
	}

	a.setTree(t)
	a.emit(HostEvent{Type: TreeLoaded, Tree: t})
	return nil
}

// Run executes the given selection (empty means the whole tree) and
// re-emits every run event, bracketed by run-started and run-finished.
// Returns once the run has fully resolved.
func (a *Adapter) Run(ids []string) error {
	if err := a.guard(); err != nil {
		return err
	}

	a.mu.Lock()
	t := a.tree
	if t == nil {
		a.mu.Unlock()
		return errors.New("no test tree loaded")
	}
	if a.active {
		a.mu.Unlock()
		return &runner.BusyError{Op: "run", State: runner.Running}
	}
	a.active = true
	id := uuid.New().String()
	a.runID = id
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.active = false
		a.mu.Unlock()
	}()

	a.emit(HostEvent{Type: RunStarted, RunID: id})
	err := a.runner.Run(t, domain.RunRequest{IDs: ids})
	a.emit(HostEvent{Type: RunFinished, RunID: id})
	return err
}

// Cancel cancels the active run, if any.
func (a *Adapter) Cancel() {
	a.runner.Cancel()
}

// Dispose cancels any active run and detaches the adapter from its sink.
// Further calls are no-ops.
func (a *Adapter) Dispose() {
	a.mu.Lock()
	if a.disposed {
		a.mu.Unlock()
		return
	}
	a.disposed = true
	a.mu.Unlock()

	a.runner.Cancel()
	a.mu.Lock()
	a.sink = nil
	a.mu.Unlock()
}

func (a *Adapter) guard() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.disposed {
		return errors.New("adapter is disposed")
	}
	return nil
}

func (a *Adapter) forward(ev domain.RunEvent) {
	a.mu.Lock()
	id := a.runID
	a.mu.Unlock()
	a.emit(HostEvent{Type: RunProgress, RunID: id, Event: &ev})
}

func (a *Adapter) setTree(t *domain.TestTree) {
	a.mu.Lock()
	a.tree = t
	a.mu.Unlock()
}

func (a *Adapter) emit(ev HostEvent) {
	a.mu.Lock()
	sink := a.sink
	a.mu.Unlock()
	if sink != nil {
		sink(ev)
	}
}
