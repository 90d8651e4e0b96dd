package runner

import (
	"strings"

	"pta/internal/domain"
	"pta/internal/parser"
)

// dispatcher translates parse events into run events, mapping the
// runner's suite/case names onto tree node ids and tracking which
// requested cases still await a terminal event.
type dispatcher struct {
	r *Runner
	t *domain.TestTree

	path   []string // currently-open suite segments matched against the tree
	depths []int    // segments opened per runner suite message

	pending map[string]bool
	order   []string // requested case ids, in request order
}

func newDispatcher(r *Runner, t *domain.TestTree, cases []*domain.TestNode) *dispatcher {
	d := &dispatcher{
		r:       r,
		t:       t,
		pending: make(map[string]bool, len(cases)),
	}
	for _, c := range cases {
		d.pending[c.ID] = true
		d.order = append(d.order, c.ID)
	}
	return d
}

func (d *dispatcher) handle(ev parser.Event) {
	switch ev.Type {
	case parser.SuiteStarted:
		// Runner suite names may be fully qualified class names; only
		// segments that exist in the tree open a suite. Wrapper suites
		// the runner invents (configured suite names, "CLI Arguments")
		// match nothing and are skipped.
		pushed := 0
		for _, seg := range strings.Split(ev.Name, "\\") {
			candidate := domain.ChildID(d.suiteID(), seg)
			if d.t.Lookup(candidate) == nil {
				continue
			}
			d.path = append(d.path, seg)
			pushed++
			d.r.emit(domain.RunEvent{Type: domain.SuiteStartedEvent, NodeID: candidate})
		}
		d.depths = append(d.depths, pushed)

	case parser.SuiteFinished:
		if len(d.depths) == 0 {
			return
		}
		k := d.depths[len(d.depths)-1]
		d.depths = d.depths[:len(d.depths)-1]
		d.pop(k)

	case parser.CaseStarted:
		d.r.emit(domain.RunEvent{
			Type:   domain.TestStartedEvent,
			NodeID: d.resolveCase(ev.Name),
		})

	case parser.CaseResult:
		id := d.resolveCase(ev.Name)
		delete(d.pending, id)
		d.r.emit(domain.RunEvent{
			Type:     domain.TestFinishedEvent,
			NodeID:   id,
			Outcome:  ev.Outcome,
			Message:  ev.Message,
			Detail:   ev.Detail,
			Duration: ev.Duration,
		})
	}
}

// closeSuites finishes any suite left open by a truncated or crashed run.
func (d *dispatcher) closeSuites() {
	d.pop(len(d.path))
	d.depths = nil
}

// finalize emits the given terminal outcome for every requested case that
// never received a result, in request order.
func (d *dispatcher) finalize(outcome domain.Outcome, message, detail string) {
	for _, id := range d.order {
		if !d.pending[id] {
			continue
		}
		delete(d.pending, id)
		d.r.emit(domain.RunEvent{
			Type:    domain.TestFinishedEvent,
			NodeID:  id,
			Outcome: outcome,
			Message: message,
			Detail:  detail,
		})
	}
}

func (d *dispatcher) suiteID() string {
	return domain.NodeID(d.path...)
}

func (d *dispatcher) pop(n int) {
	for i := 0; i < n && len(d.path) > 0; i++ {
		d.r.emit(domain.RunEvent{Type: domain.SuiteFinishedEvent, NodeID: d.suiteID()})
		d.path = d.path[:len(d.path)-1]
	}
}

// resolveCase maps a runner-reported case name to a tree node id. The
// common path is the current suite plus the case label; when the runner's
// suite structure did not line up with the tree, a unique pending case
// with the same label is accepted instead.
func (d *dispatcher) resolveCase(name string) string {
	candidate := domain.ChildID(d.suiteID(), name)
	if d.pending[candidate] || d.t.Lookup(candidate) != nil {
		return candidate
	}

	match := ""
	for _, id := range d.order {
		if !d.pending[id] {
			continue
		}
		n := d.t.Lookup(id)
		if n != nil && n.Label == name {
			if match != "" {
				return candidate // ambiguous, keep the positional id
			}
			match = id
		}
	}
	if match != "" {
		return match
	}
	return candidate
}
