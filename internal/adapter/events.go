package adapter

import "pta/internal/domain"

// HostEventType tags the events the adapter emits toward the host.
type HostEventType string

const (
	TreeLoaded     HostEventType = "tree-loaded"
	TreeLoadFailed HostEventType = "tree-load-failed"
	RunStarted     HostEventType = "run-started"
	RunProgress    HostEventType = "run-event"
	RunFinished    HostEventType = "run-finished"
)

// HostEvent is one notification in the host's event vocabulary. The
// adapter's only side effects travel through this stream.
type HostEvent struct {
	Type       HostEventType
	Tree       *domain.TestTree // tree-loaded
	Diagnostic string           // tree-loaded (partial/empty tree), tree-load-failed
	RunID      string           // run-started, run-event, run-finished
	Event      *domain.RunEvent // run-event
}

// Sink receives host events. Called synchronously from the goroutine
// driving the operation, in delivery order.
type Sink func(HostEvent)
