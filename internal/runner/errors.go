package runner

import "fmt"

// BusyError rejects a discover or run request issued while another
// operation is in flight. The caller is expected to serialize calls; the
// runner defends against races. No state is changed.
type BusyError struct {
	Op    string
	State State
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("cannot %s: runner is %s", e.Op, e.State)
}

// DiscoveryError reports that the runner executed but produced no usable
// tree. It is surfaced alongside an empty tree, never as a crash, so a
// broken runner cannot prevent the host from loading.
type DiscoveryError struct {
	Reason string
	Stderr string
}

func (e *DiscoveryError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("discovery failed: %s: %s", e.Reason, e.Stderr)
	}
	return fmt.Sprintf("discovery failed: %s", e.Reason)
}
