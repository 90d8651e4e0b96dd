// Package process runs the external test runner and streams its output.
package process

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Default bounds for a single invocation.
const (
	DefaultGracePeriod = 3 * time.Second
	maxStderrBytes     = 64 * 1024
	chunkSize          = 4 * 1024
)

// SpawnError reports that the runner command could not be started at all
// (missing binary, permission problem). A started process that exits
// non-zero is not a SpawnError.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("cannot start %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Spec describes one invocation of the external runner.
type Spec struct {
	Command string
	Args    []string
	Dir     string
	Env     []string // appended to the current environment
}

// Result is the terminal state of one invocation. It is ephemeral: callers
// consume it immediately after Wait and do not retain it.
type Result struct {
	ExitCode int
	Stderr   string // bounded tail, see maxStderrBytes
	Duration time.Duration
}

// Handle is one running invocation. Output chunks arrive on Output in the
// order the process produced them; the channel is closed at EOF. A chunk
// buffered before Cancel is still delivered.
type Handle struct {
	spec    Spec
	cmd     *exec.Cmd
	output  chan string
	stderr  *tailBuffer
	started time.Time
	grace   time.Duration

	cancelOnce sync.Once
	waitOnce   sync.Once
	result     Result
	exited     chan struct{}
}

// Start launches the command in its own process group with stdout streamed
// through the handle's output channel. Returns *SpawnError when the command
// cannot be started.
func Start(spec Spec, grace time.Duration) (*Handle, error) {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	cmd := exec.Command(spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	setProcessGroup(cmd)

	stderr := &tailBuffer{limit: maxStderrBytes}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Command: spec.Command, Err: err}
	}

	h := &Handle{
		spec:    spec,
		cmd:     cmd,
		output:  make(chan string, 16),
		stderr:  stderr,
		started: time.Now(),
		grace:   grace,
		exited:  make(chan struct{}),
	}

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Command: spec.Command, Err: err}
	}

	go h.pump(stdout)
	return h, nil
}

// Output returns the stdout stream: chunks in arrival order, finite, not
// restartable. Closed when the process has no more output.
func (h *Handle) Output() <-chan string {
	return h.output
}

// Cancel asks the process group to terminate, escalating to a forced kill
// after the grace period. Safe to call more than once and safe to race
// with normal completion.
func (h *Handle) Cancel() {
	h.cancelOnce.Do(func() {
		terminateProcessGroup(h.cmd)
		go func() {
			select {
			case <-h.exited:
			case <-time.After(h.grace):
				killProcessGroup(h.cmd)
			}
		}()
	})
}

// Wait blocks until the process has exited and all output has been
// delivered, then reports the exit code, stderr tail and duration.
// A non-zero exit is reported in the Result, not as an error.
func (h *Handle) Wait() Result {
	h.waitOnce.Do(func() {
		// pump closes h.output after stdout EOF; Wait must not be called
		// before that to avoid racing cmd.Wait with the pipe reader.
		for range h.output {
		}
		err := h.cmd.Wait()
		close(h.exited)

		code := 0
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else {
				code = -1
			}
		}
		h.result = Result{
			ExitCode: code,
			Stderr:   h.stderr.String(),
			Duration: time.Since(h.started),
		}
	})
	return h.result
}

func (h *Handle) pump(stdout io.Reader) {
	defer close(h.output)
	r := bufio.NewReader(stdout)
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.output <- string(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Write(p)
	if t.buf.Len() > t.limit {
		trimmed := t.buf.Bytes()[t.buf.Len()-t.limit:]
		rest := make([]byte, len(trimmed))
		copy(rest, trimmed)
		t.buf.Reset()
		t.buf.Write(rest)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(t.buf.String())
}
