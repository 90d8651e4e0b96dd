package runner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pta/internal/config"
	"pta/internal/domain"
	"pta/internal/process"
)

// fakeRunner is a stand-in PHPUnit: lists two tests in discovery mode and
// reports one pass and one failure in run mode.
const fakeRunner = `#!/bin/sh
if [ "$1" = "--list-tests" ]; then
cat <<'EOF'
PHPUnit 10.5.0 by Sebastian Bergmann and contributors.

Available test(s):
 - Tests\UserTest::testCreate
 - Tests\UserTest::testDelete
EOF
exit 0
fi
cat <<'EOF'
##teamcity[testSuiteStarted name='Tests\UserTest']
##teamcity[testStarted name='testCreate']
##teamcity[testFinished name='testCreate' duration='5']
##teamcity[testStarted name='testDelete']
##teamcity[testFailed name='testDelete' message='nope']
##teamcity[testFinished name='testDelete' duration='2']
##teamcity[testSuiteFinished name='Tests\UserTest']
EOF
exit 1
`

// silentRunner exits without reporting any result.
const silentRunner = `#!/bin/sh
if [ "$1" = "--list-tests" ]; then
cat <<'EOF'
Available test(s):
 - Tests\BrokenTest::testNothing
EOF
exit 0
fi
echo boom >&2
exit 1
`

// slowRunner reports nothing and sleeps until killed.
const slowRunner = `#!/bin/sh
if [ "$1" = "--list-tests" ]; then
cat <<'EOF'
Available test(s):
 - Tests\SlowTest::testWait
EOF
exit 0
fi
sleep 30
`

func newTestRunner(t *testing.T, script string) *Runner {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "phpunit")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))

	cfg := config.New(dir)
	cfg.RunnerPath = path
	cfg.GracePeriod = 500 * time.Millisecond
	return New(cfg)
}

func collectEvents(r *Runner) *[]domain.RunEvent {
	events := &[]domain.RunEvent{}
	r.Subscribe(func(ev domain.RunEvent) {
		*events = append(*events, ev)
	})
	return events
}

func terminalEvents(events []domain.RunEvent) map[string][]domain.RunEvent {
	byID := make(map[string][]domain.RunEvent)
	for _, ev := range events {
		if ev.Type == domain.TestFinishedEvent {
			byID[ev.NodeID] = append(byID[ev.NodeID], ev)
		}
	}
	return byID
}

func TestDiscover_BuildsTree(t *testing.T) {
	r := newTestRunner(t, fakeRunner)

	tree, err := r.Discover()
	require.NoError(t, err)
	require.NotNil(t, tree)

	assert.Len(t, tree.Cases(), 2)
	assert.NotNil(t, tree.Lookup("Tests/UserTest/testCreate"))
	assert.NotNil(t, tree.Lookup("Tests/UserTest/testDelete"))
	assert.Equal(t, Idle, r.State())
}

func TestDiscover_SpawnFailure(t *testing.T) {
	cfg := config.New(t.TempDir())
	cfg.RunnerPath = "/nonexistent/phpunit"
	r := New(cfg)

	_, err := r.Discover()
	var spawnErr *process.SpawnError
	require.ErrorAs(t, err, &spawnErr)
	assert.Equal(t, Idle, r.State())
}

func TestRun_EveryRequestedCaseGetsExactlyOneTerminalEvent(t *testing.T) {
	r := newTestRunner(t, fakeRunner)
	tree, err := r.Discover()
	require.NoError(t, err)

	events := collectEvents(r)
	require.NoError(t, r.Run(tree, domain.RunRequest{}))

	byID := terminalEvents(*events)
	require.Len(t, byID, 2)
	for id, evs := range byID {
		assert.Len(t, evs, 1, "case %s must resolve exactly once", id)
	}
	assert.Equal(t, domain.OutcomePassed, byID["Tests/UserTest/testCreate"][0].Outcome)
	assert.Equal(t, domain.OutcomeFailed, byID["Tests/UserTest/testDelete"][0].Outcome)
	assert.Equal(t, "nope", byID["Tests/UserTest/testDelete"][0].Message)
	assert.Equal(t, Idle, r.State())
}

func TestRun_EventOrderFollowsRunnerOutput(t *testing.T) {
	r := newTestRunner(t, fakeRunner)
	tree, err := r.Discover()
	require.NoError(t, err)

	events := collectEvents(r)
	require.NoError(t, r.Run(tree, domain.RunRequest{IDs: []string{"Tests/UserTest/testCreate"}}))

	var types []domain.RunEventType
	for _, ev := range *events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []domain.RunEventType{
		domain.SuiteStartedEvent, // Tests
		domain.SuiteStartedEvent, // Tests/UserTest
		domain.TestStartedEvent,
		domain.TestFinishedEvent,
		domain.TestStartedEvent, // the fake ignores --filter and reports both
		domain.TestFinishedEvent,
		domain.SuiteFinishedEvent,
		domain.SuiteFinishedEvent,
	}, types)
}

func TestRun_SynthesizesErroredForMissingResults(t *testing.T) {
	r := newTestRunner(t, silentRunner)
	tree, err := r.Discover()
	require.NoError(t, err)

	events := collectEvents(r)
	require.NoError(t, r.Run(tree, domain.RunRequest{IDs: []string{"Tests/BrokenTest/testNothing"}}))

	byID := terminalEvents(*events)
	require.Len(t, byID, 1)
	ev := byID["Tests/BrokenTest/testNothing"][0]
	assert.Equal(t, domain.OutcomeErrored, ev.Outcome)
	assert.Equal(t, "no result reported", ev.Message)
	assert.Equal(t, "boom", ev.Detail)
	assert.Equal(t, Idle, r.State())
}

func TestRun_SpawnFailureResolvesEveryCase(t *testing.T) {
	r := newTestRunner(t, fakeRunner)
	tree, err := r.Discover()
	require.NoError(t, err)

	r.cfg.RunnerPath = "/nonexistent/phpunit"
	events := collectEvents(r)
	err = r.Run(tree, domain.RunRequest{})

	var spawnErr *process.SpawnError
	require.ErrorAs(t, err, &spawnErr)
	byID := terminalEvents(*events)
	assert.Len(t, byID, 2)
	for _, evs := range byID {
		assert.Equal(t, domain.OutcomeErrored, evs[0].Outcome)
	}
	assert.Equal(t, Idle, r.State())
}

func TestBusy_SecondCallWhileRunningIsRejected(t *testing.T) {
	r := newTestRunner(t, slowRunner)
	tree, err := r.Discover()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- r.Run(tree, domain.RunRequest{})
	}()
	waitForState(t, r, Running)

	_, err = r.Discover()
	var busyErr *BusyError
	require.ErrorAs(t, err, &busyErr)

	err = r.Run(tree, domain.RunRequest{})
	require.ErrorAs(t, err, &busyErr)

	r.Cancel()
	require.NoError(t, <-done)
	assert.Equal(t, Idle, r.State())
}

func TestCancel_PendingCasesResolveAsSkipped(t *testing.T) {
	r := newTestRunner(t, slowRunner)
	tree, err := r.Discover()
	require.NoError(t, err)

	events := collectEvents(r)
	done := make(chan error, 1)
	go func() {
		done <- r.Run(tree, domain.RunRequest{})
	}()
	waitForState(t, r, Running)

	begin := time.Now()
	r.Cancel()
	require.NoError(t, <-done)

	assert.Less(t, time.Since(begin), 5*time.Second, "cancellation must complete within the grace bound")
	byID := terminalEvents(*events)
	require.Len(t, byID, 1)
	assert.Equal(t, domain.OutcomeSkipped, byID["Tests/SlowTest/testWait"][0].Outcome)
	assert.Equal(t, Idle, r.State())
}

func TestCancel_WhileIdleIsANoOp(t *testing.T) {
	r := newTestRunner(t, fakeRunner)
	r.Cancel()
	assert.Equal(t, Idle, r.State())
}

func TestDiscover_TwiceYieldsIdenticalTrees(t *testing.T) {
	r := newTestRunner(t, fakeRunner)

	a, err := r.Discover()
	require.NoError(t, err)
	b, err := r.Discover()
	require.NoError(t, err)

	require.Equal(t, len(a.Index), len(b.Index))
	for id, n := range a.Index {
		other := b.Lookup(id)
		require.NotNil(t, other)
		assert.Equal(t, n.Label, other.Label)
		assert.Equal(t, n.Kind, other.Kind)
	}
}

func waitForState(t *testing.T, r *Runner, want State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if r.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("runner never reached state %s", want)
}
