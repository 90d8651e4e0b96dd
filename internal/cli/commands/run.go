package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"pta/internal/adapter"
	"pta/internal/cli"
	"pta/internal/config"
	"pta/internal/database"
	"pta/internal/domain"
	"pta/internal/storage"
	"pta/internal/tree"
	"pta/internal/ui"
)

// RunCommand handles the run command.
type RunCommand struct{}

// Execute discovers the workspace's tests, runs the selection and saves
// the summary. Positional args are node ids; --filter selects cases by
// wildcard; with neither, the whole tree runs.
func (rc *RunCommand) Execute(flags *cli.Flags, args []string) error {
	workspace, err := filepath.Abs(flags.Workspace)
	if err != nil {
		return err
	}
	cfg, err := config.Load(workspace, flags.ToConfigFlags())
	if err != nil {
		return err
	}

	if flags.PrepareDB {
		if err := database.NewManager(cfg).Ensure(); err != nil {
			return fmt.Errorf("prepare test database: %w", err)
		}
	}

	collector := newCollector()
	a := adapter.New(workspace, cfg, collector.sink)
	defer a.Dispose()

	// Ctrl+C cancels the run; unresolved cases finalize as skipped.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	go func() {
		if _, ok := <-interrupt; ok {
			a.Cancel()
		}
	}()

	if err := a.Load(); err != nil {
		return err
	}
	t := a.Tree()

	ids := args
	if len(ids) == 0 && flags.Filter != "" {
		ids = tree.MatchIDs(t, flags.Filter)
		if len(ids) == 0 {
			color.Yellow("No tests match filter %q", flags.Filter)
			return nil
		}
	}

	total := len(t.Expand(ids))
	if total == 0 {
		color.Yellow("No tests to execute")
		return nil
	}
	collector.progress = ui.NewProgressBar(total)

	if err := a.Run(ids); err != nil {
		return err
	}

	summary := collector.summary()
	st := storage.NewJSONStorage(cfg)
	if err := st.Save(summary); err != nil {
		return fmt.Errorf("save test results: %w", err)
	}

	ui.NewFormatter(cfg).PrintSummary(summary)

	if flags.OpenFaills && len(summary.Failures) > 0 {
		return ui.NewErrorViewer(st).View(summary)
	}
	return nil
}

// collector folds host events into a RunSummary and drives the progress bar.
type collector struct {
	progress *ui.ProgressBar
	meta     domain.RunMeta
	failures []domain.NodeResult
	started  time.Time
}

func newCollector() *collector {
	return &collector{started: time.Now()}
}

func (c *collector) sink(ev adapter.HostEvent) {
	switch ev.Type {
	case adapter.RunStarted:
		c.meta.RunID = ev.RunID
		c.started = time.Now()
	case adapter.RunProgress:
		if ev.Event == nil || ev.Event.Type != domain.TestFinishedEvent {
			return
		}
		c.record(ev.Event)
	case adapter.RunFinished:
		if c.progress != nil {
			c.progress.Finish()
		}
	}
}

func (c *collector) record(ev *domain.RunEvent) {
	c.meta.Count(ev.Outcome)
	if ev.Outcome != domain.OutcomePassed {
		c.failures = append(c.failures, domain.NodeResult{
			NodeID:  ev.NodeID,
			Label:   filepath.Base(ev.NodeID),
			Outcome: ev.Outcome,
			Message: ev.Message,
			Detail:  ev.Detail,
			Seconds: ev.Duration.Seconds(),
		})
	}
	if c.progress != nil {
		c.progress.Update(c.meta.Passed, c.meta.Failed+c.meta.Errored, c.meta.Skipped)
	}
}

func (c *collector) summary() *domain.RunSummary {
	elapsed := time.Since(c.started)
	c.meta.Duration = elapsed.String()
	c.meta.DurationSeconds = elapsed.Seconds()
	c.meta.Timestamp = time.Now().Format(time.RFC3339)
	return &domain.RunSummary{Meta: c.meta, Failures: c.failures}
}
