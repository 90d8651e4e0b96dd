package commands

import (
	"path/filepath"

	"github.com/fatih/color"

	"pta/internal/adapter"
	"pta/internal/cli"
	"pta/internal/config"
	"pta/internal/ui"
)

// ListCommand handles the list command.
type ListCommand struct{}

// Execute discovers the workspace's tests and prints the tree (or the
// flat case ids with --cases).
func (lc *ListCommand) Execute(flags *cli.Flags) error {
	workspace, err := filepath.Abs(flags.Workspace)
	if err != nil {
		return err
	}
	cfg, err := config.Load(workspace, flags.ToConfigFlags())
	if err != nil {
		return err
	}

	var diagnostic string
	a := adapter.New(workspace, cfg, func(ev adapter.HostEvent) {
		if ev.Diagnostic != "" {
			diagnostic = ev.Diagnostic
		}
	})
	defer a.Dispose()

	if err := a.Load(); err != nil {
		return err
	}
	if diagnostic != "" {
		color.Yellow("%s", diagnostic)
	}

	formatter := ui.NewFormatter(cfg)
	if flags.CasesOnly {
		formatter.PrintCaseIDs(a.Tree())
		return nil
	}
	formatter.PrintTree(a.Tree())
	return nil
}
