package commands

import (
	"fmt"
	"path/filepath"

	"pta/internal/cli"
	"pta/internal/config"
	"pta/internal/storage"
	"pta/internal/ui"
)

// FaillsCommand handles the faills command.
type FaillsCommand struct{}

// Execute opens the interactive viewer over the last saved run.
func (fc *FaillsCommand) Execute(flags *cli.Flags) error {
	workspace, err := filepath.Abs(flags.Workspace)
	if err != nil {
		return err
	}
	cfg, err := config.Load(workspace, flags.ToConfigFlags())
	if err != nil {
		return err
	}

	st := storage.NewJSONStorage(cfg)
	summary, err := st.Load()
	if err != nil {
		return fmt.Errorf("no saved results (run `pta run` first): %w", err)
	}
	return ui.NewErrorViewer(st).View(summary)
}
