package ui

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"pta/internal/domain"
	"pta/internal/storage"
)

// ErrorViewer displays the failures of the last run in an interactive TUI.
type ErrorViewer struct {
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer.
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{storage: st}
}

// View opens the failure list. 'r' toggles a failure's resolved flag and
// persists it through storage; Ctrl+C exits.
func (ev *ErrorViewer) View(summary *domain.RunSummary) error {
	if len(summary.Failures) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	itemText := func(i int) string {
		failure := summary.Failures[i]
		if failure.Resolved {
			return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", i+1, failure.NodeID)
		}
		return fmt.Sprintf("[yellow]%d.[white] %s", i+1, failure.NodeID)
	}
	for i := range summary.Failures {
		list.AddItem(itemText(i), "", 0, nil)
	}

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	unresolved := func() int {
		n := 0
		for _, failure := range summary.Failures {
			if !failure.Resolved {
				n++
			}
		}
		return n
	}
	updateHeader := func() {
		headerView.SetText(fmt.Sprintf(
			" Test Failures (%d total, %d unresolved) | ↑↓ navigate, [yellow]R[white] toggle resolved, Ctrl+C exit ",
			len(summary.Failures), unresolved()))
	}
	updateDetails := func() {
		i := list.GetCurrentItem()
		if i < 0 || i >= len(summary.Failures) {
			return
		}
		failure := summary.Failures[i]
		text := fmt.Sprintf("[yellow]%s[white]\n[gray]outcome: %s[white]\n\n%s",
			failure.NodeID, failure.Outcome, failure.Message)
		if failure.Detail != "" {
			text += "\n\n[gray]" + tview.Escape(failure.Detail) + "[white]"
		}
		detailsView.SetText(text)
	}
	updateHeader()
	updateDetails()

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				i := list.GetCurrentItem()
				if i >= 0 && i < len(summary.Failures) {
					summary.Failures[i].Resolved = !summary.Failures[i].Resolved
					list.SetItemText(i, itemText(i), "")
					updateHeader()
					_ = ev.storage.Save(summary)
				}
				return nil
			}
		}
		return event
	})

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexColumn).
			AddItem(list, 0, 1, true).
			AddItem(detailsView, 0, 2, false), 0, 1, true)

	return app.SetRoot(flex, true).Run()
}
