package ui

import (
	"fmt"

	"github.com/fatih/color"

	"pta/internal/config"
	"pta/internal/domain"
)

// Formatter formats and displays trees and run summaries.
type Formatter struct {
	config *config.Config
}

// NewFormatter creates a new Formatter.
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{config: cfg}
}

// PrintTree displays a discovered test tree with indentation per level.
func (f *Formatter) PrintTree(t *domain.TestTree) {
	if t == nil || len(t.Index) == 0 {
		color.Yellow("No tests discovered")
		return
	}
	f.printNode(t.Root, 0)

	cases := len(t.Cases())
	fmt.Println()
	color.Cyan("%d test case(s) in %d node(s)", cases, len(t.Index))
}

func (f *Formatter) printNode(n *domain.TestNode, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	if n.Kind == domain.SuiteNode {
		if depth > 0 { // root label is the workspace, children carry the content
			color.Cyan("%s%s", indent, n.Label)
		}
		for _, c := range n.Children {
			f.printNode(c, depth+1)
		}
		return
	}
	fmt.Printf("%s%s\n", indent, n.Label)
}

// PrintCaseIDs displays the flat list of case ids, one per line.
func (f *Formatter) PrintCaseIDs(t *domain.TestTree) {
	for _, c := range t.Cases() {
		fmt.Println(c.ID)
	}
}

// PrintSummary displays the outcome counts and failed cases of a run.
func (f *Formatter) PrintSummary(summary *domain.RunSummary) {
	meta := summary.Meta

	fmt.Println()
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                       Test Run Summary                        ║")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝")
	fmt.Println()

	fmt.Printf("  %-12s ", "Total")
	color.White("%d", meta.TotalCases)
	fmt.Printf("  %-12s ", "Passed")
	color.Green("%d", meta.Passed)
	fmt.Printf("  %-12s ", "Failed")
	color.Red("%d", meta.Failed)
	fmt.Printf("  %-12s ", "Errored")
	color.Red("%d", meta.Errored)
	fmt.Printf("  %-12s ", "Skipped")
	color.Yellow("%d", meta.Skipped)
	fmt.Printf("  %-12s ", "Duration")
	color.White("%.2fs", meta.DurationSeconds)

	fmt.Println()
	if meta.Failed == 0 && meta.Errored == 0 {
		color.Green("✓ All tests passed!")
		return
	}

	color.Red("✗ %d test case(s) did not pass", meta.Failed+meta.Errored)
	fmt.Println()
	for _, failure := range summary.Failures {
		if failure.Outcome == domain.OutcomeSkipped {
			continue
		}
		color.Red("  %s", failure.NodeID)
		if failure.Message != "" {
			fmt.Printf("    %s\n", failure.Message)
		}
	}
}
