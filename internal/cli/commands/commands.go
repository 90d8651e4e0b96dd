package commands

import (
	"github.com/spf13/cobra"

	"pta/internal/cli"
)

// Commands holds all CLI commands.
type Commands struct {
	Run    *RunCommand
	List   *ListCommand
	Faills *FaillsCommand
}

// NewCommands creates all commands.
func NewCommands() *Commands {
	return &Commands{
		Run:    &RunCommand{},
		List:   &ListCommand{},
		Faills: &FaillsCommand{},
	}
}

// Register registers all commands with cobra.
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	// Run command
	runCmd := &cobra.Command{
		Use:   "run [node-ids...]",
		Short: "Run PHPUnit tests",
		Long:  "Discover tests, run the given selection (or everything) and report per-case outcomes. Suite ids expand to all their cases.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run.Execute(flags, args)
		},
	}
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Select cases by wildcard pattern (e.g. '*UserTest*' or 'testCreate*')")
	runCmd.Flags().StringVar(&flags.RunnerPath, "runner", "", "Path to the PHPUnit binary (default vendor/bin/phpunit in the workspace)")
	runCmd.Flags().DurationVar(&flags.Grace, "grace", 0, "Grace period before a cancelled run is force-killed")
	runCmd.Flags().BoolVar(&flags.PrepareDB, "prepare-db", false, "Ensure the MySQL test database exists before running")
	runCmd.Flags().BoolVar(&flags.OpenFaills, "open-faills", false, "Open the faills viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered tests",
		Long:  "Discover and display the test tree without executing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.List.Execute(flags)
		},
	}
	listCmd.Flags().StringVar(&flags.RunnerPath, "runner", "", "Path to the PHPUnit binary (default vendor/bin/phpunit in the workspace)")
	listCmd.Flags().BoolVarP(&flags.CasesOnly, "cases", "c", false, "Print the flat list of case ids instead of the tree")
	rootCmd.AddCommand(listCmd)

	// Faills command
	faillsCmd := &cobra.Command{
		Use:   "faills",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last run in an interactive viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Faills.Execute(flags)
		},
	}
	rootCmd.AddCommand(faillsCmd)

	rootCmd.PersistentFlags().StringVarP(&flags.Workspace, "workspace", "w", ".", "Workspace root the runner executes in")
}
