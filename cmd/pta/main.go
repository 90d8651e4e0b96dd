package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pta/internal/cli"
	"pta/internal/cli/commands"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "pta",
		Short:   "PHPUnit test explorer adapter",
		Long:    `Discovers PHPUnit tests as a hierarchical tree, runs selections of it and streams per-case results, the way a test explorer host drives a test adapter.`,
		Version: version,
	}

	var flags cli.Flags
	cmds := commands.NewCommands()
	cmds.Register(rootCmd, &flags)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
