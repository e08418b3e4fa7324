// Package main provides the entry point for the specgrowth CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specgrowth/specgrowth/cmd/specgrowth/commands"
	"github.com/specgrowth/specgrowth/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "specgrowth",
		Short: "Specgrowth - specification test corpus growth measurement",
		Long: `Specgrowth measures how a driver-specification test corpus grows
over a repository's history, one sampled commit per ISO week.

Commands:
  count     Measure corpus growth across repository history
  render    Render a growth table as an HTML chart
  summary   Summarize a growth table in the terminal
  index     Index specification files in a working tree
  tickets   Scan driver repositories for migration commits
  mcp       Serve measurement tools over the Model Context Protocol`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewCountCommand())
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewSummaryCommand())
	rootCmd.AddCommand(commands.NewIndexCommand())
	rootCmd.AddCommand(commands.NewTicketsCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "specgrowth %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
