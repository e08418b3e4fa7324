package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/specgrowth/specgrowth/internal/mcp"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve measurement tools over the Model Context Protocol",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server exposes corpus measurement as tools that AI agents can
discover and invoke:
  - specgrowth_count: Measure corpus growth across a repository's history
  - specgrowth_table: Read a previously produced growth table
  - specgrowth_index: Index specification files in a working tree`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			srv := mcp.NewServer(mcp.ServerDeps{Logger: logger})

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}
