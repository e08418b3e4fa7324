package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specgrowth/specgrowth/internal/config"
	"github.com/specgrowth/specgrowth/pkg/chart"
	"github.com/specgrowth/specgrowth/pkg/results"
)

const (
	renderCmdUse   = "render [table-path]"
	renderCmdShort = "Render a growth table as an HTML chart"
)

// NewRenderCommand creates the render subcommand.
func NewRenderCommand() *cobra.Command {
	var (
		configPath string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   renderCmdUse,
		Short: renderCmdShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			tablePath := cfg.Output.Results
			if len(args) == 1 {
				tablePath = args[0]
			}

			if outputPath == "" {
				outputPath = cfg.Output.Chart
			}

			if _, statErr := os.Stat(tablePath); statErr != nil {
				return statErr
			}

			table, err := results.Load(tablePath)
			if err != nil {
				return err
			}

			writeErr := chart.WriteFile(table, outputPath)
			if errors.Is(writeErr, chart.ErrEmptyTable) {
				// Nothing measured yet is not a failure.
				fmt.Fprintf(cmd.OutOrStdout(), "%s holds no samples, nothing to render\n", tablePath)

				return nil
			}

			if writeErr != nil {
				return writeErr
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d samples)\n", outputPath, len(table.Rows))

			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "HTML chart path")

	return cmd
}
