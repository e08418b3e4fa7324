package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/specgrowth/specgrowth/internal/config"
	"github.com/specgrowth/specgrowth/pkg/results"
)

const (
	summaryCmdUse   = "summary [table-path]"
	summaryCmdShort = "Summarize a growth table in the terminal"

	// summaryTailRows is how many recent samples the table shows.
	summaryTailRows = 10
)

// ErrNoSamples is returned when the growth table holds no rows.
var ErrNoSamples = errors.New("growth table holds no samples")

// NewSummaryCommand creates the summary subcommand.
func NewSummaryCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   summaryCmdUse,
		Short: summaryCmdShort,
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

			if _, statErr := os.Stat(tablePath); statErr != nil {
				return statErr
			}

			loaded, err := results.Load(tablePath)
			if err != nil {
				return err
			}

			if len(loaded.Rows) == 0 {
				return ErrNoSamples
			}

			printSummary(cmd, tablePath, loaded)

			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path")

	return cmd
}

func printSummary(cmd *cobra.Command, tablePath string, loaded *results.Table) {
	first := loaded.Rows[0]
	last := loaded.Rows[len(loaded.Rows)-1]

	bold := color.New(color.Bold)
	out := cmd.OutOrStdout()

	bold.Fprintf(out, "%s: %d weekly samples, %s through %s\n\n",
		tablePath, len(loaded.Rows),
		first.Date.Format(time.DateOnly), last.Date.Format(time.DateOnly))

	growth := last.TotalLines - first.TotalLines

	growthText := humanize.Comma(int64(growth))
	if growth > 0 {
		growthText = color.GreenString("+" + growthText)
	} else if growth < 0 {
		growthText = color.RedString(growthText)
	}

	fmt.Fprintf(out, "latest sample:  %s (%s)\n", last.ISOWeek, humanize.Time(last.Date))
	fmt.Fprintf(out, "spec files:     %s\n", humanize.Comma(int64(last.NumFiles)))
	fmt.Fprintf(out, "content lines:  %s\n", humanize.Comma(int64(last.TotalLines)))
	fmt.Fprintf(out, "line growth:    %s over the measured range\n\n", growthText)

	writer := table.NewWriter()
	writer.SetOutputMirror(out)
	writer.SetStyle(table.StyleLight)
	writer.AppendHeader(table.Row{"Week", "Date", "Commit", "Files", "Lines"})
	writer.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Files", Align: text.AlignRight},
		{Name: "Lines", Align: text.AlignRight},
	})

	rows := loaded.Rows
	if len(rows) > summaryTailRows {
		rows = rows[len(rows)-summaryTailRows:]
	}

	for _, row := range rows {
		writer.AppendRow(table.Row{
			row.ISOWeek,
			row.Date.Format(time.DateOnly),
			shortHash(row.CommitHash),
			humanize.Comma(int64(row.NumFiles)),
			humanize.Comma(int64(row.TotalLines)),
		})
	}

	writer.Render()
}

// shortHash abbreviates a full commit hash for display.
func shortHash(hash string) string {
	const short = 8
	if len(hash) <= short {
		return hash
	}

	return hash[:short]
}
