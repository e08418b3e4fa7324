// Package commands implements the specgrowth CLI subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/specgrowth/specgrowth/internal/config"
	"github.com/specgrowth/specgrowth/pkg/chart"
	"github.com/specgrowth/specgrowth/pkg/pipeline"
	"github.com/specgrowth/specgrowth/pkg/results"
	"github.com/specgrowth/specgrowth/pkg/specfile"
)

const (
	countCmdUse   = "count <repo-path>"
	countCmdShort = "Measure corpus growth across repository history"
	countArgCount = 1
)

// NewCountCommand creates the count subcommand.
func NewCountCommand() *cobra.Command {
	var (
		configPath string
		outputPath string
		chartPath  string
		maxCommits int
		since      string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   countCmdUse,
		Short: countCmdShort,
		Long: `Count samples the first commit of every ISO week in the repository's
history, classifies specification test files at each sampled revision,
counts their content lines and appends one row per commit to a CSV
table. Commits already present in the table are skipped, so an
interrupted run resumes where it stopped.`,
		Args: cobra.ExactArgs(countArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			if outputPath == "" {
				outputPath = cfg.Output.Results
			}

			if maxCommits == 0 {
				maxCommits = cfg.Sampling.MaxCommits
			}

			if since == "" {
				since = cfg.Sampling.Since
			}

			opts := pipeline.Options{
				OutputPath:    outputPath,
				MaxCommits:    maxCommits,
				Since:         since,
				CommentPrefix: cfg.Classifier.CommentPrefix,
				Classifier:    specfile.NewClassifier(cfg.Classifier.Extensions, cfg.Classifier.SkipDirs),
				Logger:        slog.New(slog.NewTextHandler(os.Stderr, nil)),
			}

			if !quiet {
				opts.Progress = cmd.OutOrStdout()
			}

			summary, err := pipeline.Run(args[0], opts)
			if err != nil {
				return err
			}

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "done: %d sampled, %d skipped, %d processed\n",
					summary.Sampled, summary.Skipped, summary.Processed)
			}

			if chartPath == "" {
				return nil
			}

			table, err := results.Load(outputPath)
			if err != nil {
				return err
			}

			return chart.WriteFile(table, chartPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "CSV table to append to")
	cmd.Flags().StringVar(&chartPath, "chart", "", "also render an HTML chart to this path")
	cmd.Flags().IntVarP(&maxCommits, "max-commits", "n", 0, "keep only the most recent N weekly samples")
	cmd.Flags().StringVar(&since, "since", "", "only sample commits after this time (e.g. 720h or 2024-01-01)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")

	return cmd
}
