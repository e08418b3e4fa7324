package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specgrowth/specgrowth/internal/config"
	"github.com/specgrowth/specgrowth/pkg/latex"
	"github.com/specgrowth/specgrowth/pkg/specfile"
	"github.com/specgrowth/specgrowth/pkg/specindex"
)

const (
	indexCmdUse   = "index <tree-path>"
	indexCmdShort = "Index specification files in a working tree"
	indexArgCount = 1
)

// NewIndexCommand creates the index subcommand.
func NewIndexCommand() *cobra.Command {
	var (
		configPath string
		outputPath string
		asLatex    bool
	)

	cmd := &cobra.Command{
		Use:   indexCmdUse,
		Short: indexCmdShort,
		Long: `Index scans a checked-out working tree for specification test files
and writes a markdown table listing each file's schema version,
description and size. With --latex the table is converted to a LaTeX
fragment instead.`,
		Args: cobra.ExactArgs(indexArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			classifier := specfile.NewClassifier(cfg.Classifier.Extensions, cfg.Classifier.SkipDirs)

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

			entries, err := specindex.ScanDir(args[0], classifier, cfg.Classifier.CommentPrefix, logger)
			if err != nil {
				return err
			}

			var markdown strings.Builder

			writeErr := specindex.WriteMarkdown(&markdown, args[0], entries)
			if writeErr != nil {
				return writeErr
			}

			rendered := markdown.String()

			if asLatex {
				rendered, err = latex.Convert([]byte(rendered), latex.Options{})
				if err != nil {
					return err
				}
			}

			if outputPath == "" {
				fmt.Fprint(cmd.OutOrStdout(), rendered)

				return nil
			}

			return os.WriteFile(outputPath, []byte(rendered), 0o644)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the index to a file instead of stdout")
	cmd.Flags().BoolVar(&asLatex, "latex", false, "emit a LaTeX fragment instead of markdown")

	return cmd
}
