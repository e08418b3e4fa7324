package commands

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/specgrowth/specgrowth/internal/config"
	"github.com/specgrowth/specgrowth/pkg/gitlib"
	"github.com/specgrowth/specgrowth/pkg/tickets"
)

const (
	ticketsCmdUse   = "tickets [repo-path]"
	ticketsCmdShort = "Scan driver repositories for migration commits"
)

// Sentinel errors for tickets argument validation.
var (
	// ErrNoDrivers is returned when neither config nor flags define a driver.
	ErrNoDrivers = errors.New("no drivers configured (set tickets.drivers or use --tickets)")
	// ErrAdHocNeedsRepo is returned when --tickets is used without a repo path.
	ErrAdHocNeedsRepo = errors.New("a repository path argument is required with --tickets")
)

// NewTicketsCommand creates the tickets subcommand.
func NewTicketsCommand() *cobra.Command {
	var (
		configPath  string
		csvPath     string
		ticketIDs   []string
		languages   []string
		driverNames []string
	)

	cmd := &cobra.Command{
		Use:   ticketsCmdUse,
		Short: ticketsCmdShort,
		Long: `Tickets walks driver repository histories and aggregates the line
deltas of commits referencing the configured migration ticket IDs.
Drivers come from the config file; --tickets defines a one-off driver
scanning the given repository instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			drivers, err := resolveDrivers(cfg, args, ticketIDs, languages, driverNames)
			if err != nil {
				return err
			}

			scanned := make([]*tickets.Result, 0, len(drivers))

			for _, driver := range drivers {
				result, scanErr := scanDriver(driver)
				if scanErr != nil {
					return scanErr
				}

				scanned = append(scanned, result)
			}

			printTicketResults(cmd, scanned)

			if csvPath == "" {
				return nil
			}

			return writeTicketCSV(csvPath, scanned)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path")
	cmd.Flags().StringVar(&csvPath, "csv", "", "also write the results as CSV to this path")
	cmd.Flags().StringSliceVar(&ticketIDs, "tickets", nil, "ticket IDs for a one-off scan")
	cmd.Flags().StringSliceVar(&languages, "languages", nil, "languages counted in a one-off scan")
	cmd.Flags().StringArrayVar(&driverNames, "driver", nil, "limit the scan to named configured drivers")

	return cmd
}

// resolveDrivers turns config and flags into a concrete scan list. An
// explicit --tickets flag defines a single ad-hoc driver; otherwise
// the configured drivers are used, optionally filtered by --driver.
// A positional repo path overrides a driver's configured one when only
// one driver is scanned.
func resolveDrivers(cfg *config.Config, args, ticketIDs, languages, driverNames []string) ([]tickets.Driver, error) {
	if len(ticketIDs) > 0 {
		if len(args) == 0 {
			return nil, ErrAdHocNeedsRepo
		}

		return []tickets.Driver{{
			Name:      "ad-hoc",
			Repo:      args[0],
			Tickets:   ticketIDs,
			Languages: languages,
		}}, nil
	}

	drivers := make([]tickets.Driver, 0, len(cfg.Tickets.Drivers))

	for _, d := range cfg.Tickets.Drivers {
		if len(driverNames) > 0 && !containsFold(driverNames, d.Name) {
			continue
		}

		drivers = append(drivers, tickets.Driver{
			Name:      d.Name,
			Repo:      d.Repo,
			Tickets:   d.Tickets,
			Languages: d.Languages,
		})
	}

	if len(drivers) == 0 {
		return nil, ErrNoDrivers
	}

	if len(args) == 1 && len(drivers) == 1 {
		drivers[0].Repo = args[0]
	}

	return drivers, nil
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}

	return false
}

func scanDriver(driver tickets.Driver) (*tickets.Result, error) {
	repo, err := gitlib.OpenRepository(driver.Repo)
	if err != nil {
		return nil, err
	}
	defer repo.Free()

	return tickets.Scan(repo, driver)
}

func printTicketResults(cmd *cobra.Command, scanned []*tickets.Result) {
	writer := table.NewWriter()
	writer.SetOutputMirror(cmd.OutOrStdout())
	writer.SetStyle(table.StyleLight)
	writer.AppendHeader(table.Row{"Driver", "Commits", "Files", "Added", "Removed", "Net"})
	writer.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Commits", Align: text.AlignRight},
		{Name: "Files", Align: text.AlignRight},
		{Name: "Added", Align: text.AlignRight},
		{Name: "Removed", Align: text.AlignRight},
		{Name: "Net", Align: text.AlignRight},
	})

	for _, result := range scanned {
		writer.AppendRow(table.Row{
			result.Driver,
			humanize.Comma(int64(result.Commits)),
			humanize.Comma(int64(result.FilesChanged)),
			humanize.Comma(int64(result.LinesAdded)),
			humanize.Comma(int64(result.LinesRemoved)),
			humanize.Comma(int64(result.Net())),
		})
	}

	writer.Render()
}

func writeTicketCSV(path string, scanned []*tickets.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}

	writer := csv.NewWriter(file)

	writeErr := writer.Write([]string{"driver", "commits", "files_changed", "lines_added", "lines_removed", "net_lines"})

	for _, result := range scanned {
		if writeErr != nil {
			break
		}

		writeErr = writer.Write([]string{
			result.Driver,
			strconv.Itoa(result.Commits),
			strconv.Itoa(result.FilesChanged),
			strconv.Itoa(result.LinesAdded),
			strconv.Itoa(result.LinesRemoved),
			strconv.Itoa(result.Net()),
		})
	}

	writer.Flush()

	if writeErr == nil {
		writeErr = writer.Error()
	}

	closeErr := file.Close()

	if writeErr != nil {
		return fmt.Errorf("write csv: %w", writeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close csv: %w", closeErr)
	}

	return nil
}
