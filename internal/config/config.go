package config

import "errors"

// Config is the top-level configuration struct for specgrowth.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Output     OutputConfig     `mapstructure:"output"`
	Sampling   SamplingConfig   `mapstructure:"sampling"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Tickets    TicketsConfig    `mapstructure:"tickets"`
}

// OutputConfig holds the artifact paths.
type OutputConfig struct {
	Results string `mapstructure:"results"`
	Chart   string `mapstructure:"chart"`
}

// SamplingConfig holds history sampling knobs.
type SamplingConfig struct {
	MaxCommits int    `mapstructure:"max_commits"`
	Since      string `mapstructure:"since"`
}

// ClassifierConfig holds specification file detection settings.
type ClassifierConfig struct {
	Extensions    []string `mapstructure:"extensions"`
	SkipDirs      []string `mapstructure:"skip_dirs"`
	CommentPrefix string   `mapstructure:"comment_prefix"`
}

// TicketsConfig holds the driver list for migration scans.
type TicketsConfig struct {
	Drivers []DriverConfig `mapstructure:"drivers"`
}

// DriverConfig describes one driver repository to scan for ticket
// references.
type DriverConfig struct {
	Name      string   `mapstructure:"name"`
	Repo      string   `mapstructure:"repo"`
	Tickets   []string `mapstructure:"tickets"`
	Languages []string `mapstructure:"languages"`
}

// Defaults applied when neither file nor environment sets a value.
const (
	DefaultResultsPath   = "corpus_growth.csv"
	DefaultChartPath     = "corpus_growth.html"
	DefaultMaxCommits    = 0
	DefaultCommentPrefix = "#"
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidMaxCommits indicates the sampling limit is negative.
	ErrInvalidMaxCommits = errors.New("sampling.max_commits must be non-negative")
	// ErrEmptyResultsPath indicates the results path is blank.
	ErrEmptyResultsPath = errors.New("output.results must not be empty")
	// ErrEmptyChartPath indicates the chart path is blank.
	ErrEmptyChartPath = errors.New("output.chart must not be empty")
	// ErrDriverMissingName indicates a configured driver has no name.
	ErrDriverMissingName = errors.New("tickets.drivers entries must have a name")
	// ErrDriverMissingTickets indicates a configured driver lists no tickets.
	ErrDriverMissingTickets = errors.New("tickets.drivers entries must list at least one ticket")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Sampling.MaxCommits < 0 {
		return ErrInvalidMaxCommits
	}

	if c.Output.Results == "" {
		return ErrEmptyResultsPath
	}

	if c.Output.Chart == "" {
		return ErrEmptyChartPath
	}

	return c.validateDrivers()
}

func (c *Config) validateDrivers() error {
	for _, driver := range c.Tickets.Drivers {
		if driver.Name == "" {
			return ErrDriverMissingName
		}

		if len(driver.Tickets) == 0 {
			return ErrDriverMissingTickets
		}
	}

	return nil
}
