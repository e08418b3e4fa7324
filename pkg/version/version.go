// Package version carries build metadata injected at link time.
package version

// Set via -ldflags "-X github.com/specgrowth/specgrowth/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "<unknown>"
	Date    = "<unknown>"
)
