// Package tickets measures how much code changed in commits that
// reference given issue-tracker ticket IDs: the migration footprint of
// converting legacy test runners to the unified format.
package tickets

import (
	"path"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/specgrowth/specgrowth/pkg/gitlib"
	"github.com/specgrowth/specgrowth/pkg/linecount"
)

// Driver describes one scan target: the ticket IDs that tracked the
// migration and the implementation languages whose files count.
type Driver struct {
	Name      string   `mapstructure:"name"      yaml:"name"`
	Repo      string   `mapstructure:"repo"      yaml:"repo"`
	Tickets   []string `mapstructure:"tickets"   yaml:"tickets"`
	Languages []string `mapstructure:"languages" yaml:"languages"`
}

// Result aggregates the line deltas of all matched commits.
type Result struct {
	Driver       string
	Commits      int
	FilesChanged int
	LinesAdded   int
	LinesRemoved int
}

// Net returns the net line delta.
func (r *Result) Net() int {
	return r.LinesAdded - r.LinesRemoved
}

// MatchMessage reports whether a commit message references any of the
// ticket IDs.
func MatchMessage(message string, ticketIDs []string) bool {
	for _, id := range ticketIDs {
		if id != "" && strings.Contains(message, id) {
			return true
		}
	}

	return false
}

// matchesLanguage reports whether the file at changePath, with the
// given content, is written in one of the driver's languages. Language
// detection uses enry; matching is case-insensitive.
func matchesLanguage(changePath string, content []byte, languages []string) bool {
	if len(languages) == 0 {
		return true
	}

	detected := enry.GetLanguage(path.Base(changePath), content)
	if detected == "" {
		return false
	}

	for _, lang := range languages {
		if strings.EqualFold(detected, lang) {
			return true
		}
	}

	return false
}

// Scan walks the repository history and accumulates line deltas for
// every commit whose message references one of the driver's tickets.
// Deltas are computed from blob line counts against the first parent.
func Scan(repo *gitlib.Repository, driver Driver) (*Result, error) {
	commits, err := gitlib.LoadCommits(repo, gitlib.LogOptions{})
	if err != nil {
		return nil, err
	}
	defer gitlib.FreeCommits(commits)

	result := &Result{Driver: driver.Name}

	for _, commit := range commits {
		if !MatchMessage(commit.Message(), driver.Tickets) {
			continue
		}

		result.Commits++

		scanErr := scanCommit(repo, commit, driver, result)
		if scanErr != nil {
			return nil, scanErr
		}
	}

	return result, nil
}

func scanCommit(repo *gitlib.Repository, commit *gitlib.Commit, driver Driver, result *Result) error {
	changes, err := gitlib.CommitChanges(repo, commit)
	if err != nil {
		return err
	}

	for _, change := range changes {
		oldLines, newLines, ok := changeLines(repo, change, driver.Languages)
		if !ok {
			continue
		}

		result.FilesChanged++

		switch {
		case newLines > oldLines:
			result.LinesAdded += newLines - oldLines
		case oldLines > newLines:
			result.LinesRemoved += oldLines - newLines
		}
	}

	return nil
}

// changeLines loads both sides of a change and returns their raw line
// counts. Unreadable or non-matching files report ok=false.
func changeLines(repo *gitlib.Repository, change gitlib.Change, languages []string) (oldLines, newLines int, ok bool) {
	var sample []byte

	if !change.OldHash.IsZero() {
		data, err := blobContents(repo, change.OldHash)
		if err != nil {
			return 0, 0, false
		}

		oldLines = linecount.RawLines(data)
		sample = data
	}

	if !change.NewHash.IsZero() {
		data, err := blobContents(repo, change.NewHash)
		if err != nil {
			return 0, 0, false
		}

		newLines = linecount.RawLines(data)
		sample = data
	}

	if linecount.IsBinary(sample) {
		return 0, 0, false
	}

	if !matchesLanguage(change.Path, sample, languages) {
		return 0, 0, false
	}

	return oldLines, newLines, true
}

func blobContents(repo *gitlib.Repository, hash gitlib.Hash) ([]byte, error) {
	blob, err := repo.LookupBlob(hash)
	if err != nil {
		return nil, err
	}
	defer blob.Free()

	data := blob.Contents()
	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}
