// Package pipeline runs the corpus-growth measurement: sample one
// commit per ISO week, classify specification files at each sampled
// revision, count content lines, and append one durable row per
// commit to the result table.
//
// The run is an explicit fold over the sampled commit sequence. The
// already-processed set is re-derived from the persisted table at
// start, so an interrupted run resumes exactly where it stopped.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/specgrowth/specgrowth/pkg/gitlib"
	"github.com/specgrowth/specgrowth/pkg/linecount"
	"github.com/specgrowth/specgrowth/pkg/results"
	"github.com/specgrowth/specgrowth/pkg/sampler"
	"github.com/specgrowth/specgrowth/pkg/specfile"
)

// progressEvery is how many processed commits between progress lines.
const progressEvery = 50

// ErrHistoryUnavailable indicates the repository history cannot be
// read. This is fatal: no sampling state exists yet, so nothing can be
// corrupted.
var ErrHistoryUnavailable = errors.New("repository history unavailable")

// DefaultCommentPrefix is the full-line comment marker of the corpus
// markup.
const DefaultCommentPrefix = "#"

// Options configures a pipeline run.
type Options struct {
	// OutputPath is the result table location.
	OutputPath string

	// MaxCommits keeps only the most recent N weekly samples (0 = all).
	MaxCommits int

	// Since restricts history enumeration (duration, RFC3339 or date).
	Since string

	// CommentPrefix overrides the full-line comment marker.
	CommentPrefix string

	// Classifier overrides the default specification-file classifier.
	Classifier *specfile.Classifier

	// Progress receives progress lines; nil disables them.
	Progress io.Writer

	// Logger receives per-file warnings; nil uses slog.Default.
	Logger *slog.Logger
}

// Summary reports what a run did.
type Summary struct {
	Sampled   int // weekly samples found in history
	Skipped   int // samples already present in the table
	Processed int // rows appended by this run
}

// Run executes the pipeline against the repository at repoPath.
func Run(repoPath string, opts Options) (*Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	classifier := opts.Classifier
	if classifier == nil {
		classifier = specfile.DefaultClassifier()
	}

	commentPrefix := opts.CommentPrefix
	if commentPrefix == "" {
		commentPrefix = DefaultCommentPrefix
	}

	repo, err := gitlib.OpenRepository(repoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}
	defer repo.Free()

	samples, err := sampleHistory(repo, opts)
	if err != nil {
		return nil, err
	}

	table, err := results.Load(opts.OutputPath)
	if err != nil {
		return nil, err
	}

	remaining := sampler.FilterKnown(samples, table.Known())

	summary := &Summary{Sampled: len(samples), Skipped: len(samples) - len(remaining)}

	progressf(opts.Progress, "sampled %d weekly commits, %d already processed", summary.Sampled, summary.Skipped)

	if len(remaining) == 0 {
		progressf(opts.Progress, "no new commits to process")

		return summary, nil
	}

	appender, err := results.OpenAppender(opts.OutputPath)
	if err != nil {
		return nil, err
	}
	defer appender.Close()

	for i, sample := range remaining {
		if i == 0 || (i+1)%progressEvery == 0 {
			progressf(opts.Progress, "processing commit %d/%d (%s)", i+1, len(remaining), sample.Week)
		}

		row, commitErr := processCommit(repo, sample, classifier, commentPrefix, logger)
		if commitErr != nil {
			return summary, commitErr
		}

		appendErr := appender.Append(row)
		if appendErr != nil {
			return summary, appendErr
		}

		summary.Processed++
	}

	progressf(opts.Progress, "processed %d new commits, %d total weekly samples", summary.Processed, summary.Sampled)

	return summary, nil
}

// sampleHistory enumerates history oldest-first and buckets it into
// weekly samples.
func sampleHistory(repo *gitlib.Repository, opts Options) ([]sampler.Sample, error) {
	logOpts := gitlib.LogOptions{}

	if opts.Since != "" {
		since, parseErr := gitlib.ParseTime(opts.Since)
		if parseErr != nil {
			return nil, parseErr
		}

		logOpts.Since = &since
	}

	commits, err := gitlib.LoadCommits(repo, logOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}
	defer gitlib.FreeCommits(commits)

	records := make([]sampler.Commit, len(commits))
	for i, c := range commits {
		records[i] = sampler.Commit{Hash: c.Hash().String(), When: c.Author().When}
	}

	return sampler.Tail(sampler.Weekly(records), opts.MaxCommits), nil
}

// processCommit classifies and counts every eligible file at the
// sampled revision. Per-file read failures are logged and excluded;
// they never abort the run. The returned row is complete: it is only
// built after every file has been visited.
func processCommit(
	repo *gitlib.Repository,
	sample sampler.Sample,
	classifier *specfile.Classifier,
	commentPrefix string,
	logger *slog.Logger,
) (results.Row, error) {
	commit, err := repo.LookupCommit(gitlib.NewHash(sample.Hash))
	if err != nil {
		return results.Row{}, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}
	defer commit.Free()

	files, err := commit.Files()
	if err != nil {
		return results.Row{}, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}

	numFiles := 0
	totalLines := 0

	for _, file := range files {
		if !classifier.Eligible(file.Name) {
			continue
		}

		data, readErr := file.Contents()
		if readErr != nil {
			logger.Warn("skipping unreadable file",
				"commit", sample.Hash, "path", file.Name, "error", readErr)

			continue
		}

		if linecount.IsBinary(data) {
			logger.Warn("skipping binary file", "commit", sample.Hash, "path", file.Name)

			continue
		}

		if !specfile.IsSpecContent(data) {
			continue
		}

		numFiles++
		totalLines += linecount.Count(data, commentPrefix)
	}

	return results.Row{
		CommitHash: sample.Hash,
		Date:       sample.When.UTC().Truncate(24 * time.Hour),
		ISOWeek:    sample.Week.String(),
		NumFiles:   numFiles,
		TotalLines: totalLines,
	}, nil
}

func progressf(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}

	_, _ = fmt.Fprintf(w, "progress: "+format+"\n", args...)
}
