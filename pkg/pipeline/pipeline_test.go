package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specgrowth/specgrowth/pkg/pipeline"
	"github.com/specgrowth/specgrowth/pkg/results"
)

// specDoc has exactly 10 countable lines; the comment and blank lines
// are excluded by the line counter.
const specDoc = `# test fixture
description: "growth"
schemaVersion: "1.0"

tests:
  - description: one
    operations: []
  - description: two
    operations: []
runOnRequirements:
  - minServerVersion: "4.0"
topologies: [replicaset]
`

// testRepo builds a scratch repository with dated commits.
type testRepo struct {
	t      *testing.T
	path   string
	native *git2go.Repository
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	return &testRepo{t: t, path: dir, native: repo}
}

func (tr *testRepo) createFile(name, content string) {
	tr.t.Helper()

	path := filepath.Join(tr.path, name)

	dir := filepath.Dir(path)
	if dir != tr.path {
		require.NoError(tr.t, os.MkdirAll(dir, 0o755))
	}

	require.NoError(tr.t, os.WriteFile(path, []byte(content), 0o644))
}

func (tr *testRepo) removeFile(name string) {
	tr.t.Helper()

	require.NoError(tr.t, os.Remove(filepath.Join(tr.path, name)))
}

func (tr *testRepo) commitAt(message string, when time.Time) string {
	tr.t.Helper()

	index, err := tr.native.Index()
	require.NoError(tr.t, err)

	defer index.Free()

	require.NoError(tr.t, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))
	require.NoError(tr.t, index.UpdateAll([]string{"*"}, nil))
	require.NoError(tr.t, index.Write())

	treeID, err := index.WriteTree()
	require.NoError(tr.t, err)

	tree, err := tr.native.LookupTree(treeID)
	require.NoError(tr.t, err)

	defer tree.Free()

	sig := &git2go.Signature{Name: "Test User", Email: "test@example.com", When: when}

	var parents []*git2go.Commit

	head, err := tr.native.Head()
	if err == nil {
		headCommit, lookupErr := tr.native.LookupCommit(head.Target())
		require.NoError(tr.t, lookupErr)

		parents = append(parents, headCommit)

		head.Free()
	}

	oid, err := tr.native.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(tr.t, err)

	for _, p := range parents {
		p.Free()
	}

	return oid.String()
}

// threeWeekRepo creates the canonical scenario: three commits in three
// distinct ISO weeks, where only the second carries a spec file (the
// third removes it again).
func threeWeekRepo(t *testing.T) *testRepo {
	t.Helper()

	tr := newTestRepo(t)

	week1 := time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC)

	tr.createFile("README.txt", "just docs\n")
	tr.commitAt("docs", week1)

	tr.createFile("crud/tests/unified/find.yml", specDoc)
	tr.commitAt("add spec file", week1.AddDate(0, 0, 7))

	tr.removeFile("crud/tests/unified/find.yml")
	tr.createFile("notes.txt", "more docs\n")
	tr.commitAt("drop spec file", week1.AddDate(0, 0, 14))

	return tr
}

func TestRun_EndToEndThreeWeeks(t *testing.T) {
	t.Parallel()

	tr := threeWeekRepo(t)
	output := filepath.Join(t.TempDir(), "growth.csv")

	summary, err := pipeline.Run(tr.path, pipeline.Options{OutputPath: output})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Sampled)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 3, summary.Processed)

	table, err := results.Load(output)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	// Week 1: no spec files yet.
	assert.Equal(t, 0, table.Rows[0].NumFiles)
	assert.Equal(t, 0, table.Rows[0].TotalLines)

	// Week 2: the spec file with 10 countable lines.
	assert.Equal(t, 1, table.Rows[1].NumFiles)
	assert.Equal(t, 10, table.Rows[1].TotalLines)

	// Week 3: the file was removed again.
	assert.Equal(t, 0, table.Rows[2].NumFiles)
	assert.Equal(t, 0, table.Rows[2].TotalLines)

	// File order is chronological.
	assert.True(t, !table.Rows[1].Date.Before(table.Rows[0].Date))
	assert.True(t, !table.Rows[2].Date.Before(table.Rows[1].Date))
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	t.Parallel()

	tr := threeWeekRepo(t)
	output := filepath.Join(t.TempDir(), "growth.csv")

	_, err := pipeline.Run(tr.path, pipeline.Options{OutputPath: output})
	require.NoError(t, err)

	before, err := os.ReadFile(output)
	require.NoError(t, err)

	summary, err := pipeline.Run(tr.path, pipeline.Options{OutputPath: output})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 3, summary.Skipped)

	after, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestRun_ResumesAfterPartialTable(t *testing.T) {
	t.Parallel()

	tr := threeWeekRepo(t)
	output := filepath.Join(t.TempDir(), "growth.csv")

	_, err := pipeline.Run(tr.path, pipeline.Options{OutputPath: output})
	require.NoError(t, err)

	table, err := results.Load(output)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	// Simulate an interrupted run: rewrite the table with only the
	// first data row persisted.
	appendOnly := "commit_hash,date,iso_week,num_files,total_lines\n" +
		table.Rows[0].CommitHash + "," + table.Rows[0].Date.Format(time.DateOnly) + "," +
		table.Rows[0].ISOWeek + ",0,0\n"
	require.NoError(t, os.WriteFile(output, []byte(appendOnly), 0o644))

	summary, err := pipeline.Run(tr.path, pipeline.Options{OutputPath: output})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 2, summary.Processed)

	resumed, err := results.Load(output)
	require.NoError(t, err)
	require.Len(t, resumed.Rows, 3)

	seen := map[string]int{}
	for _, row := range resumed.Rows {
		seen[row.CommitHash]++
	}

	for hash, count := range seen {
		assert.Equal(t, 1, count, "hash %s duplicated", hash)
	}
}

func TestRun_SkipsBinaryAndSkipDirFiles(t *testing.T) {
	t.Parallel()

	tr := newTestRepo(t)

	when := time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC)

	tr.createFile("crud/find.yml", specDoc)
	tr.createFile("unified-test-format/tests/poc.yml", specDoc)
	tr.createFile("binary.yml", "descr\x00iption:\nschemaVersion: 1.0\ntests: []\n")
	tr.commitAt("mixed", when)

	output := filepath.Join(t.TempDir(), "growth.csv")

	_, err := pipeline.Run(tr.path, pipeline.Options{OutputPath: output})
	require.NoError(t, err)

	table, err := results.Load(output)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, 1, table.Rows[0].NumFiles)
}

func TestRun_HistoryUnavailable(t *testing.T) {
	t.Parallel()

	_, err := pipeline.Run(t.TempDir(), pipeline.Options{OutputPath: filepath.Join(t.TempDir(), "out.csv")})
	require.ErrorIs(t, err, pipeline.ErrHistoryUnavailable)
}

func TestRun_MaxCommitsKeepsMostRecent(t *testing.T) {
	t.Parallel()

	tr := threeWeekRepo(t)
	output := filepath.Join(t.TempDir(), "growth.csv")

	summary, err := pipeline.Run(tr.path, pipeline.Options{OutputPath: output, MaxCommits: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)

	table, err := results.Load(output)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	// The most recent weekly sample (week 3, no spec files) is kept.
	assert.Equal(t, 0, table.Rows[0].NumFiles)
}
