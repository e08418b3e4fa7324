package tickets_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specgrowth/specgrowth/pkg/gitlib"
	"github.com/specgrowth/specgrowth/pkg/tickets"
)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *git2go.Repository
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)
	t.Cleanup(repo.Free)

	return &testRepo{t: t, dir: dir, repo: repo}
}

func (tr *testRepo) createFile(name, content string) {
	tr.t.Helper()

	full := filepath.Join(tr.dir, name)
	require.NoError(tr.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(tr.t, os.WriteFile(full, []byte(content), 0o644))
}

func (tr *testRepo) commit(message string) {
	tr.t.Helper()

	index, err := tr.repo.Index()
	require.NoError(tr.t, err)
	defer index.Free()

	require.NoError(tr.t, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))
	require.NoError(tr.t, index.UpdateAll([]string{"*"}, nil))
	require.NoError(tr.t, index.Write())

	treeOid, err := index.WriteTree()
	require.NoError(tr.t, err)

	tree, err := tr.repo.LookupTree(treeOid)
	require.NoError(tr.t, err)
	defer tree.Free()

	sig := &git2go.Signature{
		Name:  "tester",
		Email: "tester@example.com",
		When:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	var parents []*git2go.Commit

	if head, headErr := tr.repo.Head(); headErr == nil {
		parent, lookupErr := tr.repo.LookupCommit(head.Target())
		require.NoError(tr.t, lookupErr)
		defer parent.Free()

		parents = append(parents, parent)
		head.Free()
	}

	_, err = tr.repo.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(tr.t, err)
}

func (tr *testRepo) open() *gitlib.Repository {
	tr.t.Helper()

	repo, err := gitlib.OpenRepository(tr.dir)
	require.NoError(tr.t, err)
	tr.t.Cleanup(repo.Free)

	return repo
}

func TestMatchMessage(t *testing.T) {
	t.Parallel()

	ids := []string{"GODRIVER-1983", "GODRIVER-2050"}

	assert.True(t, tickets.MatchMessage("GODRIVER-1983 Convert CRUD tests", ids))
	assert.True(t, tickets.MatchMessage("fix(test): GODRIVER-2050 runner", ids))
	assert.False(t, tickets.MatchMessage("GODRIVER-9999 unrelated", ids))
	assert.False(t, tickets.MatchMessage("no ticket here", ids))
	assert.False(t, tickets.MatchMessage("GODRIVER-1983", []string{""}))
}

func TestScan_CountsMatchedCommits(t *testing.T) {
	tr := newTestRepo(t)

	tr.createFile("runner.go", "package runner\n\nfunc Run() {}\n")
	tr.commit("initial import")

	tr.createFile("runner.go", "package runner\n\nfunc Run() {}\n\nfunc RunUnified() {}\n\nfunc helper() {}\n")
	tr.commit("GODRIVER-1983 adopt unified runner")

	tr.createFile("notes.txt", "plain notes\n")
	tr.commit("GODRIVER-1983 add notes")

	repo := tr.open()

	result, err := tickets.Scan(repo, tickets.Driver{
		Name:      "go",
		Tickets:   []string{"GODRIVER-1983"},
		Languages: []string{"Go"},
	})
	require.NoError(t, err)

	assert.Equal(t, "go", result.Driver)
	assert.Equal(t, 2, result.Commits)
	// notes.txt is not Go, so only runner.go counts.
	assert.Equal(t, 1, result.FilesChanged)
	assert.Equal(t, 4, result.LinesAdded)
	assert.Equal(t, 0, result.LinesRemoved)
	assert.Equal(t, 4, result.Net())
}

func TestScan_RemovalsLowerNet(t *testing.T) {
	tr := newTestRepo(t)

	tr.createFile("legacy.go", "package legacy\n\nfunc a() {}\n\nfunc b() {}\n\nfunc c() {}\n")
	tr.commit("initial")

	tr.createFile("legacy.go", "package legacy\n")
	tr.commit("DRIVER-1 delete legacy runner")

	repo := tr.open()

	result, err := tickets.Scan(repo, tickets.Driver{
		Name:    "legacy",
		Tickets: []string{"DRIVER-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Commits)
	assert.Equal(t, 1, result.FilesChanged)
	assert.Equal(t, 0, result.LinesAdded)
	assert.Equal(t, 6, result.LinesRemoved)
	assert.Equal(t, -6, result.Net())
}

func TestScan_NoMatches(t *testing.T) {
	tr := newTestRepo(t)

	tr.createFile("a.go", "package a\n")
	tr.commit("plain commit")

	repo := tr.open()

	result, err := tickets.Scan(repo, tickets.Driver{Name: "x", Tickets: []string{"TICKET-1"}})
	require.NoError(t, err)

	assert.Zero(t, result.Commits)
	assert.Zero(t, result.FilesChanged)
	assert.Zero(t, result.Net())
}
