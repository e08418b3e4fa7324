package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// ChangeAction is the kind of change a file underwent between two trees.
type ChangeAction int

const (
	// Insert indicates a new file was added.
	Insert ChangeAction = iota
	// Delete indicates a file was removed.
	Delete
	// Modify indicates a file was modified.
	Modify
)

// Change is a single file change between two trees.
type Change struct {
	Action  ChangeAction
	Path    string // New path for Insert/Modify, old path for Delete.
	OldHash Hash   // Zero for Insert.
	NewHash Hash   // Zero for Delete.
}

// TreeDiff computes the file-level changes between two trees. A nil
// oldTree diffs against the empty tree (initial commit).
func TreeDiff(repo *Repository, oldTree, newTree *Tree) ([]Change, error) {
	if oldTree != nil && newTree != nil && oldTree.Hash() == newTree.Hash() {
		return nil, nil
	}

	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("get diff options: %w", err)
	}

	var oldNative, newNative *git2go.Tree

	if oldTree != nil {
		oldNative = oldTree.tree
	}

	if newTree != nil {
		newNative = newTree.tree
	}

	diff, err := repo.repo.DiffTreeToTree(oldNative, newNative, &opts)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}

	defer func() { _ = diff.Free() }()

	numDeltas, numErr := diff.NumDeltas()
	if numErr != nil {
		return nil, fmt.Errorf("get num deltas: %w", numErr)
	}

	changes := make([]Change, 0, numDeltas)

	for i := 0; i < numDeltas; i++ {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			continue
		}

		switch delta.Status {
		case git2go.DeltaAdded:
			changes = append(changes, Change{
				Action:  Insert,
				Path:    delta.NewFile.Path,
				NewHash: HashFromOid(delta.NewFile.Oid),
			})
		case git2go.DeltaDeleted:
			changes = append(changes, Change{
				Action:  Delete,
				Path:    delta.OldFile.Path,
				OldHash: HashFromOid(delta.OldFile.Oid),
			})
		case git2go.DeltaModified, git2go.DeltaRenamed, git2go.DeltaCopied:
			changes = append(changes, Change{
				Action:  Modify,
				Path:    delta.NewFile.Path,
				OldHash: HashFromOid(delta.OldFile.Oid),
				NewHash: HashFromOid(delta.NewFile.Oid),
			})
		default:
			// Unmerged, ignored and typechange deltas are not counted.
		}
	}

	return changes, nil
}

// CommitChanges diffs a commit against its first parent. Initial
// commits diff against the empty tree.
func CommitChanges(repo *Repository, commit *Commit) ([]Change, error) {
	newTree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	defer newTree.Free()

	if commit.NumParents() == 0 {
		return TreeDiff(repo, nil, newTree)
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return nil, err
	}
	defer parent.Free()

	oldTree, err := parent.Tree()
	if err != nil {
		return nil, err
	}
	defer oldTree.Free()

	return TreeDiff(repo, oldTree, newTree)
}
