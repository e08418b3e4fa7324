package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Tree wraps a libgit2 tree.
type Tree struct {
	tree *git2go.Tree
	repo *Repository
}

// Hash returns the tree hash.
func (t *Tree) Hash() Hash {
	return HashFromOid(t.tree.Id())
}

// Free releases the tree resources.
func (t *Tree) Free() {
	if t.tree != nil {
		t.tree.Free()
		t.tree = nil
	}
}

// TreeEntry is a single entry in a tree.
type TreeEntry struct {
	entry *git2go.TreeEntry
}

// Name returns the entry name.
func (e *TreeEntry) Name() string {
	return e.entry.Name
}

// Hash returns the entry object hash.
func (e *TreeEntry) Hash() Hash {
	return HashFromOid(e.entry.Id)
}

// IsBlob reports whether the entry is a blob.
func (e *TreeEntry) IsBlob() bool {
	return e.entry.Type == git2go.ObjectBlob
}

// File is a blob reachable from a tree, addressed by its repository
// relative path.
type File struct {
	Name string
	Hash Hash
	repo *Repository
}

// Contents returns the file contents at the captured revision.
func (f *File) Contents() ([]byte, error) {
	blob, err := f.repo.LookupBlob(f.Hash)
	if err != nil {
		return nil, err
	}
	defer blob.Free()

	data := blob.Contents()
	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}

// TreeFiles collects every blob in a tree, recursively.
func TreeFiles(repo *Repository, tree *Tree) ([]*File, error) {
	var files []*File

	err := walkTree(repo, tree, "", func(path string, entry *TreeEntry) error {
		files = append(files, &File{Name: path, Hash: entry.Hash(), repo: repo})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// walkTree recursively visits blob entries, building slash-joined paths.
func walkTree(repo *Repository, tree *Tree, prefix string, cb func(path string, entry *TreeEntry) error) error {
	count := tree.tree.EntryCount()

	for i := uint64(0); i < count; i++ {
		native := tree.tree.EntryByIndex(i)
		if native == nil {
			continue
		}

		entry := &TreeEntry{entry: native}

		path := entry.Name()
		if prefix != "" {
			path = prefix + "/" + path
		}

		if entry.IsBlob() {
			cbErr := cb(path, entry)
			if cbErr != nil {
				return cbErr
			}

			continue
		}

		if native.Type != git2go.ObjectTree {
			continue
		}

		subtree, lookupErr := repo.LookupTree(entry.Hash())
		if lookupErr != nil {
			// Unreadable subtrees are skipped rather than failing the walk.
			continue
		}

		walkErr := walkTree(repo, subtree, path, cb)

		subtree.Free()

		if walkErr != nil {
			return fmt.Errorf("walk %s: %w", path, walkErr)
		}
	}

	return nil
}
