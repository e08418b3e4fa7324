// Package gitlib wraps the libgit2 bindings with the small read-only
// surface the pipeline needs: opening a repository, iterating its
// commit history, walking trees and reading blobs at a revision.
package gitlib

import (
	"encoding/hex"

	git2go "github.com/libgit2/git2go/v34"
)

// HashSize is the size of a SHA-1 object hash in bytes.
const HashSize = 20

// Hash identifies a git object (SHA-1).
type Hash [HashSize]byte

// NewHash parses a hex string into a Hash. Malformed input yields the
// zero hash.
func NewHash(s string) Hash {
	var h Hash

	raw, err := hex.DecodeString(s)
	if err != nil {
		return h
	}

	copy(h[:], raw)

	return h
}

// HashFromOid converts a libgit2 Oid to a Hash.
func HashFromOid(oid *git2go.Oid) Hash {
	var h Hash
	copy(h[:], oid[:])

	return h
}

// String returns the full hex form of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ToOid converts the hash back to a libgit2 Oid.
func (h Hash) ToOid() *git2go.Oid {
	oid := new(git2go.Oid)
	copy(oid[:], h[:])

	return oid
}
