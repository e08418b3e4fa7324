// Package specfile classifies files as specification test files using
// a textual marker heuristic instead of structural parsing, so that
// historically malformed documents still classify correctly.
package specfile

import (
	"path"
	"regexp"
	"strings"
)

// Marker patterns, all anchored at column zero so only root-level
// fields qualify. The schemaVersion field is mandatory in and unique
// to the target format; tests and description are its other required
// root fields.
var (
	schemaVersionPattern = regexp.MustCompile(`(?m)^["']?schemaVersion["']?\s*:\s*["']?(\d+\.\d+(?:\.\d+)?)["']?\s*(#.*)?$`)
	testsPattern         = regexp.MustCompile(`(?m)^["']?tests["']?\s*:`)
	descriptionPattern   = regexp.MustCompile(`(?m)^["']?description["']?\s*:`)
)

// DefaultExtensions are the file extensions eligible for classification.
var DefaultExtensions = []string{".yml", ".yaml"}

// DefaultSkipDirs are path segments excluded from classification.
// The unified-test-format directory contains fixtures for the format
// itself, not real tests.
var DefaultSkipDirs = []string{"unified-test-format"}

// Classifier decides whether a path/content pair is a specification
// file. The zero value classifies nothing; use NewClassifier.
type Classifier struct {
	extensions []string
	skipDirs   map[string]struct{}
}

// NewClassifier builds a classifier for the given extensions and
// skipped directory names. Empty slices fall back to the defaults.
func NewClassifier(extensions, skipDirs []string) *Classifier {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	if len(skipDirs) == 0 {
		skipDirs = DefaultSkipDirs
	}

	skip := make(map[string]struct{}, len(skipDirs))
	for _, d := range skipDirs {
		skip[d] = struct{}{}
	}

	return &Classifier{extensions: extensions, skipDirs: skip}
}

// DefaultClassifier returns a classifier with the default extensions
// and skip list.
func DefaultClassifier() *Classifier {
	return NewClassifier(nil, nil)
}

// Eligible reports whether a path is worth reading at all: it has a
// matching extension and no skipped directory segment.
func (c *Classifier) Eligible(filePath string) bool {
	ext := strings.ToLower(path.Ext(filePath))

	matched := false

	for _, e := range c.extensions {
		if ext == e {
			matched = true

			break
		}
	}

	if !matched {
		return false
	}

	for _, segment := range strings.Split(path.Dir(filePath), "/") {
		if _, skip := c.skipDirs[segment]; skip {
			return false
		}
	}

	return true
}

// IsSpecContent reports whether content carries the marker signature:
// a root-level schemaVersion of the form X.Y or X.Y.Z plus root-level
// tests and description fields.
func IsSpecContent(data []byte) bool {
	return schemaVersionPattern.Match(data) &&
		testsPattern.Match(data) &&
		descriptionPattern.Match(data)
}

// SchemaVersion extracts the root-level schemaVersion value from
// content, or "" when no well-formed marker is present.
func SchemaVersion(data []byte) string {
	match := schemaVersionPattern.FindSubmatch(data)
	if match == nil {
		return ""
	}

	return string(match[1])
}

// Classify combines the path and content checks.
func (c *Classifier) Classify(filePath string, data []byte) bool {
	return c.Eligible(filePath) && IsSpecContent(data)
}
