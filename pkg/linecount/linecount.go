// Package linecount provides byte-level text utilities: binary
// detection, raw line counting, and content-line counting that skips
// blanks and full-line comments.
package linecount

import "bytes"

// BinarySniffLength is the maximum number of bytes scanned for
// null-byte detection. Matches the heuristic used by Git and most
// editors.
const BinarySniffLength = 8000

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// RawLines returns the number of newline-delimited lines in data.
// A non-empty buffer without a trailing newline counts the last
// partial line. Returns 0 for empty data.
func RawLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	lines := bytes.Count(data, []byte{'\n'})

	if data[len(data)-1] != '\n' {
		lines++
	}

	return lines
}

// Count returns the number of content lines in data: lines that are
// non-empty after trimming whitespace and whose first non-whitespace
// character does not start the given comment marker. Only whole-line
// comments are excluded; trailing comments leave a line countable.
// Lines are split in place, so there is no line length limit.
func Count(data []byte, commentPrefix string) int {
	count := 0
	prefix := []byte(commentPrefix)

	for len(data) > 0 {
		line := data

		nl := bytes.IndexByte(data, '\n')
		if nl >= 0 {
			line, data = data[:nl], data[nl+1:]
		} else {
			data = nil
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		if len(prefix) > 0 && bytes.HasPrefix(line, prefix) {
			continue
		}

		count++
	}

	return count
}
