// Package results persists the pipeline output: an append-only CSV
// table with one row per processed commit. The table is the sole
// durable state of the tool; rows are flushed and synced one at a
// time so an interrupted run loses at most the in-flight commit.
package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Header columns, in file order.
var header = []string{"commit_hash", "date", "iso_week", "num_files", "total_lines"}

// dateLayout is the date column format.
const dateLayout = time.DateOnly

// ErrBadHeader is returned when an existing table has an unexpected
// header row.
var ErrBadHeader = errors.New("result table: unexpected header")

// ErrBadRow is returned when a row cannot be parsed.
var ErrBadRow = errors.New("result table: malformed row")

// Row is one processed commit.
type Row struct {
	CommitHash string
	Date       time.Time
	ISOWeek    string
	NumFiles   int
	TotalLines int
}

// Table is the loaded result table, in file order.
type Table struct {
	Rows []Row
}

// Known returns the set of commit hashes already present in the table.
// The resume filter re-derives remaining work from this set.
func (t *Table) Known() map[string]struct{} {
	known := make(map[string]struct{}, len(t.Rows))
	for _, r := range t.Rows {
		known[r.CommitHash] = struct{}{}
	}

	return known
}

// Load reads the table at path. A missing file yields an empty table;
// any other read failure is an error.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Table{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("open result table: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses a table from r.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = len(header)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read result table: %w", err)
	}

	if len(records) == 0 {
		return &Table{}, nil
	}

	for i, col := range header {
		if records[0][i] != col {
			return nil, fmt.Errorf("%w: %v", ErrBadHeader, records[0])
		}
	}

	table := &Table{Rows: make([]Row, 0, len(records)-1)}

	for _, record := range records[1:] {
		row, parseErr := parseRow(record)
		if parseErr != nil {
			return nil, parseErr
		}

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func parseRow(record []string) (Row, error) {
	date, err := time.Parse(dateLayout, record[1])
	if err != nil {
		return Row{}, fmt.Errorf("%w: bad date %q", ErrBadRow, record[1])
	}

	numFiles, err := strconv.Atoi(record[3])
	if err != nil {
		return Row{}, fmt.Errorf("%w: bad num_files %q", ErrBadRow, record[3])
	}

	totalLines, err := strconv.Atoi(record[4])
	if err != nil {
		return Row{}, fmt.Errorf("%w: bad total_lines %q", ErrBadRow, record[4])
	}

	return Row{
		CommitHash: record[0],
		Date:       date,
		ISOWeek:    record[2],
		NumFiles:   numFiles,
		TotalLines: totalLines,
	}, nil
}

// Appender writes rows to the backing store incrementally. Each Append
// is flushed and fsynced before returning, so previously written rows
// survive abrupt termination.
type Appender struct {
	file   *os.File
	writer *csv.Writer
}

// OpenAppender opens path for appending, creating it (with a header
// row) when missing or empty.
func OpenAppender(path string) (*Appender, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open result table for append: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()

		return nil, fmt.Errorf("stat result table: %w", err)
	}

	a := &Appender{file: file, writer: csv.NewWriter(file)}

	if info.Size() == 0 {
		writeErr := a.writeRecord(header)
		if writeErr != nil {
			file.Close()

			return nil, writeErr
		}
	}

	return a, nil
}

// Append writes one row durably.
func (a *Appender) Append(row Row) error {
	record := []string{
		row.CommitHash,
		row.Date.Format(dateLayout),
		row.ISOWeek,
		strconv.Itoa(row.NumFiles),
		strconv.Itoa(row.TotalLines),
	}

	return a.writeRecord(record)
}

func (a *Appender) writeRecord(record []string) error {
	err := a.writer.Write(record)
	if err != nil {
		return fmt.Errorf("write result row: %w", err)
	}

	a.writer.Flush()

	err = a.writer.Error()
	if err != nil {
		return fmt.Errorf("flush result row: %w", err)
	}

	err = a.file.Sync()
	if err != nil {
		return fmt.Errorf("sync result table: %w", err)
	}

	return nil
}

// Close releases the underlying file.
func (a *Appender) Close() error {
	err := a.file.Close()
	if err != nil {
		return fmt.Errorf("close result table: %w", err)
	}

	return nil
}
