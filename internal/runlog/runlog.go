// Package runlog keeps an append-only CSV audit trail of pipeline
// runs, one row per analyze invocation.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one row in the run history.
type Entry struct {
	Timestamp    time.Time
	RunID        string
	InputFile    string
	Parsed       int
	Skipped      int
	Invalid      int
	Final        int
	Matched      int
	TotalRevenue decimal.Decimal
}

// Header is the CSV header for run-history.csv.
const Header = "timestamp,run_id,input_file,parsed,skipped,invalid,final,matched,total_revenue"

const (
	numFields    = 9
	logDir       = "logs"
	logFile      = "logs/run-history.csv"
	colTimestamp = 0
	colRunID     = 1
	colInput     = 2
	colParsed    = 3
	colSkipped   = 4
	colInvalid   = 5
	colFinal     = 6
	colMatched   = 7
	colRevenue   = 8
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colInput] = e.InputFile
	row[colParsed] = strconv.Itoa(e.Parsed)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colInvalid] = strconv.Itoa(e.Invalid)
	row[colFinal] = strconv.Itoa(e.Final)
	row[colMatched] = strconv.Itoa(e.Matched)
	row[colRevenue] = e.TotalRevenue.StringFixed(2)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	counts := make([]int, 5)
	for i, col := range []int{colParsed, colSkipped, colInvalid, colFinal, colMatched} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		counts[i] = n
	}

	revenue, err := decimal.NewFromString(record[colRevenue])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing total_revenue %q: %w", record[colRevenue], err)
	}

	return Entry{
		Timestamp:    ts,
		RunID:        record[colRunID],
		InputFile:    record[colInput],
		Parsed:       counts[0],
		Skipped:      counts[1],
		Invalid:      counts[2],
		Final:        counts[3],
		Matched:      counts[4],
		TotalRevenue: revenue,
	}, nil
}

// Append writes an entry to <projectRoot>/logs/run-history.csv,
// creating the file and header if needed.
func Append(projectRoot string, e Entry) error {
	dir := filepath.Join(projectRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(projectRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run history: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	return cw.Error()
}

// Read returns all entries from <projectRoot>/logs/run-history.csv.
// Returns nil if the file does not exist.
func Read(projectRoot string) ([]Entry, error) {
	path := filepath.Join(projectRoot, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run history: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run history CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
