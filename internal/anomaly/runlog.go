package anomaly

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogEntry is one row in the run log.
type LogEntry struct {
	Timestamp time.Time
	Run       string // run identifier, e.g. "run" / "enrich"
	Kind      Kind
	Detail    string
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run,kind,detail"

const (
	numFields    = 4
	logDir       = "logs"
	logFile      = "logs/run-log.csv"
	colTimestamp = 0
	colRun       = 1
	colKind      = 2
	colDetail    = 3
)

// MarshalLogEntry converts a LogEntry to a CSV row.
func MarshalLogEntry(e LogEntry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRun] = e.Run
	row[colKind] = string(e.Kind)
	row[colDetail] = e.Detail
	return row
}

// UnmarshalLogEntry converts a CSV row to a LogEntry.
func UnmarshalLogEntry(record []string) (LogEntry, error) {
	if len(record) != numFields {
		return LogEntry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return LogEntry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return LogEntry{
		Timestamp: ts,
		Run:       record[colRun],
		Kind:      Kind(record[colKind]),
		Detail:    record[colDetail],
	}, nil
}

// Entries converts the recorder's samples to timestamped log entries
// for one run.
func (r *Recorder) Entries(run string, now time.Time) []LogEntry {
	var entries []LogEntry
	for _, kind := range []Kind{KindUnmappedStatus, KindUnmappedVocabulary, KindRowRejected, KindDuplicateKey} {
		for _, detail := range r.samples[kind] {
			entries = append(entries, LogEntry{
				Timestamp: now,
				Run:       run,
				Kind:      kind,
				Detail:    detail,
			})
		}
	}
	return entries
}

// Append writes entries to <dataDir>/logs/run-log.csv, creating the
// file and header if needed.
func Append(dataDir string, entries []LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	dir := filepath.Join(dataDir, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dataDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalLogEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// ReadLog returns all entries from <dataDir>/logs/run-log.csv, or nil
// if the file does not exist.
func ReadLog(dataDir string) ([]LogEntry, error) {
	path := filepath.Join(dataDir, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readLogEntries(f)
}

func readLogEntries(r io.Reader) ([]LogEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []LogEntry
	for i, rec := range records[1:] {
		e, err := UnmarshalLogEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
