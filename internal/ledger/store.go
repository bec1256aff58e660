package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dcmtrack/dcmtrack/internal/model"
)

const (
	ledgerFile     = "ledger.csv"
	pipelineFile   = "pipeline.csv"
	registeredFile = "registered.csv"
)

// Store reads and writes the ledger under a data directory. The full
// ledger lives in ledger.csv; pipeline.csv and registered.csv are
// derived partition views rewritten on every save (ignored entries are
// retained in the ledger but appear in neither).
type Store struct {
	dataDir string
}

// NewStore creates a Store over a data directory.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// Path returns the ledger file path.
func (s *Store) Path() string {
	return filepath.Join(s.dataDir, ledgerFile)
}

// Load reads the full ledger. A missing file is an empty ledger, not
// an error.
func (s *Store) Load() ([]model.Entry, error) {
	f, err := os.Open(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", s.Path(), err)
	}
	return entries, nil
}

// Save writes the ledger and its partition views. Each file is written
// to a temp file in the same directory and swapped into place with a
// rename, so an interrupted run never leaves a half-written ledger.
func (s *Store) Save(entries []model.Entry) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	if err := s.writeFile(ledgerFile, entries); err != nil {
		return err
	}
	if err := s.writeFile(pipelineFile, Partition(entries, model.BucketPipeline)); err != nil {
		return err
	}
	return s.writeFile(registeredFile, Partition(entries, model.BucketRegistered))
}

func (s *Store) writeFile(name string, entries []model.Entry) error {
	path := filepath.Join(s.dataDir, name)

	tmp, err := os.CreateTemp(s.dataDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteEntries(tmp, entries); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}

// Partition returns the entries in one bucket, preserving order.
func Partition(entries []model.Entry, bucket model.Bucket) []model.Entry {
	var out []model.Entry
	for _, e := range entries {
		if e.Bucket == bucket {
			out = append(out, e)
		}
	}
	return out
}

// Counts tallies entries per bucket.
func Counts(entries []model.Entry) map[model.Bucket]int {
	counts := make(map[model.Bucket]int, 3)
	for _, e := range entries {
		counts[e.Bucket]++
	}
	return counts
}
