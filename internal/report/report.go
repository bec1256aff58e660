// Package report builds the periodic summary of recently closed
// offerings for distribution.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dcmtrack/dcmtrack/internal/ledger"
	"github.com/dcmtrack/dcmtrack/internal/model"
)

// Closed returns registered entries whose registration date falls
// within the window of days ending at asOf, preserving ledger order.
func Closed(entries []model.Entry, asOf time.Time, windowDays int) []model.Entry {
	cutoff := asOf.AddDate(0, 0, -windowDays)

	var out []model.Entry
	for _, e := range entries {
		if e.Bucket != model.BucketRegistered {
			continue
		}
		date := e.RegistrationDate
		if date.IsZero() {
			continue
		}
		if date.After(cutoff) && !date.After(asOf) {
			out = append(out, e)
		}
	}
	return out
}

// Write saves a summary to <dataDir>/resumo_<date>.csv in the ledger
// column contract and returns the file path.
func Write(dataDir string, asOf time.Time, entries []model.Entry) (string, error) {
	path := filepath.Join(dataDir, fmt.Sprintf("resumo_%s.csv", asOf.Format("2006-01-02")))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating summary: %w", err)
	}
	defer f.Close()

	if err := ledger.WriteEntries(f, entries); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}
	return path, nil
}
