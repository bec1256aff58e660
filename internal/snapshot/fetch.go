// Package snapshot obtains and parses the daily CVM offerings extract.
package snapshot

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
)

// ErrFetchUnavailable means the snapshot could not be obtained. The
// run must abort before any ledger mutation; stale data is never
// silently substituted.
var ErrFetchUnavailable = errors.New("snapshot unavailable")

// ErrSchemaMismatch means the snapshot's column set does not match the
// expected contract. The run aborts entirely; the regulator changed
// their format and a human needs to look.
var ErrSchemaMismatch = errors.New("snapshot schema mismatch")

const fetchTimeout = 2 * time.Minute

var zipMagic = []byte("PK\x03\x04")

// Fetcher downloads the CVM snapshot CSV.
type Fetcher struct {
	client *http.Client
	url    string
	log    zerolog.Logger
}

// NewFetcher creates a Fetcher for a snapshot URL.
func NewFetcher(url string, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: fetchTimeout},
		url:    url,
		log:    log,
	}
}

// Fetch downloads the snapshot and returns its decoded CSV bytes.
// Network and decode failures wrap ErrFetchUnavailable.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	f.log.Info().Str("url", f.url).Msg("downloading snapshot")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrFetchUnavailable, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetchUnavailable, f.url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrFetchUnavailable, err)
	}

	data, err = decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchUnavailable, err)
	}
	return data, nil
}

// ReadFile loads an already-downloaded snapshot from disk, applying
// the same zip and charset handling as Fetch.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchUnavailable, err)
	}
	data, err = decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchUnavailable, err)
	}
	return data, nil
}

// decode unwraps an optional zip envelope and converts the portal's
// latin-1 payload to UTF-8.
func decode(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, zipMagic) {
		unzipped, err := unzipCSV(data)
		if err != nil {
			return nil, err
		}
		data = unzipped
	}

	// The portal serves latin-1; some mirrors re-encode to UTF-8 with
	// a BOM. Valid UTF-8 passes through untouched.
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))
	if utf8.Valid(data) {
		return data, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding latin-1: %v", err)
	}
	return decoded, nil
}

func unzipCSV(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening zip: %v", err)
	}
	for _, file := range zr.File {
		if !strings.HasSuffix(strings.ToLower(file.Name), ".csv") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s in zip: %v", file.Name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, errors.New("zip contains no CSV")
}
