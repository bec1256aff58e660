// Package anomaly tallies recoverable per-run conditions. Anomalies
// never abort a run; they are counted, sampled, and surfaced in the
// run summary and the run log.
package anomaly

import (
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a recoverable anomaly.
type Kind string

const (
	// KindUnmappedStatus is a status outside the known vocabulary; the
	// record routes to the ignored bucket pending a rulebook update.
	KindUnmappedStatus Kind = "unmapped-status"
	// KindUnmappedVocabulary is a product or coordinator with no table
	// match; the raw value passes through.
	KindUnmappedVocabulary Kind = "unmapped-vocabulary"
	// KindRowRejected is a snapshot row that failed required-field or
	// parse validation and was skipped.
	KindRowRejected Kind = "row-rejected"
	// KindDuplicateKey is a request id appearing twice in one
	// snapshot; the later row wins.
	KindDuplicateKey Kind = "duplicate-key"
)

// maxSamples bounds the detail strings kept per kind.
const maxSamples = 20

// Recorder accumulates anomaly counts and a bounded sample of details
// for one run.
type Recorder struct {
	counts  map[Kind]int
	samples map[Kind][]string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		counts:  make(map[Kind]int),
		samples: make(map[Kind][]string),
	}
}

// Record notes one occurrence of kind with a human-readable detail.
func (r *Recorder) Record(kind Kind, detail string) {
	r.counts[kind]++
	if len(r.samples[kind]) < maxSamples {
		r.samples[kind] = append(r.samples[kind], detail)
	}
}

// Count returns the tally for one kind.
func (r *Recorder) Count(kind Kind) int {
	return r.counts[kind]
}

// Total returns the tally across all kinds.
func (r *Recorder) Total() int {
	total := 0
	for _, n := range r.counts {
		total += n
	}
	return total
}

// Samples returns the recorded details for one kind, capped at
// maxSamples.
func (r *Recorder) Samples(kind Kind) []string {
	return r.samples[kind]
}

// Summary renders the counts as "kind=n" pairs in stable order, or
// "none" when the run was clean.
func (r *Recorder) Summary() string {
	if len(r.counts) == 0 {
		return "none"
	}
	kinds := make([]string, 0, len(r.counts))
	for k := range r.counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s=%d", k, r.counts[Kind(k)])
	}
	return strings.Join(parts, " ")
}
