// Package engine reconciles a normalized CVM snapshot against the
// existing ledger. One Merge call per run; the merge is an in-memory
// transformation over fully-loaded inputs, with all I/O outside.
package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dcmtrack/dcmtrack/internal/anomaly"
	"github.com/dcmtrack/dcmtrack/internal/model"
	"github.com/dcmtrack/dcmtrack/internal/normalize"
	"github.com/dcmtrack/dcmtrack/internal/rules"
)

// Result summarizes one merge.
type Result struct {
	Created   int
	Updated   int
	Unchanged int
	Closed    int // transitions into the registered bucket

	// NeedsEnrichment lists request ids the scraper should visit:
	// newly created entries plus entries that just closed.
	NeedsEnrichment []string
}

// Engine merges snapshots into the ledger.
type Engine struct {
	log zerolog.Logger
}

// New creates an Engine.
func New(log zerolog.Logger) *Engine {
	return &Engine{log: log}
}

// Merge applies a snapshot to the ledger and returns the next ledger
// state. Existing entries keep their position; new entries append in
// snapshot order. Entries absent from the snapshot are left untouched:
// the snapshot is a superset view, absence never means deletion.
func (e *Engine) Merge(entries []model.Entry, snapshot []model.Offering, rec *anomaly.Recorder) ([]model.Entry, Result) {
	var res Result

	byID := make(map[string]int, len(entries))
	for i, entry := range entries {
		byID[entry.RequestID] = i
	}

	for _, o := range dedupe(snapshot, rec) {
		fields := e.normalizeFields(o, rec)

		i, exists := byID[o.RequestID]
		if !exists {
			entry := model.Entry{RequestID: o.RequestID, NeedsEnrichment: true}
			fields.applyTo(&entry)
			entries = append(entries, entry)
			byID[o.RequestID] = len(entries) - 1

			res.Created++
			res.NeedsEnrichment = append(res.NeedsEnrichment, o.RequestID)
			e.log.Debug().Str("key", o.RequestID).Str("bucket", string(entry.Bucket)).Msg("entry created")
			continue
		}

		entry := &entries[i]
		if entry.Status == fields.status {
			res.Unchanged++
			continue
		}

		oldBucket := entry.Bucket
		fields.applyTo(entry)
		res.Updated++

		if entry.Bucket == model.BucketRegistered && oldBucket != model.BucketRegistered {
			// Final figures may have been published at this
			// transition; the entry needs a fresh scrape.
			entry.NeedsEnrichment = true
			res.Closed++
			res.NeedsEnrichment = append(res.NeedsEnrichment, o.RequestID)
		}
		e.log.Debug().
			Str("key", o.RequestID).
			Str("from", string(oldBucket)).
			Str("to", string(entry.Bucket)).
			Msg("entry updated")
	}

	return entries, res
}

// engineFields are the normalizer-derived fields the engine owns.
// Applying them can never touch the manual or enrichment groups.
type engineFields struct {
	offering model.Offering
	status   model.Status
	bucket   model.Bucket
	product  string
	issuer   string
	coords   string
	audience string
}

func (f engineFields) applyTo(entry *model.Entry) {
	o := f.offering
	entry.RequestDate = o.RequestDate
	entry.RegistrationDate = o.RegistrationDate
	entry.Status = f.status
	entry.Bucket = f.bucket
	entry.Audience = f.audience
	entry.Product = f.product
	entry.Issuer = f.issuer
	entry.Coordinators = f.coords
	entry.IssueNumber = o.IssueNumber
	entry.InitialVolume = o.InitialVolume
	entry.Passthrough = o.Passthrough
}

func (e *Engine) normalizeFields(o model.Offering, rec *anomaly.Recorder) engineFields {
	product, mapped := normalize.Product(o.ProductRaw)
	if !mapped && product != "" {
		rec.Record(anomaly.KindUnmappedVocabulary, fmt.Sprintf("product %q (key %s)", o.ProductRaw, o.RequestID))
	}

	coords, unmatched := normalize.Coordinators(o.LeadCoordinator)
	for _, name := range unmatched {
		rec.Record(anomaly.KindUnmappedVocabulary, fmt.Sprintf("coordinator %q (key %s)", name, o.RequestID))
	}

	status, bucket, known := rules.RouteStatus(o.StatusRaw)
	if !known {
		rec.Record(anomaly.KindUnmappedStatus, fmt.Sprintf("status %q (key %s)", o.StatusRaw, o.RequestID))
	}

	return engineFields{
		offering: o,
		status:   status,
		bucket:   bucket,
		product:  product,
		issuer:   normalize.Issuer(o, product),
		coords:   coords,
		audience: normalize.Audience(o.Audience),
	}
}

// dedupe collapses duplicate request ids, later row wins. The source
// guarantees uniqueness, so a duplicate is an anomaly worth reporting,
// but never fatal.
func dedupe(snapshot []model.Offering, rec *anomaly.Recorder) []model.Offering {
	seen := make(map[string]int, len(snapshot))
	out := make([]model.Offering, 0, len(snapshot))
	for _, o := range snapshot {
		if i, dup := seen[o.RequestID]; dup {
			rec.Record(anomaly.KindDuplicateKey, fmt.Sprintf("key %s appears more than once", o.RequestID))
			out[i] = o
			continue
		}
		seen[o.RequestID] = len(out)
		out = append(out, o)
	}
	return out
}
