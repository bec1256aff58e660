package rules

import (
	"strings"

	"github.com/dcmtrack/dcmtrack/internal/model"
)

// statusAliases collapses abbreviated portal spellings onto the
// canonical status vocabulary.
var statusAliases = map[string]model.Status{
	"Encerrado": model.StatusClosed,
	"Concedido": model.StatusGranted,
}

// buckets is the total routing table: every known status maps to
// exactly one bucket.
var buckets = map[model.Status]model.Bucket{
	model.StatusGranted:       model.BucketPipeline,
	model.StatusAwaitingBook:  model.BucketPipeline,
	model.StatusAwaitingClose: model.BucketPipeline,
	model.StatusUnderAnalysis: model.BucketPipeline,
	model.StatusPendingReview: model.BucketPipeline,
	model.StatusClosed:        model.BucketRegistered,
	model.StatusLapsed:        model.BucketIgnored,
	model.StatusRevoked:       model.BucketIgnored,
	model.StatusExpired:       model.BucketIgnored,
}

// KnownStatuses returns the full status vocabulary.
func KnownStatuses() []model.Status {
	out := make([]model.Status, 0, len(buckets))
	for s := range buckets {
		out = append(out, s)
	}
	return out
}

// NormalizeStatus trims and de-aliases a raw status string.
func NormalizeStatus(raw string) model.Status {
	s := strings.TrimSpace(raw)
	if alias, ok := statusAliases[s]; ok {
		return alias
	}
	return model.Status(s)
}

// RouteStatus maps a raw status to its bucket. Unknown statuses route
// to Ignored with ok=false so the caller can report the anomaly; they
// are never dropped.
func RouteStatus(raw string) (model.Status, model.Bucket, bool) {
	status := NormalizeStatus(raw)
	bucket, ok := buckets[status]
	if !ok {
		return status, model.BucketIgnored, false
	}
	return status, bucket, true
}
