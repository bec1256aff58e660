// Package enrich merges asynchronously-scraped detail fields into
// ledger entries. Enrichment arrives per request id on its own
// schedule, possibly partial and in any order; Apply is re-entrant and
// a populated field is never erased by an empty incoming value.
package enrich

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcmtrack/dcmtrack/internal/model"
)

// Data is the enrichment subset for one request id. Zero-valued fields
// mean "no data", not "clear".
type Data struct {
	RequestID    string
	Series       string
	Nature       string
	Rating       string
	FinalVolume  decimal.Decimal
	IssueDate    time.Time
	MaturityDate time.Time
	RateCap      string
	RateFinal    string
	Law14801     string
}

var daysPerYear = decimal.NewFromInt(365)

// Tenor computes the term in years between issue and maturity,
// days/365 rounded to 2 decimals. Returns zero unless both dates are
// set.
func Tenor(issue, maturity time.Time) decimal.Decimal {
	if issue.IsZero() || maturity.IsZero() {
		return decimal.Zero
	}
	days := int64(maturity.Sub(issue).Hours() / 24)
	return decimal.NewFromInt(days).Div(daysPerYear).Round(2)
}

// Apply merges d into e's enrichment group: overwrite if present, keep
// if absent. TenorYears is recomputed whenever both dates are present
// and at least one of them changed. Reports whether anything changed.
func Apply(e *model.Entry, d Data) bool {
	changed := false
	datesChanged := false

	setStr := func(dst *string, v string) {
		if v != "" && v != *dst {
			*dst = v
			changed = true
		}
	}

	f := &e.Enrichment
	setStr(&f.Series, d.Series)
	setStr(&f.Nature, d.Nature)
	setStr(&f.Rating, d.Rating)
	setStr(&f.RateCap, d.RateCap)
	setStr(&f.RateFinal, d.RateFinal)
	setStr(&f.Law14801, d.Law14801)

	if !d.FinalVolume.IsZero() && !d.FinalVolume.Equal(f.FinalVolume) {
		f.FinalVolume = d.FinalVolume
		changed = true
	}
	if !d.IssueDate.IsZero() && !d.IssueDate.Equal(f.IssueDate) {
		f.IssueDate = d.IssueDate
		changed = true
		datesChanged = true
	}
	if !d.MaturityDate.IsZero() && !d.MaturityDate.Equal(f.MaturityDate) {
		f.MaturityDate = d.MaturityDate
		changed = true
		datesChanged = true
	}

	if datesChanged && !f.IssueDate.IsZero() && !f.MaturityDate.IsZero() {
		f.TenorYears = Tenor(f.IssueDate, f.MaturityDate)
	}

	return changed
}
