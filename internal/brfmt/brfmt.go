// Package brfmt parses and formats the Brazilian number and date
// conventions used by the CVM portal and the ledger spreadsheet.
package brfmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the ledger date format (dd/mm/yyyy).
const DateFormat = "02/01/2006"

// isoDateFormat is the format the CVM open-data CSV uses.
const isoDateFormat = "2006-01-02"

// ParseDate parses a dd/mm/yyyy or yyyy-mm-dd date. Empty input returns
// the zero time with no error.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	// Drop a trailing time component ("2025-01-03 00:00:00").
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	if t, err := time.Parse(DateFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(isoDateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a date as dd/mm/yyyy, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}

// ParseDecimal parses a number that may use the Brazilian convention
// ("1.234.567,89") or the plain one ("1234567.89"). A leading "R$" is
// tolerated. Empty input returns zero with no error.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return decimal.Zero, nil
	}

	switch {
	case strings.Contains(s, ","):
		// Comma is the decimal mark, dots are thousands separators.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Count(s, ".") > 1:
		// Multiple dots can only be thousands separators.
		s = strings.ReplaceAll(s, ".", "")
	case strings.Contains(s, "."):
		// A single dot is ambiguous: "100.000" is one hundred thousand
		// in the BR convention the portal uses, not one hundred.
		if i := strings.IndexByte(s, '.'); len(s)-i-1 == 3 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing number %q: %w", s, err)
	}
	return d, nil
}

// FormatVolume renders a volume as a whole number with dots as
// thousands separators ("100.000.000"), the spreadsheet convention.
// Zero renders as "".
func FormatVolume(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	neg := d.IsNegative()
	s := d.Abs().Round(0).String()

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}
