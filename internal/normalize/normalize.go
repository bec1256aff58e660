// Package normalize maps the regulator's raw vocabulary onto the
// ledger's canonical one. Every function is a pure function of its
// input and the static rulebook tables, and is idempotent.
package normalize

import (
	"strings"

	"github.com/dcmtrack/dcmtrack/internal/rules"
)

// Product simplifies a raw security name to its canonical product
// code. Unmapped values pass through trimmed but otherwise unchanged,
// with ok=false so the caller can flag the vocabulary gap; new
// regulator wording must never block a run.
func Product(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if product, ok := rules.Products[raw]; ok {
		return product, true
	}
	lower := strings.ToLower(raw)
	for _, key := range rules.ProductKeys() {
		if strings.Contains(lower, strings.ToLower(key)) {
			return rules.Products[key], true
		}
	}
	return raw, false
}

// coordinatorSeparator joins abbreviated coordinator names.
const coordinatorSeparator = "/"

// fallbackDisplayLen caps pass-through coordinator names.
const fallbackDisplayLen = 20

// Coordinators abbreviates a coordinator list. Elements are split on
// commas, semicolons, and spaced slashes (a bare slash would cut
// "S/A"), abbreviated independently, and rejoined. The second return
// holds the raw names that had no table match.
func Coordinators(raw string) (string, []string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	var abbrevs []string
	var unmatched []string
	for _, part := range splitCoordinators(raw) {
		abbrev, ok := abbreviateCoordinator(part)
		if abbrev == "" {
			continue
		}
		if !ok {
			unmatched = append(unmatched, part)
		}
		abbrevs = append(abbrevs, abbrev)
	}
	return strings.Join(abbrevs, coordinatorSeparator), unmatched
}

func splitCoordinators(raw string) []string {
	raw = strings.ReplaceAll(raw, ";", ",")
	raw = strings.ReplaceAll(raw, " / ", ",")
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// abbreviateCoordinator resolves one institution name. Table lookup is
// substring, longest key first. Names missing from the table pass
// through title-cased, truncated to a display-safe length.
func abbreviateCoordinator(name string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" {
		return "", true
	}

	for _, key := range rules.CoordinatorKeys() {
		if strings.Contains(upper, key) {
			return rules.Coordinators[key], true
		}
	}

	display := []rune(strings.TrimSpace(name))
	if len(display) > fallbackDisplayLen {
		display = []rune(strings.TrimSpace(string(display[:fallbackDisplayLen])))
	}
	return TitleCase(string(display)), false
}

// Audience normalizes the target-audience column.
func Audience(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "profissional"):
		return "Profissional"
	case strings.Contains(lower, "qualificado"):
		return "Qualificado"
	case strings.Contains(lower, "geral"):
		return "Geral"
	}
	return TitleCase(raw)
}
