package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dcmtrack/dcmtrack/internal/model"
	"github.com/dcmtrack/dcmtrack/internal/rules"
)

// Issuer resolves the display issuer for an offering. Direct debt
// instruments use the issuer name; receivables-backed products use the
// co-obligor description, which names the underlying debtor. A
// description matching the dispersed-holder terms collapses to the
// "Pulverizado" sentinel, an empty one falls back to the issuer name,
// and a fully empty result becomes "N/A".
func Issuer(o model.Offering, product string) string {
	var name string
	if rules.IsDebtProduct(product) {
		name = strings.TrimSpace(o.IssuerName)
	} else {
		name = strings.TrimSpace(o.CoobligorDesc)
		if name != "" {
			lower := strings.ToLower(name)
			for _, term := range rules.DispersedTerms {
				if strings.Contains(lower, term) {
					return rules.IssuerDispersed
				}
			}
			name = cleanIssuer(name)
		}
		if name == "" {
			name = strings.TrimSpace(o.IssuerName)
		}
	}

	if name == "" {
		return rules.IssuerUnavailable
	}
	return TitleCase(name)
}

// Cut points in free-form debtor descriptions: registration numbers,
// guarantor lists, and boilerplate about the underlying receivables.
var issuerCutPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*,?\s*inscrit[ao]`),
	regexp.MustCompile(`(?i)\s*,?\s*CNPJ`),
	regexp.MustCompile(`(?i)\s*\|\s*Avalistas?:`),
	regexp.MustCompile(`(?i)\s*,?\s*com\s+aval`),
	regexp.MustCompile(`(?i)\s*,?\s*Os\s+Direitos`),
	regexp.MustCompile(`\s*,?\s*100%`),
	regexp.MustCompile(`\s*:\s*\d+\.\d+\.\d+`),
}

var issuerPrefixes = []string{
	"Devedoras:", "Devedora:", "Devedores:", "Devedor:",
	"Cedentes:", "Cedente:",
}

var trailingPunct = regexp.MustCompile(`[,.\s]+$`)

const maxIssuerLen = 100

// cleanIssuer extracts the principal entity name from a free-form
// debtor description.
func cleanIssuer(text string) string {
	for _, prefix := range issuerPrefixes {
		text = strings.TrimSpace(strings.ReplaceAll(text, prefix, ""))
	}

	result := text
	for _, pat := range issuerCutPatterns {
		if loc := pat.FindStringIndex(result); loc != nil {
			result = strings.TrimSpace(result[:loc[0]])
		}
	}
	result = trailingPunct.ReplaceAllString(result, "")

	// Too aggressive a cut means the description had no clean name up
	// front; fall back to a bounded slice of the original.
	if len([]rune(result)) < 3 {
		result = text
	}
	if runes := []rune(result); len(runes) > maxIssuerLen {
		cut := maxIssuerLen
		for _, sep := range []string{" | ", ", ", " - "} {
			if i := strings.Index(string(runes[50:cut]), sep); i >= 0 {
				cut = 50 + i
				break
			}
		}
		result = string(runes[:cut])
	}
	return strings.TrimSpace(result)
}

// TitleCase converts a name to title case, keeping connector words
// lowercase (except at the start) and entity-type acronyms uppercase.
func TitleCase(s string) string {
	words := strings.Fields(strings.TrimSpace(s))
	for i, word := range words {
		switch {
		case rules.IsProtectedAcronym(word):
			words[i] = strings.ToUpper(word)
		case i > 0 && rules.LowercaseConnectors[strings.ToLower(word)]:
			words[i] = strings.ToLower(word)
		default:
			words[i] = titleWord(word)
		}
	}
	return strings.Join(words, " ")
}

func titleWord(word string) string {
	return cases.Title(language.BrazilianPortuguese).String(strings.ToLower(word))
}
