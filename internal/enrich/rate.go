package enrich

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRate renders an indexer plus spread in the ledger's rate
// notation: "CDI + 1,35%", "IPCA + 5,50%", "Pré 12,50%". Unknown
// indexers return "" so the field stays blank for manual follow-up.
func FormatRate(indexer string, spread decimal.Decimal) string {
	idx := canonicalIndexer(indexer)
	if idx == "" {
		return ""
	}
	if spread.IsZero() {
		return idx
	}

	pct := strings.ReplaceAll(spread.StringFixed(2), ".", ",")
	if idx == "Pré" {
		return fmt.Sprintf("Pré %s%%", pct)
	}
	return fmt.Sprintf("%s + %s%%", idx, pct)
}

func canonicalIndexer(indexer string) string {
	s := strings.ToUpper(strings.TrimSpace(indexer))
	switch {
	case s == "" || strings.Contains(s, "NÃO IDENTIFICADO"):
		return ""
	case strings.Contains(s, "IPCA"):
		return "IPCA"
	case strings.Contains(s, "NTN"):
		return "NTN-B"
	case strings.Contains(s, "PRÉ") || strings.Contains(s, "PREFIXAD"):
		return "Pré"
	case strings.Contains(s, "DI"):
		return "CDI"
	case strings.Contains(s, "SELIC"):
		return "SELIC"
	}
	return ""
}
