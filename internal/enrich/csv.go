package enrich

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dcmtrack/dcmtrack/internal/brfmt"
)

// FileHeader is the CSV header for enrichment input files produced by
// the scraper.
const FileHeader = "chave;serie;especie;rating;volume_final;data_emissao;data_vencimento;taxa_teto;taxa_final;lei_14801"

const (
	numFields       = 10
	colKey          = 0
	colSeries       = 1
	colNature       = 2
	colRating       = 3
	colFinalVolume  = 4
	colIssueDate    = 5
	colMaturityDate = 6
	colRateCap      = 7
	colRateFinal    = 8
	colLaw14801     = 9
)

// ReadFile reads an enrichment CSV (semicolon-separated, one row per
// request id).
func ReadFile(r io.Reader) ([]Data, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading enrichment CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var out []Data
	for i, rec := range records[1:] {
		d, err := unmarshalData(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func unmarshalData(record []string) (Data, error) {
	key := strings.TrimSpace(record[colKey])
	if key == "" {
		return Data{}, fmt.Errorf("missing request id")
	}

	volume, err := brfmt.ParseDecimal(record[colFinalVolume])
	if err != nil {
		return Data{}, fmt.Errorf("volume_final: %w", err)
	}
	issueDate, err := brfmt.ParseDate(record[colIssueDate])
	if err != nil {
		return Data{}, fmt.Errorf("data_emissao: %w", err)
	}
	maturityDate, err := brfmt.ParseDate(record[colMaturityDate])
	if err != nil {
		return Data{}, fmt.Errorf("data_vencimento: %w", err)
	}

	return Data{
		RequestID:    key,
		Series:       strings.TrimSpace(record[colSeries]),
		Nature:       strings.TrimSpace(record[colNature]),
		Rating:       strings.TrimSpace(record[colRating]),
		FinalVolume:  volume,
		IssueDate:    issueDate,
		MaturityDate: maturityDate,
		RateCap:      strings.TrimSpace(record[colRateCap]),
		RateFinal:    strings.TrimSpace(record[colRateFinal]),
		Law14801:     strings.TrimSpace(record[colLaw14801]),
	}, nil
}
