package snapshot

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/dcmtrack/dcmtrack/internal/anomaly"
	"github.com/dcmtrack/dcmtrack/internal/brfmt"
	"github.com/dcmtrack/dcmtrack/internal/model"
)

// Column names from the CVM Resolução 160 extract. Required columns
// make or break the run; the rest are passed through when present.
var requiredColumns = []string{
	"Numero_Requerimento",
	"Data_requerimento",
	"Data_Registro",
	"Status_Requerimento",
	"Publico_alvo",
	"Valor_Mobiliario",
	"Nome_Emissor",
	"Identificacao_devedores_coobrigados",
	"Nome_Lider",
	"Emissao",
	"Valor_Total_Registrado",
}

// maxTextLen bounds the free-form description columns.
const maxTextLen = 500

// Parse validates and parses a decoded snapshot. A missing required
// column is a schema mismatch and aborts the whole run; a malformed
// individual row is skipped and counted, never fatal. When year > 0,
// rows whose request date falls in another year are filtered out.
func Parse(data []byte, year int, rec *anomaly.Recorder) ([]model.Offering, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parsing CSV: %v", ErrSchemaMismatch, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty snapshot", ErrSchemaMismatch)
	}

	cols, err := indexColumns(records[0])
	if err != nil {
		return nil, err
	}

	var offerings []model.Offering
	for i, record := range records[1:] {
		o, err := parseRow(row{cols: cols, record: record})
		if err != nil {
			rec.Record(anomaly.KindRowRejected, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		if year > 0 && o.RequestDate.Year() != year {
			continue
		}
		offerings = append(offerings, o)
	}
	return offerings, nil
}

// indexColumns maps column names to positions and verifies the
// required contract is intact.
func indexColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\xEF\xBB\xBF"))
		cols[name] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return cols, nil
}

type row struct {
	cols   map[string]int
	record []string
}

// get returns a trimmed column value, or "" when the column is absent
// or the row is short.
func (r row) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func parseRow(r row) (model.Offering, error) {
	key := r.get("Numero_Requerimento")
	if key == "" {
		return model.Offering{}, fmt.Errorf("missing Numero_Requerimento")
	}

	requestDate, err := brfmt.ParseDate(r.get("Data_requerimento"))
	if err != nil {
		return model.Offering{}, fmt.Errorf("key %s: %w", key, err)
	}
	if requestDate.IsZero() {
		return model.Offering{}, fmt.Errorf("key %s: missing Data_requerimento", key)
	}
	registrationDate, err := brfmt.ParseDate(r.get("Data_Registro"))
	if err != nil {
		return model.Offering{}, fmt.Errorf("key %s: %w", key, err)
	}

	volume, err := brfmt.ParseDecimal(r.get("Valor_Total_Registrado"))
	if err != nil {
		return model.Offering{}, fmt.Errorf("key %s: %w", key, err)
	}

	return model.Offering{
		RequestID:        key,
		RequestDate:      requestDate,
		RegistrationDate: registrationDate,
		StatusRaw:        r.get("Status_Requerimento"),
		Audience:         r.get("Publico_alvo"),
		ProductRaw:       r.get("Valor_Mobiliario"),
		IssuerName:       r.get("Nome_Emissor"),
		CoobligorDesc:    r.get("Identificacao_devedores_coobrigados"),
		LeadCoordinator:  r.get("Nome_Lider"),
		IssueNumber:      r.get("Emissao"),
		InitialVolume:    volume,
		Passthrough: model.Passthrough{
			Incentive12431:     simFlag(r.get("Titulo_incentivado")),
			OfferType:          r.get("Tipo_Oferta"),
			DistributionRegime: r.get("Regime_distribuicao"),
			Bookbuilding:       r.get("Bookbuilding"),
			IPO:                simFlag(r.get("Oferta_inicial")),
			CrossOffer:         simFlag(r.get("Oferta_vasos_comunicantes")),
			Sustainable:        simFlag(r.get("Titulo_classificado_como_sustentavel")),
			CollateralType:     r.get("Tipo_lastro"),
			FiduciaryRegime:    simFlag(r.get("Regime_fiduciario")),
			Guarantees:         truncate(r.get("Descricao_garantias")),
			CollateralDesc:     truncate(r.get("Descricao_lastro")),
			UseOfProceeds:      truncate(r.get("Destinacao_recursos")),
			FiduciaryAgent:     r.get("Agente_fiduciario"),
		},
	}, nil
}

// simFlag collapses the portal's yes spellings ("S", "Sim") onto "S",
// everything else onto "N". Absent values stay empty.
func simFlag(v string) string {
	if v == "" {
		return ""
	}
	switch strings.ToUpper(v) {
	case "S", "SIM":
		return "S"
	}
	return "N"
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) > maxTextLen {
		return string(runes[:maxTextLen])
	}
	return s
}
