// Package ledger persists the cumulative offerings ledger as a
// semicolon-separated CSV in the fixed 37-column contract the
// spreadsheet consumers expect.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dcmtrack/dcmtrack/internal/brfmt"
	"github.com/dcmtrack/dcmtrack/internal/model"
	"github.com/dcmtrack/dcmtrack/internal/rules"
)

// Header is the fixed 37-column contract, in order. Column names match
// the spreadsheet the ledger replaced.
const Header = "Data Requerimento;Data Registro;Data Book;Status;Chave;" +
	"Público;Produto;Emissor;Coordenadores;Nº Emissão;Série;Espécie;" +
	"Rating;Volume Inicial;Volume Final;Data de Emissão;Data de Vencimento;" +
	"Prazo;Taxa Teto;Taxa Final;12.431;14.801;Venda;Venda R$;Obs;" +
	"Tipo Oferta;Regime Distribuição;Bookbuilding;IPO;Vasos Comunicantes;" +
	"Sustentável;Tipo Lastro;Regime Fiduciário;Garantias;Lastro;" +
	"Destinação Recursos;Agente Fiduciário"

// Separator matches the portal's and Excel's regional convention.
const Separator = ';'

// bom makes Excel detect UTF-8.
const bom = "\xEF\xBB\xBF"

const (
	numFields          = 37
	colRequestDate     = 0
	colRegistrationDt  = 1
	colBookDate        = 2
	colStatus          = 3
	colKey             = 4
	colAudience        = 5
	colProduct         = 6
	colIssuer          = 7
	colCoordinators    = 8
	colIssueNumber     = 9
	colSeries          = 10
	colNature          = 11
	colRating          = 12
	colInitialVolume   = 13
	colFinalVolume     = 14
	colIssueDate       = 15
	colMaturityDate    = 16
	colTenor           = 17
	colRateCap         = 18
	colRateFinal       = 19
	colIncentive12431  = 20
	colLaw14801        = 21
	colSaleFlag        = 22
	colSaleAmount      = 23
	colObservations    = 24
	colOfferType       = 25
	colDistribRegime   = 26
	colBookbuilding    = 27
	colIPO             = 28
	colCrossOffer      = 29
	colSustainable     = 30
	colCollateralType  = 31
	colFiduciaryRegime = 32
	colGuarantees      = 33
	colCollateralDesc  = 34
	colUseOfProceeds   = 35
	colFiduciaryAgent  = 36
)

// ReadEntries reads all entries from a ledger CSV reader. The bucket
// of each entry is recomputed from its status, never trusted from
// disk.
func ReadEntries(r io.Reader) ([]model.Entry, error) {
	cr := csv.NewReader(r)
	cr.Comma = Separator
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var entries []model.Entry
	for i, rec := range records[1:] {
		entry, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// WriteEntries writes entries to a ledger CSV writer, including the
// BOM and header.
func WriteEntries(w io.Writer, entries []model.Entry) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = Separator
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ";")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, entry := range entries {
		if err := cw.Write(MarshalEntry(entry)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e model.Entry) []string {
	row := make([]string, numFields)
	row[colRequestDate] = brfmt.FormatDate(e.RequestDate)
	row[colRegistrationDt] = brfmt.FormatDate(e.RegistrationDate)
	row[colBookDate] = brfmt.FormatDate(e.Manual.BookDate)
	row[colStatus] = string(e.Status)
	row[colKey] = e.RequestID
	row[colAudience] = e.Audience
	row[colProduct] = e.Product
	row[colIssuer] = e.Issuer
	row[colCoordinators] = e.Coordinators
	row[colIssueNumber] = e.IssueNumber
	row[colSeries] = e.Enrichment.Series
	row[colNature] = e.Enrichment.Nature
	row[colRating] = e.Enrichment.Rating
	row[colInitialVolume] = brfmt.FormatVolume(e.InitialVolume)
	row[colFinalVolume] = brfmt.FormatVolume(e.Enrichment.FinalVolume)
	row[colIssueDate] = brfmt.FormatDate(e.Enrichment.IssueDate)
	row[colMaturityDate] = brfmt.FormatDate(e.Enrichment.MaturityDate)
	if !e.Enrichment.TenorYears.IsZero() {
		row[colTenor] = e.Enrichment.TenorYears.StringFixed(2)
	}
	row[colRateCap] = e.Enrichment.RateCap
	row[colRateFinal] = e.Enrichment.RateFinal
	row[colIncentive12431] = e.Incentive12431
	row[colLaw14801] = e.Enrichment.Law14801
	row[colSaleFlag] = e.Manual.SaleFlag
	if !e.Manual.SaleAmount.IsZero() {
		row[colSaleAmount] = brfmt.FormatVolume(e.Manual.SaleAmount)
	}
	row[colObservations] = e.Manual.Observations
	row[colOfferType] = e.OfferType
	row[colDistribRegime] = e.DistributionRegime
	row[colBookbuilding] = e.Bookbuilding
	row[colIPO] = e.IPO
	row[colCrossOffer] = e.CrossOffer
	row[colSustainable] = e.Sustainable
	row[colCollateralType] = e.CollateralType
	row[colFiduciaryRegime] = e.FiduciaryRegime
	row[colGuarantees] = e.Guarantees
	row[colCollateralDesc] = e.CollateralDesc
	row[colUseOfProceeds] = e.UseOfProceeds
	row[colFiduciaryAgent] = e.FiduciaryAgent
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (model.Entry, error) {
	if len(record) != numFields {
		return model.Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	key := strings.TrimSpace(strings.TrimPrefix(record[colKey], bom))
	if key == "" {
		return model.Entry{}, fmt.Errorf("missing key")
	}

	requestDate, err := brfmt.ParseDate(record[colRequestDate])
	if err != nil {
		return model.Entry{}, err
	}
	registrationDate, err := brfmt.ParseDate(record[colRegistrationDt])
	if err != nil {
		return model.Entry{}, err
	}
	bookDate, err := brfmt.ParseDate(record[colBookDate])
	if err != nil {
		return model.Entry{}, err
	}
	issueDate, err := brfmt.ParseDate(record[colIssueDate])
	if err != nil {
		return model.Entry{}, err
	}
	maturityDate, err := brfmt.ParseDate(record[colMaturityDate])
	if err != nil {
		return model.Entry{}, err
	}

	initialVolume, err := brfmt.ParseDecimal(record[colInitialVolume])
	if err != nil {
		return model.Entry{}, fmt.Errorf("volume inicial: %w", err)
	}
	finalVolume, err := brfmt.ParseDecimal(record[colFinalVolume])
	if err != nil {
		return model.Entry{}, fmt.Errorf("volume final: %w", err)
	}
	saleAmount, err := brfmt.ParseDecimal(record[colSaleAmount])
	if err != nil {
		return model.Entry{}, fmt.Errorf("venda: %w", err)
	}

	// Tenor is stored with a plain decimal point ("5.00"), unlike the
	// BR-formatted volumes.
	tenor := decimal.Zero
	if s := strings.TrimSpace(record[colTenor]); s != "" {
		tenor, err = decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
		if err != nil {
			return model.Entry{}, fmt.Errorf("prazo: %w", err)
		}
	}

	status := rules.NormalizeStatus(record[colStatus])
	_, bucket, _ := rules.RouteStatus(string(status))

	return model.Entry{
		RequestID:        key,
		RequestDate:      requestDate,
		RegistrationDate: registrationDate,
		Status:           status,
		Bucket:           bucket,
		Audience:         record[colAudience],
		Product:          record[colProduct],
		Issuer:           record[colIssuer],
		Coordinators:     record[colCoordinators],
		IssueNumber:      record[colIssueNumber],
		InitialVolume:    initialVolume,
		Passthrough: model.Passthrough{
			Incentive12431:     record[colIncentive12431],
			OfferType:          record[colOfferType],
			DistributionRegime: record[colDistribRegime],
			Bookbuilding:       record[colBookbuilding],
			IPO:                record[colIPO],
			CrossOffer:         record[colCrossOffer],
			Sustainable:        record[colSustainable],
			CollateralType:     record[colCollateralType],
			FiduciaryRegime:    record[colFiduciaryRegime],
			Guarantees:         record[colGuarantees],
			CollateralDesc:     record[colCollateralDesc],
			UseOfProceeds:      record[colUseOfProceeds],
			FiduciaryAgent:     record[colFiduciaryAgent],
		},
		Manual: model.ManualFields{
			BookDate:     bookDate,
			SaleFlag:     record[colSaleFlag],
			SaleAmount:   saleAmount,
			Observations: record[colObservations],
		},
		Enrichment: model.EnrichmentFields{
			Series:       record[colSeries],
			Nature:       record[colNature],
			Rating:       record[colRating],
			FinalVolume:  finalVolume,
			IssueDate:    issueDate,
			MaturityDate: maturityDate,
			TenorYears:   tenor,
			RateCap:      record[colRateCap],
			RateFinal:    record[colRateFinal],
			Law14801:     record[colLaw14801],
		},
	}, nil
}
