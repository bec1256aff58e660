package ledger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcmtrack/dcmtrack/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleEntry() model.Entry {
	return model.Entry{
		RequestID:        "21629",
		RequestDate:      date("2025-03-10"),
		RegistrationDate: date("2025-06-11"),
		Status:           model.StatusClosed,
		Bucket:           model.BucketRegistered,
		Audience:         "Investidores Profissionais",
		Product:          "Debêntures",
		Issuer:           "Acme Energia S.A.",
		Coordinators:     "BBA/BTG",
		IssueNumber:      "3",
		InitialVolume:    dec("500000000"),
		Passthrough: model.Passthrough{
			Incentive12431: "S",
			OfferType:      "Primária",
			Sustainable:    "N",
		},
		Manual: model.ManualFields{
			BookDate:     date("2025-05-20"),
			SaleFlag:     "S",
			SaleAmount:   dec("25000000"),
			Observations: "alocação confirmada",
		},
		Enrichment: model.EnrichmentFields{
			Series:       "Única",
			Nature:       "Quirografária",
			Rating:       "AAA(bra)",
			FinalVolume:  dec("550000000"),
			IssueDate:    date("2025-06-15"),
			MaturityDate: date("2030-06-15"),
			TenorYears:   dec("5.00"),
			RateCap:      "CDI + 1,60%",
			RateFinal:    "CDI + 1,35%",
			Law14801:     "N",
		},
	}
}

func TestMarshalEntry(t *testing.T) {
	row := MarshalEntry(sampleEntry())

	require.Len(t, row, numFields)
	assert.Equal(t, "10/03/2025", row[colRequestDate])
	assert.Equal(t, "11/06/2025", row[colRegistrationDt])
	assert.Equal(t, "20/05/2025", row[colBookDate])
	assert.Equal(t, "Oferta Encerrada", row[colStatus])
	assert.Equal(t, "21629", row[colKey])
	assert.Equal(t, "500.000.000", row[colInitialVolume])
	assert.Equal(t, "550.000.000", row[colFinalVolume])
	assert.Equal(t, "5.00", row[colTenor])
	assert.Equal(t, "25.000.000", row[colSaleAmount])
	assert.Equal(t, "S", row[colIncentive12431])
	assert.Equal(t, "N", row[colLaw14801])
}

func TestMarshalEntryEmptyOptionals(t *testing.T) {
	e := model.Entry{
		RequestID:   "21700",
		RequestDate: date("2025-03-12"),
		Status:      model.StatusUnderAnalysis,
		Bucket:      model.BucketPipeline,
	}
	row := MarshalEntry(e)

	assert.Equal(t, "", row[colRegistrationDt])
	assert.Equal(t, "", row[colBookDate])
	assert.Equal(t, "", row[colInitialVolume])
	assert.Equal(t, "", row[colTenor])
	assert.Equal(t, "", row[colSaleAmount])
}

func TestEntryRoundTrip(t *testing.T) {
	want := sampleEntry()

	got, err := UnmarshalEntry(MarshalEntry(want))
	require.NoError(t, err)

	assert.Equal(t, want.RequestID, got.RequestID)
	assert.Equal(t, want.RequestDate, got.RequestDate)
	assert.Equal(t, want.RegistrationDate, got.RegistrationDate)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.Bucket, got.Bucket)
	assert.Equal(t, want.Issuer, got.Issuer)
	assert.Equal(t, want.Coordinators, got.Coordinators)
	assert.True(t, want.InitialVolume.Equal(got.InitialVolume))
	assert.True(t, want.Enrichment.FinalVolume.Equal(got.Enrichment.FinalVolume))
	assert.True(t, want.Enrichment.TenorYears.Equal(got.Enrichment.TenorYears))
	assert.Equal(t, want.Manual, got.Manual)
	assert.Equal(t, want.Passthrough, got.Passthrough)
}

func TestUnmarshalEntryRecomputesBucket(t *testing.T) {
	row := MarshalEntry(sampleEntry())
	row[colStatus] = "Em Análise"

	got, err := UnmarshalEntry(row)
	require.NoError(t, err)

	// The bucket always follows the status, whatever the file said.
	assert.Equal(t, model.StatusUnderAnalysis, got.Status)
	assert.Equal(t, model.BucketPipeline, got.Bucket)
}

func TestUnmarshalEntryRejectsMissingKey(t *testing.T) {
	row := MarshalEntry(sampleEntry())
	row[colKey] = "  "

	_, err := UnmarshalEntry(row)
	assert.ErrorContains(t, err, "missing key")
}

func TestUnmarshalEntryWrongWidth(t *testing.T) {
	_, err := UnmarshalEntry([]string{"10/03/2025", "21629"})
	assert.ErrorContains(t, err, "expected 37 fields")
}

func TestWriteEntriesHeaderAndBOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, []model.Entry{sampleEntry()}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, strings.TrimPrefix(lines[0], "\xEF\xBB\xBF"))
}

func TestReadEntriesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := []model.Entry{sampleEntry()}
	require.NoError(t, WriteEntries(&buf, want))

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "21629", got[0].RequestID)
	assert.Equal(t, model.BucketRegistered, got[0].Bucket)
}

func TestReadEntriesEmptyInput(t *testing.T) {
	got, err := ReadEntries(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)
}
