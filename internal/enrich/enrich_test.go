package enrich

import (
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

func TestTenor(t *testing.T) {
	tests := []struct {
		issue    string
		maturity string
		want     string
	}{
		{"2025-06-15", "2030-06-15", "5"},
		{"2025-06-15", "2030-06-16", "5.01"},
		{"2025-01-01", "2026-01-01", "1"},
		{"2025-01-01", "2025-07-02", "0.5"},
		{"2025-01-01", "2032-01-01", "7"},
	}
	for _, tt := range tests {
		got := Tenor(date(tt.issue), date(tt.maturity))
		assert.True(t, dec(tt.want).Equal(got), "Tenor(%s, %s) = %s, want %s", tt.issue, tt.maturity, got, tt.want)
	}
}

func TestTenorMissingDate(t *testing.T) {
	assert.True(t, Tenor(time.Time{}, date("2030-06-15")).IsZero())
	assert.True(t, Tenor(date("2025-06-15"), time.Time{}).IsZero())
}

func TestApplyFillsEmptyFields(t *testing.T) {
	e := &model.Entry{RequestID: "21629"}
	d := Data{
		RequestID:    "21629",
		Series:       "Única",
		Rating:       "AAA(bra)",
		FinalVolume:  dec("550000000"),
		IssueDate:    date("2025-06-15"),
		MaturityDate: date("2030-06-15"),
		RateFinal:    "CDI + 1,35%",
	}

	assert.True(t, Apply(e, d))
	assert.Equal(t, "Única", e.Enrichment.Series)
	assert.Equal(t, "AAA(bra)", e.Enrichment.Rating)
	assert.True(t, dec("550000000").Equal(e.Enrichment.FinalVolume))
	assert.True(t, dec("5").Equal(e.Enrichment.TenorYears))
}

func TestApplyEmptyValueKeepsExisting(t *testing.T) {
	e := &model.Entry{RequestID: "21629"}
	e.Enrichment.Rating = "AAA(bra)"
	e.Enrichment.FinalVolume = dec("550000000")

	changed := Apply(e, Data{RequestID: "21629"})

	assert.False(t, changed)
	assert.Equal(t, "AAA(bra)", e.Enrichment.Rating)
	assert.True(t, dec("550000000").Equal(e.Enrichment.FinalVolume))
}

func TestApplyOverwritesWithNewValue(t *testing.T) {
	e := &model.Entry{RequestID: "21629"}
	e.Enrichment.Rating = "AA(bra)"

	changed := Apply(e, Data{RequestID: "21629", Rating: "AAA(bra)"})

	assert.True(t, changed)
	assert.Equal(t, "AAA(bra)", e.Enrichment.Rating)
}

func TestApplyRecomputesTenorOnDateChange(t *testing.T) {
	e := &model.Entry{RequestID: "21629"}
	e.Enrichment.IssueDate = date("2025-06-15")
	e.Enrichment.MaturityDate = date("2030-06-15")
	e.Enrichment.TenorYears = dec("5")

	changed := Apply(e, Data{RequestID: "21629", MaturityDate: date("2032-06-15")})

	assert.True(t, changed)
	assert.True(t, dec("7").Equal(e.Enrichment.TenorYears), "got %s", e.Enrichment.TenorYears)
}

func TestApplyIsIdempotent(t *testing.T) {
	e := &model.Entry{RequestID: "21629"}
	d := Data{RequestID: "21629", Series: "Única", Rating: "AAA(bra)"}

	assert.True(t, Apply(e, d))
	assert.False(t, Apply(e, d))
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		indexer string
		spread  string
		want    string
	}{
		{"DI", "1.35", "CDI + 1,35%"},
		{"Taxa DI", "1.6", "CDI + 1,60%"},
		{"IPCA", "5.5", "IPCA + 5,50%"},
		{"NTN-B", "0.45", "NTN-B + 0,45%"},
		{"Prefixado", "12.5", "Pré 12,50%"},
		{"PRÉ", "12.5", "Pré 12,50%"},
		{"SELIC", "0.1", "SELIC + 0,10%"},
		{"IPCA", "0", "IPCA"},
		{"Não identificado", "1.35", ""},
		{"", "1.35", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRate(tt.indexer, dec(tt.spread)), "indexer %q", tt.indexer)
	}
}

func TestReadFile(t *testing.T) {
	input := FileHeader + "\n" +
		"21629;Única;Quirografária;AAA(bra);550.000.000,00;15/06/2025;15/06/2030;CDI + 1,60%;CDI + 1,35%;N\n"

	data, err := ReadFile(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, data, 1)

	d := data[0]
	assert.Equal(t, "21629", d.RequestID)
	assert.Equal(t, "Única", d.Series)
	assert.Equal(t, "Quirografária", d.Nature)
	assert.True(t, dec("550000000").Equal(d.FinalVolume))
	assert.Equal(t, date("2025-06-15"), d.IssueDate)
	assert.Equal(t, "CDI + 1,35%", d.RateFinal)
}

func TestReadFileHeaderOnly(t *testing.T) {
	data, err := ReadFile(strings.NewReader(FileHeader + "\n"))
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestReadFileMissingKey(t *testing.T) {
	input := FileHeader + "\n;Única;;;;;;;;\n"

	_, err := ReadFile(strings.NewReader(input))
	assert.ErrorContains(t, err, "missing request id")
}
