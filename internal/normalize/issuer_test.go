package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dcmtrack/dcmtrack/internal/model"
	"github.com/dcmtrack/dcmtrack/internal/rules"
)

func TestIssuerDebtProduct(t *testing.T) {
	o := model.Offering{
		IssuerName:    "COMPANHIA DE SANEAMENTO DO PARANÁ S.A.",
		CoobligorDesc: "ignored for debt products",
	}
	got := Issuer(o, "Debêntures")
	assert.Equal(t, "Companhia de Saneamento do Paraná S.A.", got)
}

func TestIssuerReceivablesUsesCoobligor(t *testing.T) {
	o := model.Offering{
		IssuerName:    "TRUE SECURITIZADORA S.A.",
		CoobligorDesc: "REDE AGRO COMERCIO DE INSUMOS LTDA",
	}
	got := Issuer(o, "CRA")
	assert.Equal(t, "Rede Agro Comercio de Insumos LTDA", got)
}

func TestIssuerDispersed(t *testing.T) {
	tests := []string{
		"Pessoas físicas diversas",
		"Devedores pulverizados",
		"DIVERSOS",
		"pessoa jurídica",
		"Não aplicável",
	}
	for _, desc := range tests {
		o := model.Offering{CoobligorDesc: desc}
		assert.Equal(t, rules.IssuerDispersed, Issuer(o, "CRI"), desc)
	}
}

func TestIssuerUnavailable(t *testing.T) {
	o := model.Offering{}
	assert.Equal(t, rules.IssuerUnavailable, Issuer(o, "CRI"))
	assert.Equal(t, rules.IssuerUnavailable, Issuer(o, "Debêntures"))
}

func TestIssuerFallsBackToIssuerName(t *testing.T) {
	o := model.Offering{IssuerName: "VIRGO COMPANHIA DE SECURITIZAÇÃO"}
	got := Issuer(o, "CRI")
	assert.Equal(t, "Virgo Companhia de Securitização", got)
}

func TestIssuerCleansDebtorNoise(t *testing.T) {
	o := model.Offering{
		CoobligorDesc: "Devedora: AGRO INSUMOS LTDA, inscrita no CNPJ sob nº 12.345.678/0001-90",
	}
	got := Issuer(o, "CRA")
	assert.Equal(t, "Agro Insumos LTDA", got)
}

func TestIssuerIdempotent(t *testing.T) {
	o := model.Offering{IssuerName: "BANCO DE FOMENTO DO BRASIL S.A."}
	once := Issuer(o, "Debêntures")
	o.IssuerName = once
	assert.Equal(t, once, Issuer(o, "Debêntures"))
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"COMPANHIA DE GÁS", "Companhia de Gás"},
		{"EMPRESA S.A.", "Empresa S.A."},
		{"fundo FIDC crédito", "Fundo FIDC Crédito"},
		{"DE FATO PARTICIPAÇÕES", "De Fato Participações"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleCase(tt.in), tt.in)
	}
}
