// Package rules holds the static rulebook: product simplification,
// coordinator abbreviations, status routing, and the word lists used
// for issuer title casing. Tables are loaded once and never mutated.
package rules

import (
	"sort"
	"strings"
)

// Products maps raw CVM security names to the canonical product codes
// used in the ledger. The portal serves latin-1 content that sometimes
// arrives double-encoded, so the mojibake variants are mapped too.
var Products = map[string]string{
	"Debêntures":                                "Debêntures",
	"DebÃªntures":                               "Debêntures",
	"Debêntures Conversíveis":                   "Debêntures",
	"DebÃªntures ConversÃ­veis":                 "Debêntures",
	"Certificados de Recebíveis do Agronegócio": "CRA",
	"Certificados de RecebÃ­veis do AgronegÃ³cio": "CRA",
	"Certificados de Recebíveis Imobiliários":     "CRI",
	"Certificados de RecebÃ­veis ImobiliÃ¡rios":   "CRI",
	"Notas Comerciais":                 "NC",
	"Certificados de Recebíveis":       "CR",
	"Certificados de RecebÃ­veis":      "CR",
	"Cédula de Produto Rural Financeira":  "CPR-F",
	"CÃ©dula de Produto Rural Financeira": "CPR-F",
	"Notas Promissórias":               "NP",
	"Notas PromissÃ³rias":              "NP",
	"Outros títulos de securitização":  "Outros",
	"Outros tÃ­tulos de securitizaÃ§Ã£o": "Outros",
}

// productKeys holds the Products keys sorted longest first so the
// substring fallback prefers the most specific name: "Certificados de
// Recebíveis" must not shadow the Imobiliários/Agronegócio variants.
var productKeys = func() []string {
	keys := make([]string, 0, len(Products))
	for k := range Products {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// ProductKeys returns the raw security names in match order (longest
// first). The returned slice must not be modified.
func ProductKeys() []string {
	return productKeys
}

// debtProducts issue in the issuer's own name; receivables products
// carry the underlying debtor in the co-obligor field instead.
var debtProducts = map[string]bool{
	"Debêntures": true,
	"NC":         true,
	"NP":         true,
}

// IsDebtProduct reports whether a canonical product code is a direct
// debt instrument (as opposed to a receivables-backed one).
func IsDebtProduct(product string) bool {
	return debtProducts[product]
}

// Coordinators maps institution names to ledger abbreviations.
// Matching is case-insensitive substring, longest key first.
var Coordinators = map[string]string{
	"BANCO BRADESCO BBI":      "BBI",
	"BRADESCO BBI":            "BBI",
	"ITAU BBA":                "BBA",
	"ITAÚ BBA":                "BBA",
	"BANCO SANTANDER":         "San",
	"SANTANDER":               "San",
	"BTG PACTUAL":             "BTG",
	"BANCO BTG PACTUAL":       "BTG",
	"XP INVESTIMENTOS":        "XP",
	"UBS BB":                  "UBS",
	"UBS BRASIL":              "UBS",
	"BANCO SAFRA":             "Safra",
	"SAFRA":                   "Safra",
	"BANCO CITIBANK":          "Citi",
	"CITIBANK":                "Citi",
	"CITI":                    "Citi",
	"INTER DISTRIBUIDORA":     "Inter",
	"BANCO INTER":             "Inter",
	"ATIVA INVESTIMENTOS":     "Ativa",
	"ATIVA":                   "Ativa",
	"TERRA INVESTIMENTOS":     "Terra",
	"TERRA":                   "Terra",
	"BANCO BV":                "BV",
	"BANCO VOTORANTIM":        "BV",
	"BV":                      "BV",
	"BANCO GENIAL":            "Genial",
	"GENIAL":                  "Genial",
	"CAIXA ECONÔMICA":         "Caixa",
	"CAIXA ECONOMICA":         "Caixa",
	"CAIXA":                   "Caixa",
	"BNDES":                   "BNDES",
	"BANCO ABC":               "ABC",
	"ABC BRASIL":              "ABC",
	"BR PARTNERS":             "BR Partners",
	"OPEA SECURITIZADORA":     "Opea",
	"OPEA":                    "OPEA",
	"BANCO DO BRASIL":         "BB",
	"BANCO DAYCOVAL":          "Daycoval",
	"DAYCOVAL":                "Daycoval",
	"BANCO MODAL":             "Modal",
	"MODAL":                   "Modal",
	"BANCO RODOBENS":          "Rodobens",
	"BANCO PINE":              "Pine",
	"PINE":                    "Pine",
	"GUIDE INVESTIMENTOS":     "Guide",
	"GUIDE":                   "Guide",
	"ORAMA":                   "Orama",
	"BANCO PAN":               "Pan",
	"PAN":                     "Pan",
	"BANCO ORIGINAL":          "Original",
	"BANCO BMG":               "BMG",
	"BMG":                     "BMG",
	"PLURAL":                  "Plural",
	"GAIA":                    "Gaia",
	"TRUE SECURITIZADORA":     "True",
	"TRUE":                    "True",
	"VIRGO COMPANHIA":         "Virgo",
	"VIRGO":                   "Virgo",
	"ISEC":                    "Isec",
	"OCTANTE":                 "Octante",
	"RB CAPITAL":              "RB",
	"VINCI":                   "Vinci",
	"SPX":                     "SPX",
	"HABITASEC":               "Habitasec",
	"BARIGUI":                 "Barigui",
	"FIDUCIAL":                "Fiducial",
	"MASTER":                  "Master",
	"FATOR":                   "Fator",
	"OURINVEST":               "Ourinvest",
	"BNP PARIBAS":             "BNP",
	"STONEX":                  "StoneX",
	"JGP":                     "JGP",
	"OSLO":                    "Oslo",
	"BS2":                     "BS2",
	"ORIZ PARTNERS":           "Oriz",
	"ORIZ":                    "Oriz",
}

// coordinatorKeys holds the Coordinators keys sorted longest first so
// substring matching prefers the most specific name.
var coordinatorKeys = func() []string {
	keys := make([]string, 0, len(Coordinators))
	for k := range Coordinators {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// CoordinatorKeys returns the institution names in match order
// (longest first). The returned slice must not be modified.
func CoordinatorKeys() []string {
	return coordinatorKeys
}

// LowercaseConnectors stay lowercase inside title-cased names.
var LowercaseConnectors = map[string]bool{
	"de": true, "do": true, "da": true, "dos": true, "das": true,
	"em": true, "e": true, "para": true, "por": true, "com": true,
	"sem": true, "sob": true,
}

// ProtectedAcronyms stay uppercase inside title-cased names.
var ProtectedAcronyms = map[string]bool{
	"S.A.": true, "S/A": true, "SA": true, "LTDA": true, "LTDA.": true,
	"CIA": true, "CIA.": true, "CNPJ": true, "FIDC": true, "FII": true,
	"FIP": true, "FIAGRO": true, "SPE": true, "EIRELI": true,
}

// IsProtectedAcronym reports whether a token must keep its uppercase
// form, dotted or not.
func IsProtectedAcronym(token string) bool {
	upper := strings.ToUpper(token)
	if ProtectedAcronyms[upper] {
		return true
	}
	return ProtectedAcronyms[strings.ReplaceAll(upper, ".", "")]
}

// DispersedTerms mark a co-obligor description as a dispersed pool of
// retail debtors rather than a single named entity.
var DispersedTerms = []string{
	"pessoa física", "pessoas físicas", "pessoa jurídica",
	"pessoas jurídicas", "diversos", "pulverizado",
	"n/a", "não aplicável",
}

// Sentinel issuer values.
const (
	IssuerDispersed   = "Pulverizado"
	IssuerUnavailable = "N/A"
)
