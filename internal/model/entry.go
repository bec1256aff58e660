package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bucket partitions the ledger by offering status.
type Bucket string

const (
	BucketPipeline   Bucket = "pipeline"
	BucketRegistered Bucket = "registered"
	BucketIgnored    Bucket = "ignored"
)

// Status is a normalized CVM request status.
type Status string

const (
	StatusClosed         Status = "Oferta Encerrada"
	StatusGranted        Status = "Registro Concedido"
	StatusAwaitingBook   Status = "Aguardando Bookbuilding"
	StatusAwaitingClose  Status = "Aguardando Encerramento"
	StatusUnderAnalysis  Status = "Em Análise"
	StatusPendingReview  Status = "Análise Pendente"
	StatusLapsed         Status = "Registro Caducado"
	StatusRevoked        Status = "Oferta Revogada"
	StatusExpired        Status = "Requerimento Expirado"
)

// ManualFields are filled in by hand in the spreadsheet. The engine
// round-trips them untouched on every merge.
type ManualFields struct {
	BookDate     time.Time
	SaleFlag     string
	SaleAmount   decimal.Decimal
	Observations string
}

// EnrichmentFields come from the detail-page scrape and the ANBIMA
// feed. Once populated they are never cleared; empty incoming values
// do not erase them.
type EnrichmentFields struct {
	Series       string
	Nature       string // espécie
	Rating       string
	FinalVolume  decimal.Decimal
	IssueDate    time.Time
	MaturityDate time.Time
	TenorYears   decimal.Decimal // derived from the two dates
	RateCap      string
	RateFinal    string
	Law14801     string // Lei 14.801 flag, "S"/"N"
}

// Entry is one ledger row, keyed by RequestID. RequestID is assigned by
// the regulator and never changes; entries are never deleted, only
// moved between buckets.
type Entry struct {
	RequestID        string
	RequestDate      time.Time
	RegistrationDate time.Time
	Status           Status
	Bucket           Bucket
	Audience         string
	Product          string
	Issuer           string
	Coordinators     string
	IssueNumber      string
	InitialVolume    decimal.Decimal
	Passthrough

	Manual     ManualFields
	Enrichment EnrichmentFields

	// NeedsEnrichment marks entries the scraper should visit. Set when
	// an entry is first created and when it transitions into the
	// registered bucket. Not persisted.
	NeedsEnrichment bool
}
