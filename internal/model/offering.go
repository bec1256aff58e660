package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Passthrough holds snapshot columns that are copied into the ledger
// verbatim, without normalization.
type Passthrough struct {
	Incentive12431     string // Lei 12.431 incentivized flag, "S"/"N"
	OfferType          string
	DistributionRegime string
	Bookbuilding       string
	IPO                string
	CrossOffer         string // "vasos comunicantes"
	Sustainable        string
	CollateralType     string
	FiduciaryRegime    string
	Guarantees         string
	CollateralDesc     string
	UseOfProceeds      string
	FiduciaryAgent     string
}

// Offering represents one parsed row of the CVM snapshot.
type Offering struct {
	RequestID        string
	RequestDate      time.Time
	RegistrationDate time.Time // zero until the registration is granted
	StatusRaw        string
	Audience         string
	ProductRaw       string
	IssuerName       string
	CoobligorDesc    string
	LeadCoordinator  string
	IssueNumber      string
	InitialVolume    decimal.Decimal
	Passthrough
}
