package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentType is the instrument kind of an investment
type InvestmentType string

const (
	InvestmentBonds        InvestmentType = "BONDS"
	InvestmentCertificates InvestmentType = "CERTIFICATES"
)

// Label returns the localized label shown in tables and exports
func (t InvestmentType) Label() string {
	if t == InvestmentBonds {
		return "ودائع"
	}
	return "شهادات"
}

// ParseInvestmentType accepts the enum value in any case
func ParseInvestmentType(s string) (InvestmentType, error) {
	switch InvestmentType(strings.ToUpper(strings.TrimSpace(s))) {
	case InvestmentBonds:
		return InvestmentBonds, nil
	case InvestmentCertificates:
		return InvestmentCertificates, nil
	}
	return "", fmt.Errorf("unknown investment type: %q", s)
}

// InvestorRef is the investor projection attached by /investment/list?withInvestor=true
type InvestorRef struct {
	Name string `json:"name"`
}

// Investment represents a fixed-term bond or certificate.
// InterestRate is always stored as a fraction (0.12 == 12%).
type Investment struct {
	Id              string           `json:"id"`
	Type            InvestmentType   `json:"type"`
	Amount          decimal.Decimal  `json:"amount"`
	InterestRate    decimal.Decimal  `json:"interestRate"`
	ValueOnMaturity decimal.Decimal  `json:"valueOnMaturity"`
	RedemptionDate  time.Time        `json:"redemptionDate"`
	Redeemed        bool             `json:"redeemed"`
	Bank            BankAccount      `json:"bank"`
	CustomId        *string          `json:"customId"`
	InvestorId      string           `json:"investorId"`
	CreatedById     string           `json:"createdById,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	DeletedAt       *time.Time       `json:"deletedAt"`
	ROI             *decimal.Decimal `json:"ROI,omitempty"`
	Investor        *InvestorRef     `json:"investor,omitempty"`
}

// InvestmentInput is the body of POST /investment/new and PUT /investment/:id
type InvestmentInput struct {
	Type            InvestmentType  `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	ValueOnMaturity decimal.Decimal `json:"valueOnMaturity"`
	RedemptionDate  time.Time       `json:"redemptionDate"`
	Bank            BankAccount     `json:"bank"`
	CustomId        *string         `json:"customId"`
	InvestorId      string          `json:"investorId"`
	Redeemed        bool            `json:"redeemed"`
}

// RedeemInput is the body of PATCH /investment/redeem/:id
type RedeemInput struct {
	ValueOnMaturity decimal.Decimal `json:"valueOnMaturity"`
}

// DateFilterType selects which date column a range filter applies to
type DateFilterType string

const (
	FilterByCreatedAt      DateFilterType = "createdAt"
	FilterByRedemptionDate DateFilterType = "redemptionDate"
)

// Label returns the localized column name used in export titles
func (t DateFilterType) Label() string {
	if t == FilterByRedemptionDate {
		return "الاستحقاق"
	}
	return "الإصدار"
}

// ParseDateFilterType accepts "createdAt" and "redemptionDate". An empty value
// selects createdAt.
func ParseDateFilterType(s string) (DateFilterType, error) {
	switch t := DateFilterType(strings.TrimSpace(s)); t {
	case "":
		return FilterByCreatedAt, nil
	case FilterByCreatedAt, FilterByRedemptionDate:
		return t, nil
	}
	return "", fmt.Errorf("unknown date filter: %q", s)
}

// DateRange is an inclusive, optionally open-ended date range
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether neither bound is set
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// InvestmentFilter holds the query parameters of /investment/list
type InvestmentFilter struct {
	InvestorId   string
	WithInvestor bool
	FilterType   DateFilterType
	Range        DateRange
}
