package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive         PledgeStatus = "Active donor"
	StatusPledged        PledgeStatus = "Pledged donor"
	StatusPaymentFailure PledgeStatus = "Payment failure"
	StatusChurned        PledgeStatus = "Churned donor"
	StatusOneTime        PledgeStatus = "One-Time"
)

const (
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Annually  Frequency = "annually"
	OneTime   Frequency = "One-Time"
)

type (
	PledgeStatus string

	Frequency string

	// Payment is a single donation payment. AmountUSD is derived by the
	// normalizer and is invalid when no exchange rate could be resolved
	// for (Currency, Date).
	Payment struct {
		ID                string
		Date              time.Time
		Amount            decimal.Decimal
		Currency          string
		Portfolio         string
		Counterfactuality decimal.Decimal // 0.0 - 1.0
		Platform          string
		Frequency         Frequency
		PledgeID          string // empty for anonymous/unlinked payments
		AmountUSD         decimal.NullDecimal
	}

	// Pledge is a snapshot row of a donor's recurring (or one-time) pledge.
	// Status transitions are not modeled; the table is a point-in-time export.
	Pledge struct {
		PledgeID           string
		DonorID            string
		Status             PledgeStatus
		CreatedAt          time.Time
		StartsAt           time.Time
		EndedAt            time.Time // zero when the pledge is still open
		ContributionAmount decimal.Decimal
		Currency           string
		Frequency          Frequency
		ChapterType        string
		DonorChapter       string
		AmountUSD          decimal.NullDecimal
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrInvalidDate     = errors.New("invalid date")
)

// AnnualizationFactor returns the number of contributions per year for the
// frequency. Unknown frequencies count once, matching one-time pledges.
func (f Frequency) AnnualizationFactor() decimal.Decimal {
	switch f {
	case Monthly:
		return decimal.NewFromInt(12)
	case Quarterly:
		return decimal.NewFromInt(4)
	default:
		return decimal.NewFromInt(1)
	}
}

// Recurring reports whether the frequency implies repeated contributions.
func (f Frequency) Recurring() bool {
	switch f {
	case Monthly, Quarterly, Annually:
		return true
	}
	return false
}

// Cancelled reports whether the status counts toward attrition.
func (s PledgeStatus) Cancelled() bool {
	return s == StatusPaymentFailure || s == StatusChurned
}

// Anonymous reports whether the payment is not linked to any pledge.
func (p Payment) Anonymous() bool {
	return strings.TrimSpace(p.PledgeID) == ""
}

func (p Payment) Validate() error {
	if p.Date.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(p.Currency) == "" {
		return ErrInvalidCurrency
	}
	if p.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (p Pledge) Validate() error {
	if p.CreatedAt.IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(p.Currency) == "" {
		return ErrInvalidCurrency
	}
	if p.ContributionAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
