package source

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"donorboard/internal/core"
)

// Column names expected in the payments table.
const (
	ColPaymentID         = "payment_id"
	ColDate              = "date"
	ColAmount            = "amount"
	ColCurrency          = "currency"
	ColPortfolio         = "portfolio"
	ColCounterfactuality = "counterfactuality"
	ColPaymentPlatform   = "payment_platform"
	ColFrequency         = "frequency"
	ColPledgeID          = "pledge_id"
)

// Column names expected in the pledges table.
const (
	ColDonorID            = "donor_id"
	ColPledgeStatus       = "pledge_status"
	ColPledgeCreatedAt    = "pledge_created_at"
	ColPledgeStartsAt     = "pledge_starts_at"
	ColPledgeEndedAt      = "pledge_ended_at"
	ColContributionAmount = "contribution_amount"
	ColChapterType        = "chapter_type"
	ColDonorChapter       = "donor_chapter"
)

// Header maps column names to field positions, case-insensitively.
type Header map[string]int

// NewHeader builds a Header from the first row of a table.
func NewHeader(fields []string) Header {
	h := make(Header, len(fields))
	for i, name := range fields {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return h
}

// Require checks that every named column is present.
func (h Header) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if _, ok := h[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (h Header) get(fields []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// ParsePayment converts one delimited record into a Payment.
func ParsePayment(h Header, fields []string) (core.Payment, error) {
	date, err := parseDate(h.get(fields, ColDate))
	if err != nil {
		return core.Payment{}, fmt.Errorf("%s: %w", ColDate, err)
	}
	amount, err := parseDecimal(h.get(fields, ColAmount))
	if err != nil {
		return core.Payment{}, fmt.Errorf("%s: %w", ColAmount, err)
	}
	cf, err := parseOptionalDecimal(h.get(fields, ColCounterfactuality))
	if err != nil {
		return core.Payment{}, fmt.Errorf("%s: %w", ColCounterfactuality, err)
	}
	p := core.Payment{
		ID:                h.get(fields, ColPaymentID),
		Date:              date,
		Amount:            amount,
		Currency:          h.get(fields, ColCurrency),
		Portfolio:         h.get(fields, ColPortfolio),
		Counterfactuality: cf,
		Platform:          h.get(fields, ColPaymentPlatform),
		Frequency:         core.Frequency(h.get(fields, ColFrequency)),
		PledgeID:          h.get(fields, ColPledgeID),
	}
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}
	return p, nil
}

// ParsePledge converts one delimited record into a Pledge.
func ParsePledge(h Header, fields []string) (core.Pledge, error) {
	createdAt, err := parseDate(h.get(fields, ColPledgeCreatedAt))
	if err != nil {
		return core.Pledge{}, fmt.Errorf("%s: %w", ColPledgeCreatedAt, err)
	}
	startsAt, err := parseOptionalDate(h.get(fields, ColPledgeStartsAt))
	if err != nil {
		return core.Pledge{}, fmt.Errorf("%s: %w", ColPledgeStartsAt, err)
	}
	endedAt, err := parseOptionalDate(h.get(fields, ColPledgeEndedAt))
	if err != nil {
		return core.Pledge{}, fmt.Errorf("%s: %w", ColPledgeEndedAt, err)
	}
	amount, err := parseDecimal(h.get(fields, ColContributionAmount))
	if err != nil {
		return core.Pledge{}, fmt.Errorf("%s: %w", ColContributionAmount, err)
	}
	p := core.Pledge{
		PledgeID:           h.get(fields, ColPledgeID),
		DonorID:            h.get(fields, ColDonorID),
		Status:             core.PledgeStatus(h.get(fields, ColPledgeStatus)),
		CreatedAt:          createdAt,
		StartsAt:           startsAt,
		EndedAt:            endedAt,
		ContributionAmount: amount,
		Currency:           h.get(fields, ColCurrency),
		Frequency:          core.Frequency(h.get(fields, ColFrequency)),
		ChapterType:        h.get(fields, ColChapterType),
		DonorChapter:       h.get(fields, ColDonorChapter),
	}
	if err := p.Validate(); err != nil {
		return core.Pledge{}, err
	}
	return p, nil
}

// ParseDay parses a date cell in any of the accepted layouts, truncated to
// midnight UTC.
func ParseDay(s string) (time.Time, error) {
	return parseDate(s)
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return parseDate(s)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

func parseOptionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return parseDecimal(s)
}
