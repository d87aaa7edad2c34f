// Package normalize derives the USD-equivalent amount on payment and pledge
// rows by joining each row's date and currency against the exchange-rate
// table. Rows that cannot be normalized fail individually; the batch always
// completes and the failures are returned alongside the result.
package normalize

import (
	"fmt"

	"github.com/shopspring/decimal"

	"donorboard/internal/core"
	"donorboard/internal/fx"
)

// RowError identifies one row that failed normalization and why.
type RowError struct {
	Index int    // position in the input slice
	ID    string // payment or pledge identifier, may be empty
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (%s): %v", e.Index, e.ID, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Payments returns a copy of the input with AmountUSD set on every row whose
// (currency, date) resolves against the table. Rows with a rate gap or an
// unconfigured currency keep an invalid AmountUSD and are reported in the
// second return value; they are never silently passed through at the raw
// amount. The input is not modified.
func Payments(payments []core.Payment, table *fx.Table) ([]core.Payment, []RowError) {
	out := make([]core.Payment, len(payments))
	var failures []RowError
	for i, p := range payments {
		usd, err := table.ToUSD(p.Amount, p.Currency, p.Date)
		if err != nil {
			p.AmountUSD = decimal.NullDecimal{}
			failures = append(failures, RowError{Index: i, ID: p.ID, Err: err})
		} else {
			p.AmountUSD = decimal.NullDecimal{Decimal: usd, Valid: true}
		}
		out[i] = p
	}
	return out, failures
}

// Pledges normalizes pledge contribution amounts, keyed by the pledge
// creation date, mirroring Payments.
func Pledges(pledges []core.Pledge, table *fx.Table) ([]core.Pledge, []RowError) {
	out := make([]core.Pledge, len(pledges))
	var failures []RowError
	for i, p := range pledges {
		usd, err := table.ToUSD(p.ContributionAmount, p.Currency, p.CreatedAt)
		if err != nil {
			p.AmountUSD = decimal.NullDecimal{}
			failures = append(failures, RowError{Index: i, ID: p.PledgeID, Err: err})
		} else {
			p.AmountUSD = decimal.NullDecimal{Decimal: usd, Valid: true}
		}
		out[i] = p
	}
	return out, failures
}
