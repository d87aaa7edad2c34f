package metrics

import (
	"donorboard/internal/core"
)

// Scope restricts an aggregation to one fiscal year, optionally narrowed to
// a fiscal-month window. The zero value means "all time". Payments are
// scoped by payment date, pledges by their start date; the month window
// applies to pledges only.
type Scope struct {
	fy        core.FiscalYear
	scoped    bool
	monthFrom int // fiscal month 1..12, 0 when unset
	monthTo   int
}

// All is the unrestricted scope.
func All() Scope { return Scope{} }

// ForFiscalYear scopes to one July-June reporting year.
func ForFiscalYear(fy core.FiscalYear) Scope {
	return Scope{fy: fy, scoped: true}
}

// ForLabel parses a fiscal-year label into a scope. A malformed label is an
// error; there is no fallback to the current year.
func ForLabel(label string) (Scope, error) {
	fy, err := core.ParseFiscalYear(label)
	if err != nil {
		return Scope{}, err
	}
	return ForFiscalYear(fy), nil
}

// WithFiscalMonths narrows pledge aggregations to fiscal months [from, to]
// (July=1 ... June=12). Only meaningful on a fiscal-year scope.
func (s Scope) WithFiscalMonths(from, to int) Scope {
	s.monthFrom, s.monthTo = from, to
	return s
}

// IsScoped reports whether a fiscal year restriction is in effect.
func (s Scope) IsScoped() bool { return s.scoped }

// FiscalYear returns the scoped year; only valid when IsScoped.
func (s Scope) FiscalYear() core.FiscalYear { return s.fy }

// Label names the scope for display.
func (s Scope) Label() string {
	if !s.scoped {
		return "All Time"
	}
	return s.fy.Label()
}

func (s Scope) containsPayment(p core.Payment) bool {
	if !s.scoped {
		return true
	}
	return s.fy.Contains(p.Date)
}

func (s Scope) containsPledge(p core.Pledge) bool {
	if s.scoped && !s.fy.Contains(p.StartsAt) {
		return false
	}
	if s.monthFrom > 0 && s.monthTo > 0 {
		fm := core.FiscalMonthOf(p.StartsAt)
		if fm < s.monthFrom || fm > s.monthTo {
			return false
		}
	}
	return true
}

// FilterPayments returns the payments inside the scope.
func FilterPayments(payments []core.Payment, s Scope) []core.Payment {
	if !s.scoped {
		return payments
	}
	out := make([]core.Payment, 0, len(payments))
	for _, p := range payments {
		if s.containsPayment(p) {
			out = append(out, p)
		}
	}
	return out
}

// FilterPledges returns the pledges inside the scope.
func FilterPledges(pledges []core.Pledge, s Scope) []core.Pledge {
	if !s.scoped && s.monthFrom == 0 {
		return pledges
	}
	out := make([]core.Pledge, 0, len(pledges))
	for _, p := range pledges {
		if s.containsPledge(p) {
			out = append(out, p)
		}
	}
	return out
}
