// Package metrics computes the fundraising KPI set over normalized payment
// and pledge tables. Every function is a pure reduction: it reads the input
// slices, allocates its own result, and is safe to call concurrently on a
// shared snapshot. Aggregations over an empty scope return zero values or
// empty groupings, never an error.
package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"donorboard/internal/core"
)

// ExcludedPortfolios are internal funds that never count toward
// counterfactual money moved. The exclusion is by exact portfolio name.
var ExcludedPortfolios = []string{
	"One for the World Discretionary Fund",
	"One for the World Operating Costs",
}

// LabelValue is one row of a grouped USD aggregation.
type LabelValue struct {
	Label string
	Value decimal.Decimal
}

// PledgeCounts breaks pledges down by commitment state.
type PledgeCounts struct {
	Total  int // Active donor + Pledged donor
	Active int
	Future int // Pledged donor
}

// PledgeARR is the annualized run rate split by commitment state.
type PledgeARR struct {
	Active decimal.Decimal
	Future decimal.Decimal
	Total  decimal.Decimal
}

// MoneyMoved sums AmountUSD over payments in scope. Rows that failed
// normalization carry no USD value and are skipped.
func MoneyMoved(payments []core.Payment, s Scope) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if !s.containsPayment(p) || !p.AmountUSD.Valid {
			continue
		}
		total = total.Add(p.AmountUSD.Decimal)
	}
	return total
}

// CounterfactualMoneyMoved sums AmountUSD weighted by each payment's
// counterfactuality score, excluding the internal-fund portfolios.
func CounterfactualMoneyMoved(payments []core.Payment, s Scope) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if !s.containsPayment(p) || !p.AmountUSD.Valid {
			continue
		}
		if excludedPortfolio(p.Portfolio) {
			continue
		}
		total = total.Add(p.AmountUSD.Decimal.Mul(p.Counterfactuality))
	}
	return total
}

// AnnualizedRunRate projects the yearly value of active pledges in scope.
// Each contribution amount is multiplied by its frequency's annualization
// factor (monthly 12, quarterly 4, annually and one-time 1).
func AnnualizedRunRate(pledges []core.Pledge, s Scope) decimal.Decimal {
	return arrByStatus(pledges, s, core.StatusActive)
}

// RunRateSplit computes ARR for active and future (pledged) donors.
func RunRateSplit(pledges []core.Pledge, s Scope) PledgeARR {
	active := arrByStatus(pledges, s, core.StatusActive)
	future := arrByStatus(pledges, s, core.StatusPledged)
	return PledgeARR{Active: active, Future: future, Total: active.Add(future)}
}

func arrByStatus(pledges []core.Pledge, s Scope, status core.PledgeStatus) decimal.Decimal {
	total := decimal.Zero
	for _, p := range pledges {
		if !s.containsPledge(p) || p.Status != status || !p.AmountUSD.Valid {
			continue
		}
		total = total.Add(p.AmountUSD.Decimal.Mul(p.Frequency.AnnualizationFactor()))
	}
	return total
}

// AttritionRate is the percentage of pledges in scope whose status is
// Payment failure or Churned donor, over all pledges in scope. An empty
// scope yields zero.
func AttritionRate(pledges []core.Pledge, s Scope) decimal.Decimal {
	var cancelled, total int
	for _, p := range pledges {
		if !s.containsPledge(p) {
			continue
		}
		total++
		if p.Status.Cancelled() {
			cancelled++
		}
	}
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(cancelled)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(decimal.NewFromInt(100))
}

// ActiveDonorCount counts distinct donors with an active or one-time pledge.
func ActiveDonorCount(pledges []core.Pledge, s Scope) int {
	seen := make(map[string]struct{})
	for _, p := range pledges {
		if !s.containsPledge(p) {
			continue
		}
		if p.Status != core.StatusActive && p.Status != core.StatusOneTime {
			continue
		}
		seen[p.DonorID] = struct{}{}
	}
	return len(seen)
}

// ActivePledgeCount counts distinct currently-paying pledges.
func ActivePledgeCount(pledges []core.Pledge, s Scope) int {
	seen := make(map[string]struct{})
	for _, p := range pledges {
		if !s.containsPledge(p) || p.Status != core.StatusActive {
			continue
		}
		seen[p.PledgeID] = struct{}{}
	}
	return len(seen)
}

// CountPledges tallies pledges by commitment state.
func CountPledges(pledges []core.Pledge, s Scope) PledgeCounts {
	var c PledgeCounts
	for _, p := range pledges {
		if !s.containsPledge(p) {
			continue
		}
		switch p.Status {
		case core.StatusActive:
			c.Active++
			c.Total++
		case core.StatusPledged:
			c.Future++
			c.Total++
		}
	}
	return c
}

// ChapterARR groups active pledges by chapter type and sums the annualized
// value per group, alphabetically ordered. An empty input produces an empty
// grouping, never nil.
func ChapterARR(pledges []core.Pledge, s Scope) []LabelValue {
	sums := make(map[string]decimal.Decimal)
	for _, p := range pledges {
		if !s.containsPledge(p) || p.Status != core.StatusActive || !p.AmountUSD.Valid {
			continue
		}
		annual := p.AmountUSD.Decimal.Mul(p.Frequency.AnnualizationFactor())
		sums[p.ChapterType] = sums[p.ChapterType].Add(annual)
	}
	return sortedGroups(sums)
}

// PlatformDistribution sums payment USD amounts by payment platform.
func PlatformDistribution(payments []core.Payment, s Scope) []LabelValue {
	sums := make(map[string]decimal.Decimal)
	for _, p := range payments {
		if !s.containsPayment(p) || !p.AmountUSD.Valid {
			continue
		}
		sums[p.Platform] = sums[p.Platform].Add(p.AmountUSD.Decimal)
	}
	return sortedGroups(sums)
}

// FrequencySplit sums pledge USD amounts by contribution frequency,
// contrasting recurring commitments with one-time gifts.
func FrequencySplit(pledges []core.Pledge, s Scope) []LabelValue {
	sums := make(map[string]decimal.Decimal)
	for _, p := range pledges {
		if !s.containsPledge(p) || !p.AmountUSD.Valid {
			continue
		}
		sums[string(p.Frequency)] = sums[string(p.Frequency)].Add(p.AmountUSD.Decimal)
	}
	return sortedGroups(sums)
}

// ChapterPerformance sums pledge USD amounts by chapter type.
func ChapterPerformance(pledges []core.Pledge, s Scope) []LabelValue {
	sums := make(map[string]decimal.Decimal)
	for _, p := range pledges {
		if !s.containsPledge(p) || !p.AmountUSD.Valid {
			continue
		}
		sums[p.ChapterType] = sums[p.ChapterType].Add(p.AmountUSD.Decimal)
	}
	return sortedGroups(sums)
}

// AvailableFiscalYears lists the distinct fiscal years present in the
// payments table, oldest first.
func AvailableFiscalYears(payments []core.Payment) []core.FiscalYear {
	seen := make(map[core.FiscalYear]struct{})
	for _, p := range payments {
		seen[core.FiscalYearOf(p.Date)] = struct{}{}
	}
	years := make([]core.FiscalYear, 0, len(seen))
	for fy := range seen {
		years = append(years, fy)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].StartYear < years[j].StartYear })
	return years
}

func excludedPortfolio(portfolio string) bool {
	for _, name := range ExcludedPortfolios {
		if portfolio == name {
			return true
		}
	}
	return false
}

func sortedGroups(sums map[string]decimal.Decimal) []LabelValue {
	out := make([]LabelValue, 0, len(sums))
	for label, value := range sums {
		out = append(out, LabelValue{Label: label, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
