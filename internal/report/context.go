// Package report renders a computed metric set into a structured plain-text
// block. The text is the only interface handed to downstream consumers; the
// builder knows nothing about how it will be used.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"donorboard/internal/core"
	"donorboard/internal/metrics"
)

// BuildContext computes the full KPI set for the scope and renders it as
// labeled key/value lines. Currency values carry two decimals and thousands
// separators, percentages one decimal.
func BuildContext(payments []core.Payment, pledges []core.Pledge, s metrics.Scope) string {
	r := metrics.Compute(payments, pledges, s)
	years := metrics.AvailableFiscalYears(payments)

	var b strings.Builder
	fmt.Fprintf(&b, "Dashboard Context for %s:\n\n", s.Label())

	b.WriteString("Key Metrics:\n")
	fmt.Fprintf(&b, "- Total Money Moved: $%s\n", FormatUSD(r.MoneyMoved))
	fmt.Fprintf(&b, "- Counterfactual Money Moved: $%s\n", FormatUSD(r.CounterfactualMoneyMoved))
	fmt.Fprintf(&b, "- Active ARR: $%s\n", FormatUSD(r.AnnualizedRunRate))
	fmt.Fprintf(&b, "- Attrition Rate: %s%%\n", FormatPercent(r.AttritionRate))
	fmt.Fprintf(&b, "- Active Donors: %d\n", r.ActiveDonors)
	fmt.Fprintf(&b, "- Active Pledges: %d\n", r.ActivePledges)

	b.WriteString("\nMoney Moved Analysis:\n")
	fmt.Fprintf(&b, "- Total Money Moved: $%s\n", FormatUSD(r.MoneyMoved))
	fmt.Fprintf(&b, "- Monthly Average: $%s\n", FormatUSD(r.MonthlyAverage))
	fmt.Fprintf(&b, "- Platform Distribution: %s\n", formatGroups(r.PlatformDistribution))
	fmt.Fprintf(&b, "- Payment Types: %s\n", formatGroups(r.FrequencySplit))

	b.WriteString("\nPledge Performance:\n")
	fmt.Fprintf(&b, "- Total Pledges: %d\n", r.PledgeCounts.Total)
	fmt.Fprintf(&b, "- Active Pledges: %d\n", r.PledgeCounts.Active)
	fmt.Fprintf(&b, "- Future Pledges: %d\n", r.PledgeCounts.Future)
	fmt.Fprintf(&b, "- Active ARR: $%s\n", FormatUSD(r.RunRates.Active))
	fmt.Fprintf(&b, "- Future ARR: $%s\n", FormatUSD(r.RunRates.Future))
	fmt.Fprintf(&b, "- Chapter Performance: %s\n", formatGroups(r.ChapterPerformance))

	fmt.Fprintf(&b, "\nAvailable Fiscal Years: %s\n", formatYears(years))
	return b.String()
}

// FormatUSD renders a USD value with two decimals and thousands separators.
func FormatUSD(v decimal.Decimal) string {
	s := v.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)
	out := strings.Join(groups, ",") + frac
	if neg {
		return "-" + out
	}
	return out
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(v decimal.Decimal) string {
	return v.StringFixed(1)
}

func formatGroups(groups []metrics.LabelValue) string {
	if len(groups) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		label := g.Label
		if label == "" {
			label = "(unlabeled)"
		}
		parts = append(parts, fmt.Sprintf("%s: $%s", label, FormatUSD(g.Value)))
	}
	return strings.Join(parts, ", ")
}

func formatYears(years []core.FiscalYear) string {
	if len(years) == 0 {
		return "none"
	}
	labels := make([]string, len(years))
	for i, fy := range years {
		labels[i] = fy.Label()
	}
	return strings.Join(labels, ", ")
}
