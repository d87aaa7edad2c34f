package metrics

import (
	"github.com/shopspring/decimal"

	"donorboard/internal/core"
)

// Results bundles one full KPI computation for a single scope.
type Results struct {
	Scope Scope

	MoneyMoved               decimal.Decimal
	CounterfactualMoneyMoved decimal.Decimal
	MonthlyAverage           decimal.Decimal // MoneyMoved / 12 when scoped to a year
	AnnualizedRunRate        decimal.Decimal
	AttritionRate            decimal.Decimal
	ActiveDonors             int
	ActivePledges            int

	PledgeCounts PledgeCounts
	RunRates     PledgeARR

	ChapterARR           []LabelValue
	PlatformDistribution []LabelValue
	FrequencySplit       []LabelValue
	ChapterPerformance   []LabelValue
}

// Compute runs the whole metric set over the given tables.
func Compute(payments []core.Payment, pledges []core.Pledge, s Scope) Results {
	r := Results{
		Scope:                    s,
		MoneyMoved:               MoneyMoved(payments, s),
		CounterfactualMoneyMoved: CounterfactualMoneyMoved(payments, s),
		AnnualizedRunRate:        AnnualizedRunRate(pledges, s),
		AttritionRate:            AttritionRate(pledges, s),
		ActiveDonors:             ActiveDonorCount(pledges, s),
		ActivePledges:            ActivePledgeCount(pledges, s),
		PledgeCounts:             CountPledges(pledges, s),
		RunRates:                 RunRateSplit(pledges, s),
		ChapterARR:               ChapterARR(pledges, s),
		PlatformDistribution:     PlatformDistribution(payments, s),
		FrequencySplit:           FrequencySplit(pledges, s),
		ChapterPerformance:       ChapterPerformance(pledges, s),
	}
	if s.IsScoped() {
		r.MonthlyAverage = r.MoneyMoved.Div(decimal.NewFromInt(12))
	}
	return r
}
