package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// INTEREST ACCRUAL ENGINE - Simple interest, actual/actual, per day
// =============================================================================

// AccrualEngine accrues default interest over segmented periods.
// Surcharge is added in percentage points to the base rate of each period.
type AccrualEngine struct {
	Schedule  RateSchedule
	Surcharge decimal.Decimal
}

func NewAccrualEngine(schedule RateSchedule, surcharge decimal.Decimal) *AccrualEngine {
	return &AccrualEngine{Schedule: schedule, Surcharge: surcharge}
}

// Accrue computes interest for each period and the unrounded total.
//
// Every day contributes principal * rate/100 / DaysInYear(day's year), so a
// period crossing Dec 31 into a leap year uses both denominators. Nothing is
// rounded here; use the Rounded/Audit accessors for display.
//
// A lookup error fails the whole computation.
func (e *AccrualEngine) Accrue(principal decimal.Decimal, periods []Period) (AccrualResult, error) {
	result := AccrualResult{
		Periods:       make([]AccruedPeriod, 0, len(periods)),
		TotalInterest: decimal.Zero,
	}

	for _, p := range periods {
		base, err := e.Schedule.RateAt(p.Start)
		if err != nil {
			return AccrualResult{}, err
		}
		rate := base.Add(e.Surcharge)

		interest := accrueDaily(principal, rate, p)
		days := p.DayCount()

		result.Periods = append(result.Periods, AccruedPeriod{
			Period:   p,
			DayCount: days,
			BaseRate: base,
			Rate:     rate,
			Interest: interest,
		})
		result.TotalInterest = result.TotalInterest.Add(interest)
		result.TotalDays += days
	}
	return result, nil
}

// accrueDaily sums one increment per calendar day of p.
func accrueDaily(principal, ratePercent decimal.Decimal, p Period) decimal.Decimal {
	annual := principal.Mul(ratePercent).Div(hundred)
	increments := make(map[int]decimal.Decimal, 2)

	sum := decimal.Zero
	for day := p.Start; day.BeforeOrEqual(p.End); day = day.AddDays(1) {
		inc, ok := increments[day.Year()]
		if !ok {
			inc = annual.Div(decimal.NewFromInt(int64(DaysInYear(day.Year()))))
			increments[day.Year()] = inc
		}
		sum = sum.Add(inc)
	}
	return sum
}
