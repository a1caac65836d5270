/*
Package generic provides the core default-interest engine.

PURPOSE:
  This package contains the pure computation pipeline behind statutory
  default interest: a published base-rate schedule, a day-count calendar,
  period segmentation along rate changes, per-day interest accrual and the
  interest-before-principal payment waterfall. It knows nothing about HTTP,
  storage formats or a particular country's rate table.

KEY CONCEPTS IN THIS FILE (types.go):
  - ClaimInput: principal and interest start date of one claim
  - AccruedPeriod: one segment with its rate, day count and interest
  - AccrualResult: all segments plus the unrounded total
  - PaymentAllocation: how a payment was applied to interest and principal

DESIGN PRINCIPLES:
  1. Purity: every function returns fresh values, nothing is mutated later
  2. Precision: decimal.Decimal for amounts and rates, never float64
  3. Round late: totals are summed unrounded, rounding only when displayed

USAGE:
  schedule, _ := generic.NewRateSchedule(entries...)
  periods := generic.Segment(start, generic.Today().AddDays(1), schedule)
  engine := generic.NewAccrualEngine(schedule, generic.DefaultSurcharge)
  result, err := engine.Accrue(principal, periods)
  alloc, err := generic.Allocate(result.TotalInterest, principal, payment)

SEE ALSO:
  - schedule.go: RateSchedule and lookups
  - segment.go: PeriodSegmenter
  - accrual.go: InterestAccrualEngine
  - allocation.go: PaymentAllocator
*/
package generic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PRECISION
// =============================================================================

const (
	// CurrencyPlaces is used for amounts shown to a debtor.
	CurrencyPlaces int32 = 2
	// AuditPlaces is used for detailed audit output.
	AuditPlaces int32 = 4
)

var (
	hundred = decimal.NewFromInt(100)

	// DefaultSurcharge is the § 288(1) BGB surcharge in percentage points.
	DefaultSurcharge = decimal.NewFromInt(5)
)

// MustParseDecimal panics on malformed input. Intended for static tables.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("invalid decimal %q: %v", s, err))
	}
	return d
}

func RoundCurrency(d decimal.Decimal) decimal.Decimal { return d.Round(CurrencyPlaces) }
func RoundAudit(d decimal.Decimal) decimal.Decimal    { return d.Round(AuditPlaces) }

func minDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

func maxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// =============================================================================
// CLAIM - Input of one computation
// =============================================================================

// ClaimInput is the principal claim and the first day interest is owed.
type ClaimInput struct {
	Principal decimal.Decimal
	StartDate TimePoint
}

// Validate fails fast on inputs the boundary should already have rejected.
func (c ClaimInput) Validate(schedule RateSchedule) error {
	if c.Principal.IsNegative() {
		return &InputError{Field: "principal", Value: c.Principal.String(), Reason: "must not be negative"}
	}
	if c.StartDate.IsZero() {
		return &InputError{Field: "start_date", Reason: "is required"}
	}
	if earliest, ok := schedule.Earliest(); ok && c.StartDate.Before(earliest) {
		return &InputError{
			Field:  "start_date",
			Value:  c.StartDate.String(),
			Reason: "is before the earliest base rate (" + earliest.String() + ")",
		}
	}
	return nil
}

// =============================================================================
// ACCRUAL RESULT - Output of the accrual engine
// =============================================================================

// AccruedPeriod is one segment of the claim with a single applicable rate.
// Rate already includes the surcharge. Interest is unrounded.
type AccruedPeriod struct {
	Period   Period
	DayCount int
	BaseRate decimal.Decimal
	Rate     decimal.Decimal
	Interest decimal.Decimal
}

func (p AccruedPeriod) RoundedInterest() decimal.Decimal { return RoundCurrency(p.Interest) }
func (p AccruedPeriod) AuditInterest() decimal.Decimal   { return RoundAudit(p.Interest) }

// AccrualResult holds the segments in chronological order and the totals.
type AccrualResult struct {
	Periods       []AccruedPeriod
	TotalInterest decimal.Decimal
	TotalDays     int
}

func (r AccrualResult) TotalInterestRounded() decimal.Decimal { return RoundCurrency(r.TotalInterest) }
func (r AccrualResult) TotalInterestAudit() decimal.Decimal   { return RoundAudit(r.TotalInterest) }

// =============================================================================
// PAYMENT ALLOCATION - Output of the payment waterfall
// =============================================================================

// PaymentAllocation reports how a payment was split.
// InterestPaid + PrincipalPaid + Overpayment always equals the payment.
type PaymentAllocation struct {
	Payment            decimal.Decimal
	InterestPaid       decimal.Decimal
	PrincipalPaid      decimal.Decimal
	RemainingInterest  decimal.Decimal
	RemainingPrincipal decimal.Decimal
	Overpayment        decimal.Decimal
}

// Settled reports whether principal is fully paid.
func (a PaymentAllocation) Settled() bool { return a.RemainingPrincipal.IsZero() }

// Rounded returns the allocation in whole cents. Only InterestPaid and the
// interest owed are rounded; the other fields are derived from rounded
// values so that paid + overpayment still equals the payment and
// paid + remaining still equals the principal.
func (a PaymentAllocation) Rounded() PaymentAllocation {
	payment := RoundCurrency(a.Payment)
	principal := RoundCurrency(a.PrincipalPaid.Add(a.RemainingPrincipal))
	owed := RoundCurrency(a.InterestPaid.Add(a.RemainingInterest))

	interestPaid := minDecimal(RoundCurrency(a.InterestPaid), payment)
	principalPaid := minDecimal(maxDecimal(decimal.Zero, payment.Sub(interestPaid)), principal)

	return PaymentAllocation{
		Payment:            payment,
		InterestPaid:       interestPaid,
		PrincipalPaid:      principalPaid,
		RemainingInterest:  maxDecimal(decimal.Zero, owed.Sub(interestPaid)),
		RemainingPrincipal: principal.Sub(principalPaid),
		Overpayment:        payment.Sub(interestPaid).Sub(principalPaid),
	}
}
