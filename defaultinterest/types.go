/*
Package defaultinterest applies the generic engine to German statutory
default interest (Verzugszinsen, §§ 288, 247 BGB).

PURPOSE:
  Holds everything that is German law rather than arithmetic: the published
  base-rate table, the surcharge per claim type and the single Compute
  entry point that the HTTP layer and exports call.

CLAIM TYPES:
  consumer:   base rate + 5 points (§ 288 Abs. 1 BGB)
  commercial: base rate + 9 points (§ 288 Abs. 2 BGB, no consumer involved)

USAGE:
  result, err := defaultinterest.Compute(defaultinterest.Request{
      Principal: decimal.NewFromInt(1000),
      StartDate: generic.NewTimePoint(2023, time.January, 1),
      Payment:   decimal.NewFromInt(30),
  }, defaultinterest.GermanSchedule())

SEE ALSO:
  - generic/accrual.go: per-day accrual
  - generic/allocation.go: § 367 waterfall (no costs bucket)
  - export/: CSV and PDF output of a Result
*/
package defaultinterest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/interest-engine/generic"
)

// =============================================================================
// CLAIM TYPE - Selects the statutory surcharge
// =============================================================================

type ClaimType string

const (
	ClaimConsumer   ClaimType = "consumer"
	ClaimCommercial ClaimType = "commercial"
)

var surcharges = map[ClaimType]decimal.Decimal{
	ClaimConsumer:   generic.DefaultSurcharge,
	ClaimCommercial: decimal.NewFromInt(9),
}

// ParseClaimType accepts "consumer" or "commercial" (case-insensitive).
// An empty string yields fallback.
func ParseClaimType(s string, fallback ClaimType) (ClaimType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return fallback, nil
	}
	ct := ClaimType(s)
	if _, ok := surcharges[ct]; !ok {
		return "", &generic.InputError{Field: "claim_type", Value: s, Reason: "must be consumer or commercial"}
	}
	return ct, nil
}

// SurchargeFor returns the surcharge in percentage points.
func SurchargeFor(ct ClaimType) (decimal.Decimal, error) {
	s, ok := surcharges[ct]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown claim type %q", generic.ErrInvalidInput, ct)
	}
	return s, nil
}

// =============================================================================
// REQUEST / RESULT
// =============================================================================

// Request is one computation. Payment defaults to zero, ClaimType to
// consumer and AsOf to today.
type Request struct {
	Principal decimal.Decimal
	StartDate generic.TimePoint
	Payment   decimal.Decimal
	ClaimType ClaimType
	AsOf      generic.TimePoint
}

// Result is everything the presentation layer needs.
type Result struct {
	Claim      generic.ClaimInput
	ClaimType  ClaimType
	Surcharge  decimal.Decimal
	AsOf       generic.TimePoint
	Accrual    generic.AccrualResult
	Allocation generic.PaymentAllocation
}

// TotalClaim is principal plus rounded interest.
func (r Result) TotalClaim() decimal.Decimal {
	return r.Claim.Principal.Add(r.Accrual.TotalInterestRounded())
}

// HasPayment reports whether a payment was applied.
func (r Result) HasPayment() bool {
	return r.Allocation.Payment.IsPositive()
}

// Case identifies the file a report belongs to.
type Case struct {
	Reference string // Aktenzeichen
	Debtor    string // Schuldner
}
