package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYMENT ALLOCATOR - Interest first, then principal
// =============================================================================

// Allocate applies payment to totalInterest first and then to principal.
// There is no costs bucket. Anything beyond interest + principal is
// reported as overpayment.
//
// A negative total (a base rate below minus the surcharge) is owed as zero
// interest; it never absorbs part of the payment.
//
// Example: principal 1000, interest 50, payment 1200
//   -> interest 50, principal 1000, remaining 0, overpayment 150
func Allocate(totalInterest, principal, payment decimal.Decimal) (PaymentAllocation, error) {
	if payment.IsNegative() {
		return PaymentAllocation{}, &InputError{Field: "payment", Value: payment.String(), Reason: "must not be negative"}
	}
	if principal.IsNegative() {
		return PaymentAllocation{}, &InputError{Field: "principal", Value: principal.String(), Reason: "must not be negative"}
	}
	owed := maxDecimal(decimal.Zero, totalInterest)

	interestPaid := minDecimal(payment, owed)
	rest := payment.Sub(interestPaid)
	principalPaid := minDecimal(rest, principal)

	return PaymentAllocation{
		Payment:            payment,
		InterestPaid:       interestPaid,
		PrincipalPaid:      principalPaid,
		RemainingInterest:  owed.Sub(interestPaid),
		RemainingPrincipal: principal.Sub(principalPaid),
		Overpayment:        maxDecimal(decimal.Zero, payment.Sub(owed.Add(principal))),
	}, nil
}
