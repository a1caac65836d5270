package defaultinterest

import (
	"github.com/shopspring/decimal"
	"github.com/warp/interest-engine/generic"
)

// Compute runs the whole pipeline: validate, segment [StartDate, AsOf],
// accrue and allocate the payment. It is pure; calling it again with the
// same inputs yields the same Result. Any error aborts with no partial
// result.
func Compute(req Request, schedule generic.RateSchedule) (Result, error) {
	req = withDefaults(req)

	surcharge, err := SurchargeFor(req.ClaimType)
	if err != nil {
		return Result{}, err
	}
	return ComputeWithSurcharge(req, schedule, surcharge)
}

// ComputeWithSurcharge is Compute with an explicit surcharge in points,
// overriding the claim type.
func ComputeWithSurcharge(req Request, schedule generic.RateSchedule, surcharge decimal.Decimal) (Result, error) {
	req = withDefaults(req)

	claim := generic.ClaimInput{Principal: req.Principal, StartDate: req.StartDate}
	if err := claim.Validate(schedule); err != nil {
		return Result{}, err
	}
	if req.Payment.IsNegative() {
		return Result{}, &generic.InputError{Field: "payment", Value: req.Payment.String(), Reason: "must not be negative"}
	}

	// Interest accrues through AsOf inclusive.
	periods := generic.Segment(claim.StartDate, req.AsOf.AddDays(1), schedule)

	engine := generic.NewAccrualEngine(schedule, surcharge)
	accrual, err := engine.Accrue(claim.Principal, periods)
	if err != nil {
		return Result{}, err
	}

	allocation, err := generic.Allocate(accrual.TotalInterest, claim.Principal, req.Payment)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Claim:      claim,
		ClaimType:  req.ClaimType,
		Surcharge:  surcharge,
		AsOf:       req.AsOf,
		Accrual:    accrual,
		Allocation: allocation,
	}, nil
}

func withDefaults(req Request) Request {
	if req.ClaimType == "" {
		req.ClaimType = ClaimConsumer
	}
	if req.AsOf.IsZero() {
		req.AsOf = generic.Today()
	}
	return req
}
