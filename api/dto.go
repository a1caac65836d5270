/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the engine
  types from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts and rates are decimal.Decimal and serialize as JSON strings
  ("73.76"), so clients never see binary floating point. Requests accept
  either numbers or strings.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/schedule.go: ScheduleJSON used by /api/rates
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/interest-engine/defaultinterest"
	"github.com/warp/interest-engine/generic"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CalculationRequest is the body of every /api/calculations endpoint.
type CalculationRequest struct {
	Principal *decimal.Decimal `json:"principal"`
	StartDate string           `json:"start_date"`           // YYYY-MM-DD
	Payment   *decimal.Decimal `json:"payment,omitempty"`    // default 0
	ClaimType string           `json:"claim_type,omitempty"` // consumer | commercial
	AsOf      string           `json:"as_of,omitempty"`      // default today

	// Only used by the PDF report.
	CaseReference string `json:"case_reference,omitempty"`
	Debtor        string `json:"debtor,omitempty"`
}

// CalculationDTO is the result of one computation.
type CalculationDTO struct {
	ID                 string          `json:"id"`
	AsOf               string          `json:"as_of"`
	StartDate          string          `json:"start_date"`
	ClaimType          string          `json:"claim_type"`
	Surcharge          decimal.Decimal `json:"surcharge"`
	Principal          decimal.Decimal `json:"principal"`
	Periods            []PeriodDTO     `json:"periods"`
	TotalDays          int             `json:"total_days"`
	TotalInterest      decimal.Decimal `json:"total_interest"`
	TotalInterestAudit decimal.Decimal `json:"total_interest_audit"`
	TotalClaim         decimal.Decimal `json:"total_claim"`
	Allocation         *AllocationDTO  `json:"allocation,omitempty"`
}

// PeriodDTO is one row of the period table.
type PeriodDTO struct {
	Label         string          `json:"label"` // "DD.MM.YYYY - DD.MM.YYYY"
	Start         string          `json:"start"`
	End           string          `json:"end"`
	Days          int             `json:"days"`
	BaseRate      decimal.Decimal `json:"base_rate"`
	Rate          decimal.Decimal `json:"rate"`
	RateDisplay   string          `json:"rate_display"` // "6.62%"
	Interest      decimal.Decimal `json:"interest"`
	InterestAudit decimal.Decimal `json:"interest_audit"`
}

// AllocationDTO shows how a payment was applied.
type AllocationDTO struct {
	Payment            decimal.Decimal `json:"payment"`
	InterestPaid       decimal.Decimal `json:"interest_paid"`
	PrincipalPaid      decimal.Decimal `json:"principal_paid"`
	RemainingInterest  decimal.Decimal `json:"remaining_interest"`
	RemainingPrincipal decimal.Decimal `json:"remaining_principal"`
	Overpayment        decimal.Decimal `json:"overpayment"`
}

// RefreshDTO is one schedule refresh.
type RefreshDTO struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	EntryCount int    `json:"entry_count"`
	Latest     string `json:"latest,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// ScheduleStatusDTO reports whether the table covers the current half-year.
type ScheduleStatusDTO struct {
	Entries      int    `json:"entries"`
	LatestDate   string `json:"latest_date,omitempty"`
	Current      bool   `json:"current"`
	LastChecked  string `json:"last_checked,omitempty"`
	NextExpected string `json:"next_expected"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toCalculationDTO(id string, res defaultinterest.Result) CalculationDTO {
	dto := CalculationDTO{
		ID:                 id,
		AsOf:               res.AsOf.String(),
		StartDate:          res.Claim.StartDate.String(),
		ClaimType:          string(res.ClaimType),
		Surcharge:          res.Surcharge,
		Principal:          res.Claim.Principal,
		Periods:            make([]PeriodDTO, len(res.Accrual.Periods)),
		TotalDays:          res.Accrual.TotalDays,
		TotalInterest:      res.Accrual.TotalInterestRounded(),
		TotalInterestAudit: res.Accrual.TotalInterestAudit(),
		TotalClaim:         res.TotalClaim(),
	}
	for i, p := range res.Accrual.Periods {
		dto.Periods[i] = toPeriodDTO(p)
	}
	if res.HasPayment() {
		a := res.Allocation.Rounded()
		dto.Allocation = &AllocationDTO{
			Payment:            a.Payment,
			InterestPaid:       a.InterestPaid,
			PrincipalPaid:      a.PrincipalPaid,
			RemainingInterest:  a.RemainingInterest,
			RemainingPrincipal: a.RemainingPrincipal,
			Overpayment:        a.Overpayment,
		}
	}
	return dto
}

func toPeriodDTO(p generic.AccruedPeriod) PeriodDTO {
	return PeriodDTO{
		Label:         p.Period.Label(),
		Start:         p.Period.Start.String(),
		End:           p.Period.End.String(),
		Days:          p.DayCount,
		BaseRate:      p.BaseRate,
		Rate:          p.Rate,
		RateDisplay:   p.Rate.StringFixed(2) + "%",
		Interest:      p.RoundedInterest(),
		InterestAudit: p.AuditInterest(),
	}
}

func toRefreshDTOs(refreshes []generic.ScheduleRefresh) []RefreshDTO {
	dtos := make([]RefreshDTO, len(refreshes))
	for i, r := range refreshes {
		dtos[i] = RefreshDTO{
			ID:         r.ID,
			Source:     r.Source,
			EntryCount: r.EntryCount,
			CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		}
		if !r.Latest.IsZero() {
			dtos[i].Latest = r.Latest.String()
		}
	}
	return dtos
}
