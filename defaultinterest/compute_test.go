package defaultinterest_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/interest-engine/defaultinterest"
	"github.com/warp/interest-engine/generic"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(s string) generic.TimePoint { return generic.MustParseDate(s) }

// =============================================================================
// BASE RATE TABLE
// =============================================================================

func TestGermanSchedule_KnownRates(t *testing.T) {
	s := defaultinterest.GermanSchedule()

	tests := []struct {
		on   string
		want string
	}{
		{"2002-01-01", "2.57"},
		{"2019-05-20", "-0.88"},
		{"2023-03-01", "1.62"},
		{"2023-07-01", "3.12"},
		{"2024-12-31", "3.37"},
	}
	for _, tt := range tests {
		got, err := s.RateAt(date(tt.on))
		require.NoError(t, err)
		assert.True(t, dec(tt.want).Equal(got), "%s: got %s", tt.on, got)
	}

	_, err := s.RateAt(date("2001-12-31"))
	assert.ErrorIs(t, err, generic.ErrNoBaseRate)
}

func TestGermanSchedule_HalfYearly(t *testing.T) {
	for _, e := range defaultinterest.BaseRates() {
		assert.Equal(t, 1, e.EffectiveDate.Day())
		assert.Contains(t, []int{1, 7}, int(e.EffectiveDate.Month()), "entry %s", e.EffectiveDate)
	}
}

// =============================================================================
// COMPUTE
// =============================================================================

func TestCompute_FullYear2023(t *testing.T) {
	// GIVEN: 1000 EUR overdue since 2023-01-01, consumer claim
	req := defaultinterest.Request{
		Principal: dec("1000"),
		StartDate: date("2023-01-01"),
		AsOf:      date("2023-12-31"),
	}

	// WHEN
	res, err := defaultinterest.Compute(req, defaultinterest.GermanSchedule())

	// THEN
	require.NoError(t, err)
	require.Len(t, res.Accrual.Periods, 2)
	assert.Equal(t, "01.01.2023 - 30.06.2023", res.Accrual.Periods[0].Period.Label())
	assert.Equal(t, "01.07.2023 - 31.12.2023", res.Accrual.Periods[1].Period.Label())
	assert.True(t, dec("6.62").Equal(res.Accrual.Periods[0].Rate))
	assert.True(t, dec("8.12").Equal(res.Accrual.Periods[1].Rate))
	assert.Equal(t, "73.76", res.Accrual.TotalInterestRounded().StringFixed(2))
	assert.Equal(t, "1073.76", res.TotalClaim().StringFixed(2))
	assert.Equal(t, defaultinterest.ClaimConsumer, res.ClaimType)
	assert.False(t, res.HasPayment())
	assert.True(t, dec("1000").Equal(res.Allocation.RemainingPrincipal))
}

func TestCompute_CommercialSurcharge(t *testing.T) {
	req := defaultinterest.Request{
		Principal: dec("1000"),
		StartDate: date("2023-01-01"),
		AsOf:      date("2023-01-31"),
		ClaimType: defaultinterest.ClaimCommercial,
	}

	res, err := defaultinterest.Compute(req, defaultinterest.GermanSchedule())
	require.NoError(t, err)
	require.Len(t, res.Accrual.Periods, 1)
	assert.True(t, dec("10.62").Equal(res.Accrual.Periods[0].Rate))
	assert.True(t, dec("9").Equal(res.Surcharge))
}

func TestCompute_PaymentAppliedInterestFirst(t *testing.T) {
	req := defaultinterest.Request{
		Principal: dec("1000"),
		StartDate: date("2023-01-01"),
		AsOf:      date("2023-12-31"),
		Payment:   dec("100"),
	}

	res, err := defaultinterest.Compute(req, defaultinterest.GermanSchedule())
	require.NoError(t, err)

	assert.True(t, res.HasPayment())
	assert.True(t, res.Accrual.TotalInterest.Equal(res.Allocation.InterestPaid))
	assert.True(t, dec("100").Sub(res.Accrual.TotalInterest).Equal(res.Allocation.PrincipalPaid))
	assert.Equal(t, "973.76", res.Allocation.RemainingPrincipal.StringFixed(2))
}

func TestCompute_StartAfterAsOf_ZeroInterest(t *testing.T) {
	req := defaultinterest.Request{
		Principal: dec("1000"),
		StartDate: date("2024-02-01"),
		AsOf:      date("2024-01-31"),
	}

	res, err := defaultinterest.Compute(req, defaultinterest.GermanSchedule())
	require.NoError(t, err)
	assert.Empty(t, res.Accrual.Periods)
	assert.True(t, res.Accrual.TotalInterest.IsZero())
}

func TestCompute_StartEqualsAsOf_SingleDay(t *testing.T) {
	req := defaultinterest.Request{
		Principal: dec("36600"),
		StartDate: date("2024-03-01"),
		AsOf:      date("2024-03-01"),
	}

	res, err := defaultinterest.Compute(req, defaultinterest.GermanSchedule())
	require.NoError(t, err)
	require.Len(t, res.Accrual.Periods, 1)
	assert.Equal(t, 1, res.Accrual.Periods[0].DayCount)
	// 36600 * 8.62% / 366
	assert.Equal(t, "8.62", res.Accrual.TotalInterestRounded().StringFixed(2))
}

func TestCompute_NegativeRateSchedule(t *testing.T) {
	// GIVEN: a base rate low enough that base + surcharge is negative
	schedule := generic.MustRateSchedule(generic.RateEntry{EffectiveDate: date("2023-01-01"), BaseRate: dec("-6")})

	// WHEN: computing January with a payment
	res, err := defaultinterest.Compute(defaultinterest.Request{
		Principal: dec("1000"),
		StartDate: date("2023-01-01"),
		AsOf:      date("2023-01-31"),
		Payment:   dec("100"),
	}, schedule)

	// THEN: the negative accrual is reported and the payment reduces principal
	require.NoError(t, err)
	require.Len(t, res.Accrual.Periods, 1)
	assert.True(t, dec("-1").Equal(res.Accrual.Periods[0].Rate))
	assert.Equal(t, "-0.85", res.Accrual.TotalInterestRounded().StringFixed(2))
	assert.True(t, res.Allocation.InterestPaid.IsZero())
	assert.True(t, dec("100").Equal(res.Allocation.PrincipalPaid))
	assert.True(t, dec("900").Equal(res.Allocation.RemainingPrincipal))
}

func TestCompute_InputErrors(t *testing.T) {
	schedule := defaultinterest.GermanSchedule()

	tests := []struct {
		name  string
		req   defaultinterest.Request
		field string
	}{
		{"negative principal", defaultinterest.Request{Principal: dec("-1"), StartDate: date("2023-01-01")}, "principal"},
		{"negative payment", defaultinterest.Request{Principal: dec("1"), StartDate: date("2023-01-01"), Payment: dec("-5")}, "payment"},
		{"start before table", defaultinterest.Request{Principal: dec("1"), StartDate: date("2001-06-01")}, "start_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := defaultinterest.Compute(tt.req, schedule)
			var inputErr *generic.InputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, tt.field, inputErr.Field)
		})
	}
}

func TestParseClaimType(t *testing.T) {
	ct, err := defaultinterest.ParseClaimType("", defaultinterest.ClaimCommercial)
	require.NoError(t, err)
	assert.Equal(t, defaultinterest.ClaimCommercial, ct)

	ct, err = defaultinterest.ParseClaimType(" Consumer ", defaultinterest.ClaimCommercial)
	require.NoError(t, err)
	assert.Equal(t, defaultinterest.ClaimConsumer, ct)

	_, err = defaultinterest.ParseClaimType("b2b", defaultinterest.ClaimConsumer)
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}
