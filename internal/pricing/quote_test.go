package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booking/internal/pricing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLongStayDiscount_TierBoundaries(t *testing.T) {
	cases := []struct {
		nights int
		want   int
	}{
		{5, 0},
		{6, 10},
		{15, 10},
		{16, 15},
		{30, 15},
		{31, 20},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, pricing.LongStayDiscount(c.nights, true), "nights=%d", c.nights)
		assert.Equal(t, 0, pricing.LongStayDiscount(c.nights, false), "nights=%d disabled", c.nights)
	}
}

func TestComputeQuote_TenNightStay(t *testing.T) {
	// 100/night, 10 nights, discount enabled: 1000 base, 10% tier, 900 final.
	q := pricing.ComputeQuote(10, dec("100"), true)

	assert.True(t, dec("1000.00").Equal(q.BaseRent), "base rent = %s", q.BaseRent)
	assert.Equal(t, 10, q.DiscountPercent)
	assert.True(t, dec("900.00").Equal(q.FinalRent), "final rent = %s", q.FinalRent)
}

func TestComputeQuote_Deterministic(t *testing.T) {
	a := pricing.ComputeQuote(17, dec("123.45"), true)
	b := pricing.ComputeQuote(17, dec("123.45"), true)

	assert.True(t, a.BaseRent.Equal(b.BaseRent))
	assert.True(t, a.FinalRent.Equal(b.FinalRent))
	assert.True(t, a.FinalRent.LessThanOrEqual(a.BaseRent))
}

func TestComputeQuote_RoundsHalfUp(t *testing.T) {
	// 33.335 * 1 rounds to 33.34, not 33.33.
	q := pricing.ComputeQuote(1, dec("33.335"), false)
	assert.True(t, dec("33.34").Equal(q.BaseRent), "base rent = %s", q.BaseRent)
}

func TestEvaluateNegotiation_AcceptedWithPropertyBound(t *testing.T) {
	// Scenario: 1000 base, 900 final, property allows 20% below final.
	pct := 20.0
	ev := pricing.EvaluateNegotiation(dec("850"), dec("1000"), dec("900"), &pct)

	require.True(t, dec("720.00").Equal(ev.MinPrice), "min price = %s", ev.MinPrice)
	require.True(t, ev.Accepted)
	assert.Equal(t, 15, ev.NegotiationPercent)
}

func TestEvaluateNegotiation_DefaultFloor(t *testing.T) {
	ev := pricing.EvaluateNegotiation(dec("750"), dec("1000"), dec("900"), nil)

	require.True(t, dec("720.00").Equal(ev.MinPrice), "min price = %s", ev.MinPrice)
	assert.True(t, ev.Accepted)
	assert.Equal(t, 25, ev.NegotiationPercent)
}

func TestEvaluateNegotiation_InclusiveBounds(t *testing.T) {
	pct := 20.0

	atMin := pricing.EvaluateNegotiation(dec("720.00"), dec("1000"), dec("900"), &pct)
	assert.True(t, atMin.Accepted, "offer equal to min price must be accepted")

	atFinal := pricing.EvaluateNegotiation(dec("900.00"), dec("1000"), dec("900"), &pct)
	assert.True(t, atFinal.Accepted, "offer equal to final rent must be accepted")
	assert.Equal(t, 10, atFinal.NegotiationPercent)
}

func TestEvaluateNegotiation_OutOfBounds(t *testing.T) {
	pct := 20.0

	tooLow := pricing.EvaluateNegotiation(dec("719.99"), dec("1000"), dec("900"), &pct)
	assert.False(t, tooLow.Accepted)

	tooHigh := pricing.EvaluateNegotiation(dec("900.01"), dec("1000"), dec("900"), &pct)
	assert.False(t, tooHigh.Accepted)
}

func TestValidateRequestedPrice(t *testing.T) {
	pct := 20.0

	assert.Equal(t, "", pricing.ValidateRequestedPrice(dec("850"), dec("900"), &pct))
	assert.Equal(t, pricing.RejectionMessage, pricing.ValidateRequestedPrice(dec("700"), dec("900"), &pct))
	assert.Equal(t, pricing.RejectionMessage, pricing.ValidateRequestedPrice(dec("950"), dec("900"), &pct))

	// Without a property bound only the low side is checked before queueing;
	// an offer above final rent just falls back to the quoted price later.
	assert.Equal(t, "", pricing.ValidateRequestedPrice(dec("950"), dec("900"), nil))
	assert.Equal(t, pricing.RejectionMessage, pricing.ValidateRequestedPrice(dec("700"), dec("900"), nil))
}
