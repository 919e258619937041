// Package pricing holds the pure money math for quoting a stay and judging a
// tenant's counter-offer. All amounts are fixed-point with two decimal
// places, rounded half-up, so results are reproducible bit for bit.
package pricing

import (
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)

	// defaultFloor is the 20% negotiation floor used when a property does
	// not set its own negotiation percentage.
	defaultFloor = decimal.NewFromFloat(0.80)
)

// Quote is the priced stay before any negotiation.
type Quote struct {
	BaseRent        decimal.Decimal
	DiscountPercent int
	FinalRent       decimal.Decimal
}

// LongStayDiscount returns the automatic discount tier for a stay length.
func LongStayDiscount(nights int, discountEnabled bool) int {
	if !discountEnabled {
		return 0
	}
	switch {
	case nights > 30:
		return 20
	case nights > 15:
		return 15
	case nights > 5:
		return 10
	default:
		return 0
	}
}

// ComputeQuote prices a stay: base rent is nightly price times nights, final
// rent subtracts the long-stay discount. Both are rounded to cents half-up.
func ComputeQuote(nights int, pricePerNight decimal.Decimal, discountEnabled bool) Quote {
	baseRent := pricePerNight.Mul(decimal.NewFromInt(int64(nights))).Round(2)
	discountPercent := LongStayDiscount(nights, discountEnabled)
	discountAmount := baseRent.Mul(decimal.NewFromInt(int64(discountPercent))).DivRound(hundred, 2)
	return Quote{
		BaseRent:        baseRent,
		DiscountPercent: discountPercent,
		FinalRent:       baseRent.Sub(discountAmount),
	}
}

// Evaluation is the outcome of judging a counter-offer against a quote.
type Evaluation struct {
	Accepted           bool
	NegotiationPercent int
	MinPrice           decimal.Decimal
}

// MinAcceptablePrice is the lowest counter-offer a property will entertain:
// the property's own negotiation bound when set, otherwise the default 20%
// floor below final rent.
func MinAcceptablePrice(finalRent decimal.Decimal, negotiationPercentage *float64) decimal.Decimal {
	if negotiationPercentage != nil && *negotiationPercentage > 0 {
		frac := decimal.NewFromFloat(*negotiationPercentage).DivRound(hundred, 4)
		return finalRent.Mul(one.Sub(frac)).Round(2)
	}
	return finalRent.Mul(defaultFloor).Round(2)
}

// EvaluateNegotiation decides whether requested is acceptable. Both bounds
// are inclusive. When accepted, NegotiationPercent is the discount the offer
// represents against base rent, rounded to a whole percent.
func EvaluateNegotiation(requested, baseRent, finalRent decimal.Decimal, negotiationPercentage *float64) Evaluation {
	ev := Evaluation{MinPrice: MinAcceptablePrice(finalRent, negotiationPercentage)}
	if requested.LessThan(ev.MinPrice) || requested.GreaterThan(finalRent) {
		return ev
	}
	ev.Accepted = true
	ev.NegotiationPercent = int(baseRent.Sub(requested).
		DivRound(baseRent, 4).
		Mul(hundred).
		Round(0).
		IntPart())
	return ev
}

// RejectionMessage is the canned reason returned to tenants whose offer is
// out of bounds.
const RejectionMessage = "Price is not acceptable. Please increase it."

// ValidateRequestedPrice reports a human-readable rejection reason for an
// out-of-bounds counter-offer, or "" if the offer is acceptable. It applies
// the same bound as EvaluateNegotiation and is meant to short-circuit a
// creation request before it is queued.
func ValidateRequestedPrice(requested, finalRent decimal.Decimal, negotiationPercentage *float64) string {
	min := MinAcceptablePrice(finalRent, negotiationPercentage)
	if requested.LessThan(min) {
		return RejectionMessage
	}
	if negotiationPercentage != nil && *negotiationPercentage > 0 && requested.GreaterThan(finalRent) {
		return RejectionMessage
	}
	return ""
}
