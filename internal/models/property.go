package models

import (
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Property is the locally cached slice of the property-service record, kept
// fresh from quote fetches so owner checks don't always need a network hop.
type Property struct {
	bun.BaseModel `bun:"table:properties"`

	ID                    string          `bun:"id,pk" json:"id"`
	OwnerID               int64           `bun:"owner_id,notnull" json:"ownerId"`
	PricePerNight         decimal.Decimal `bun:"price_per_night,notnull" json:"pricePerNight"`
	DiscountEnabled       bool            `bun:"discount_enabled" json:"discountEnabled"`
	NegotiationPercentage *float64        `bun:"negotiation_percentage" json:"negotiationPercentage,omitempty"`
}

// PropertyQuoteInfo is what the property-service returns for pricing a stay.
type PropertyQuoteInfo struct {
	ID                    string          `json:"id"`
	OwnerID               int64           `json:"ownerId"`
	PricePerNight         decimal.Decimal `json:"pricePerNight"`
	DiscountEnabled       bool            `json:"discountEnabled"`
	IsNegotiable          bool            `json:"isNegotiable"`
	NegotiationPercentage *float64        `json:"negotiationPercentage,omitempty"`
	MaxNegotiationPercent *float64        `json:"maxNegotiationPercent,omitempty"`
}

// UserProfile is the cosmetic identity slice from the user-service.
type UserProfile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// PlaceholderProfile stands in when the user-service is unreachable; profile
// data is display-only and must never fail the caller.
func PlaceholderProfile() UserProfile {
	return UserProfile{FirstName: "Unknown", LastName: "User", Email: "unknown@example.com"}
}

// FullName joins the profile's name parts for display.
func (p UserProfile) FullName() string {
	return p.FirstName + " " + p.LastName
}
