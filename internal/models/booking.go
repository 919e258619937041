package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// BookingStatus is the closed set of lifecycle states a booking moves
// through. Persisted rows may still carry the legacy unscoped "PENDING"
// value; the db layer normalizes it before a booking reaches business code.
type BookingStatus string

const (
	StatusPendingPayment      BookingStatus = "PENDING_PAYMENT"
	StatusConfirmed           BookingStatus = "CONFIRMED"
	StatusPendingNegotiation  BookingStatus = "PENDING_NEGOTIATION"
	StatusNegotiationRejected BookingStatus = "NEGOTIATION_REJECTED"
	StatusCancelledByTenant   BookingStatus = "CANCELLED_BY_TENANT"
	StatusCancelledByHost     BookingStatus = "CANCELLED_BY_HOST"
	StatusTenantCheckedOut    BookingStatus = "TENANT_CHECKED_OUT"
	StatusCompleted           BookingStatus = "COMPLETED"
	StatusInDispute           BookingStatus = "IN_DISPUTE"

	// LegacyStatusPending predates the split into PENDING_PAYMENT and
	// PENDING_NEGOTIATION. Never written anymore, only read.
	LegacyStatusPending BookingStatus = "PENDING"
)

// Valid reports whether s is one of the current lifecycle states.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPendingPayment, StatusConfirmed, StatusPendingNegotiation,
		StatusNegotiationRejected, StatusCancelledByTenant, StatusCancelledByHost,
		StatusTenantCheckedOut, StatusCompleted, StatusInDispute:
		return true
	}
	return false
}

// Cancelled reports whether s is any of the CANCELLED_* states.
func (s BookingStatus) Cancelled() bool {
	return strings.HasPrefix(string(s), "CANCELLED")
}

// NormalizeStatus maps the legacy "PENDING" value onto the scoped states:
// a pending row with a recorded negotiation percent was a negotiation in
// flight, anything else was waiting for payment.
func NormalizeStatus(s BookingStatus, negotiationPercent *int) BookingStatus {
	if s != LegacyStatusPending {
		return s
	}
	if negotiationPercent != nil && *negotiationPercent > 0 {
		return StatusPendingNegotiation
	}
	return StatusPendingPayment
}

// Booking is the central entity: one tenant's stay on one property.
type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:booking"`

	ID                          int64           `bun:"id,pk,autoincrement" json:"id"`
	TenantID                    int64           `bun:"tenant_id,notnull" json:"userId"`
	PropertyID                  string          `bun:"property_id,notnull" json:"propertyId"`
	CheckInDate                 time.Time       `bun:"check_in_date,notnull" json:"checkInDate"`
	CheckOutDate                time.Time       `bun:"check_out_date,notnull" json:"checkOutDate"`
	TotalPrice                  decimal.Decimal `bun:"total_price,notnull" json:"totalPrice"`
	Status                      BookingStatus   `bun:"status,notnull" json:"status"`
	LongStayDiscountPercent     int             `bun:"long_stay_discount_percent" json:"longStayDiscountPercent"`
	RequestedNegotiationPercent *int            `bun:"requested_negotiation_percent" json:"requestedNegotiationPercent,omitempty"`
	NegotiationExpiresAt        *time.Time      `bun:"negotiation_expires_at" json:"negotiationExpiresAt,omitempty"`
	SettlementTxHash            string          `bun:"settlement_tx_hash,nullzero" json:"settlementTxHash,omitempty"`
	CreatedAt                   time.Time       `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt                   time.Time       `bun:"updated_at,notnull" json:"updatedAt"`
}

// Nights is the stay length in whole nights.
func (b *Booking) Nights() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}

// BookingRequest is the creation command, accepted over HTTP and over the
// booking-requests topic.
type BookingRequest struct {
	TenantID       int64            `json:"userId"`
	PropertyID     string           `json:"propertyId"`
	CheckInDate    string           `json:"checkInDate"`
	CheckOutDate   string           `json:"checkOutDate"`
	RequestedPrice *decimal.Decimal `json:"requestedPrice,omitempty"`
	NumberOfGuests int              `json:"numberOfGuests,omitempty"`
}

// UpdateBookingRequest re-prices a booking; nil fields keep current values.
type UpdateBookingRequest struct {
	CheckInDate    *string          `json:"checkInDate,omitempty"`
	CheckOutDate   *string          `json:"checkOutDate,omitempty"`
	RequestedPrice *decimal.Decimal `json:"requestedPrice,omitempty"`
}

// BookingCreatedEvent is published on every successful creation. Delivery is
// at-least-once; consumers deduplicate by BookingID.
type BookingCreatedEvent struct {
	BookingID       int64           `json:"bookingId"`
	TenantID        int64           `json:"tenantId"`
	PropertyID      string          `json:"propertyId"`
	FinalRentAmount decimal.Decimal `json:"finalRentAmount"`
	Status          BookingStatus   `json:"status"`
}

// BookingStats aggregates a tenant's booking history.
type BookingStats struct {
	Total       int             `json:"total"`
	Completed   int             `json:"completed"`
	Cancelled   int             `json:"cancelled"`
	AvgPrice    decimal.Decimal `json:"avgPrice"`
	AvgStayDays float64         `json:"avgStayDays"`
	Recent      int             `json:"recent"`
}

// AdminBooking is a booking enriched with display metadata for the admin
// view. Enrichment is best-effort: failures fall back to placeholders.
type AdminBooking struct {
	Booking
	OwnerID         int64  `json:"ownerId,omitempty"`
	PropertyTitle   string `json:"propertyTitle"`
	PropertyAddress string `json:"propertyAddress"`
	TenantName      string `json:"tenantName"`
	TenantEmail     string `json:"tenantEmail"`
	HostName        string `json:"hostName"`
	HostEmail       string `json:"hostEmail"`
	NumberOfNights  int    `json:"numberOfNights"`
}
