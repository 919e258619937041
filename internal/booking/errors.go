package booking

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ms-booking/internal/models"
)

var (
	// ErrBookingNotFound covers a missing booking row.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrPropertyNotFound covers a property id the property-service does
	// not know.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrUpstreamUnavailable means pricing data could not be fetched. The
	// operation fails closed: no booking is ever priced from fabricated
	// values.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// ErrNoNegotiation means accept/reject was called on a booking that has
	// no negotiation request to act on.
	ErrNoNegotiation = errors.New("booking has no negotiation request")

	// ErrConfirmInProgress means another confirmation currently holds the
	// property lock; the caller should retry.
	ErrConfirmInProgress = errors.New("another confirmation is in progress for this property")
)

// InvalidNegotiationError rejects a counter-offer below the computed floor
// on the re-price path.
type InvalidNegotiationError struct {
	MinPrice decimal.Decimal
}

func (e *InvalidNegotiationError) Error() string {
	return fmt.Sprintf("price is not acceptable, please increase it (minimum: %s)", e.MinPrice.StringFixed(2))
}

// InvalidTransitionError rejects an operation the booking's current status
// does not allow. The message names the status so callers can see why.
type InvalidTransitionError struct {
	Op      string
	Current models.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s not allowed in status %s", e.Op, e.Current)
}

// CleanupFailure records one overlap-resolution delete that failed. Failures
// are reported alongside a successful confirmation, never instead of it.
// BookingID is zero when the overlap query itself failed and no single
// booking is implicated.
type CleanupFailure struct {
	BookingID int64
	Err       error
}
