// Package booking is the lifecycle core: it prices creations, judges
// negotiations, enforces legal status transitions, and resolves competing
// bookings once one is confirmed.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ms-booking/internal/auth"
	"ms-booking/internal/booking/db"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/pricing"
	"ms-booking/internal/property"
)

const dateLayout = "2006-01-02"

// negotiationWindow is how long a tenant's accepted counter-offer stays open
// for the owner's decision.
const negotiationWindow = 24 * time.Hour

type DBLayer interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBooking(ctx context.Context, b *models.Booking) error
	DeleteBooking(ctx context.Context, id int64) error
	GetBookingsByTenant(ctx context.Context, tenantID int64) ([]models.Booking, error)
	GetBookingsByProperty(ctx context.Context, propertyID string) ([]models.Booking, error)
	GetBookingsByOwner(ctx context.Context, ownerID int64) ([]models.Booking, error)
	GetOverlappingBookings(ctx context.Context, propertyID string, excludeID int64, checkIn, checkOut time.Time) ([]models.Booking, error)
	GetAllBookings(ctx context.Context) ([]models.Booking, error)
	GetLastBookingID(ctx context.Context) (int64, error)
	UpsertProperty(ctx context.Context, p *models.Property) error
	GetProperty(ctx context.Context, id string) (*models.Property, error)
}

// PropertyLock serializes the confirm+resolve sequence per property.
type PropertyLock interface {
	LockProperty(propertyID, token string) (bool, error)
	UnlockProperty(propertyID, token string) error
}

type Publisher interface {
	PublishBookingCreated(ev models.BookingCreatedEvent) error
}

// QuoteProvider is the property-service contract the core depends on.
type QuoteProvider interface {
	GetQuoteInfo(ctx context.Context, propertyID string) (*models.PropertyQuoteInfo, error)
}

// ProfileProvider is best-effort: it always returns a usable profile.
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID int64) models.UserProfile
}

// DetailProvider supplies display metadata for the admin view.
type DetailProvider interface {
	GetDetails(ctx context.Context, propertyID string) (title, address string)
}

type Service struct {
	DB         DBLayer
	Lock       PropertyLock
	Events     Publisher
	Properties QuoteProvider
	Users      ProfileProvider
	Details    DetailProvider

	// Clock is injectable so negotiation expiry is testable to the second.
	Clock func() time.Time

	logger *logger.Logger
}

func NewService(dbLayer DBLayer, lock PropertyLock, events Publisher, properties QuoteProvider, users ProfileProvider, details DetailProvider) *Service {
	return &Service{
		DB:         dbLayer,
		Lock:       lock,
		Events:     events,
		Properties: properties,
		Users:      users,
		Details:    details,
		Clock:      time.Now,
		logger:     logger.NewLogger(),
	}
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func parseStay(checkIn, checkOut string) (in, out time.Time, nights int, err error) {
	in, err = time.Parse(dateLayout, checkIn)
	if err != nil {
		return in, out, 0, fmt.Errorf("invalid check-in date %q: %w", checkIn, err)
	}
	out, err = time.Parse(dateLayout, checkOut)
	if err != nil {
		return in, out, 0, fmt.Errorf("invalid check-out date %q: %w", checkOut, err)
	}
	nights = int(out.Sub(in).Hours() / 24)
	if nights <= 0 {
		return in, out, 0, errors.New("check-out date must be after check-in date")
	}
	return in, out, nights, nil
}

func (s *Service) fetchQuoteInfo(ctx context.Context, propertyID string) (*models.PropertyQuoteInfo, error) {
	info, err := s.Properties.GetQuoteInfo(ctx, propertyID)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return info, nil
}

// cacheProperty refreshes the local property mirror. Failures only cost a
// later remote owner lookup, so they are logged and swallowed.
func (s *Service) cacheProperty(ctx context.Context, info *models.PropertyQuoteInfo) {
	err := s.DB.UpsertProperty(ctx, &models.Property{
		ID:                    info.ID,
		OwnerID:               info.OwnerID,
		PricePerNight:         info.PricePerNight,
		DiscountEnabled:       info.DiscountEnabled,
		NegotiationPercentage: info.NegotiationPercentage,
	})
	if err != nil {
		s.logger.Warn("BOOKING", fmt.Sprintf("Failed to cache property %s: %v", info.ID, err))
	}
}

// resolveOwner finds a property's owner, preferring the local cache and
// falling back to the property-service on miss.
func (s *Service) resolveOwner(ctx context.Context, propertyID string) (int64, error) {
	if p, err := s.DB.GetProperty(ctx, propertyID); err == nil {
		return p.OwnerID, nil
	}

	info, err := s.fetchQuoteInfo(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	s.cacheProperty(ctx, info)
	return info.OwnerID, nil
}

// ---------------- CREATION ----------------

// Create prices a stay and persists the booking. A counter-offer inside the
// acceptance bounds opens a negotiation; one outside them falls back to the
// quoted price without error, since the request endpoint's pre-check is the
// place that rejects loudly.
func (s *Service) Create(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	s.logger.Info("BOOKING", fmt.Sprintf("Creating booking: tenant=%d property=%s", req.TenantID, req.PropertyID))

	info, err := s.fetchQuoteInfo(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	checkIn, checkOut, nights, err := parseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	quote := pricing.ComputeQuote(nights, info.PricePerNight, info.DiscountEnabled)

	status := models.StatusPendingPayment
	total := quote.FinalRent
	var negotiationPercent *int
	var expiresAt *time.Time

	if req.RequestedPrice != nil {
		ev := pricing.EvaluateNegotiation(*req.RequestedPrice, quote.BaseRent, quote.FinalRent, info.NegotiationPercentage)
		switch {
		case ev.Accepted:
			status = models.StatusPendingNegotiation
			total = *req.RequestedPrice
			pct := ev.NegotiationPercent
			negotiationPercent = &pct
			t := s.now().Add(negotiationWindow)
			expiresAt = &t
			s.logger.Info("BOOKING", fmt.Sprintf("Counter-offer accepted: %d%% off base rent, awaiting owner decision", pct))
		case req.RequestedPrice.LessThan(ev.MinPrice):
			s.logger.Warn("BOOKING", fmt.Sprintf("Requested price below minimum %s, using final rent", ev.MinPrice.StringFixed(2)))
		default:
			s.logger.Info("BOOKING", "Requested price above final rent, using final rent")
		}
	}

	now := s.now()
	b := &models.Booking{
		TenantID:                    req.TenantID,
		PropertyID:                  req.PropertyID,
		CheckInDate:                 checkIn,
		CheckOutDate:                checkOut,
		TotalPrice:                  total,
		Status:                      status,
		LongStayDiscountPercent:     quote.DiscountPercent,
		RequestedNegotiationPercent: negotiationPercent,
		NegotiationExpiresAt:        expiresAt,
		CreatedAt:                   now,
		UpdatedAt:                   now,
	}

	if err := s.DB.CreateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	s.logger.Info("BOOKING", fmt.Sprintf("Booking saved: id=%d status=%s", b.ID, b.Status))

	s.cacheProperty(ctx, info)

	if err := s.Events.PublishBookingCreated(models.BookingCreatedEvent{
		BookingID:       b.ID,
		TenantID:        b.TenantID,
		PropertyID:      b.PropertyID,
		FinalRentAmount: b.TotalPrice,
		Status:          b.Status,
	}); err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Failed to publish booking.created for %d: %v", b.ID, err))
	}

	return b, nil
}

// ValidateRequestedPrice runs the negotiation bound check before a creation
// request is queued, so an obviously unacceptable offer never costs an
// asynchronous round-trip. Returns the human-readable rejection or "".
func (s *Service) ValidateRequestedPrice(ctx context.Context, req models.BookingRequest) (string, error) {
	if req.RequestedPrice == nil {
		return "", nil
	}

	info, err := s.fetchQuoteInfo(ctx, req.PropertyID)
	if err != nil {
		return "", err
	}

	_, _, nights, err := parseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return "", err
	}

	quote := pricing.ComputeQuote(nights, info.PricePerNight, info.DiscountEnabled)
	return pricing.ValidateRequestedPrice(*req.RequestedPrice, quote.FinalRent, info.NegotiationPercentage), nil
}

// ---------------- RE-PRICING ----------------

// Update re-runs the quote and negotiation against possibly-new dates and
// price. Unlike creation, a counter-offer below the floor is a hard
// rejection here. A booking in NEGOTIATION_REJECTED stays rejected when no
// new price is submitted, so omitting the field is not an escape hatch.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, req models.UpdateBookingRequest) (*models.Booking, error) {
	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionUpdate, auth.Resource{TenantID: b.TenantID}); err != nil {
		return nil, err
	}

	if req.CheckInDate != nil {
		t, err := time.Parse(dateLayout, *req.CheckInDate)
		if err != nil {
			return nil, fmt.Errorf("invalid check-in date %q: %w", *req.CheckInDate, err)
		}
		b.CheckInDate = t
	}
	if req.CheckOutDate != nil {
		t, err := time.Parse(dateLayout, *req.CheckOutDate)
		if err != nil {
			return nil, fmt.Errorf("invalid check-out date %q: %w", *req.CheckOutDate, err)
		}
		b.CheckOutDate = t
	}
	nights := b.Nights()
	if nights <= 0 {
		return nil, errors.New("check-out date must be after check-in date")
	}

	info, err := s.fetchQuoteInfo(ctx, b.PropertyID)
	if err != nil {
		return nil, err
	}
	quote := pricing.ComputeQuote(nights, info.PricePerNight, info.DiscountEnabled)

	wasRejected := b.Status == models.StatusNegotiationRejected

	status := models.StatusPendingPayment
	total := quote.FinalRent
	var negotiationPercent *int
	var expiresAt *time.Time

	if req.RequestedPrice != nil {
		ev := pricing.EvaluateNegotiation(*req.RequestedPrice, quote.BaseRent, quote.FinalRent, info.NegotiationPercentage)
		switch {
		case ev.Accepted:
			status = models.StatusPendingNegotiation
			total = *req.RequestedPrice
			pct := ev.NegotiationPercent
			negotiationPercent = &pct
			t := s.now().Add(negotiationWindow)
			expiresAt = &t
		case req.RequestedPrice.LessThan(ev.MinPrice):
			return nil, &InvalidNegotiationError{MinPrice: ev.MinPrice}
		default:
			s.logger.Info("BOOKING", "Requested price above final rent, using final rent")
		}
	} else if wasRejected {
		status = models.StatusNegotiationRejected
	}

	b.TotalPrice = total
	b.Status = status
	b.LongStayDiscountPercent = quote.DiscountPercent
	b.RequestedNegotiationPercent = negotiationPercent
	b.NegotiationExpiresAt = expiresAt

	if err := s.DB.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update booking %d: %w", id, err)
	}
	return b, nil
}

// ---------------- NEGOTIATION DECISIONS ----------------

// AcceptNegotiation locks in the tenant's counter-offer; the booking moves
// on to payment at the negotiated price.
func (s *Service) AcceptNegotiation(ctx context.Context, actor auth.Actor, id int64) (*models.Booking, error) {
	b, ownerID, err := s.getBookingWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionDecideNegotiation, auth.Resource{TenantID: b.TenantID, OwnerID: ownerID}); err != nil {
		return nil, err
	}
	if b.RequestedNegotiationPercent == nil {
		return nil, ErrNoNegotiation
	}

	b.RequestedNegotiationPercent = nil
	b.NegotiationExpiresAt = nil
	b.Status = models.StatusPendingPayment

	if err := s.DB.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to accept negotiation for booking %d: %w", id, err)
	}
	s.logger.Info("BOOKING", fmt.Sprintf("Negotiation accepted: id=%d price=%s", b.ID, b.TotalPrice.StringFixed(2)))
	return b, nil
}

// RejectNegotiation declines the counter-offer. The tenant can re-price via
// Update or cancel.
func (s *Service) RejectNegotiation(ctx context.Context, actor auth.Actor, id int64) (*models.Booking, error) {
	b, ownerID, err := s.getBookingWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionDecideNegotiation, auth.Resource{TenantID: b.TenantID, OwnerID: ownerID}); err != nil {
		return nil, err
	}
	if b.RequestedNegotiationPercent == nil {
		return nil, ErrNoNegotiation
	}

	b.RequestedNegotiationPercent = nil
	b.NegotiationExpiresAt = nil
	b.Status = models.StatusNegotiationRejected

	if err := s.DB.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to reject negotiation for booking %d: %w", id, err)
	}
	s.logger.Info("BOOKING", fmt.Sprintf("Negotiation rejected: id=%d", b.ID))
	return b, nil
}

// ---------------- LIFECYCLE TRANSITIONS ----------------

// CancelByTenant cancels a booking that hasn't been paid for yet.
func (s *Service) CancelByTenant(ctx context.Context, actor auth.Actor, id int64) (*models.Booking, error) {
	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionCancel, auth.Resource{TenantID: b.TenantID}); err != nil {
		return nil, err
	}

	switch b.Status {
	case models.StatusPendingPayment, models.StatusPendingNegotiation, models.StatusNegotiationRejected:
	default:
		return nil, &InvalidTransitionError{Op: "cancel", Current: b.Status}
	}

	b.Status = models.StatusCancelledByTenant
	b.RequestedNegotiationPercent = nil
	b.NegotiationExpiresAt = nil

	if err := s.DB.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to cancel booking %d: %w", id, err)
	}
	s.logger.Info("BOOKING", fmt.Sprintf("Booking cancelled by tenant: id=%d", b.ID))
	return b, nil
}

// TenantCheckout marks the stay over from the tenant's side; the owner
// confirms afterwards.
func (s *Service) TenantCheckout(ctx context.Context, actor auth.Actor, id int64) (*models.Booking, error) {
	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionTenantCheckout, auth.Resource{TenantID: b.TenantID}); err != nil {
		return nil, err
	}

	if b.Status != models.StatusConfirmed && b.Status != models.StatusPendingPayment {
		return nil, &InvalidTransitionError{Op: "tenant checkout", Current: b.Status}
	}

	b.Status = models.StatusTenantCheckedOut
	if err := s.DB.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to check out booking %d: %w", id, err)
	}
	s.logger.Info("BOOKING", fmt.Sprintf("Tenant checked out: id=%d", b.ID))
	return b, nil
}

// OwnerConfirmCheckout completes the booking after the tenant checked out.
func (s *Service) OwnerConfirmCheckout(ctx context.Context, actor auth.Actor, id int64) (*models.Booking, error) {
	b, ownerID, err := s.getBookingWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionOwnerConfirm, auth.Resource{TenantID: b.TenantID, OwnerID: ownerID}); err != nil {
		return nil, err
	}

	if b.Status != models.StatusTenantCheckedOut {
		return nil, &InvalidTransitionError{Op: "owner confirm checkout", Current: b.Status}
	}

	b.Status = models.StatusCompleted
	if err := s.DB.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to complete booking %d: %w", id, err)
	}
	s.logger.Info("BOOKING", fmt.Sprintf("Owner confirmed checkout: id=%d", b.ID))
	return b, nil
}

// ReportDispute moves an active booking into IN_DISPUTE. Either party can
// raise it.
func (s *Service) ReportDispute(ctx context.Context, actor auth.Actor, id int64) (*models.Booking, error) {
	b, ownerID, err := s.getBookingWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionDispute, auth.Resource{TenantID: b.TenantID, OwnerID: ownerID}); err != nil {
		return nil, err
	}

	if b.Status != models.StatusConfirmed && b.Status != models.StatusTenantCheckedOut {
		return nil, &InvalidTransitionError{Op: "report dispute", Current: b.Status}
	}

	b.Status = models.StatusInDispute
	if err := s.DB.UpdateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to report dispute for booking %d: %w", id, err)
	}
	s.logger.Info("BOOKING", fmt.Sprintf("Dispute reported: id=%d", b.ID))
	return b, nil
}

// ---------------- SETTLEMENT / CONFIRMATION ----------------

// UpdateStatus applies an externally driven status change, typically the
// CONFIRMED transition after payment settles. A fresh transition into
// CONFIRMED takes the property lock, persists, and resolves overlapping
// competitors; re-confirming an already confirmed booking triggers nothing.
// Cleanup failures never undo the confirmation; they are returned for the
// caller to surface.
func (s *Service) UpdateStatus(ctx context.Context, actor auth.Actor, id int64, status models.BookingStatus, txHash string) (*models.Booking, []CleanupFailure, error) {
	if !status.Valid() {
		return nil, nil, fmt.Errorf("invalid status %q", status)
	}

	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := auth.Authorize(actor, auth.ActionUpdate, auth.Resource{TenantID: b.TenantID}); err != nil {
		return nil, nil, err
	}

	previous := b.Status
	b.Status = status
	if txHash != "" {
		b.SettlementTxHash = txHash
	}

	confirming := status == models.StatusConfirmed && previous != models.StatusConfirmed
	if !confirming {
		if err := s.DB.UpdateBooking(ctx, b); err != nil {
			return nil, nil, fmt.Errorf("failed to update status of booking %d: %w", id, err)
		}
		return b, nil, nil
	}

	// Serialize confirm+resolve per property so two interleaving
	// confirmations can't both survive with overlapping dates.
	token := uuid.NewString()
	locked, err := s.Lock.LockProperty(b.PropertyID, token)
	if err != nil {
		return nil, nil, fmt.Errorf("property lock error: %w", err)
	}
	if !locked {
		return nil, nil, ErrConfirmInProgress
	}
	defer func() {
		if err := s.Lock.UnlockProperty(b.PropertyID, token); err != nil {
			s.logger.Error("REDIS", fmt.Sprintf("Failed to release confirm lock for property %s: %v", b.PropertyID, err))
		}
	}()

	if err := s.DB.UpdateBooking(ctx, b); err != nil {
		return nil, nil, fmt.Errorf("failed to confirm booking %d: %w", id, err)
	}
	s.logger.Info("BOOKING", fmt.Sprintf("Booking confirmed: id=%d (was %s), resolving overlaps", b.ID, previous))

	failures := s.resolveOverlaps(ctx, b)
	return b, failures, nil
}

// ---------------- QUERIES ----------------

func (s *Service) getBooking(ctx context.Context, id int64) (*models.Booking, error) {
	b, err := s.DB.GetBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrBookingNotFound, id)
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) getBookingWithOwner(ctx context.Context, id int64) (*models.Booking, int64, error) {
	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	ownerID, err := s.resolveOwner(ctx, b.PropertyID)
	if err != nil {
		// The owner check still runs; an unresolvable owner denies
		// owner-gated actions instead of failing the read.
		s.logger.Warn("BOOKING", fmt.Sprintf("Could not resolve owner of property %s: %v", b.PropertyID, err))
		ownerID = 0
	}
	return b, ownerID, nil
}

// GetBooking fetches one booking without authorization: the original exposes
// reads unauthenticated and the gateway fronts them.
func (s *Service) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.getBooking(ctx, id)
}

func (s *Service) LastBookingID(ctx context.Context) (int64, error) {
	id, err := s.DB.GetLastBookingID(ctx)
	if errors.Is(err, db.ErrNotFound) {
		return 0, fmt.Errorf("%w: no bookings", ErrBookingNotFound)
	}
	return id, err
}

func (s *Service) BookingsByTenant(ctx context.Context, tenantID int64) ([]models.Booking, error) {
	return s.DB.GetBookingsByTenant(ctx, tenantID)
}

func (s *Service) BookingsByOwner(ctx context.Context, ownerID int64) ([]models.Booking, error) {
	return s.DB.GetBookingsByOwner(ctx, ownerID)
}

// PendingByTenant lists the tenant's negotiations in flight.
func (s *Service) PendingByTenant(ctx context.Context, tenantID int64) ([]models.Booking, error) {
	return s.filterTenant(ctx, tenantID, func(b *models.Booking) bool {
		return b.Status == models.StatusPendingNegotiation
	})
}

// AwaitingPaymentByTenant lists the tenant's bookings waiting on payment.
func (s *Service) AwaitingPaymentByTenant(ctx context.Context, tenantID int64) ([]models.Booking, error) {
	return s.filterTenant(ctx, tenantID, func(b *models.Booking) bool {
		return b.Status == models.StatusPendingPayment
	})
}

func (s *Service) PendingNegotiationsByOwner(ctx context.Context, ownerID int64) ([]models.Booking, error) {
	return s.filterOwner(ctx, ownerID, func(b *models.Booking) bool {
		return b.Status == models.StatusPendingNegotiation
	})
}

func (s *Service) ConfirmedByOwner(ctx context.Context, ownerID int64) ([]models.Booking, error) {
	return s.filterOwner(ctx, ownerID, func(b *models.Booking) bool {
		return b.Status == models.StatusConfirmed
	})
}

func (s *Service) ConfirmedByProperty(ctx context.Context, propertyID string) ([]models.Booking, error) {
	bs, err := s.DB.GetBookingsByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	out := bs[:0:0]
	for _, b := range bs {
		if b.Status == models.StatusConfirmed {
			out = append(out, b)
		}
	}
	return out, nil
}

// CurrentByTenant returns the stay the tenant is in the middle of today, if
// any.
func (s *Service) CurrentByTenant(ctx context.Context, tenantID int64) (*models.Booking, error) {
	bs, err := s.DB.GetBookingsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	today := s.now().Truncate(24 * time.Hour)
	for i := range bs {
		b := &bs[i]
		if currentStatus(b.Status) && !b.CheckInDate.After(today) && !b.CheckOutDate.Before(today) {
			return b, nil
		}
	}
	return nil, nil
}

// CurrentByOwner lists stays in progress today on the owner's properties.
func (s *Service) CurrentByOwner(ctx context.Context, ownerID int64) ([]models.Booking, error) {
	today := s.now().Truncate(24 * time.Hour)
	return s.filterOwner(ctx, ownerID, func(b *models.Booking) bool {
		return currentStatus(b.Status) && !b.CheckInDate.After(today) && !b.CheckOutDate.Before(today)
	})
}

func currentStatus(s models.BookingStatus) bool {
	return s == models.StatusConfirmed || s == models.StatusTenantCheckedOut || s == models.StatusPendingPayment
}

func (s *Service) filterTenant(ctx context.Context, tenantID int64, keep func(*models.Booking) bool) ([]models.Booking, error) {
	bs, err := s.DB.GetBookingsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := bs[:0:0]
	for i := range bs {
		if keep(&bs[i]) {
			out = append(out, bs[i])
		}
	}
	return out, nil
}

func (s *Service) filterOwner(ctx context.Context, ownerID int64, keep func(*models.Booking) bool) ([]models.Booking, error) {
	bs, err := s.DB.GetBookingsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := bs[:0:0]
	for i := range bs {
		if keep(&bs[i]) {
			out = append(out, bs[i])
		}
	}
	return out, nil
}

// Stats aggregates a tenant's booking history. Computed in Go over the
// tenant's rows so the same code serves Postgres and the sqlite test
// harness.
func (s *Service) Stats(ctx context.Context, tenantID int64) (*models.BookingStats, error) {
	bs, err := s.DB.GetBookingsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	stats := &models.BookingStats{Total: len(bs)}
	if len(bs) == 0 {
		return stats, nil
	}

	sixMonthsAgo := s.now().AddDate(0, -6, 0)
	priceSum := decimal.Zero
	var staySum int
	for i := range bs {
		b := &bs[i]
		switch {
		case b.Status == models.StatusCompleted || b.Status == models.StatusTenantCheckedOut || b.Status == models.StatusConfirmed:
			stats.Completed++
		case b.Status.Cancelled():
			stats.Cancelled++
		}
		priceSum = priceSum.Add(b.TotalPrice)
		staySum += b.Nights()
		if b.CreatedAt.After(sixMonthsAgo) {
			stats.Recent++
		}
	}
	n := decimal.NewFromInt(int64(len(bs)))
	stats.AvgPrice = priceSum.DivRound(n, 2)
	stats.AvgStayDays = float64(staySum) / float64(len(bs))
	return stats, nil
}

// AdminBookings lists every booking enriched with tenant/host/property
// display data. Enrichment is best-effort; a booking is never dropped
// because a collaborator was down.
func (s *Service) AdminBookings(ctx context.Context, actor auth.Actor) ([]models.AdminBooking, error) {
	if err := auth.Authorize(actor, auth.ActionAdmin, auth.Resource{}); err != nil {
		return nil, err
	}

	bs, err := s.DB.GetAllBookings(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.AdminBooking, 0, len(bs))
	for i := range bs {
		b := bs[i]
		ab := models.AdminBooking{
			Booking:         b,
			PropertyTitle:   "Unknown Property",
			PropertyAddress: "Unknown",
			HostName:        "Unknown Host",
			HostEmail:       "unknown@example.com",
			NumberOfNights:  b.Nights(),
		}

		if p, err := s.DB.GetProperty(ctx, b.PropertyID); err == nil {
			ab.OwnerID = p.OwnerID
		}
		if s.Details != nil {
			ab.PropertyTitle, ab.PropertyAddress = s.Details.GetDetails(ctx, b.PropertyID)
		}

		tenant := s.Users.GetProfile(ctx, b.TenantID)
		ab.TenantName = tenant.FullName()
		ab.TenantEmail = tenant.Email

		if ab.OwnerID != 0 {
			host := s.Users.GetProfile(ctx, ab.OwnerID)
			ab.HostName = host.FullName()
			ab.HostEmail = host.Email
		}

		out = append(out, ab)
	}
	return out, nil
}

// PropertyQuoteInfo exposes the collaborator's pricing record for a
// property, pass-through.
func (s *Service) PropertyQuoteInfo(ctx context.Context, propertyID string) (*models.PropertyQuoteInfo, error) {
	return s.fetchQuoteInfo(ctx, propertyID)
}
