package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("record not found")

type DB struct {
	Bun *bun.DB
}

// normalize rewrites legacy status values right after scanning, so business
// code only ever sees the closed status set.
func normalize(b *models.Booking) {
	b.Status = models.NormalizeStatus(b.Status, b.RequestedNegotiationPercent)
}

// ---------------- BOOKINGS ----------------

// CreateBooking inserts a booking and fills in its generated id.
func (d *DB) CreateBooking(ctx context.Context, b *models.Booking) error {
	_, err := d.Bun.NewInsert().Model(b).Returning("id").Exec(ctx)
	return err
}

func (d *DB) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	var b models.Booking
	err := d.Bun.NewSelect().
		Model(&b).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	normalize(&b)
	return &b, nil
}

// UpdateBooking writes all mutable fields and bumps updated_at.
func (d *DB) UpdateBooking(ctx context.Context, b *models.Booking) error {
	b.UpdatedAt = time.Now()
	res, err := d.Bun.NewUpdate().
		Model(b).
		Column("check_in_date", "check_out_date", "total_price", "status",
			"long_stay_discount_percent", "requested_negotiation_percent",
			"negotiation_expires_at", "settlement_tx_hash", "updated_at").
		Where("id = ?", b.ID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBooking removes a booking outright. Only the overlap resolver does
// this; every other path is a status transition.
func (d *DB) DeleteBooking(ctx context.Context, id int64) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Booking)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (d *DB) GetBookingsByTenant(ctx context.Context, tenantID int64) ([]models.Booking, error) {
	var bs []models.Booking
	err := d.Bun.NewSelect().
		Model(&bs).
		Where("tenant_id = ?", tenantID).
		Order("id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	for i := range bs {
		normalize(&bs[i])
	}
	return bs, nil
}

func (d *DB) GetBookingsByProperty(ctx context.Context, propertyID string) ([]models.Booking, error) {
	var bs []models.Booking
	err := d.Bun.NewSelect().
		Model(&bs).
		Where("property_id = ?", propertyID).
		Order("id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	for i := range bs {
		normalize(&bs[i])
	}
	return bs, nil
}

// GetBookingsByOwner lists bookings whose property is owned by ownerID,
// resolved through the local property cache.
func (d *DB) GetBookingsByOwner(ctx context.Context, ownerID int64) ([]models.Booking, error) {
	var bs []models.Booking
	err := d.Bun.NewSelect().
		Model(&bs).
		Join("JOIN properties p ON p.id = booking.property_id").
		Where("p.owner_id = ?", ownerID).
		Order("booking.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	for i := range bs {
		normalize(&bs[i])
	}
	return bs, nil
}

// GetOverlappingBookings returns the candidates the overlap resolver must
// judge: same property, inclusive date intersection, not the confirmed
// booking itself, not COMPLETED, not already cancelled.
func (d *DB) GetOverlappingBookings(ctx context.Context, propertyID string, excludeID int64, checkIn, checkOut time.Time) ([]models.Booking, error) {
	var bs []models.Booking
	err := d.Bun.NewSelect().
		Model(&bs).
		Where("property_id = ?", propertyID).
		Where("id != ?", excludeID).
		Where("check_in_date <= ?", checkOut).
		Where("check_out_date >= ?", checkIn).
		Where("status != ?", models.StatusCompleted).
		Where("status NOT LIKE 'CANCELLED%'").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	for i := range bs {
		normalize(&bs[i])
	}
	return bs, nil
}

func (d *DB) GetAllBookings(ctx context.Context) ([]models.Booking, error) {
	var bs []models.Booking
	err := d.Bun.NewSelect().
		Model(&bs).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	for i := range bs {
		normalize(&bs[i])
	}
	return bs, nil
}

// GetLastBookingID returns the most recently assigned booking id, or
// ErrNotFound when no bookings exist.
func (d *DB) GetLastBookingID(ctx context.Context) (int64, error) {
	var id int64
	err := d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		ColumnExpr("id").
		Order("id DESC").
		Limit(1).
		Scan(ctx, &id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

// ---------------- PROPERTY CACHE ----------------

// UpsertProperty refreshes the local property cache from a quote fetch.
func (d *DB) UpsertProperty(ctx context.Context, p *models.Property) error {
	_, err := d.Bun.NewInsert().
		Model(p).
		On("CONFLICT (id) DO UPDATE").
		Set("owner_id = EXCLUDED.owner_id").
		Set("price_per_night = EXCLUDED.price_per_night").
		Set("discount_enabled = EXCLUDED.discount_enabled").
		Set("negotiation_percentage = EXCLUDED.negotiation_percentage").
		Exec(ctx)
	return err
}

func (d *DB) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	var p models.Property
	err := d.Bun.NewSelect().
		Model(&p).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
