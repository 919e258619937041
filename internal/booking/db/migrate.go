package db

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

// Migrate creates the bookings and properties tables if they don't exist.
func Migrate(db *bun.DB) {
	ctx := context.Background()

	_, err := db.NewCreateTable().
		Model((*models.Booking)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		log.Fatalf("create bookings table failed: %v", err)
	}

	_, err = db.NewCreateTable().
		Model((*models.Property)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		log.Fatalf("create properties table failed: %v", err)
	}

	// Overlap scans and listing queries key on these.
	_, err = db.NewCreateIndex().
		Model((*models.Booking)(nil)).
		Index("idx_bookings_property_id").
		Column("property_id").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		log.Fatalf("create property index failed: %v", err)
	}

	_, err = db.NewCreateIndex().
		Model((*models.Booking)(nil)).
		Index("idx_bookings_tenant_id").
		Column("tenant_id").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		log.Fatalf("create tenant index failed: %v", err)
	}

	log.Println("bookings and properties tables ready")
}
