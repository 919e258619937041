package booking

import (
	"context"
	"fmt"

	"ms-booking/internal/models"
)

// resolveOverlaps hard-deletes every other booking on the same property whose
// stay intersects the confirmed one. COMPLETED and CANCELLED* bookings are
// already filtered out by the query; the guards here are belt-and-braces
// against races between the read and the delete. Each failed delete becomes a
// CleanupFailure instead of aborting the pass, so one stuck row never shields
// the rest.
func (s *Service) resolveOverlaps(ctx context.Context, confirmed *models.Booking) []CleanupFailure {
	overlapping, err := s.DB.GetOverlappingBookings(ctx, confirmed.PropertyID, confirmed.ID, confirmed.CheckInDate, confirmed.CheckOutDate)
	if err != nil {
		s.logger.Error("BOOKING", fmt.Sprintf("Failed to query overlaps for booking %d: %v", confirmed.ID, err))
		// BookingID zero: no single loser booking is implicated.
		return []CleanupFailure{{Err: fmt.Errorf("overlap query failed: %w", err)}}
	}
	if len(overlapping) == 0 {
		return nil
	}
	s.logger.Info("BOOKING", fmt.Sprintf("Resolving %d overlapping bookings for property %s", len(overlapping), confirmed.PropertyID))

	var failures []CleanupFailure
	for i := range overlapping {
		o := &overlapping[i]
		if o.ID == confirmed.ID {
			s.logger.Error("BOOKING", fmt.Sprintf("Overlap query returned the confirmed booking %d itself, skipping", o.ID))
			continue
		}
		if o.Status == models.StatusCompleted || o.Status.Cancelled() {
			continue
		}
		if err := s.DB.DeleteBooking(ctx, o.ID); err != nil {
			s.logger.Error("BOOKING", fmt.Sprintf("Failed to delete overlapping booking %d: %v", o.ID, err))
			failures = append(failures, CleanupFailure{BookingID: o.ID, Err: err})
			continue
		}
		s.logger.Info("BOOKING", fmt.Sprintf("Deleted overlapping booking %d (%s, tenant %d)", o.ID, o.Status, o.TenantID))
	}
	return failures
}
