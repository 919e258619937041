package api

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the booking API under /api/v1/bookings.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/bookings", func(r chi.Router) {
		r.Post("/request", h.RequestBooking)
		r.Post("/", h.CreateBooking)
		r.Get("/last-id", h.LastBookingID)
		r.Get("/admin/all", h.AdminBookings)

		r.Get("/user/{userId}", h.BookingsByTenant)
		r.Get("/user/{userId}/pending", h.PendingByTenant)
		r.Get("/user/{userId}/payments", h.AwaitingPaymentByTenant)
		r.Get("/user/{userId}/stats", h.TenantStats)
		r.Get("/current/user/{userId}", h.CurrentByTenant)

		r.Get("/owner/{ownerId}", h.BookingsByOwner)
		r.Get("/owner/{ownerId}/negotiations", h.PendingNegotiationsByOwner)
		r.Get("/owner/{ownerId}/confirmed", h.ConfirmedByOwner)
		r.Get("/current/owner/{ownerId}", h.CurrentByOwner)

		r.Get("/property/{propertyId}/confirmed", h.ConfirmedByProperty)
		r.Get("/property/{propertyId}/info", h.PropertyInfo)

		r.Get("/{bookingId}", h.GetBooking)
		r.Put("/{bookingId}", h.UpdateBooking)
		r.Put("/{bookingId}/status", h.UpdateStatus)
		r.Delete("/{bookingId}", h.CancelBooking)
		r.Post("/{bookingId}/negotiation/accept", h.AcceptNegotiation)
		r.Post("/{bookingId}/negotiation/reject", h.RejectNegotiation)
		r.Post("/{bookingId}/checkout", h.TenantCheckout)
		r.Post("/{bookingId}/confirm-checkout", h.ConfirmCheckout)
		r.Post("/{bookingId}/dispute", h.ReportDispute)
	})
}
