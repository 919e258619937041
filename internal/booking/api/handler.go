package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-booking/internal/auth"
	"ms-booking/internal/booking"
	"ms-booking/internal/models"
)

// RequestQueue queues booking creation commands for asynchronous handling.
type RequestQueue interface {
	PublishBookingRequest(req models.BookingRequest) error
}

type Handler struct {
	Service *booking.Service
	Queue   RequestQueue
}

// writeError maps domain errors onto HTTP status codes. Anything unmapped is
// a 500 with a generic body so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var invalidNegotiation *booking.InvalidNegotiationError
	var invalidTransition *booking.InvalidTransitionError

	switch {
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, booking.ErrPropertyNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, auth.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, auth.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, booking.ErrConfirmInProgress):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, booking.ErrUpstreamUnavailable):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	case errors.As(err, &invalidNegotiation),
		errors.As(err, &invalidTransition),
		errors.Is(err, booking.ErrNoNegotiation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func bookingID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "bookingId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid booking id %q", raw)
	}
	return id, nil
}

func userID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return id, nil
}

// RequestBooking validates an incoming creation request and queues it. An
// unacceptable counter-offer is bounced here synchronously so the tenant
// never waits on an async round-trip just to be told no.
func (h *Handler) RequestBooking(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.PropertyID == "" || req.CheckInDate == "" || req.CheckOutDate == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "propertyId, checkInDate and checkOutDate are required"})
		return
	}

	if actor := auth.ActorFromContext(r.Context()); actor.Authenticated && req.TenantID == 0 {
		req.TenantID = actor.UserID
	}

	rejection, err := h.Service.ValidateRequestedPrice(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	if rejection != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": rejection})
		return
	}

	if err := h.Queue.PublishBookingRequest(req); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Could not queue booking request"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "queued",
		"message": "Booking request accepted and is being processed",
	})
}

// CreateBooking creates a booking synchronously, bypassing the queue.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	b, err := h.Service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.Service.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req models.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	b, err := h.Service.Update(r.Context(), auth.ActorFromContext(r.Context()), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// UpdateStatus applies an external status change, e.g. CONFIRMED after
// payment settles. Cleanup failures from overlap resolution are reported in
// the response body next to the confirmed booking.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req struct {
		Status models.BookingStatus `json:"status"`
		TxHash string               `json:"txHash"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	b, failures, err := h.Service.UpdateStatus(r.Context(), auth.ActorFromContext(r.Context()), id, req.Status, req.TxHash)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]interface{}{"booking": b}
	if len(failures) > 0 {
		msgs := make([]map[string]interface{}, 0, len(failures))
		for _, f := range failures {
			msgs = append(msgs, map[string]interface{}{
				"bookingId": f.BookingID,
				"error":     f.Err.Error(),
			})
		}
		resp["cleanupFailures"] = msgs
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.Service.CancelByTenant(r.Context(), auth.ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) AcceptNegotiation(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.Service.AcceptNegotiation(r.Context(), auth.ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) RejectNegotiation(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.Service.RejectNegotiation(r.Context(), auth.ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) TenantCheckout(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.Service.TenantCheckout(r.Context(), auth.ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.Service.OwnerConfirmCheckout(r.Context(), auth.ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) ReportDispute(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	b, err := h.Service.ReportDispute(r.Context(), auth.ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) BookingsByTenant(w http.ResponseWriter, r *http.Request) {
	h.listByUser(w, r, "userId", tenantResource, h.Service.BookingsByTenant)
}

func (h *Handler) PendingByTenant(w http.ResponseWriter, r *http.Request) {
	h.listByUser(w, r, "userId", tenantResource, h.Service.PendingByTenant)
}

func (h *Handler) AwaitingPaymentByTenant(w http.ResponseWriter, r *http.Request) {
	h.listByUser(w, r, "userId", tenantResource, h.Service.AwaitingPaymentByTenant)
}

func (h *Handler) BookingsByOwner(w http.ResponseWriter, r *http.Request) {
	h.listByUser(w, r, "ownerId", ownerResource, h.Service.BookingsByOwner)
}

func (h *Handler) PendingNegotiationsByOwner(w http.ResponseWriter, r *http.Request) {
	h.listByUser(w, r, "ownerId", ownerResource, h.Service.PendingNegotiationsByOwner)
}

func (h *Handler) ConfirmedByOwner(w http.ResponseWriter, r *http.Request) {
	h.listByUser(w, r, "ownerId", ownerResource, h.Service.ConfirmedByOwner)
}

func (h *Handler) CurrentByOwner(w http.ResponseWriter, r *http.Request) {
	h.listByUser(w, r, "ownerId", ownerResource, h.Service.CurrentByOwner)
}

func tenantResource(id int64) auth.Resource { return auth.Resource{TenantID: id} }
func ownerResource(id int64) auth.Resource  { return auth.Resource{OwnerID: id} }

// listByUser serves the per-user listing endpoints. The caller must be the
// user named in the path, or an admin.
func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request, param string, res func(int64) auth.Resource, fn func(ctx context.Context, id int64) ([]models.Booking, error)) {
	id, err := userID(r, param)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := auth.Authorize(auth.ActorFromContext(r.Context()), auth.ActionView, res(id)); err != nil {
		writeError(w, err)
		return
	}
	bs, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if bs == nil {
		bs = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *Handler) ConfirmedByProperty(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Service.ConfirmedByProperty(r.Context(), chi.URLParam(r, "propertyId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

// CurrentByTenant returns the stay the tenant is in the middle of today, or
// 204 when there is none.
func (h *Handler) CurrentByTenant(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r, "userId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := auth.Authorize(auth.ActorFromContext(r.Context()), auth.ActionView, tenantResource(id)); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.Service.CurrentByTenant(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if b == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) TenantStats(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r, "userId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := auth.Authorize(auth.ActorFromContext(r.Context()), auth.ActionView, tenantResource(id)); err != nil {
		writeError(w, err)
		return
	}
	stats, err := h.Service.Stats(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) AdminBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Service.AdminBookings(r.Context(), auth.ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

// PropertyInfo proxies the property-service pricing record so front-ends can
// preview a quote without talking to two services.
func (h *Handler) PropertyInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.Service.PropertyQuoteInfo(r.Context(), chi.URLParam(r, "propertyId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) LastBookingID(w http.ResponseWriter, r *http.Request) {
	id, err := h.Service.LastBookingID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"lastBookingId": id})
}
