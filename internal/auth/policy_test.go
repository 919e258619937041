package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	res := Resource{TenantID: 42, OwnerID: 77}

	tenant := Actor{UserID: 42, Roles: []string{"TENANT"}, Authenticated: true}
	owner := Actor{UserID: 77, Roles: []string{"HOST"}, Authenticated: true}
	stranger := Actor{UserID: 99, Authenticated: true}
	admin := Actor{UserID: 1, Roles: []string{"ADMIN"}, Authenticated: true}

	// tenant-gated
	assert.NoError(t, Authorize(tenant, ActionCancel, res))
	assert.ErrorIs(t, Authorize(owner, ActionCancel, res), ErrForbidden)

	// owner-gated
	assert.NoError(t, Authorize(owner, ActionDecideNegotiation, res))
	assert.ErrorIs(t, Authorize(tenant, ActionDecideNegotiation, res), ErrForbidden)

	// either party
	assert.NoError(t, Authorize(tenant, ActionDispute, res))
	assert.NoError(t, Authorize(owner, ActionDispute, res))
	assert.ErrorIs(t, Authorize(stranger, ActionDispute, res), ErrForbidden)

	// admins pass everything
	for _, action := range []Action{ActionView, ActionUpdate, ActionCancel, ActionDecideNegotiation, ActionOwnerConfirm, ActionDispute, ActionAdmin} {
		assert.NoError(t, Authorize(admin, action, res))
	}

	assert.ErrorIs(t, Authorize(tenant, ActionAdmin, res), ErrForbidden)
	assert.ErrorIs(t, Authorize(Actor{}, ActionView, res), ErrUnauthenticated)
}

func TestAuthorizeDeniesUnresolvedOwner(t *testing.T) {
	// OwnerID zero means the property owner is unknown; owner-gated actions
	// must deny rather than let anyone through.
	res := Resource{TenantID: 42, OwnerID: 0}
	someone := Actor{UserID: 0, Authenticated: true}

	assert.ErrorIs(t, Authorize(someone, ActionOwnerConfirm, res), ErrForbidden)
}

func TestAuthorizeDeniesZeroPartyMatch(t *testing.T) {
	// A resource side left at zero is "unknown", not "user 0"; an actor
	// carrying id 0 must not match it.
	zeroActor := Actor{UserID: 0, Authenticated: true}

	assert.ErrorIs(t, Authorize(zeroActor, ActionView, Resource{OwnerID: 77}), ErrForbidden)
	assert.ErrorIs(t, Authorize(zeroActor, ActionDispute, Resource{TenantID: 42}), ErrForbidden)
}

func TestAdminRoleIsCaseInsensitive(t *testing.T) {
	admin := Actor{UserID: 5, Roles: []string{"admin"}, Authenticated: true}
	assert.True(t, admin.IsAdmin())
	assert.NoError(t, Authorize(admin, ActionAdmin, Resource{}))
}

func TestMiddleware(t *testing.T) {
	var captured Actor
	handler := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-Id", "42")
	req.Header.Set("X-User-Roles", "TENANT,HOST")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), captured.UserID)
	assert.True(t, captured.Authenticated)
	assert.Equal(t, []string{"TENANT", "HOST"}, captured.Roles)
}

func TestMiddlewareWithoutIdentity(t *testing.T) {
	var captured Actor
	handler := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, captured.Authenticated)
}

func TestMiddlewareRejectsMalformedUserID(t *testing.T) {
	handler := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-Id", "not-a-number")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
