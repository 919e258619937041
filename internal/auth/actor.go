// Package auth resolves the calling identity from gateway headers and holds
// the single authorization policy every booking operation goes through.
// Authentication itself happens upstream; this service trusts the
// X-User-Id / X-User-Roles headers the gateway injects.
package auth

import (
	"errors"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Actor is the already-resolved caller identity.
type Actor struct {
	UserID        int64
	Roles         []string
	Authenticated bool
}

const roleAdmin = "ADMIN"

// IsAdmin reports whether the actor carries the administrative role.
func (a Actor) IsAdmin() bool {
	for _, r := range a.Roles {
		if strings.EqualFold(strings.TrimSpace(r), roleAdmin) {
			return true
		}
	}
	return false
}
