package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

type contextKey string

const actorKey contextKey = "actor"

// Middleware resolves the caller from the gateway headers and stores the
// Actor in the request context. Requests without X-User-Id still pass
// through: a few endpoints are public and the per-operation policy decides
// later.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := Actor{}

			if raw := r.Header.Get("X-User-Id"); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					http.Error(w, "invalid X-User-Id header", http.StatusUnauthorized)
					return
				}
				actor.UserID = id
				actor.Authenticated = true
			}

			if roles := r.Header.Get("X-User-Roles"); roles != "" {
				actor.Roles = strings.Split(roles, ",")
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the Actor stored by Middleware, or an
// unauthenticated zero Actor.
func ActorFromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorKey).(Actor); ok {
		return a
	}
	return Actor{}
}
