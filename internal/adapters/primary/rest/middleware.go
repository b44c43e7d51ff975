package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/swathi-reddy30/pulse-app/internal/core/ports"
)

// Private context key type avoids collisions with other packages.
type contextKey struct{ name string }

var userCtxKey = &contextKey{"user_id"}

// requireAuth validates the Bearer token and injects the actor id into the
// request context. Protected routes never see an unauthenticated request.
func requireAuth(identity ports.IdentityService, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeJSON(w, http.StatusUnauthorized, errorEnvelope{Message: "missing authorization header"})
			return
		}

		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorEnvelope{Message: "invalid token format"})
			return
		}

		userID, err := identity.ValidateToken(r.Context(), tokenStr)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorEnvelope{Message: "invalid or expired token"})
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// actorID returns the authenticated user id injected by requireAuth.
func actorID(ctx context.Context) string {
	raw, _ := ctx.Value(userCtxKey).(string)
	return raw
}
