package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth"
)

// UserIDHeader carries the caller's user ID when no token auth is configured.
const UserIDHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "user_id"

// identify stores the caller's user ID in the request context. It may be empty.
func (h *Handler) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var userID string
		if h.tokenAuth != nil {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err == nil {
				userID, _ = claims["sub"].(string)
			}
		} else {
			userID = r.Header.Get(UserIDHeader)
		}

		ctx := context.WithValue(r.Context(), userIDKey, strings.TrimSpace(userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the user ID identify stored, if any
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}
