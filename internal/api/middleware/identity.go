package middleware

import (
	"context"
	"net/http"
)

// userIDHeader carries the caller identity, injected by the auth layer
// sitting in front of this service. This engine treats it as opaque.
const userIDHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "userID"

// Identity copies the caller identity header into the request context.
type Identity struct{}

// NewIdentity creates the identity middleware
func NewIdentity() *Identity {
	return &Identity{}
}

// Middleware extracts X-User-ID into the context when present
func (m *Identity) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := r.Header.Get(userIDHeader); userID != "" {
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser rejects requests that arrived without a caller identity
func (m *Identity) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r) == "" {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID returns the caller identity from the request context, or ""
// when the request was anonymous.
func GetUserID(r *http.Request) string {
	if userID, ok := r.Context().Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}
