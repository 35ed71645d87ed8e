package devserver

import (
	"context"
	"net/http"
	"strings"
)

const requestIDHeader = "X-Request-ID"

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
)

// RequireAuth validates the Bearer access token and stores the user id in the context.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}

			scheme, raw, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(raw) == "" {
				writeDetail(w, http.StatusUnauthorized, "Authorization header must contain two space-delimited values")
				return
			}

			info, err := s.inspector.Introspect(strings.TrimSpace(raw))
			if err != nil || !info.Active {
				writeTokenInvalid(w, "Given token not valid for any token type")
				return
			}
			if _, err := s.repos.Users.GetByID(info.Sub); err != nil {
				writeTokenInvalid(w, "User not found")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, info.Sub)
			next(w, r.WithContext(ctx))
		}
	}
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(ContextKeyUserID).(string)
	return id
}
