package api

import (
	"context"
	"net/http"
	"strings"

	errs "chat-hub/errors"
)

type contextKey string

const userIDKey contextKey = "userID"

// requireAuth validates the bearer token and stashes the authenticated
// user id in the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			writeError(w, s.log, errs.Scoped(errs.ErrUnauthenticated, "Missing bearer token"))
			return
		}
		claims, err := s.tokens.ValidateToken(token)
		if err != nil {
			writeError(w, s.log, errs.Scoped(errs.ErrUnauthenticated, "Invalid token"))
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next(w, r.WithContext(ctx))
	}
}

func requesterID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
