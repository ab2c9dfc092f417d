// Package api exposes the REST bootstrap surface: auth, room CRUD,
// paginated message history and message search. The live protocol lives
// in the transport and realtime packages.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	errs "chat-hub/errors"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the error taxonomy onto HTTP statuses; anything
// unrecognized is a 500 with a generic body so storage details never
// leak to clients.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errs.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	case errs.Is(err, errs.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: err.Error()})
	case errs.Is(err, errs.ErrUnauthenticated), errs.Is(err, errs.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: err.Error()})
	case errs.Is(err, errs.ErrValidation),
		errs.Is(err, errs.ErrAlreadyMember),
		errs.Is(err, errs.ErrUserAlreadyExists),
		errs.Is(err, errs.ErrInvalidPassword):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	default:
		log.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}
