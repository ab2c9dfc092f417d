package api

import (
	"encoding/json"
	"net/http"

	"chat-hub/auth"
	"chat-hub/domain"
	errs "chat-hub/errors"
)

type authResponse struct {
	Token string         `json:"token"`
	User  domain.UserRef `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, errs.Scoped(errs.ErrValidation, "Invalid request body"))
		return
	}
	if err := auth.ValidateRegister(req); err != nil {
		writeError(w, s.log, errs.Scopedf(errs.ErrValidation, "Invalid registration: %v", err))
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	user, err := s.users.CreateUser(req.Username, req.Email, hashed)
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user.Ref()})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, errs.Scoped(errs.ErrValidation, "Invalid request body"))
		return
	}
	if err := auth.ValidateLogin(req); err != nil {
		writeError(w, s.log, errs.Scopedf(errs.ErrValidation, "Invalid login: %v", err))
		return
	}

	user, err := s.users.GetUserByUsername(req.Username)
	if err != nil {
		// Same answer for unknown user and bad password.
		writeError(w, s.log, errs.Scoped(errs.ErrInvalidCredentials, "Invalid credentials"))
		return
	}
	match, err := auth.ComparePassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		writeError(w, s.log, errs.Scoped(errs.ErrInvalidCredentials, "Invalid credentials"))
		return
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user.Ref()})
}
