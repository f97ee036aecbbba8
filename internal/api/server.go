// Package api exposes the platform over HTTP: JSON endpoints for
// registration and login, account linking, game fetching, and the rules
// engine.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/aleroux/chesslab/internal/apperrors"
	"github.com/aleroux/chesslab/internal/auth"
	"github.com/aleroux/chesslab/internal/logger"
	"github.com/aleroux/chesslab/internal/services"
)

type Server struct {
	Auth             services.AuthService
	Accounts         services.AccountService
	Tokens           *auth.TokenManager
	DefaultGameLimit int
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewBadRequestError("invalid request body")
	}
	return nil
}
