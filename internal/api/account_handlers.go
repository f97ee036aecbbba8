package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type linkAccountRequest struct {
	Platform string `json:"platform"`
	Username string `json:"username"`
}

func (s *Server) handleLinkAccount(w http.ResponseWriter, r *http.Request) {
	var req linkAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Accounts.LinkAccount(r.Context(), UserIDFromContext(r.Context()), req.Platform, req.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleUnlinkAccount(w http.ResponseWriter, r *http.Request) {
	platform := chi.URLParam(r, "platform")

	if err := s.Accounts.UnlinkAccount(r.Context(), UserIDFromContext(r.Context()), platform); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "Account unlinked",
	})
}

func (s *Server) handleFetchGames(w http.ResponseWriter, r *http.Request) {
	platform := chi.URLParam(r, "platform")

	limit := s.DefaultGameLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	batch, err := s.Accounts.FetchLinkedGames(r.Context(), UserIDFromContext(r.Context()), platform, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, batch)
}
