package api

import (
	"net/http"

	"github.com/aleroux/chesslab/internal/engine"
)

type makeMoveRequest struct {
	FEN  string `json:"fen"`
	Move string `json:"move"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, engine.NewGame())
}

func (s *Server) handleMakeMove(w http.ResponseWriter, r *http.Request) {
	var req makeMoveRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	state, err := engine.MakeMove(req.FEN, req.Move)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}
