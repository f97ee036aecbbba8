// Package engine computes chess legality and state transitions. It is
// stateless: every call receives a full position encoding and returns a new
// one, so the server never holds game state between requests.
package engine

import (
	"fmt"
	"strings"

	chesslib "github.com/corentings/chess/v2"

	"github.com/aleroux/chesslab/internal/apperrors"
)

// legalMoveSample caps the advisory move list returned to callers. The full
// legal-move set is still used internally for game-over detection.
const legalMoveSample = 10

// State is a snapshot of a board position after an operation.
type State struct {
	FEN        string   `json:"fen"`
	Turn       string   `json:"turn"`
	LegalMoves []string `json:"legal_moves"`
	GameOver   bool     `json:"game_over"`
	MoveSAN    string   `json:"move_san,omitempty"`
}

// NewGame returns the standard initial position.
func NewGame() State {
	return stateFrom(chesslib.NewGame(), "")
}

// MakeMove applies a coordinate-notation move (e.g. "e2e4", "e7e8q") to the
// given position. Malformed positions, malformed moves, and illegal moves are
// each reported as a distinct structured failure, never a panic.
func MakeMove(fen, move string) (State, error) {
	option, err := chesslib.FEN(strings.TrimSpace(fen))
	if err != nil {
		return State{}, apperrors.NewValidationError("fen", fmt.Sprintf("invalid position: %v", err))
	}
	game := chesslib.NewGame(option)

	pos := game.Position()
	mv, err := chesslib.UCINotation{}.Decode(pos, strings.ToLower(strings.TrimSpace(move)))
	if err != nil {
		return State{}, apperrors.NewValidationError("move", fmt.Sprintf("invalid coordinate notation: %v", err))
	}

	if err := game.Move(mv, nil); err != nil {
		return State{}, apperrors.NewBadRequestError("illegal move")
	}

	san := chesslib.AlgebraicNotation{}.Encode(pos, mv)
	return stateFrom(game, san), nil
}

func stateFrom(game *chesslib.Game, san string) State {
	valid := game.ValidMoves()

	sample := make([]string, 0, legalMoveSample)
	for i := range valid {
		if len(sample) == legalMoveSample {
			break
		}
		sample = append(sample, valid[i].String())
	}

	return State{
		FEN:        game.FEN(),
		Turn:       turnName(game.Position().Turn()),
		LegalMoves: sample,
		GameOver:   isGameOver(game, len(valid)),
		MoveSAN:    san,
	}
}

func turnName(c chesslib.Color) string {
	if c == chesslib.White {
		return "white"
	}
	return "black"
}

// isGameOver aggregates every terminal condition: no legal move left
// (checkmate, stalemate), a decided outcome (includes insufficient material),
// or a claimable draw by the fifty-move or threefold-repetition rule.
func isGameOver(game *chesslib.Game, legalMoves int) bool {
	if legalMoves == 0 {
		return true
	}
	if game.Outcome() != chesslib.NoOutcome {
		return true
	}
	for _, method := range game.EligibleDraws() {
		if method == chesslib.FiftyMoveRule || method == chesslib.ThreefoldRepetition {
			return true
		}
	}
	return false
}
