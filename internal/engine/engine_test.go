package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleroux/chesslab/internal/apperrors"
	"github.com/aleroux/chesslab/internal/engine"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestNewGame(t *testing.T) {
	state := engine.NewGame()

	assert.Equal(t, startFEN, state.FEN)
	assert.Equal(t, "white", state.Turn)
	assert.Len(t, state.LegalMoves, 10, "advisory move list is capped")
	assert.False(t, state.GameOver)
	assert.Empty(t, state.MoveSAN)
}

func TestMakeMove_Opening(t *testing.T) {
	state, err := engine.MakeMove(startFEN, "e2e4")
	require.NoError(t, err)

	assert.Equal(t, "black", state.Turn)
	assert.Equal(t, "e4", state.MoveSAN)
	assert.False(t, state.GameOver)
	assert.Contains(t, state.FEN, " b ", "side to move flips in the FEN")
}

func TestMakeMove_UppercaseAndWhitespace(t *testing.T) {
	state, err := engine.MakeMove("  "+startFEN+"  ", " E2E4 ")
	require.NoError(t, err)
	assert.Equal(t, "e4", state.MoveSAN)
}

func TestMakeMove_IllegalMove(t *testing.T) {
	_, err := engine.MakeMove(startFEN, "e2e5")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeBadRequest, appErr.Code)
}

func TestMakeMove_MalformedMove(t *testing.T) {
	_, err := engine.MakeMove(startFEN, "knight to e4")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestMakeMove_MalformedFEN(t *testing.T) {
	_, err := engine.MakeMove("not a position", "e2e4")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestMakeMove_Promotion(t *testing.T) {
	state, err := engine.MakeMove("k7/4P3/8/8/8/8/8/4K3 w - - 0 1", "e7e8q")
	require.NoError(t, err)
	assert.Contains(t, state.FEN, "Q", "promoted queen appears on the board")
	assert.Equal(t, "black", state.Turn)
}

func TestMakeMove_CheckmateEndsGame(t *testing.T) {
	// Scholar's mate final position, one move before mate.
	fen := "r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR w KQkq - 4 4"
	state, err := engine.MakeMove(fen, "f3f7")
	require.NoError(t, err)

	assert.True(t, state.GameOver)
	assert.Empty(t, state.LegalMoves)
	assert.Equal(t, "Qxf7#", state.MoveSAN)
}

func TestMakeMove_StalemateEndsGame(t *testing.T) {
	// Qc7 stalemates the cornered black king.
	fen := "k7/8/1K6/8/8/8/8/2Q5 w - - 0 1"
	state, err := engine.MakeMove(fen, "c1c7")
	require.NoError(t, err)

	assert.True(t, state.GameOver)
	assert.Empty(t, state.LegalMoves)
}

func TestMakeMove_WrongSideToMove(t *testing.T) {
	// Black to move; a white-piece move must be rejected as illegal.
	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"
	_, err := engine.MakeMove(fen, "d2d4")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeBadRequest, appErr.Code)
}
