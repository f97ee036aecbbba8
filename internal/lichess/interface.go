package lichess

import (
	"context"
	"encoding/json"

	"github.com/aleroux/chesslab/internal/models"
)

// ClientInterface defines the interface for Lichess API operations.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	FetchProfile(ctx context.Context, username string) (json.RawMessage, error)
	FetchGames(ctx context.Context, username string, limit int) (*models.GameBatch, error)
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
