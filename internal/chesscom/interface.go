package chesscom

import (
	"context"
	"encoding/json"
	"time"
)

// ClientInterface defines the interface for Chess.com API operations.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	FetchProfile(ctx context.Context, username string) (json.RawMessage, error)
	FetchMonth(ctx context.Context, username string, year int, month time.Month) ([]MonthlyGame, error)
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
