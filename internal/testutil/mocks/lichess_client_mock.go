package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/aleroux/chesslab/internal/models"
)

// MockLichessClient is a mock implementation of lichess.ClientInterface.
type MockLichessClient struct {
	mock.Mock
}

func (m *MockLichessClient) FetchProfile(ctx context.Context, username string) (json.RawMessage, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockLichessClient) FetchGames(ctx context.Context, username string, limit int) (*models.GameBatch, error) {
	args := m.Called(ctx, username, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameBatch), args.Error(1)
}
