package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/aleroux/chesslab/internal/chesscom"
)

// MockChessComClient is a mock implementation of chesscom.ClientInterface.
type MockChessComClient struct {
	mock.Mock
}

func (m *MockChessComClient) FetchProfile(ctx context.Context, username string) (json.RawMessage, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockChessComClient) FetchMonth(ctx context.Context, username string, year int, month time.Month) ([]chesscom.MonthlyGame, error) {
	args := m.Called(ctx, username, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]chesscom.MonthlyGame), args.Error(1)
}
