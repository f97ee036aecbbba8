package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aleroux/chesslab/internal/api"
	"github.com/aleroux/chesslab/internal/auth"
	"github.com/aleroux/chesslab/internal/models"
	"github.com/aleroux/chesslab/internal/repository/sqlite"
	"github.com/aleroux/chesslab/internal/services"
	"github.com/aleroux/chesslab/internal/testutil"
	"github.com/aleroux/chesslab/internal/testutil/mocks"
)

type apiFixture struct {
	server      *httptest.Server
	chessClient *mocks.MockChessComClient
	lichess     *mocks.MockLichessClient
	fetcher     *stubFetcher
}

type stubFetcher struct {
	batch *models.GameBatch
	err   error
}

func (f *stubFetcher) FetchGames(ctx context.Context, username string, limit int) (*models.GameBatch, error) {
	return f.batch, f.err
}

func newFixture(t *testing.T) *apiFixture {
	t.Helper()

	database := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, database) })

	repo := sqlite.NewUserRepository(database.DB)
	tokens := auth.NewTokenManager("test-secret", 30*time.Minute)
	chessClient := new(mocks.MockChessComClient)
	lichessClient := new(mocks.MockLichessClient)
	fetcher := &stubFetcher{}

	srv := &api.Server{
		Auth:             services.NewAuthService(repo, tokens, nil, nil),
		Accounts:         services.NewAccountService(repo, chessClient, fetcher, lichessClient),
		Tokens:           tokens,
		DefaultGameLimit: 10,
	}

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	return &apiFixture{server: ts, chessClient: chessClient, lichess: lichessClient, fetcher: fetcher}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func (f *apiFixture) register(t *testing.T) string {
	t.Helper()
	resp, body := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "Secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterLoginMe(t *testing.T) {
	f := newFixture(t)
	f.register(t)

	resp, body := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "Secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bearer", body["token_type"])

	token := body["access_token"].(string)
	resp, body = f.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", body["username"])
	assert.NotContains(t, body, "password_hash")
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	f.register(t)

	resp, body := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "WrongPass1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "error")
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/games/chess.com", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLinkUnlinkFlow(t *testing.T) {
	f := newFixture(t)
	token := f.register(t)

	f.chessClient.On("FetchProfile", mock.Anything, "alicechess").
		Return(json.RawMessage(`{"username":"alicechess"}`), nil)

	resp, body := f.do(t, http.MethodPost, "/api/link", token, map[string]string{
		"platform": "chess.com",
		"username": "AliceChess",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, body = f.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	accounts := body["chess_accounts"].(map[string]any)
	assert.Contains(t, accounts, "chess.com")

	resp, _ = f.do(t, http.MethodDelete, "/api/unlink/chess.com", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, http.MethodDelete, "/api/unlink/chess.com", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "second unlink finds nothing")
}

func TestFetchGames_Endpoint(t *testing.T) {
	f := newFixture(t)
	token := f.register(t)

	f.chessClient.On("FetchProfile", mock.Anything, "alicechess").
		Return(json.RawMessage(`{}`), nil)
	f.fetcher.batch = &models.GameBatch{
		Platform:   models.PlatformChessCom,
		Username:   "alicechess",
		Games:      []models.NormalizedGame{{ID: "g1"}},
		TotalFound: 1,
		Requested:  5,
	}

	resp, _ := f.do(t, http.MethodPost, "/api/link", token, map[string]string{
		"platform": "chess.com",
		"username": "alicechess",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/api/games/chess.com?limit=5", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total_found"])

	resp, _ = f.do(t, http.MethodGet, "/api/games/lichess.org", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "lichess was never linked")
}

func TestChessEndpoints(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/api/chess/new-game", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "white", body["turn"])

	resp, body = f.do(t, http.MethodPost, "/api/chess/make-move", "", map[string]string{
		"fen":  body["fen"].(string),
		"move": "e2e4",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "black", body["turn"])
	assert.Equal(t, "e4", body["move_san"])

	resp, body = f.do(t, http.MethodPost, "/api/chess/make-move", "", map[string]string{
		"fen":  body["fen"].(string),
		"move": "e2e4",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "white pawn cannot move on black's turn")
	assert.Contains(t, body, "error")
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}
