package chesscom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aleroux/chesslab/internal/logger"
)

// DefaultBaseURL is the public Chess.com API host.
const DefaultBaseURL = "https://api.chess.com"

// ErrProfileNotFound is returned when the profile endpoint answers non-200.
var ErrProfileNotFound = errors.New("chess.com profile not found")

// ErrMonthNotFound is returned when a monthly archive answers 404, meaning no
// games exist for that window.
var ErrMonthNotFound = errors.New("no chess.com games for month")

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.Default().WithPrefix("chesscom"),
	}
}

// MonthlyGame is one raw game entry from a Chess.com monthly archive.
type MonthlyGame struct {
	UUID        string `json:"uuid"`
	URL         string `json:"url"`
	PGN         string `json:"pgn"`
	TimeControl string `json:"time_control"`
	TimeClass   string `json:"time_class"`
	EndTime     int64  `json:"end_time"`
	White       Player `json:"white"`
	Black       Player `json:"black"`
}

type Player struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Result   string `json:"result"`
}

// FetchProfile looks up a player profile, returning the raw payload so the
// caller can store it alongside the link.
func (c *Client) FetchProfile(ctx context.Context, username string) (json.RawMessage, error) {
	log := logger.FromContext(ctx).WithPrefix("chesscom").WithField("username", username)
	url := fmt.Sprintf("%s/pub/player/%s", c.baseURL, username)

	log.Debug("fetching profile from: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch profile: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debug("profile request failed: status=%d", resp.StatusCode)
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, ErrProfileNotFound)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		log.Error("failed to read profile response: %v", err)
		return nil, err
	}
	return json.RawMessage(body), nil
}

// FetchMonth requests the full game list for one calendar month.
func (c *Client) FetchMonth(ctx context.Context, username string, year int, month time.Month) ([]MonthlyGame, error) {
	log := logger.FromContext(ctx).WithPrefix("chesscom").WithField("username", username)
	url := fmt.Sprintf("%s/pub/player/%s/games/%04d/%02d", c.baseURL, username, year, int(month))

	log.Debug("fetching monthly games from: %s", url)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch monthly games: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("monthly response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%04d/%02d: %w", year, int(month), ErrMonthNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("monthly request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("monthly status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Games []MonthlyGame `json:"games"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Error("failed to decode monthly response: %v", err)
		return nil, err
	}

	log.Debug("fetched %d games for %04d/%02d", len(payload.Games), year, int(month))
	return payload.Games, nil
}
