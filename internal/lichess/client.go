package lichess

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aleroux/chesslab/internal/logger"
	"github.com/aleroux/chesslab/internal/models"
)

// DefaultBaseURL is the public Lichess API host.
const DefaultBaseURL = "https://lichess.org"

// ErrProfileNotFound is returned when the profile endpoint answers non-200.
var ErrProfileNotFound = errors.New("lichess profile not found")

// ErrTimeout is returned when the games request exceeds the client timeout.
// Callers must not mistake it for an empty result.
var ErrTimeout = errors.New("lichess request timed out")

// StatusError carries a non-200, non-timeout upstream status code.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lichess API error: status %d", e.Status)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func New(baseURL string) *Client {
	return NewWithTimeout(baseURL, 15*time.Second)
}

// NewWithTimeout exists so tests can shrink the request deadline.
func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Default().WithPrefix("lichess"),
	}
}

// FetchProfile looks up a player profile, returning the raw payload so the
// caller can store it alongside the link.
func (c *Client) FetchProfile(ctx context.Context, username string) (json.RawMessage, error) {
	log := logger.FromContext(ctx).WithPrefix("lichess").WithField("username", username)
	endpoint := fmt.Sprintf("%s/api/user/%s", c.baseURL, username)

	log.Debug("fetching profile from: %s", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
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

// FetchGames requests the player's most recent games as NDJSON. The API caps
// the stream at limit directly, so a single request suffices. Lines that fail
// to parse are skipped, never failing the whole batch.
func (c *Client) FetchGames(ctx context.Context, username string, limit int) (*models.GameBatch, error) {
	log := logger.FromContext(ctx).WithPrefix("lichess").WithField("username", username)
	log.Info("fetching up to %d games", limit)

	endpoint := fmt.Sprintf("%s/api/games/user/%s?%s", c.baseURL, username, url.Values{
		"max":       {strconv.Itoa(limit)},
		"pgnInJson": {"true"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/x-ndjson")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			log.Warn("games request timed out after %v", time.Since(start))
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		log.Error("failed to fetch games: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("games request failed: status=%d", resp.StatusCode)
		return nil, &StatusError{Status: resp.StatusCode}
	}

	games, err := c.decodeGames(resp.Body)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			log.Warn("games stream timed out after %v", time.Since(start))
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, err
	}

	log.Info("fetched %d games in %v", len(games), time.Since(start))

	return &models.GameBatch{
		Platform:   models.PlatformLichess,
		Username:   username,
		Games:      games,
		TotalFound: len(games),
		Requested:  limit,
		Message:    fmt.Sprintf("Found %d games", len(games)),
	}, nil
}

type ndjsonGame struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	LastMoveAt int64  `json:"lastMoveAt"`
	Moves      string `json:"moves"`
	PGN        string `json:"pgn"`
	Players    struct {
		White ndjsonPlayer `json:"white"`
		Black ndjsonPlayer `json:"black"`
	} `json:"players"`
	Clock struct {
		Initial   int `json:"initial"`
		Increment int `json:"increment"`
	} `json:"clock"`
}

type ndjsonPlayer struct {
	User struct {
		Name string `json:"name"`
	} `json:"user"`
	Rating int `json:"rating"`
}

func (c *Client) decodeGames(r io.Reader) ([]models.NormalizedGame, error) {
	scanner := bufio.NewScanner(r)
	// PGN-in-JSON lines can be large.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	games := []models.NormalizedGame{}
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var g ndjsonGame
		if err := json.Unmarshal(line, &g); err != nil {
			c.log.Debug("skipping malformed NDJSON line: %v", err)
			continue
		}
		games = append(games, c.normalize(g))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (c *Client) normalize(g ndjsonGame) models.NormalizedGame {
	return models.NormalizedGame{
		ID:          g.ID,
		White:       models.PlayerInfo{Username: g.Players.White.User.Name, Rating: g.Players.White.Rating},
		Black:       models.PlayerInfo{Username: g.Players.Black.User.Name, Rating: g.Players.Black.Rating},
		Result:      g.Status,
		TimeControl: fmt.Sprintf("%d+%d", g.Clock.Initial, g.Clock.Increment),
		EndTime:     g.LastMoveAt / 1000, // milliseconds to seconds
		Moves:       g.Moves,
		PGN:         g.PGN,
		URL:         fmt.Sprintf("%s/%s", c.baseURL, g.ID),
	}
}
