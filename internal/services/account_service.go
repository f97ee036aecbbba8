package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aleroux/chesslab/internal/apperrors"
	"github.com/aleroux/chesslab/internal/chesscom"
	"github.com/aleroux/chesslab/internal/lichess"
	"github.com/aleroux/chesslab/internal/logger"
	"github.com/aleroux/chesslab/internal/models"
	"github.com/aleroux/chesslab/internal/repository"
)

// AccountService coordinates external chess-platform accounts: it verifies a
// platform username exists, persists the link on the user record, and routes
// game-fetch requests to the fetcher for the linked platform.
type AccountService interface {
	LinkAccount(ctx context.Context, userID, platform, username string) (*LinkResult, error)
	UnlinkAccount(ctx context.Context, userID, platform string) error
	FetchLinkedGames(ctx context.Context, userID, platform string, limit int) (*models.GameBatch, error)
}

// LinkResult reports a successful account link.
type LinkResult struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	AccountInfo json.RawMessage `json:"account_info,omitempty"`
}

// ChessComFetcher abstracts the monthly-windowed Chess.com game fetch.
type ChessComFetcher interface {
	FetchGames(ctx context.Context, username string, limit int) (*models.GameBatch, error)
}

type accountService struct {
	users        repository.UserRepository
	chessCom     chesscom.ClientInterface
	chessFetcher ChessComFetcher
	lichess      lichess.ClientInterface
	locks        userLocks
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	users repository.UserRepository,
	chessCom chesscom.ClientInterface,
	chessFetcher ChessComFetcher,
	lichessClient lichess.ClientInterface,
) AccountService {
	return &accountService{
		users:        users,
		chessCom:     chessCom,
		chessFetcher: chessFetcher,
		lichess:      lichessClient,
	}
}

// userLocks serializes mutations per user id. The linked-accounts update is
// read-modify-write on a shared record, so concurrent calls for the same user
// must not interleave; different users never contend.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *userLocks) forUser(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = map[string]*sync.Mutex{}
	}
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

func (s *accountService) LinkAccount(ctx context.Context, userID, platformName, username string) (*LinkResult, error) {
	log := logger.FromContext(ctx)

	platform, err := models.ParsePlatform(platformName)
	if err != nil {
		return nil, apperrors.NewValidationError("platform", "must be chess.com or lichess.org")
	}
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperrors.NewValidationError("username", "cannot be empty")
	}

	log.Debug("verifying %s account: %s", platform, username)
	rawProfile, err := s.verifyAccount(ctx, platform, username)
	if err != nil {
		return nil, err
	}

	lock := s.locks.forUser(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	account, err := models.NewLinkedAccount(platform, username, rawProfile)
	if err != nil {
		return nil, apperrors.NewValidationError("username", err.Error())
	}
	if user.Accounts == nil {
		user.Accounts = map[models.Platform]models.LinkedAccount{}
	}
	user.Accounts[platform] = account

	s.persist(ctx, user)

	log.Info("linked %s account %s for user %s", platform, username, userID)
	return &LinkResult{
		Success:     true,
		Message:     fmt.Sprintf("Successfully linked %s account: %s", platform, username),
		AccountInfo: rawProfile,
	}, nil
}

func (s *accountService) UnlinkAccount(ctx context.Context, userID, platformName string) error {
	log := logger.FromContext(ctx)

	platform, err := models.ParsePlatform(platformName)
	if err != nil {
		return apperrors.NewValidationError("platform", "must be chess.com or lichess.org")
	}

	lock := s.locks.forUser(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if _, ok := user.Accounts[platform]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("no %s account linked", platform))
	}
	delete(user.Accounts, platform)

	s.persist(ctx, user)

	log.Info("unlinked %s account for user %s", platform, userID)
	return nil
}

func (s *accountService) FetchLinkedGames(ctx context.Context, userID, platformName string, limit int) (*models.GameBatch, error) {
	log := logger.FromContext(ctx)

	platform, err := models.ParsePlatform(platformName)
	if err != nil {
		return nil, apperrors.NewValidationError("platform", "must be chess.com or lichess.org")
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	account, ok := user.Accounts[platform]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no %s account linked", platform))
	}

	log.Debug("fetching %d games from %s for %s", limit, platform, account.Username)

	switch platform {
	case models.PlatformChessCom:
		batch, err := s.chessFetcher.FetchGames(ctx, account.Username, limit)
		if err != nil {
			return nil, apperrors.NewUpstreamError("failed to fetch games from chess.com", 0, err)
		}
		return batch, nil
	case models.PlatformLichess:
		batch, err := s.lichess.FetchGames(ctx, account.Username, limit)
		if err != nil {
			return nil, mapLichessError(err)
		}
		return batch, nil
	default:
		return nil, apperrors.NewValidationError("platform", "must be chess.com or lichess.org")
	}
}

func (s *accountService) verifyAccount(ctx context.Context, platform models.Platform, username string) (json.RawMessage, error) {
	var (
		raw json.RawMessage
		err error
	)
	switch platform {
	case models.PlatformChessCom:
		raw, err = s.chessCom.FetchProfile(ctx, username)
		if errors.Is(err, chesscom.ErrProfileNotFound) {
			return nil, apperrors.NewNotFoundError("Chess.com account not found")
		}
	case models.PlatformLichess:
		raw, err = s.lichess.FetchProfile(ctx, username)
		if errors.Is(err, lichess.ErrProfileNotFound) {
			return nil, apperrors.NewNotFoundError("Lichess account not found")
		}
	}
	if err != nil {
		return nil, apperrors.NewUpstreamError("failed to verify chess account", 0, err)
	}
	return raw, nil
}

func (s *accountService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return user, nil
}

// persist durably saves the mutated record as the final step of a mutating
// operation. A write failure is logged but does not roll back the in-memory
// mutation: the caller still sees the state it asked for.
func (s *accountService) persist(ctx context.Context, user *models.User) {
	if err := s.users.Update(ctx, user); err != nil {
		logger.FromContext(ctx).Error("failed to persist user record %s: %v", user.ID, err)
	}
}

func mapLichessError(err error) error {
	if errors.Is(err, lichess.ErrTimeout) {
		return apperrors.NewUpstreamTimeoutError("timeout fetching games from Lichess", err)
	}
	var statusErr *lichess.StatusError
	if errors.As(err, &statusErr) {
		return apperrors.NewUpstreamError("Lichess API error", statusErr.Status, err)
	}
	return apperrors.NewUpstreamError("failed to fetch games from Lichess", 0, err)
}
