package services

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aleroux/chesslab/internal/apperrors"
	"github.com/aleroux/chesslab/internal/auth"
	"github.com/aleroux/chesslab/internal/logger"
	"github.com/aleroux/chesslab/internal/mailer"
	"github.com/aleroux/chesslab/internal/models"
	"github.com/aleroux/chesslab/internal/repository"
	"github.com/aleroux/chesslab/internal/worker"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// AuthService handles registration, login and token-based user lookup.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// AuthResult carries a freshly issued access token and the user it belongs to.
type AuthResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	mail   mailer.Mailer
	pool   *worker.Pool
}

// NewAuthService creates a new AuthService. The worker pool is used for
// post-registration email delivery and may be nil in tests.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, mail mailer.Mailer, pool *worker.Pool) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		mail:   mail,
		pool:   pool,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	log := logger.FromContext(ctx)

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if !emailPattern.MatchString(email) {
		return nil, apperrors.NewValidationError("email", "must be a valid email address")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if existing, err := s.users.GetByUsername(ctx, username); err != nil {
		return nil, apperrors.NewInternalError(err)
	} else if existing != nil {
		return nil, apperrors.NewConflictError("username already registered")
	}
	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, apperrors.NewInternalError(err)
	} else if existing != nil {
		return nil, apperrors.NewConflictError("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user, err := models.NewUser(uuid.NewString(), username, email, string(hash))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	log.Info("registered user %s (%s)", user.Username, user.ID)

	if s.pool != nil && s.mail != nil {
		s.pool.Submit(&mailer.WelcomeEmailJob{
			Mailer:   s.mail,
			Email:    user.Email,
			Username: user.Username,
		})
	}

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	log := logger.FromContext(ctx)

	username = strings.TrimSpace(username)
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if user == nil {
		return nil, apperrors.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn("failed login attempt for user %s", username)
		return nil, apperrors.NewUnauthorizedError("Invalid credentials")
	}

	log.Info("user %s logged in", user.Username)
	return s.issue(user)
}

func (s *authService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return user, nil
}

func (s *authService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

func validateUsername(username string) error {
	if len(username) < 3 {
		return apperrors.NewValidationError("username", "must be at least 3 characters")
	}
	if !usernamePattern.MatchString(username) {
		return apperrors.NewValidationError("username", "may only contain letters, digits and underscores")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return apperrors.NewValidationError("password", "must be at least 8 characters")
	}
	var hasLower, hasUpper, hasOther bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasOther = true
		}
	}
	if !hasLower || !hasUpper || !hasOther {
		return apperrors.NewValidationError("password", "must contain lowercase, uppercase, and a digit or symbol")
	}
	return nil
}
