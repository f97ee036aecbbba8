package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aleroux/chesslab/internal/apperrors"
	"github.com/aleroux/chesslab/internal/auth"
	"github.com/aleroux/chesslab/internal/models"
	"github.com/aleroux/chesslab/internal/services"
	"github.com/aleroux/chesslab/internal/testutil/mocks"
)

func newAuthService(repo *mocks.MockUserRepository) (services.AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", 30*time.Minute)
	return services.NewAuthService(repo, tokens, nil, nil), tokens
}

func TestRegister_Success(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	repo.On("GetByUsername", mock.Anything, "alice").Return(nil, nil)
	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, nil)
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "alice" && u.Email == "alice@example.com" && u.ID != "" && u.PasswordHash != "Secret123"
	})).Return(nil)

	svc, tokens := newAuthService(repo)
	result, err := svc.Register(context.Background(), "alice", "Alice@Example.com", "Secret123")
	require.NoError(t, err)

	assert.Equal(t, "bearer", result.TokenType)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "alice", result.User.Username)

	userID, err := tokens.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, userID)
	repo.AssertExpectations(t)
}

func TestRegister_PasswordIsHashed(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	var stored *models.User
	repo.On("GetByUsername", mock.Anything, "alice").Return(nil, nil)
	repo.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	repo.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*models.User)
	}).Return(nil)

	svc, _ := newAuthService(repo)
	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Secret123")))
}

func TestRegister_ValidationFailures(t *testing.T) {
	svc, _ := newAuthService(new(mocks.MockUserRepository))
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"short username", "ab", "a@b.com", "Secret123"},
		{"username with spaces", "a b c", "a@b.com", "Secret123"},
		{"bad email", "alice", "not-an-email", "Secret123"},
		{"short password", "alice", "a@b.com", "Ab1"},
		{"no uppercase", "alice", "a@b.com", "secret123"},
		{"no lowercase", "alice", "a@b.com", "SECRET123"},
		{"letters only", "alice", "a@b.com", "SecretPass"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.email, tc.password)
			assert.Equal(t, apperrors.ErrCodeValidation, appErrCode(t, err))
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	repo.On("GetByUsername", mock.Anything, "alice").Return(testUser(), nil)

	svc, _ := newAuthService(repo)
	_, err := svc.Register(context.Background(), "alice", "other@example.com", "Secret123")
	assert.Equal(t, apperrors.ErrCodeConflict, appErrCode(t, err))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	repo.On("GetByUsername", mock.Anything, "bob").Return(nil, nil)
	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(testUser(), nil)

	svc, _ := newAuthService(repo)
	_, err := svc.Register(context.Background(), "bob", "alice@example.com", "Secret123")
	assert.Equal(t, apperrors.ErrCodeConflict, appErrCode(t, err))
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := testUser()
	user.PasswordHash = string(hash)

	repo := new(mocks.MockUserRepository)
	repo.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

	svc, tokens := newAuthService(repo)
	result, err := svc.Login(context.Background(), "alice", "Secret123")
	require.NoError(t, err)

	userID, err := tokens.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := testUser()
	user.PasswordHash = string(hash)

	repo := new(mocks.MockUserRepository)
	repo.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

	svc, _ := newAuthService(repo)
	_, err = svc.Login(context.Background(), "alice", "WrongPass1")
	assert.Equal(t, apperrors.ErrCodeUnauthorized, appErrCode(t, err))
}

func TestLogin_UnknownUser(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)

	svc, _ := newAuthService(repo)
	_, err := svc.Login(context.Background(), "ghost", "Secret123")
	assert.Equal(t, apperrors.ErrCodeUnauthorized, appErrCode(t, err), "unknown users and wrong passwords are indistinguishable")
}

func TestGetUser_NotFound(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	repo.On("Get", mock.Anything, "missing").Return(nil, nil)

	svc, _ := newAuthService(repo)
	_, err := svc.GetUser(context.Background(), "missing")
	assert.Equal(t, apperrors.ErrCodeNotFound, appErrCode(t, err))
}
