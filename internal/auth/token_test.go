package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleroux/chesslab/internal/auth"
)

func TestIssueAndVerify(t *testing.T) {
	m := auth.NewTokenManager("secret", 30*time.Minute)

	token, err := m.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerify_ExpiredToken(t *testing.T) {
	m := auth.NewTokenManager("secret", -time.Minute)

	token, err := m.Issue("user-123")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-a", 30*time.Minute)
	verifier := auth.NewTokenManager("secret-b", 30*time.Minute)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	m := auth.NewTokenManager("secret", 30*time.Minute)
	_, err := m.Verify("not.a.token")
	assert.Error(t, err)
}
