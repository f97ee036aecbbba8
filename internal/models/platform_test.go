package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleroux/chesslab/internal/models"
)

func TestParsePlatform(t *testing.T) {
	cases := map[string]models.Platform{
		"chess.com":   models.PlatformChessCom,
		"Chess.com":   models.PlatformChessCom,
		"CHESS.COM":   models.PlatformChessCom,
		"lichess.org": models.PlatformLichess,
		"Lichess.org": models.PlatformLichess,
	}

	for input, want := range cases {
		got, err := models.ParsePlatform(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}
}

func TestParsePlatform_Unknown(t *testing.T) {
	_, err := models.ParsePlatform("chess24")
	assert.Error(t, err)

	_, err = models.ParsePlatform("")
	assert.Error(t, err)
}

func TestNewLinkedAccount_LowercasesUsername(t *testing.T) {
	acc, err := models.NewLinkedAccount(models.PlatformChessCom, "  MagnusFan  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "magnusfan", acc.Username)
	assert.True(t, acc.Verified)
}

func TestNewLinkedAccount_EmptyUsername(t *testing.T) {
	_, err := models.NewLinkedAccount(models.PlatformChessCom, "   ", nil)
	assert.Error(t, err)
}
