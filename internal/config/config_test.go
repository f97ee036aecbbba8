package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aleroux/chesslab/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:             ":8080",
		DBPath:           "test.db",
		LogLevel:         "INFO",
		JWTSecret:        "secret",
		TokenTTLMinutes:  30,
		ChessComBaseURL:  "https://api.chess.com",
		LichessBaseURL:   "https://lichess.org",
		LookbackMonths:   6,
		DefaultGameLimit: 10,
		MailWorkerCount:  1,
		MailQueueSize:    32,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET cannot be empty")
}

func TestValidate_LookbackMonthsRange(t *testing.T) {
	cfg := validConfig()

	cfg.LookbackMonths = 0
	assert.Error(t, cfg.Validate())

	cfg.LookbackMonths = 25
	assert.Error(t, cfg.Validate())

	cfg.LookbackMonths = 24
	assert.NoError(t, cfg.Validate())
}

func TestValidate_NonPositiveTokenTTL(t *testing.T) {
	cfg := validConfig()
	cfg.TokenTTLMinutes = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_TTL_MINUTES must be positive")
}

func TestValidate_NonPositiveGameLimit(t *testing.T) {
	cfg := validConfig()
	cfg.DefaultGameLimit = -1

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_GAME_LIMIT must be positive")
}
