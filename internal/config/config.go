package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	JWTSecret        string
	TokenTTLMinutes  int
	ChessComBaseURL  string
	LichessBaseURL   string
	LookbackMonths   int
	DefaultGameLimit int
	MailWorkerCount  int
	MailQueueSize    int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:chesslab.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		JWTSecret:        envOr("JWT_SECRET", "change-me-in-production"),
		TokenTTLMinutes:  envIntOr("TOKEN_TTL_MINUTES", 30),
		ChessComBaseURL:  envOr("CHESSCOM_BASE_URL", "https://api.chess.com"),
		LichessBaseURL:   envOr("LICHESS_BASE_URL", "https://lichess.org"),
		LookbackMonths:   envIntOr("MAX_LOOKBACK_MONTHS", 6),
		DefaultGameLimit: envIntOr("DEFAULT_GAME_LIMIT", 10),
		MailWorkerCount:  envIntOr("MAIL_WORKER_COUNT", 1),
		MailQueueSize:    envIntOr("MAIL_QUEUE_SIZE", 32),
	}
}

// Validate checks configuration values that cannot be defaulted away.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be positive, got %d", c.TokenTTLMinutes)
	}
	if c.LookbackMonths <= 0 || c.LookbackMonths > 24 {
		return fmt.Errorf("MAX_LOOKBACK_MONTHS must be between 1 and 24, got %d", c.LookbackMonths)
	}
	if c.DefaultGameLimit <= 0 {
		return fmt.Errorf("DEFAULT_GAME_LIMIT must be positive, got %d", c.DefaultGameLimit)
	}
	if c.MailWorkerCount <= 0 {
		return fmt.Errorf("MAIL_WORKER_COUNT must be positive, got %d", c.MailWorkerCount)
	}
	if c.MailQueueSize <= 0 {
		return fmt.Errorf("MAIL_QUEUE_SIZE must be positive, got %d", c.MailQueueSize)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
