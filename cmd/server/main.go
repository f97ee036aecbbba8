package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleroux/chesslab/internal/api"
	"github.com/aleroux/chesslab/internal/auth"
	"github.com/aleroux/chesslab/internal/chesscom"
	"github.com/aleroux/chesslab/internal/config"
	"github.com/aleroux/chesslab/internal/db"
	"github.com/aleroux/chesslab/internal/lichess"
	"github.com/aleroux/chesslab/internal/logger"
	"github.com/aleroux/chesslab/internal/mailer"
	"github.com/aleroux/chesslab/internal/repository/sqlite"
	"github.com/aleroux/chesslab/internal/services"
	"github.com/aleroux/chesslab/internal/worker"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Default().Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("ChessLab Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("chesscom_base_url=%s", cfg.ChessComBaseURL)
	log.Debug("lichess_base_url=%s", cfg.LichessBaseURL)
	log.Debug("max_lookback_months=%d", cfg.LookbackMonths)
	log.Debug("default_game_limit=%d", cfg.DefaultGameLimit)
	log.Debug("token_ttl_minutes=%d", cfg.TokenTTLMinutes)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	mailPool := worker.NewPool(cfg.MailWorkerCount, cfg.MailQueueSize)

	userRepo := sqlite.NewUserRepository(database.DB)
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	chessClient := chesscom.New(cfg.ChessComBaseURL)
	chessFetcher := chesscom.NewFetcher(chessClient, cfg.LookbackMonths)
	lichessClient := lichess.New(cfg.LichessBaseURL)

	authService := services.NewAuthService(userRepo, tokens, mailer.NewConsoleMailer("noreply@chesslab.local"), mailPool)
	accountService := services.NewAccountService(userRepo, chessClient, chessFetcher, lichessClient)

	srv := &api.Server{
		Auth:             authService,
		Accounts:         accountService,
		Tokens:           tokens,
		DefaultGameLimit: cfg.DefaultGameLimit,
	}

	ctx, cancel := context.WithCancel(context.Background())
	mailPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker context")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping mail pool")
	mailPool.Stop()

	log.Info("===========================================")
	log.Info("ChessLab Server Stopped")
	log.Info("===========================================")
}
