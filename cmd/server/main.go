package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dkrasnov/markethub/backend/internal/config"
	"github.com/dkrasnov/markethub/backend/internal/database"
	"github.com/dkrasnov/markethub/backend/internal/handlers"
	"github.com/dkrasnov/markethub/backend/internal/repositories"
	"github.com/dkrasnov/markethub/backend/internal/router"
	"github.com/dkrasnov/markethub/backend/internal/storage"
	"github.com/dkrasnov/markethub/backend/internal/token"
	"github.com/dkrasnov/markethub/backend/internal/ws"
	"github.com/dkrasnov/markethub/backend/validators"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Env),
	}))
	slog.SetDefault(logger)

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}

	tokens := token.NewService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)

	hub := ws.NewHub()
	go hub.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	uploadRepo := repositories.NewPostgresUploadRepository(db)

	router.SetupMiddleware(e, cfg)
	router.SetupRoutes(e, db, tokens, hub, store, uploadRepo)

	sweeper := storage.NewSweeper(uploadRepo, store, cfg.SweepInterval, cfg.OrphanMaxAge)
	go sweeper.Run(ctx)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func logLevel(env string) slog.Level {
	if env == "production" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}
