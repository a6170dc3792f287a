package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"grocery-manager/internal/config"
	"grocery-manager/internal/database"
	"grocery-manager/internal/middleware"
	"grocery-manager/internal/repositories"
	"grocery-manager/internal/server"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	go limiter.Run(ctx)

	router := server.NewRouter(cfg, server.Dependencies{
		DB:          db,
		ItemRepo:    repositories.NewItemRepository(db.DB),
		TitleRepo:   repositories.NewTitleRepository(db.DB),
		RateLimiter: limiter,
		Gatherer:    prometheus.DefaultGatherer,
	})

	if err := server.New(router, &cfg.Server, logger).Run(ctx); err != nil {
		logger.Error("list backend stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
