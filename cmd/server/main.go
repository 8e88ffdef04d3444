package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httplog"
	"github.com/rs/zerolog/log"
	"github.com/snnyvrz/locallibrary/internal/config"
	"github.com/snnyvrz/locallibrary/internal/middleware"
	"github.com/snnyvrz/locallibrary/internal/server"
)

const appVersion = "0.1.0"

func main() {
	startTime := time.Now()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := httplog.NewLogger("locallibrary", httplog.Options{
		JSON:    cfg.LogJSON,
		Concise: !cfg.LogJSON,
	})

	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := server.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to close store")
		}
	}()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx, 0)

	router := server.NewRouter(server.RouterOptions{
		Store:     store,
		Driver:    cfg.StoreDriver,
		Logger:    logger,
		Metrics:   middleware.NewMetrics(),
		Limiter:   limiter,
		StartTime: startTime,
		Version:   appVersion,
	})

	if err := server.New(cfg.Addr(), router, logger).Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		return
	}
	logger.Info().Msg("server stopped")
}
