package main

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/quanh171/youtube-analysis/internal/config"
	"github.com/quanh171/youtube-analysis/internal/db"
	"github.com/quanh171/youtube-analysis/internal/handler"
	"github.com/quanh171/youtube-analysis/internal/metrics"
	"github.com/quanh171/youtube-analysis/internal/middleware"
	"github.com/quanh171/youtube-analysis/internal/repository"
	"github.com/quanh171/youtube-analysis/internal/router"
	"github.com/quanh171/youtube-analysis/internal/service"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "ytanalytics-api")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	metrics.Init(pool)

	// Reports are views over loader-managed tables; make sure they exist so
	// the API can start before the first refresh.
	if err := repository.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	videoRepo := repository.NewVideoRepo(pool)
	channelRepo := repository.NewChannelRepo(pool)
	reportRepo := repository.NewReportRepo(pool)

	reportSvc := service.NewReportService(videoRepo, channelRepo, reportRepo, cache, cfg.TopN, cfg.MinViewsFloor)

	h := &router.Handlers{
		Report: handler.NewReportHandler(reportSvc),
		Export: handler.NewExportHandler(reportSvc),
		Health: handler.NewHealthHandler(pool, cache.Client(), videoRepo),
	}

	app := fiber.New(fiber.Config{
		AppName:      "YouTube Analytics API",
		ServerHeader: "ytanalytics",
	})

	router.Setup(app, h, cfg.CORSOrigins)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("analytics API starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
