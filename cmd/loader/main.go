package main

import (
	"context"
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/quanh171/youtube-analysis/internal/config"
	"github.com/quanh171/youtube-analysis/internal/db"
	"github.com/quanh171/youtube-analysis/internal/ingest"
	"github.com/quanh171/youtube-analysis/internal/metrics"
	"github.com/quanh171/youtube-analysis/internal/middleware"
	"github.com/quanh171/youtube-analysis/internal/repository"
	"github.com/quanh171/youtube-analysis/internal/service"
)

// The loader runs one full refresh and exits: parse both CSV exports,
// replace the base tables, rebuild the derived report tables. A non-zero
// exit means nothing was committed — rerun after fixing the input.
func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "ytanalytics-loader")

	videosPath := flag.String("videos", cfg.VideosCSV, "path to the video CSV export")
	channelsPath := flag.String("channels", cfg.ChannelsCSV, "path to the channel CSV export")
	flag.Parse()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	metrics.Init(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	refresh := service.NewRefreshService(
		pool,
		ingest.NewParser(cfg.Timezone),
		repository.NewVideoRepo(pool),
		repository.NewChannelRepo(pool),
		repository.NewReportRepo(pool),
		cache,
	)

	summary, err := refresh.Run(ctx, *videosPath, *channelsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("refresh failed")
	}

	log.Info().
		Int64("videos", summary.VideosLoaded).
		Int64("channels", summary.ChannelsLoaded).
		Int64("duration_ms", summary.DurationMs).
		Msg("refresh done")
}
