package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/quanh171/youtube-analysis/internal/ingest"
	"github.com/quanh171/youtube-analysis/internal/metrics"
	"github.com/quanh171/youtube-analysis/internal/model"
	"github.com/quanh171/youtube-analysis/internal/repository"
	"github.com/quanh171/youtube-analysis/internal/stats"
)

// RefreshService runs one full data refresh: parse both CSV exports, replace
// the base tables in a single transaction, and rebuild the derived report
// tables. A refresh either fully commits or leaves the previous data intact.
type RefreshService struct {
	pool     *pgxpool.Pool
	parser   *ingest.Parser
	videos   *repository.VideoRepo
	channels *repository.ChannelRepo
	reports  *repository.ReportRepo
	cache    *CacheService
}

func NewRefreshService(
	pool *pgxpool.Pool,
	parser *ingest.Parser,
	videos *repository.VideoRepo,
	channels *repository.ChannelRepo,
	reports *repository.ReportRepo,
	cache *CacheService,
) *RefreshService {
	return &RefreshService{
		pool:     pool,
		parser:   parser,
		videos:   videos,
		channels: channels,
		reports:  reports,
		cache:    cache,
	}
}

// Run executes the whole refresh against the given CSV paths.
func (s *RefreshService) Run(ctx context.Context, videosPath, channelsPath string) (*model.RefreshSummary, error) {
	start := time.Now()

	if err := repository.EnsureSchema(ctx, s.pool); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	videos, err := s.parser.ParseVideosFile(videosPath)
	if err != nil {
		return nil, fmt.Errorf("parse videos: %w", err)
	}
	channels, err := s.parser.ParseChannelsFile(channelsPath)
	if err != nil {
		return nil, fmt.Errorf("parse channels: %w", err)
	}
	log.Info().Int("videos", len(videos)).Int("channels", len(channels)).Msg("csv exports parsed")

	kpis := BuildMonthlyKPIs(videos)
	cells := BuildCorrelationCells(videos)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin refresh tx: %w", err)
	}
	defer tx.Rollback(ctx)

	nVideos, err := s.videos.ReplaceAll(ctx, tx, videos)
	if err != nil {
		return nil, err
	}
	nChannels, err := s.channels.ReplaceAll(ctx, tx, channels)
	if err != nil {
		return nil, err
	}
	if err := s.reports.ReplaceMonthlyKPIs(ctx, tx, kpis); err != nil {
		return nil, err
	}
	if err := s.reports.ReplaceCorrelations(ctx, tx, cells); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit refresh tx: %w", err)
	}

	if metrics.Metrics.RowsLoaded != nil {
		metrics.Metrics.RowsLoaded.WithLabelValues("videos").Add(float64(nVideos))
		metrics.Metrics.RowsLoaded.WithLabelValues("channels").Add(float64(nChannels))
	}
	if metrics.Metrics.RefreshDuration != nil {
		metrics.Metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	}

	if err := s.cache.InvalidateReports(ctx); err != nil {
		log.Warn().Err(err).Msg("cache: report invalidation failed after refresh")
	}

	summary := &model.RefreshSummary{
		VideosLoaded:   nVideos,
		ChannelsLoaded: nChannels,
		MonthlyRows:    int64(len(kpis)),
		StartedAt:      start.UTC().Format(time.RFC3339),
		DurationMs:     time.Since(start).Milliseconds(),
	}

	log.Info().
		Int64("videos", summary.VideosLoaded).
		Int64("channels", summary.ChannelsLoaded).
		Int64("monthly_rows", summary.MonthlyRows).
		Int64("duration_ms", summary.DurationMs).
		Msg("refresh complete")

	return summary, nil
}

// BuildMonthlyKPIs groups videos by year-month of their publish timestamp
// and computes the per-month KPI row: video count, mean and median views,
// mean engagement. Videos without a publish timestamp belong to no month.
func BuildMonthlyKPIs(videos []model.Video) []model.MonthlyKPI {
	type group struct {
		year, month int
		count       int64
		views       []float64
		engagement  []float64
	}

	groups := make(map[string]*group)
	for i := range videos {
		v := &videos[i]
		ym := v.YearMonth()
		if ym == nil {
			continue
		}

		g, ok := groups[*ym]
		if !ok {
			g = &group{year: *v.PublishYear(), month: *v.PublishMonth()}
			groups[*ym] = g
		}
		g.count++
		if v.ViewCount != nil {
			g.views = append(g.views, float64(*v.ViewCount))
		}
		if rate := stats.EngagementRate(v.ViewCount, v.LikeCount, v.CommentCount); rate != nil {
			g.engagement = append(g.engagement, *rate)
		}
	}

	kpis := make([]model.MonthlyKPI, 0, len(groups))
	for ym, g := range groups {
		kpis = append(kpis, model.MonthlyKPI{
			YearMonth:     ym,
			Year:          g.year,
			Month:         g.month,
			VideoCount:    g.count,
			AvgViews:      stats.Mean(g.views),
			MedianViews:   stats.Median(g.views),
			AvgEngagement: stats.Mean(g.engagement),
		})
	}

	sort.Slice(kpis, func(i, j int) bool { return kpis[i].YearMonth < kpis[j].YearMonth })
	return kpis
}

// BuildCorrelationCells computes the full pairwise correlation matrix over
// the five analysis metrics and flattens it to persistable cells. Engagement
// is computed per row with the same guard clauses the rate report uses, so a
// zero-view video contributes no engagement observation to any pair.
func BuildCorrelationCells(videos []model.Video) []model.CorrelationCell {
	n := len(videos)
	series := []stats.MetricSeries{
		{Name: "views", Values: make([]*float64, n)},
		{Name: "likes", Values: make([]*float64, n)},
		{Name: "comments", Values: make([]*float64, n)},
		{Name: "duration_seconds", Values: make([]*float64, n)},
		{Name: "engagement_rate", Values: make([]*float64, n)},
	}

	for i := range videos {
		v := &videos[i]
		series[0].Values[i] = intToFloat(v.ViewCount)
		series[1].Values[i] = intToFloat(v.LikeCount)
		series[2].Values[i] = intToFloat(v.CommentCount)
		series[3].Values[i] = intToFloat(v.DurationSeconds)
		series[4].Values[i] = stats.EngagementRate(v.ViewCount, v.LikeCount, v.CommentCount)
	}

	matrix := stats.CorrelationMatrix(series)

	cells := make([]model.CorrelationCell, 0, len(series)*len(series))
	for i := range series {
		for j := range series {
			cells = append(cells, model.CorrelationCell{
				MetricX:    series[i].Name,
				MetricY:    series[j].Name,
				R:          matrix[i][j].R,
				SampleSize: matrix[i][j].N,
			})
		}
	}
	return cells
}

func intToFloat(v *int64) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
