package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/quanh171/youtube-analysis/internal/metrics"
	"github.com/quanh171/youtube-analysis/internal/model"
	"github.com/quanh171/youtube-analysis/internal/repository"
	"github.com/quanh171/youtube-analysis/internal/stats"
)

// ReportService serves the named reports the BI dashboard reads. Every
// report is cache-aside through Redis; the loader invalidates the report
// keys after each refresh.
type ReportService struct {
	videos   *repository.VideoRepo
	channels *repository.ChannelRepo
	reports  *repository.ReportRepo
	cache    *CacheService

	topN     int
	minViews int64
}

func NewReportService(
	videos *repository.VideoRepo,
	channels *repository.ChannelRepo,
	reports *repository.ReportRepo,
	cache *CacheService,
	topN int,
	minViews int64,
) *ReportService {
	return &ReportService{
		videos:   videos,
		channels: channels,
		reports:  reports,
		cache:    cache,
		topN:     topN,
		minViews: minViews,
	}
}

// cached wraps a report fetch in Redis cache-aside. Cache failures degrade
// to a direct fetch; they never fail the request.
func cached[T any](ctx context.Context, cache *CacheService, name string, fetch func(context.Context) (T, error)) (T, error) {
	if cache != nil {
		data, err := cache.GetReport(ctx, name)
		if err != nil {
			log.Warn().Err(err).Str("report", name).Msg("cache: report get error")
		} else if data != nil {
			var out T
			if err := json.Unmarshal(data, &out); err == nil {
				if metrics.Metrics.CacheHits != nil {
					metrics.Metrics.CacheHits.Inc()
				}
				return out, nil
			}
		}
		if metrics.Metrics.CacheMisses != nil {
			metrics.Metrics.CacheMisses.Inc()
		}
	}

	out, err := fetch(ctx)
	if err != nil {
		return out, err
	}

	if cache != nil {
		if err := cache.SetReport(ctx, name, out); err != nil {
			log.Warn().Err(err).Str("report", name).Msg("cache: report set error")
		}
	}
	return out, nil
}

// BaseMetrics returns the per-video base metrics report.
func (s *ReportService) BaseMetrics(ctx context.Context) ([]model.VideoMetricsRow, error) {
	return cached(ctx, s.cache, "videos", s.videos.BaseMetrics)
}

// TypeSummaries returns the per-type aggregate report.
func (s *ReportService) TypeSummaries(ctx context.Context) ([]model.TypeSummary, error) {
	return cached(ctx, s.cache, "types", s.reports.TypeSummaries)
}

// CategorySummaries returns the per-category aggregate report.
func (s *ReportService) CategorySummaries(ctx context.Context) ([]model.CategorySummary, error) {
	return cached(ctx, s.cache, "categories", s.reports.CategorySummaries)
}

// MonthlyKPIs returns the monthly KPI series, optionally filtered to one
// year-month key. Filtered lookups bypass the cache (they are cheap and the
// key space is unbounded).
func (s *ReportService) MonthlyKPIs(ctx context.Context, yearMonth string) ([]model.MonthlyKPI, error) {
	if yearMonth != "" {
		return s.reports.MonthlyKPIs(ctx, yearMonth)
	}
	return cached(ctx, s.cache, "monthly", func(ctx context.Context) ([]model.MonthlyKPI, error) {
		return s.reports.MonthlyKPIs(ctx, "")
	})
}

// TopByViews returns the top-N videos by raw view count.
func (s *ReportService) TopByViews(ctx context.Context) ([]model.TopVideo, error) {
	return cached(ctx, s.cache, "top_views", func(ctx context.Context) ([]model.TopVideo, error) {
		return s.reports.TopByViews(ctx, s.topN)
	})
}

// TopByEngagement returns the top-N videos by engagement rate, restricted to
// videos at or above the configured views floor.
func (s *ReportService) TopByEngagement(ctx context.Context) ([]model.TopVideo, error) {
	return cached(ctx, s.cache, "top_engagement", func(ctx context.Context) ([]model.TopVideo, error) {
		return s.reports.TopByEngagement(ctx, s.topN, s.minViews)
	})
}

// ChannelRates returns the per-channel rate and log-transform report.
func (s *ReportService) ChannelRates(ctx context.Context) ([]model.ChannelRatesRow, error) {
	return cached(ctx, s.cache, "channels", s.channels.Rates)
}

// Correlations returns the 5×5 metric correlation matrix in the fixed
// metric order, reassembled from the persisted cells.
func (s *ReportService) Correlations(ctx context.Context) (*model.CorrelationMatrixResponse, error) {
	return cached(ctx, s.cache, "correlations", func(ctx context.Context) (*model.CorrelationMatrixResponse, error) {
		cells, err := s.reports.Correlations(ctx)
		if err != nil {
			return nil, err
		}
		return orderCells(cells)
	})
}

// orderCells arranges persisted correlation cells into row-major order over
// the fixed metric list, so the BI tool sees a stable matrix layout.
func orderCells(cells []model.CorrelationCell) (*model.CorrelationMatrixResponse, error) {
	byPair := make(map[string]model.CorrelationCell, len(cells))
	for _, c := range cells {
		byPair[c.MetricX+"|"+c.MetricY] = c
	}

	ordered := make([]model.CorrelationCell, 0, len(stats.MatrixMetrics)*len(stats.MatrixMetrics))
	for _, x := range stats.MatrixMetrics {
		for _, y := range stats.MatrixMetrics {
			c, ok := byPair[x+"|"+y]
			if !ok {
				return nil, fmt.Errorf("correlation cell missing for pair (%s, %s): rerun the loader", x, y)
			}
			ordered = append(ordered, c)
		}
	}

	return &model.CorrelationMatrixResponse{
		Metrics: stats.MatrixMetrics,
		Cells:   ordered,
	}, nil
}
