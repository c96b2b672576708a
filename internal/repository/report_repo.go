package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quanh171/youtube-analysis/internal/model"
)

// psql builds $n-placeholder queries for the report endpoints whose clauses
// vary at runtime (top-N limit, views floor, month filter).
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// TypeSummaries returns the videos_by_type view.
func (r *ReportRepo) TypeSummaries(ctx context.Context) ([]model.TypeSummary, error) {
	query := `
		SELECT video_type, video_count,
		       avg_views::double precision,
		       avg_duration::double precision,
		       avg_engagement::double precision
		FROM videos_by_type`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.TypeSummary
	for rows.Next() {
		var s model.TypeSummary
		if err := rows.Scan(&s.VideoType, &s.VideoCount, &s.AvgViews, &s.AvgDuration, &s.AvgEngagement); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// CategorySummaries returns the videos_by_category view.
func (r *ReportRepo) CategorySummaries(ctx context.Context) ([]model.CategorySummary, error) {
	query := `
		SELECT category, video_count,
		       avg_views::double precision,
		       avg_duration::double precision,
		       avg_engagement::double precision
		FROM videos_by_category`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.CategorySummary
	for rows.Next() {
		var s model.CategorySummary
		if err := rows.Scan(&s.Category, &s.VideoCount, &s.AvgViews, &s.AvgDuration, &s.AvgEngagement); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// TopByViews returns the top-N videos by raw view count.
func (r *ReportRepo) TopByViews(ctx context.Context, limit int) ([]model.TopVideo, error) {
	query, args, err := psql.
		Select("video_id", "title", "video_type", "view_count", "engagement_rate").
		From("video_base_metrics").
		Where(sq.NotEq{"view_count": nil}).
		OrderBy("view_count DESC", "video_id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top-by-views query: %w", err)
	}
	return r.queryTop(ctx, query, args)
}

// TopByEngagement returns the top-N videos by engagement rate among videos
// with at least minViews views. Rows with undefined engagement (zero or NULL
// views) can never appear here.
func (r *ReportRepo) TopByEngagement(ctx context.Context, limit int, minViews int64) ([]model.TopVideo, error) {
	query, args, err := psql.
		Select("video_id", "title", "video_type", "view_count", "engagement_rate").
		From("video_base_metrics").
		Where(sq.NotEq{"engagement_rate": nil}).
		Where(sq.GtOrEq{"view_count": minViews}).
		OrderBy("engagement_rate DESC", "video_id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top-by-engagement query: %w", err)
	}
	return r.queryTop(ctx, query, args)
}

func (r *ReportRepo) queryTop(ctx context.Context, query string, args []any) ([]model.TopVideo, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []model.TopVideo
	for rows.Next() {
		var t model.TopVideo
		if err := rows.Scan(&t.VideoID, &t.Title, &t.VideoType, &t.ViewCount, &t.EngagementRate); err != nil {
			return nil, err
		}
		t.Rank = len(top) + 1
		top = append(top, t)
	}
	return top, rows.Err()
}

// ReplaceMonthlyKPIs rewrites the monthly_kpis table inside the caller's
// transaction.
func (r *ReportRepo) ReplaceMonthlyKPIs(ctx context.Context, tx pgx.Tx, kpis []model.MonthlyKPI) error {
	if _, err := tx.Exec(ctx, `TRUNCATE monthly_kpis`); err != nil {
		return fmt.Errorf("truncate monthly_kpis: %w", err)
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"monthly_kpis"},
		[]string{"year_month", "year", "month", "video_count", "avg_views", "median_views", "avg_engagement"},
		pgx.CopyFromSlice(len(kpis), func(i int) ([]any, error) {
			k := kpis[i]
			return []any{k.YearMonth, k.Year, k.Month, k.VideoCount, k.AvgViews, k.MedianViews, k.AvgEngagement}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy monthly_kpis: %w", err)
	}
	return nil
}

// MonthlyKPIs returns the monthly KPI series, optionally restricted to one
// year-month key.
func (r *ReportRepo) MonthlyKPIs(ctx context.Context, yearMonth string) ([]model.MonthlyKPI, error) {
	builder := psql.
		Select("year_month", "year", "month", "video_count", "avg_views", "median_views", "avg_engagement").
		From("monthly_kpis").
		OrderBy("year_month ASC")
	if yearMonth != "" {
		builder = builder.Where(sq.Eq{"year_month": yearMonth})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build monthly kpi query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kpis []model.MonthlyKPI
	for rows.Next() {
		var k model.MonthlyKPI
		err := rows.Scan(&k.YearMonth, &k.Year, &k.Month, &k.VideoCount,
			&k.AvgViews, &k.MedianViews, &k.AvgEngagement)
		if err != nil {
			return nil, err
		}
		kpis = append(kpis, k)
	}
	return kpis, rows.Err()
}

// ReplaceCorrelations rewrites the metric_correlations table inside the
// caller's transaction.
func (r *ReportRepo) ReplaceCorrelations(ctx context.Context, tx pgx.Tx, cells []model.CorrelationCell) error {
	if _, err := tx.Exec(ctx, `TRUNCATE metric_correlations`); err != nil {
		return fmt.Errorf("truncate metric_correlations: %w", err)
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"metric_correlations"},
		[]string{"metric_x", "metric_y", "r", "sample_size"},
		pgx.CopyFromSlice(len(cells), func(i int) ([]any, error) {
			c := cells[i]
			return []any{c.MetricX, c.MetricY, c.R, c.SampleSize}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy metric_correlations: %w", err)
	}
	return nil
}

// Correlations returns every cell of the metric correlation table.
func (r *ReportRepo) Correlations(ctx context.Context) ([]model.CorrelationCell, error) {
	query := `
		SELECT metric_x, metric_y, r, sample_size
		FROM metric_correlations
		ORDER BY metric_x ASC, metric_y ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cells []model.CorrelationCell
	for rows.Next() {
		var c model.CorrelationCell
		if err := rows.Scan(&c.MetricX, &c.MetricY, &c.R, &c.SampleSize); err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, rows.Err()
}
