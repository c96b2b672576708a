package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Base and derived report tables. Blank CSV fields load as NULL; the CHECK
// constraints encode the non-negative counter invariant.
var createTables = []string{
	`CREATE TABLE IF NOT EXISTS videos (
		video_id         TEXT PRIMARY KEY,
		title            TEXT NOT NULL DEFAULT '',
		category         TEXT,
		video_type       TEXT NOT NULL DEFAULT 'standard',
		published_at     TIMESTAMPTZ,
		duration_seconds BIGINT,
		view_count       BIGINT CHECK (view_count >= 0),
		like_count       BIGINT CHECK (like_count >= 0),
		comment_count    BIGINT CHECK (comment_count >= 0)
	)`,

	`CREATE TABLE IF NOT EXISTS channels (
		uploads_playlist_id TEXT PRIMARY KEY,
		channel_name        TEXT NOT NULL DEFAULT '',
		subscriber_count    BIGINT CHECK (subscriber_count >= 0),
		view_count          BIGINT CHECK (view_count >= 0),
		video_count         BIGINT CHECK (video_count >= 0),
		created_at          TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS monthly_kpis (
		year_month     TEXT PRIMARY KEY,
		year           INT NOT NULL,
		month          INT NOT NULL,
		video_count    BIGINT NOT NULL,
		avg_views      DOUBLE PRECISION,
		median_views   DOUBLE PRECISION,
		avg_engagement DOUBLE PRECISION
	)`,

	`CREATE TABLE IF NOT EXISTS metric_correlations (
		metric_x    TEXT NOT NULL,
		metric_y    TEXT NOT NULL,
		r           DOUBLE PRECISION,
		sample_size BIGINT NOT NULL,
		PRIMARY KEY (metric_x, metric_y)
	)`,
}

// Read-only views consumed by the BI tool. The engagement rate guards both
// NULL and zero views through NULLIF, matching stats.EngagementRate.
var createViews = []string{
	`CREATE OR REPLACE VIEW video_base_metrics AS
	SELECT
		video_id,
		title,
		category,
		video_type,
		published_at,
		duration_seconds,
		view_count,
		like_count,
		comment_count,
		(COALESCE(like_count, 0) + COALESCE(comment_count, 0))::double precision
			/ NULLIF(view_count, 0) AS engagement_rate,
		EXTRACT(YEAR FROM published_at)::int  AS publish_year,
		EXTRACT(MONTH FROM published_at)::int AS publish_month,
		to_char(published_at, 'YYYY-MM')      AS year_month
	FROM videos`,

	`CREATE OR REPLACE VIEW videos_by_type AS
	SELECT
		video_type,
		COUNT(*)              AS video_count,
		AVG(view_count)       AS avg_views,
		AVG(duration_seconds) AS avg_duration,
		AVG(engagement_rate)  AS avg_engagement
	FROM video_base_metrics
	GROUP BY video_type
	ORDER BY video_count DESC`,

	`CREATE OR REPLACE VIEW videos_by_category AS
	SELECT
		COALESCE(category, 'uncategorized') AS category,
		COUNT(*)              AS video_count,
		AVG(view_count)       AS avg_views,
		AVG(duration_seconds) AS avg_duration,
		AVG(engagement_rate)  AS avg_engagement
	FROM video_base_metrics
	GROUP BY COALESCE(category, 'uncategorized')
	ORDER BY video_count DESC`,

	`CREATE OR REPLACE VIEW top_videos_by_views AS
	SELECT video_id, title, video_type, view_count, engagement_rate
	FROM video_base_metrics
	WHERE view_count IS NOT NULL
	ORDER BY view_count DESC
	LIMIT 15`,

	`CREATE OR REPLACE VIEW top_videos_by_engagement AS
	SELECT video_id, title, video_type, view_count, engagement_rate
	FROM video_base_metrics
	WHERE engagement_rate IS NOT NULL
	  AND view_count >= 1000
	ORDER BY engagement_rate DESC
	LIMIT 15`,

	`CREATE OR REPLACE VIEW channel_rates AS
	SELECT
		uploads_playlist_id,
		channel_name,
		subscriber_count,
		view_count,
		video_count,
		view_count::double precision / NULLIF(video_count, 0) AS views_per_video,
		EXTRACT(EPOCH FROM (now() - created_at)) / 86400.0    AS channel_age_days,
		video_count::double precision
			/ NULLIF(EXTRACT(EPOCH FROM (now() - created_at)) / 86400.0 / 365.25, 0) AS uploads_per_year,
		CASE WHEN view_count > 0 THEN LOG(view_count::numeric) END             AS log_views,
		CASE WHEN subscriber_count > 0 THEN LOG(subscriber_count::numeric) END AS log_subscribers
	FROM channels`,
}

// EnsureSchema creates the base tables, derived report tables, and BI views.
// Safe to run on every refresh. Statements run one at a time — pgx's
// extended protocol rejects multi-statement strings.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range createTables {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	for _, stmt := range createViews {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create view: %w", err)
		}
	}
	return nil
}
