package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quanh171/youtube-analysis/internal/model"
)

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

var videoColumns = []string{
	"video_id", "title", "category", "video_type", "published_at",
	"duration_seconds", "view_count", "like_count", "comment_count",
}

// ReplaceAll truncates the videos table and bulk-loads the given rows inside
// the caller's transaction. Each refresh fully replaces the table, which is
// what makes reloading the same export idempotent.
func (r *VideoRepo) ReplaceAll(ctx context.Context, tx pgx.Tx, videos []model.Video) (int64, error) {
	if _, err := tx.Exec(ctx, `TRUNCATE videos`); err != nil {
		return 0, fmt.Errorf("truncate videos: %w", err)
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"videos"},
		videoColumns,
		pgx.CopyFromSlice(len(videos), func(i int) ([]any, error) {
			v := videos[i]
			return []any{
				v.VideoID, v.Title, v.Category, v.VideoType, v.PublishedAt,
				v.DurationSeconds, v.ViewCount, v.LikeCount, v.CommentCount,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy videos: %w", err)
	}
	return n, nil
}

// All returns every base video row, ordered by publish timestamp so derived
// report builders see a stable order.
func (r *VideoRepo) All(ctx context.Context) ([]model.Video, error) {
	query := `
		SELECT video_id, title, category, video_type, published_at,
		       duration_seconds, view_count, like_count, comment_count
		FROM videos
		ORDER BY published_at ASC NULLS LAST, video_id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []model.Video
	for rows.Next() {
		var v model.Video
		err := rows.Scan(
			&v.VideoID, &v.Title, &v.Category, &v.VideoType, &v.PublishedAt,
			&v.DurationSeconds, &v.ViewCount, &v.LikeCount, &v.CommentCount,
		)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// BaseMetrics returns the video_base_metrics view: per-video metrics with
// engagement rate and calendar fields.
func (r *VideoRepo) BaseMetrics(ctx context.Context) ([]model.VideoMetricsRow, error) {
	query := `
		SELECT video_id, title, category, video_type, published_at,
		       duration_seconds, view_count, like_count, comment_count,
		       engagement_rate, publish_year, publish_month, year_month
		FROM video_base_metrics
		ORDER BY published_at ASC NULLS LAST, video_id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []model.VideoMetricsRow
	for rows.Next() {
		var m model.VideoMetricsRow
		err := rows.Scan(
			&m.VideoID, &m.Title, &m.Category, &m.VideoType, &m.PublishedAt,
			&m.DurationSeconds, &m.ViewCount, &m.LikeCount, &m.CommentCount,
			&m.EngagementRate, &m.PublishYear, &m.PublishMonth, &m.YearMonth,
		)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// Count returns the number of loaded videos (used by the readiness probe).
func (r *VideoRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM videos`).Scan(&n)
	return n, err
}
