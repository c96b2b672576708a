package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quanh171/youtube-analysis/internal/model"
)

type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

var channelColumns = []string{
	"uploads_playlist_id", "channel_name", "subscriber_count",
	"view_count", "video_count", "created_at",
}

// ReplaceAll truncates the channels table and bulk-loads the given rows
// inside the caller's transaction.
func (r *ChannelRepo) ReplaceAll(ctx context.Context, tx pgx.Tx, channels []model.Channel) (int64, error) {
	if _, err := tx.Exec(ctx, `TRUNCATE channels`); err != nil {
		return 0, fmt.Errorf("truncate channels: %w", err)
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"channels"},
		channelColumns,
		pgx.CopyFromSlice(len(channels), func(i int) ([]any, error) {
			ch := channels[i]
			return []any{
				ch.UploadsPlaylistID, ch.ChannelName, ch.SubscriberCount,
				ch.ViewCount, ch.VideoCount, ch.CreatedAt,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy channels: %w", err)
	}
	return n, nil
}

// Rates returns the channel_rates view: per-unit rates and log transforms.
func (r *ChannelRepo) Rates(ctx context.Context) ([]model.ChannelRatesRow, error) {
	query := `
		SELECT uploads_playlist_id, channel_name, subscriber_count, view_count,
		       video_count, views_per_video, channel_age_days, uploads_per_year,
		       log_views::double precision, log_subscribers::double precision
		FROM channel_rates
		ORDER BY channel_name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []model.ChannelRatesRow
	for rows.Next() {
		var c model.ChannelRatesRow
		err := rows.Scan(
			&c.UploadsPlaylistID, &c.ChannelName, &c.SubscriberCount, &c.ViewCount,
			&c.VideoCount, &c.ViewsPerVideo, &c.ChannelAgeDays, &c.UploadsPerYear,
			&c.LogViews, &c.LogSubscribers,
		)
		if err != nil {
			return nil, err
		}
		rates = append(rates, c)
	}
	return rates, rows.Err()
}
