package model

import "time"

// Channel represents one row of the channel CSV export. The uploads playlist
// ID is the primary key; one row per channel.
type Channel struct {
	UploadsPlaylistID string     `json:"uploadsPlaylistId"`
	ChannelName       string     `json:"channelName"`
	SubscriberCount   *int64     `json:"subscriberCount,omitempty"`
	ViewCount         *int64     `json:"viewCount,omitempty"`
	VideoCount        *int64     `json:"videoCount,omitempty"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
}

// ChannelRatesRow is one row of the channel_rates view: per-unit rates and
// log transforms derived from the base channel counters.
type ChannelRatesRow struct {
	UploadsPlaylistID string   `json:"uploadsPlaylistId"`
	ChannelName       string   `json:"channelName"`
	SubscriberCount   *int64   `json:"subscriberCount,omitempty"`
	ViewCount         *int64   `json:"viewCount,omitempty"`
	VideoCount        *int64   `json:"videoCount,omitempty"`
	ViewsPerVideo     *float64 `json:"viewsPerVideo,omitempty"`
	ChannelAgeDays    *float64 `json:"channelAgeDays,omitempty"`
	UploadsPerYear    *float64 `json:"uploadsPerYear,omitempty"`
	LogViews          *float64 `json:"logViews,omitempty"`
	LogSubscribers    *float64 `json:"logSubscribers,omitempty"`
}
