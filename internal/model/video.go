package model

import (
	"fmt"
	"time"
)

// Video type values as normalized from the CSV export.
const (
	VideoTypeShort    = "short"
	VideoTypeStandard = "standard"
	VideoTypeLive     = "live"
	VideoTypeUpcoming = "upcoming"
)

// Video represents one row of the video CSV export. Numeric and timestamp
// fields are pointers because blank CSV fields load as SQL NULL.
type Video struct {
	VideoID         string     `json:"videoId"`
	Title           string     `json:"title"`
	Category        *string    `json:"category,omitempty"`
	VideoType       string     `json:"videoType"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	DurationSeconds *int64     `json:"durationSeconds,omitempty"`
	ViewCount       *int64     `json:"viewCount,omitempty"`
	LikeCount       *int64     `json:"likeCount,omitempty"`
	CommentCount    *int64     `json:"commentCount,omitempty"`
}

// PublishYear returns the calendar year of the publish timestamp, or nil
// when the video has no publish timestamp. Calendar fields are derived on
// demand so they can never drift from PublishedAt.
func (v *Video) PublishYear() *int {
	if v.PublishedAt == nil {
		return nil
	}
	y := v.PublishedAt.Year()
	return &y
}

// PublishMonth returns the calendar month (1-12), or nil without a timestamp.
func (v *Video) PublishMonth() *int {
	if v.PublishedAt == nil {
		return nil
	}
	m := int(v.PublishedAt.Month())
	return &m
}

// YearMonth returns the "YYYY-MM" grouping key, or nil without a timestamp.
func (v *Video) YearMonth() *string {
	if v.PublishedAt == nil {
		return nil
	}
	ym := fmt.Sprintf("%04d-%02d", v.PublishedAt.Year(), int(v.PublishedAt.Month()))
	return &ym
}

// VideoMetricsRow is one row of the video_base_metrics view.
type VideoMetricsRow struct {
	VideoID         string     `json:"videoId"`
	Title           string     `json:"title"`
	Category        *string    `json:"category,omitempty"`
	VideoType       string     `json:"videoType"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	DurationSeconds *int64     `json:"durationSeconds,omitempty"`
	ViewCount       *int64     `json:"viewCount,omitempty"`
	LikeCount       *int64     `json:"likeCount,omitempty"`
	CommentCount    *int64     `json:"commentCount,omitempty"`
	EngagementRate  *float64   `json:"engagementRate,omitempty"`
	PublishYear     *int       `json:"publishYear,omitempty"`
	PublishMonth    *int       `json:"publishMonth,omitempty"`
	YearMonth       *string    `json:"yearMonth,omitempty"`
}
