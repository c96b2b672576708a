package model

// TypeSummary aggregates video metrics for one video type.
type TypeSummary struct {
	VideoType     string   `json:"videoType"`
	VideoCount    int64    `json:"videoCount"`
	AvgViews      *float64 `json:"avgViews,omitempty"`
	AvgDuration   *float64 `json:"avgDuration,omitempty"`
	AvgEngagement *float64 `json:"avgEngagement,omitempty"`
}

// CategorySummary aggregates video metrics for one category.
type CategorySummary struct {
	Category      string   `json:"category"`
	VideoCount    int64    `json:"videoCount"`
	AvgViews      *float64 `json:"avgViews,omitempty"`
	AvgDuration   *float64 `json:"avgDuration,omitempty"`
	AvgEngagement *float64 `json:"avgEngagement,omitempty"`
}

// MonthlyKPI is one row of the monthly_kpis table: the per-month time series
// of mean/median views and mean engagement.
type MonthlyKPI struct {
	YearMonth     string   `json:"yearMonth"`
	Year          int      `json:"year"`
	Month         int      `json:"month"`
	VideoCount    int64    `json:"videoCount"`
	AvgViews      *float64 `json:"avgViews,omitempty"`
	MedianViews   *float64 `json:"medianViews,omitempty"`
	AvgEngagement *float64 `json:"avgEngagement,omitempty"`
}

// TopVideo is one entry of a ranked top-N list.
type TopVideo struct {
	Rank           int      `json:"rank"`
	VideoID        string   `json:"videoId"`
	Title          string   `json:"title"`
	VideoType      string   `json:"videoType"`
	ViewCount      *int64   `json:"viewCount,omitempty"`
	EngagementRate *float64 `json:"engagementRate,omitempty"`
}

// CorrelationCell is one cell of the metric correlation matrix. R is nil when
// the pair had fewer than two complete observations or zero variance.
type CorrelationCell struct {
	MetricX    string   `json:"metricX"`
	MetricY    string   `json:"metricY"`
	R          *float64 `json:"r"`
	SampleSize int64    `json:"sampleSize"`
}

// CorrelationMatrixResponse is the correlation report: the fixed metric order
// plus the full symmetric matrix in row-major cell form.
type CorrelationMatrixResponse struct {
	Metrics []string          `json:"metrics"`
	Cells   []CorrelationCell `json:"cells"`
}

// RefreshSummary reports what one loader run did.
type RefreshSummary struct {
	VideosLoaded   int64  `json:"videosLoaded"`
	ChannelsLoaded int64  `json:"channelsLoaded"`
	MonthlyRows    int64  `json:"monthlyRows"`
	StartedAt      string `json:"startedAt"`
	DurationMs     int64  `json:"durationMs"`
}
