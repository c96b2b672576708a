package service

import (
	"math"
	"testing"
	"time"

	"github.com/quanh171/youtube-analysis/internal/model"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func count(v int64) *int64 { return &v }

func publishedAt(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func TestBuildMonthlyKPIs_GroupingAndMedian(t *testing.T) {
	videos := []model.Video{
		{VideoID: "a", PublishedAt: publishedAt(2024, time.March, 1), ViewCount: count(100)},
		{VideoID: "b", PublishedAt: publishedAt(2024, time.March, 10), ViewCount: count(300)},
		{VideoID: "c", PublishedAt: publishedAt(2024, time.March, 20), ViewCount: count(200)},
		{VideoID: "d", PublishedAt: publishedAt(2024, time.April, 2), ViewCount: count(1000)},
		{VideoID: "e", PublishedAt: publishedAt(2024, time.April, 3), ViewCount: count(3000)},
	}

	kpis := BuildMonthlyKPIs(videos)
	if len(kpis) != 2 {
		t.Fatalf("got %d months, want 2", len(kpis))
	}

	march := kpis[0]
	if march.YearMonth != "2024-03" || march.Year != 2024 || march.Month != 3 {
		t.Errorf("first month = %+v, want 2024-03", march)
	}
	if march.VideoCount != 3 {
		t.Errorf("march count = %d, want 3", march.VideoCount)
	}
	// Odd count: median is the middle element after sorting
	if march.MedianViews == nil || *march.MedianViews != 200 {
		t.Errorf("march median = %v, want 200", march.MedianViews)
	}
	if march.AvgViews == nil || *march.AvgViews != 200 {
		t.Errorf("march mean = %v, want 200", march.AvgViews)
	}

	april := kpis[1]
	// Even count: median averages the two middle elements
	if april.MedianViews == nil || *april.MedianViews != 2000 {
		t.Errorf("april median = %v, want 2000", april.MedianViews)
	}
}

func TestBuildMonthlyKPIs_NullTimestampExcluded(t *testing.T) {
	videos := []model.Video{
		{VideoID: "a", PublishedAt: publishedAt(2024, time.May, 1), ViewCount: count(10)},
		{VideoID: "nodate", PublishedAt: nil, ViewCount: count(999999)},
	}

	kpis := BuildMonthlyKPIs(videos)
	if len(kpis) != 1 {
		t.Fatalf("got %d months, want 1 (null timestamps belong to no month)", len(kpis))
	}
	if kpis[0].VideoCount != 1 {
		t.Errorf("count = %d, want 1", kpis[0].VideoCount)
	}
}

func TestBuildMonthlyKPIs_NullViewsExcludedFromStats(t *testing.T) {
	videos := []model.Video{
		{VideoID: "a", PublishedAt: publishedAt(2024, time.June, 1), ViewCount: count(100)},
		{VideoID: "b", PublishedAt: publishedAt(2024, time.June, 2)}, // views NULL
	}

	kpis := BuildMonthlyKPIs(videos)
	k := kpis[0]
	// The row still counts toward the month, but contributes no view stats
	if k.VideoCount != 2 {
		t.Errorf("count = %d, want 2", k.VideoCount)
	}
	if k.AvgViews == nil || *k.AvgViews != 100 {
		t.Errorf("mean = %v, want 100", k.AvgViews)
	}
	if k.MedianViews == nil || *k.MedianViews != 100 {
		t.Errorf("median = %v, want 100", k.MedianViews)
	}
}

func TestBuildMonthlyKPIs_EngagementExcludesZeroViews(t *testing.T) {
	videos := []model.Video{
		{VideoID: "a", PublishedAt: publishedAt(2024, time.July, 1),
			ViewCount: count(1000), LikeCount: count(50), CommentCount: count(10)},
		{VideoID: "dead", PublishedAt: publishedAt(2024, time.July, 2),
			ViewCount: count(0), LikeCount: count(0), CommentCount: count(0)},
	}

	kpis := BuildMonthlyKPIs(videos)
	k := kpis[0]
	// Zero-view video has undefined engagement: mean covers the one defined rate
	if k.AvgEngagement == nil || !almostEqual(*k.AvgEngagement, 0.06, 1e-12) {
		t.Errorf("avg engagement = %v, want 0.06", k.AvgEngagement)
	}
}

func TestBuildMonthlyKPIs_Empty(t *testing.T) {
	kpis := BuildMonthlyKPIs(nil)
	if len(kpis) != 0 {
		t.Errorf("got %d months for no videos, want 0", len(kpis))
	}
}

func TestBuildCorrelationCells_FullSymmetricMatrix(t *testing.T) {
	videos := []model.Video{
		{VideoID: "a", ViewCount: count(100), LikeCount: count(10), CommentCount: count(1), DurationSeconds: count(60)},
		{VideoID: "b", ViewCount: count(200), LikeCount: count(25), CommentCount: count(2), DurationSeconds: count(120)},
		{VideoID: "c", ViewCount: count(300), LikeCount: count(28), CommentCount: count(3), DurationSeconds: count(180)},
	}

	cells := BuildCorrelationCells(videos)
	if len(cells) != 25 {
		t.Fatalf("got %d cells, want 25 (5x5)", len(cells))
	}

	byPair := make(map[[2]string]model.CorrelationCell)
	for _, c := range cells {
		byPair[[2]string{c.MetricX, c.MetricY}] = c
	}

	metricNames := []string{"views", "likes", "comments", "duration_seconds", "engagement_rate"}
	for _, x := range metricNames {
		diag := byPair[[2]string{x, x}]
		if diag.R == nil || *diag.R != 1.0 {
			t.Errorf("r(%s,%s) = %v, want exactly 1.0", x, x, diag.R)
		}
		for _, y := range metricNames {
			a := byPair[[2]string{x, y}]
			b := byPair[[2]string{y, x}]
			if (a.R == nil) != (b.R == nil) {
				t.Fatalf("definedness asymmetric for (%s,%s)", x, y)
			}
			if a.R != nil && *a.R != *b.R {
				t.Errorf("r(%s,%s)=%v but r(%s,%s)=%v, want identical", x, y, *a.R, y, x, *b.R)
			}
			if a.SampleSize != b.SampleSize {
				t.Errorf("sample size asymmetric for (%s,%s): %d vs %d", x, y, a.SampleSize, b.SampleSize)
			}
		}
	}

	// views and duration are perfectly collinear here
	vd := byPair[[2]string{"views", "duration_seconds"}]
	if vd.R == nil || *vd.R != 1.0 {
		t.Errorf("r(views,duration) = %v, want 1.0", vd.R)
	}
}

func TestBuildCorrelationCells_ZeroViewsContributeNoEngagement(t *testing.T) {
	videos := []model.Video{
		{VideoID: "a", ViewCount: count(1000), LikeCount: count(50), CommentCount: count(10)},
		{VideoID: "b", ViewCount: count(2000), LikeCount: count(80), CommentCount: count(40)},
		{VideoID: "dead", ViewCount: count(0), LikeCount: count(0), CommentCount: count(0)},
	}

	cells := BuildCorrelationCells(videos)
	for _, c := range cells {
		if c.MetricX == "views" && c.MetricY == "engagement_rate" {
			// 3 videos, but the zero-view one has no engagement observation
			if c.SampleSize != 2 {
				t.Errorf("views/engagement sample = %d, want 2", c.SampleSize)
			}
			return
		}
	}
	t.Fatal("views/engagement cell not found")
}

func TestBuildCorrelationCells_InsufficientDataIsUndefined(t *testing.T) {
	videos := []model.Video{
		{VideoID: "only", ViewCount: count(100), LikeCount: count(10)},
	}

	cells := BuildCorrelationCells(videos)
	for _, c := range cells {
		if c.MetricX == c.MetricY {
			if c.R == nil || *c.R != 1.0 {
				t.Errorf("diagonal r(%s,%s) = %v, want 1.0 regardless of data", c.MetricX, c.MetricY, c.R)
			}
			continue
		}
		if c.R != nil {
			t.Errorf("r(%s,%s) = %v, want nil with a single observation", c.MetricX, c.MetricY, *c.R)
		}
	}
}

func TestOrderCells_RowMajorAndMissing(t *testing.T) {
	videos := []model.Video{
		{VideoID: "a", ViewCount: count(100), LikeCount: count(10), CommentCount: count(1), DurationSeconds: count(60)},
		{VideoID: "b", ViewCount: count(200), LikeCount: count(20), CommentCount: count(2), DurationSeconds: count(120)},
	}
	cells := BuildCorrelationCells(videos)

	resp, err := orderCells(cells)
	if err != nil {
		t.Fatalf("orderCells: %v", err)
	}
	if len(resp.Cells) != 25 || len(resp.Metrics) != 5 {
		t.Fatalf("got %d cells / %d metrics, want 25 / 5", len(resp.Cells), len(resp.Metrics))
	}
	// Row-major: first row is views against everything, in metric order
	for j, y := range resp.Metrics {
		c := resp.Cells[j]
		if c.MetricX != "views" || c.MetricY != y {
			t.Errorf("cell %d = (%s,%s), want (views,%s)", j, c.MetricX, c.MetricY, y)
		}
	}

	if _, err := orderCells(cells[:10]); err == nil {
		t.Error("expected error for incomplete cell set")
	}
}
