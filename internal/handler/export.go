package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/quanh171/youtube-analysis/internal/middleware"
	"github.com/quanh171/youtube-analysis/internal/model"
	"github.com/quanh171/youtube-analysis/internal/service"
)

// ExportHandler serves any named report as a CSV attachment, for BI tools
// that ingest files instead of JSON. NULL fields export as empty cells,
// mirroring the blank-to-null coercion on the way in.
type ExportHandler struct {
	svc *service.ReportService
}

func NewExportHandler(svc *service.ReportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Export handles GET /api/export/:report
func (h *ExportHandler) Export(c fiber.Ctx) error {
	name, errMsg := middleware.ValidateReportName(c.Params("report"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", errMsg)
	}

	header, records, err := h.fetch(c, name)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build report export")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err == nil {
		err = w.WriteAll(records)
	}
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to encode report export")
	}

	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", name))
	return c.Send(buf.Bytes())
}

func (h *ExportHandler) fetch(c fiber.Ctx, name string) ([]string, [][]string, error) {
	ctx := c.Context()

	switch name {
	case "videos":
		rows, err := h.svc.BaseMetrics(ctx)
		if err != nil {
			return nil, nil, err
		}
		header := []string{"video_id", "title", "category", "video_type", "published_at",
			"duration_seconds", "view_count", "like_count", "comment_count",
			"engagement_rate", "publish_year", "publish_month", "year_month"}
		records := make([][]string, 0, len(rows))
		for _, r := range rows {
			records = append(records, []string{
				r.VideoID, r.Title, strOrEmpty(r.Category), r.VideoType, timeOrEmpty(r.PublishedAt),
				intOrEmpty(r.DurationSeconds), intOrEmpty(r.ViewCount), intOrEmpty(r.LikeCount),
				intOrEmpty(r.CommentCount), floatOrEmpty(r.EngagementRate),
				smallIntOrEmpty(r.PublishYear), smallIntOrEmpty(r.PublishMonth), strOrEmpty(r.YearMonth),
			})
		}
		return header, records, nil

	case "types":
		rows, err := h.svc.TypeSummaries(ctx)
		if err != nil {
			return nil, nil, err
		}
		header := []string{"video_type", "video_count", "avg_views", "avg_duration", "avg_engagement"}
		records := make([][]string, 0, len(rows))
		for _, r := range rows {
			records = append(records, []string{
				r.VideoType, strconv.FormatInt(r.VideoCount, 10),
				floatOrEmpty(r.AvgViews), floatOrEmpty(r.AvgDuration), floatOrEmpty(r.AvgEngagement),
			})
		}
		return header, records, nil

	case "categories":
		rows, err := h.svc.CategorySummaries(ctx)
		if err != nil {
			return nil, nil, err
		}
		header := []string{"category", "video_count", "avg_views", "avg_duration", "avg_engagement"}
		records := make([][]string, 0, len(rows))
		for _, r := range rows {
			records = append(records, []string{
				r.Category, strconv.FormatInt(r.VideoCount, 10),
				floatOrEmpty(r.AvgViews), floatOrEmpty(r.AvgDuration), floatOrEmpty(r.AvgEngagement),
			})
		}
		return header, records, nil

	case "monthly":
		rows, err := h.svc.MonthlyKPIs(ctx, "")
		if err != nil {
			return nil, nil, err
		}
		header := []string{"year_month", "year", "month", "video_count", "avg_views", "median_views", "avg_engagement"}
		records := make([][]string, 0, len(rows))
		for _, r := range rows {
			records = append(records, []string{
				r.YearMonth, strconv.Itoa(r.Year), strconv.Itoa(r.Month),
				strconv.FormatInt(r.VideoCount, 10),
				floatOrEmpty(r.AvgViews), floatOrEmpty(r.MedianViews), floatOrEmpty(r.AvgEngagement),
			})
		}
		return header, records, nil

	case "top_views":
		rows, err := h.svc.TopByViews(ctx)
		if err != nil {
			return nil, nil, err
		}
		return topHeader(), topRecords(rows), nil

	case "top_engagement":
		rows, err := h.svc.TopByEngagement(ctx)
		if err != nil {
			return nil, nil, err
		}
		return topHeader(), topRecords(rows), nil

	case "correlations":
		resp, err := h.svc.Correlations(ctx)
		if err != nil {
			return nil, nil, err
		}
		header := []string{"metric_x", "metric_y", "r", "sample_size"}
		records := make([][]string, 0, len(resp.Cells))
		for _, cell := range resp.Cells {
			records = append(records, []string{
				cell.MetricX, cell.MetricY, floatOrEmpty(cell.R),
				strconv.FormatInt(cell.SampleSize, 10),
			})
		}
		return header, records, nil

	case "channels":
		rows, err := h.svc.ChannelRates(ctx)
		if err != nil {
			return nil, nil, err
		}
		header := []string{"uploads_playlist_id", "channel_name", "subscriber_count", "view_count",
			"video_count", "views_per_video", "channel_age_days", "uploads_per_year",
			"log_views", "log_subscribers"}
		records := make([][]string, 0, len(rows))
		for _, r := range rows {
			records = append(records, []string{
				r.UploadsPlaylistID, r.ChannelName, intOrEmpty(r.SubscriberCount),
				intOrEmpty(r.ViewCount), intOrEmpty(r.VideoCount),
				floatOrEmpty(r.ViewsPerVideo), floatOrEmpty(r.ChannelAgeDays),
				floatOrEmpty(r.UploadsPerYear), floatOrEmpty(r.LogViews), floatOrEmpty(r.LogSubscribers),
			})
		}
		return header, records, nil
	}

	return nil, nil, fmt.Errorf("unknown report %q", name)
}

func topHeader() []string {
	return []string{"rank", "video_id", "title", "video_type", "view_count", "engagement_rate"}
}

func topRecords(rows []model.TopVideo) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Rank), r.VideoID, r.Title, r.VideoType,
			intOrEmpty(r.ViewCount), floatOrEmpty(r.EngagementRate),
		})
	}
	return records
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func smallIntOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
