// Package ingest parses the two CSV exports into typed rows. Blank or
// malformed numeric and timestamp fields become nil (SQL NULL) — a row is
// never rejected for a bad field.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quanh171/youtube-analysis/internal/model"
)

// Timestamp layouts seen across API exports. Layouts without a zone are
// interpreted in the configured location, then normalized to UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parser reads CSV exports with a header row, resolving columns by name so
// column order in the export does not matter.
type Parser struct {
	loc *time.Location
}

// NewParser creates a parser that interprets zone-less timestamps in the
// named timezone (e.g. "UTC", "America/Toronto"). An unknown name falls
// back to UTC.
func NewParser(timezone string) *Parser {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Parser{loc: loc}
}

// ParseVideosFile reads the video export from disk.
func (p *Parser) ParseVideosFile(path string) ([]model.Video, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open videos csv: %w", err)
	}
	defer f.Close()
	return p.ParseVideos(f)
}

// ParseChannelsFile reads the channel export from disk.
func (p *Parser) ParseChannelsFile(path string) ([]model.Channel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open channels csv: %w", err)
	}
	defer f.Close()
	return p.ParseChannels(f)
}

// ParseVideos parses the video export. Rows without a video_id are skipped
// (there is nothing to key them on); every other field degrades to NULL.
func (p *Parser) ParseVideos(r io.Reader) ([]model.Video, error) {
	rows, header, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("read videos csv: %w", err)
	}

	var videos []model.Video
	for _, rec := range rows {
		get := fieldGetter(header, rec)

		id := strings.TrimSpace(get("video_id"))
		if id == "" {
			continue
		}

		videos = append(videos, model.Video{
			VideoID:         id,
			Title:           get("title"),
			Category:        optString(get("category")),
			VideoType:       NormalizeVideoType(get("video_type")),
			PublishedAt:     p.optTime(get("published_at")),
			DurationSeconds: optInt(get("duration_seconds")),
			ViewCount:       optCount(get("view_count")),
			LikeCount:       optCount(get("like_count")),
			CommentCount:    optCount(get("comment_count")),
		})
	}
	return videos, nil
}

// ParseChannels parses the channel export. Rows without an uploads playlist
// ID are skipped; duplicate playlist IDs keep the first occurrence.
func (p *Parser) ParseChannels(r io.Reader) ([]model.Channel, error) {
	rows, header, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("read channels csv: %w", err)
	}

	seen := make(map[string]struct{})
	var channels []model.Channel
	for _, rec := range rows {
		get := fieldGetter(header, rec)

		id := strings.TrimSpace(get("uploads_playlist_id"))
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		channels = append(channels, model.Channel{
			UploadsPlaylistID: id,
			ChannelName:       get("channel_name"),
			SubscriberCount:   optCount(get("subscriber_count")),
			ViewCount:         optCount(get("view_count")),
			VideoCount:        optCount(get("video_count")),
			CreatedAt:         p.optTime(get("created_at")),
		})
	}
	return channels, nil
}

// NormalizeVideoType maps the export's type strings onto the four known
// values. Unknown or blank types count as standard uploads.
func NormalizeVideoType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "short", "shorts":
		return model.VideoTypeShort
	case "live", "livestream", "live_stream":
		return model.VideoTypeLive
	case "upcoming", "scheduled", "scheduled_live":
		return model.VideoTypeUpcoming
	default:
		return model.VideoTypeStandard
	}
}

func readAll(r io.Reader) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows degrade to NULL fields, not errors

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty csv: missing header row")
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return records[1:], header, nil
}

func fieldGetter(header map[string]int, rec []string) func(string) string {
	return func(name string) string {
		i, ok := header[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}
}

func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optInt(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// optCount parses a non-negative counter; negatives are malformed → NULL.
func optCount(s string) *int64 {
	n := optInt(s)
	if n == nil || *n < 0 {
		return nil
	}
	return n
}

func (p *Parser) optTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		var (
			t   time.Time
			err error
		)
		if strings.HasSuffix(layout, "Z07:00") {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, p.loc)
		}
		if err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}
