package ingest

import (
	"strings"
	"testing"
	"time"
)

const videosHeader = "video_id,title,category,video_type,published_at,duration_seconds,view_count,like_count,comment_count\n"

func TestParseVideos_BlankFieldsBecomeNull(t *testing.T) {
	csv := videosHeader +
		"abc123,First video,Music,standard,2024-03-05T10:00:00Z,213,1000,50,10\n" +
		"def456,No numbers,,,,,,,\n"

	p := NewParser("UTC")
	videos, err := p.ParseVideos(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("got %d videos, want 2", len(videos))
	}

	v := videos[0]
	if v.ViewCount == nil || *v.ViewCount != 1000 {
		t.Errorf("view count = %v, want 1000", v.ViewCount)
	}
	if v.PublishedAt == nil || !v.PublishedAt.Equal(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("published at = %v, want 2024-03-05T10:00:00Z", v.PublishedAt)
	}

	blank := videos[1]
	if blank.Category != nil || blank.PublishedAt != nil || blank.DurationSeconds != nil ||
		blank.ViewCount != nil || blank.LikeCount != nil || blank.CommentCount != nil {
		t.Errorf("blank fields should all be nil: %+v", blank)
	}
	if blank.VideoType != "standard" {
		t.Errorf("blank type = %q, want standard", blank.VideoType)
	}
}

func TestParseVideos_MalformedFieldsNeverRejectRow(t *testing.T) {
	csv := videosHeader +
		"bad001,Broken numbers,Gaming,short,not-a-date,abc,-5,12.5,10\n"

	p := NewParser("UTC")
	videos, err := p.ParseVideos(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("malformed row was rejected; got %d videos, want 1", len(videos))
	}

	v := videos[0]
	if v.PublishedAt != nil {
		t.Errorf("bad date parsed to %v, want nil", v.PublishedAt)
	}
	if v.DurationSeconds != nil {
		t.Errorf("bad duration parsed to %v, want nil", v.DurationSeconds)
	}
	if v.ViewCount != nil {
		t.Errorf("negative view count parsed to %v, want nil", v.ViewCount)
	}
	if v.LikeCount != nil {
		t.Errorf("fractional like count parsed to %v, want nil", v.LikeCount)
	}
	if v.CommentCount == nil || *v.CommentCount != 10 {
		t.Errorf("comment count = %v, want 10", v.CommentCount)
	}
}

func TestParseVideos_SkipsRowsWithoutID(t *testing.T) {
	csv := videosHeader +
		",Orphan,,standard,,,,,\n" +
		"ok1,Kept,,standard,,,,,\n"

	p := NewParser("UTC")
	videos, err := p.ParseVideos(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(videos) != 1 || videos[0].VideoID != "ok1" {
		t.Errorf("got %+v, want only ok1", videos)
	}
}

func TestParseVideos_TimezoneNormalization(t *testing.T) {
	csv := videosHeader +
		"tz1,Zoned,,standard,2024-06-01 12:00:00,,,,\n"

	p := NewParser("America/Toronto")
	videos, err := p.ParseVideos(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// 12:00 EDT == 16:00 UTC
	want := time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC)
	got := videos[0].PublishedAt
	if got == nil || !got.Equal(want) {
		t.Errorf("published at = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("stored location = %v, want UTC", got.Location())
	}
}

func TestParseVideos_HeaderOrderIndependent(t *testing.T) {
	csv := "view_count,video_id,title\n" +
		"500,xyz,Reordered\n"

	p := NewParser("UTC")
	videos, err := p.ParseVideos(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v := videos[0]
	if v.VideoID != "xyz" || v.ViewCount == nil || *v.ViewCount != 500 {
		t.Errorf("got %+v, want videoId=xyz views=500", v)
	}
}

func TestNormalizeVideoType(t *testing.T) {
	cases := map[string]string{
		"short":          "short",
		"Shorts":         "short",
		"live":           "live",
		"LIVESTREAM":     "live",
		"upcoming":       "upcoming",
		"scheduled_live": "upcoming",
		"standard":       "standard",
		"":               "standard",
		"weird":          "standard",
	}
	for raw, want := range cases {
		if got := NormalizeVideoType(raw); got != want {
			t.Errorf("NormalizeVideoType(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseChannels_DedupAndNulls(t *testing.T) {
	csv := "channel_name,subscriber_count,view_count,video_count,uploads_playlist_id,created_at\n" +
		"Chan A,1000,50000,20,UUabc,2019-01-15T00:00:00Z\n" +
		"Chan A dup,2000,60000,30,UUabc,2020-01-01T00:00:00Z\n" +
		"Chan B,,,,UUdef,\n" +
		"No playlist,5,5,5,,\n"

	p := NewParser("UTC")
	channels, err := p.ParseChannels(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(channels) != 2 {
		t.Fatalf("got %d channels, want 2", len(channels))
	}

	if channels[0].UploadsPlaylistID != "UUabc" || channels[0].ChannelName != "Chan A" {
		t.Errorf("duplicate playlist should keep first row, got %+v", channels[0])
	}
	b := channels[1]
	if b.SubscriberCount != nil || b.ViewCount != nil || b.VideoCount != nil || b.CreatedAt != nil {
		t.Errorf("blank channel counters should be nil: %+v", b)
	}
}

func TestParseVideos_RaggedRow(t *testing.T) {
	// Truncated row: trailing fields are simply absent → NULL
	csv := videosHeader +
		"rag1,Short row,Music\n"

	p := NewParser("UTC")
	videos, err := p.ParseVideos(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v := videos[0]
	if v.VideoID != "rag1" || v.Category == nil || *v.Category != "Music" {
		t.Errorf("got %+v", v)
	}
	if v.ViewCount != nil || v.PublishedAt != nil {
		t.Errorf("absent fields should be nil: %+v", v)
	}
}
