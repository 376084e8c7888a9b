package stream

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/lunamir/aria/internal/core"
	ariaerrors "github.com/lunamir/aria/internal/errors"
)

// Item is a search or trending result from a streaming catalog, already
// mapped to a provider-independent shape.
type Item struct {
	URL       string
	Title     string
	Uploader  string
	Duration  int // seconds
	Thumbnail string
	Playable  bool // a stream/video, not a channel or playlist entry
}

// Rendition is one audio rendition of a stream.
type Rendition struct {
	URL      string
	MimeType string
	Bitrate  int
}

// Provider is a streaming catalog. Implementations rotate through their
// public instances internally; a total outage surfaces as
// ErrProviderUnavailable.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Item, error)
	Stream(ctx context.Context, videoID string) (*core.StreamInfo, error)
	Trending(ctx context.Context, region string) ([]Item, error)
}

// SelectAudio picks the best rendition: highest bitrate first, and among
// the sorted candidates an opus/webm container wins over others (smaller
// at equal quality).
func SelectAudio(renditions []Rendition) (*Rendition, error) {
	if len(renditions) == 0 {
		return nil, ariaerrors.ErrNoAudio
	}

	sorted := make([]Rendition, len(renditions))
	copy(sorted, renditions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Bitrate > sorted[j].Bitrate
	})

	for i, r := range sorted {
		mime := strings.ToLower(r.MimeType)
		if strings.Contains(mime, "opus") || strings.Contains(mime, "webm") {
			return &sorted[i], nil
		}
	}
	return &sorted[0], nil
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`^/?watch\?v=([^&\n?#]+)`),
	regexp.MustCompile(`^([a-zA-Z0-9_-]{11})$`),
}

// ExtractVideoID pulls a provider video identifier out of a result
// reference URL. It accepts the watch?v= query form, short/embed paths,
// and a bare identifier. Empty string means no identifier was found.
func ExtractVideoID(ref string) string {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(ref); m != nil {
			return m[1]
		}
	}
	return ""
}
