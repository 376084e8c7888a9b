package piped

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lunamir/aria/internal/cache"
	"github.com/lunamir/aria/internal/config"
	"github.com/lunamir/aria/internal/core"
	"github.com/lunamir/aria/internal/provider"
	"github.com/lunamir/aria/internal/stream"
)

// musicFilter narrows searches to songs rather than full videos.
const musicFilter = "music_songs"

// Client is a Piped streaming catalog client.
type Client struct {
	rotator *stream.Rotator
	fetcher *provider.Fetcher
	logger  *logrus.Logger
}

// New creates a Piped client rotating over the configured instances.
func New(cfg *config.Config, c *cache.Cache, logger *logrus.Logger) *Client {
	ttl := time.Duration(cfg.Stream.CacheTTL) * time.Minute
	return &Client{
		rotator: stream.NewRotator("piped", cfg.Stream.PipedInstances, logger),
		fetcher: provider.NewFetcher("piped", cfg.Proxy.URL, cfg.Proxy.FallbackURL, c, ttl, logger),
		logger:  logger,
	}
}

// Name identifies the provider in logs.
func (c *Client) Name() string { return "piped" }

type searchPayload struct {
	Items []itemPayload `json:"items"`
}

type itemPayload struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	UploaderName string `json:"uploaderName"`
	Type         string `json:"type"`
	Duration     int    `json:"duration"`
	Thumbnail    string `json:"thumbnail"`
}

type streamPayload struct {
	Title        string             `json:"title"`
	Uploader     string             `json:"uploader"`
	ThumbnailURL string             `json:"thumbnailUrl"`
	Duration     int                `json:"duration"`
	AudioStreams []renditionPayload `json:"audioStreams"`
}

type renditionPayload struct {
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
	Bitrate  int    `json:"bitrate"`
}

func (p itemPayload) toItem() stream.Item {
	return stream.Item{
		URL:       p.URL,
		Title:     p.Title,
		Uploader:  p.UploaderName,
		Duration:  p.Duration,
		Thumbnail: p.Thumbnail,
		Playable:  p.Type == "stream",
	}
}

// Search queries the music catalog across instances.
func (c *Client) Search(ctx context.Context, query string) ([]stream.Item, error) {
	var payload searchPayload
	path := fmt.Sprintf("/search?q=%s&filter=%s", url.QueryEscape(query), musicFilter)
	err := c.rotator.Do(ctx, func(ctx context.Context, base string) error {
		return c.fetcher.GetJSON(ctx, base+path, &payload)
	})
	if err != nil {
		return nil, err
	}

	items := make([]stream.Item, 0, len(payload.Items))
	for _, p := range payload.Items {
		items = append(items, p.toItem())
	}
	return items, nil
}

// Stream fetches the renditions for a video and selects the best audio.
func (c *Client) Stream(ctx context.Context, videoID string) (*core.StreamInfo, error) {
	var payload streamPayload
	err := c.rotator.Do(ctx, func(ctx context.Context, base string) error {
		return c.fetcher.GetJSON(ctx, base+"/streams/"+url.PathEscape(videoID), &payload)
	})
	if err != nil {
		return nil, err
	}

	renditions := make([]stream.Rendition, 0, len(payload.AudioStreams))
	for _, r := range payload.AudioStreams {
		renditions = append(renditions, stream.Rendition{
			URL:      r.URL,
			MimeType: r.MimeType,
			Bitrate:  r.Bitrate,
		})
	}

	best, err := stream.SelectAudio(renditions)
	if err != nil {
		return nil, err
	}

	return &core.StreamInfo{
		URL:       best.URL,
		MimeType:  best.MimeType,
		Bitrate:   best.Bitrate,
		Title:     payload.Title,
		Artist:    payload.Uploader,
		Thumbnail: payload.ThumbnailURL,
		Duration:  payload.Duration,
	}, nil
}

// Trending returns likely-music trending streams for a region, capped
// at 20. The uploader-name filter is crude but matches how music rises
// to the top of a general video trending feed.
func (c *Client) Trending(ctx context.Context, region string) ([]stream.Item, error) {
	var payload []itemPayload
	err := c.rotator.Do(ctx, func(ctx context.Context, base string) error {
		return c.fetcher.GetJSON(ctx, base+"/trending?region="+url.QueryEscape(region), &payload)
	})
	if err != nil {
		return nil, err
	}

	items := make([]stream.Item, 0, 20)
	for _, p := range payload {
		if p.Type != "stream" {
			continue
		}
		uploader := strings.ToLower(p.UploaderName)
		if !strings.Contains(uploader, "vevo") &&
			!strings.Contains(uploader, "official") &&
			!strings.Contains(uploader, "music") {
			continue
		}
		items = append(items, p.toItem())
		if len(items) == 20 {
			break
		}
	}
	return items, nil
}

var _ stream.Provider = (*Client)(nil)
