package invidious

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lunamir/aria/internal/cache"
	"github.com/lunamir/aria/internal/config"
	"github.com/lunamir/aria/internal/core"
	"github.com/lunamir/aria/internal/provider"
	"github.com/lunamir/aria/internal/stream"
)

// Client is an Invidious streaming catalog client, the drop-in
// replacement when Piped is down.
type Client struct {
	rotator *stream.Rotator
	fetcher *provider.Fetcher
	logger  *logrus.Logger
}

// New creates an Invidious client rotating over the configured instances.
func New(cfg *config.Config, c *cache.Cache, logger *logrus.Logger) *Client {
	ttl := time.Duration(cfg.Stream.CacheTTL) * time.Minute
	return &Client{
		rotator: stream.NewRotator("invidious", cfg.Stream.InvidiousInstances, logger),
		fetcher: provider.NewFetcher("invidious", cfg.Proxy.URL, cfg.Proxy.FallbackURL, c, ttl, logger),
		logger:  logger,
	}
}

// Name identifies the provider in logs.
func (c *Client) Name() string { return "invidious" }

type itemPayload struct {
	Type            string             `json:"type"`
	Title           string             `json:"title"`
	VideoID         string             `json:"videoId"`
	Author          string             `json:"author"`
	LengthSeconds   int                `json:"lengthSeconds"`
	VideoThumbnails []thumbnailPayload `json:"videoThumbnails"`
}

type thumbnailPayload struct {
	URL string `json:"url"`
}

type videoPayload struct {
	Title           string             `json:"title"`
	Author          string             `json:"author"`
	LengthSeconds   int                `json:"lengthSeconds"`
	VideoThumbnails []thumbnailPayload `json:"videoThumbnails"`
	AdaptiveFormats []formatPayload    `json:"adaptiveFormats"`
}

type formatPayload struct {
	URL     string `json:"url"`
	Type    string `json:"type"`
	Bitrate string `json:"bitrate"`
}

func (p itemPayload) toItem() stream.Item {
	item := stream.Item{
		URL:      "/watch?v=" + p.VideoID,
		Title:    p.Title,
		Uploader: p.Author,
		Duration: p.LengthSeconds,
		Playable: p.Type == "video",
	}
	if len(p.VideoThumbnails) > 0 {
		item.Thumbnail = p.VideoThumbnails[0].URL
	}
	return item
}

// Search queries the catalog across instances.
func (c *Client) Search(ctx context.Context, query string) ([]stream.Item, error) {
	var payload []itemPayload
	path := fmt.Sprintf("/api/v1/search?q=%s&type=video", url.QueryEscape(query))
	err := c.rotator.Do(ctx, func(ctx context.Context, base string) error {
		return c.fetcher.GetJSON(ctx, base+path, &payload)
	})
	if err != nil {
		return nil, err
	}

	items := make([]stream.Item, 0, len(payload))
	for _, p := range payload {
		items = append(items, p.toItem())
	}
	return items, nil
}

// Stream fetches a video's adaptive formats and selects the best audio.
func (c *Client) Stream(ctx context.Context, videoID string) (*core.StreamInfo, error) {
	var payload videoPayload
	err := c.rotator.Do(ctx, func(ctx context.Context, base string) error {
		return c.fetcher.GetJSON(ctx, base+"/api/v1/videos/"+url.PathEscape(videoID), &payload)
	})
	if err != nil {
		return nil, err
	}

	renditions := make([]stream.Rendition, 0, len(payload.AdaptiveFormats))
	for _, f := range payload.AdaptiveFormats {
		if !strings.HasPrefix(f.Type, "audio") {
			continue
		}
		bitrate, _ := strconv.Atoi(f.Bitrate)
		renditions = append(renditions, stream.Rendition{
			URL:      f.URL,
			MimeType: f.Type,
			Bitrate:  bitrate,
		})
	}

	best, err := stream.SelectAudio(renditions)
	if err != nil {
		return nil, err
	}

	info := &core.StreamInfo{
		URL:      best.URL,
		MimeType: best.MimeType,
		Bitrate:  best.Bitrate,
		Title:    payload.Title,
		Artist:   payload.Author,
		Duration: payload.LengthSeconds,
	}
	if len(payload.VideoThumbnails) > 0 {
		info.Thumbnail = payload.VideoThumbnails[0].URL
	}
	return info, nil
}

// Trending returns trending videos for a region mapped to the common
// item shape, capped at 20.
func (c *Client) Trending(ctx context.Context, region string) ([]stream.Item, error) {
	var payload []itemPayload
	err := c.rotator.Do(ctx, func(ctx context.Context, base string) error {
		return c.fetcher.GetJSON(ctx, base+"/api/v1/trending?region="+url.QueryEscape(region), &payload)
	})
	if err != nil {
		return nil, err
	}

	items := make([]stream.Item, 0, 20)
	for _, p := range payload {
		items = append(items, p.toItem())
		if len(items) == 20 {
			break
		}
	}
	return items, nil
}

var _ stream.Provider = (*Client)(nil)
