package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lunamir/aria/internal/config"
	"github.com/lunamir/aria/internal/core"
	"github.com/lunamir/aria/internal/errors"
)

// Record is a raw lyrics entry as the service returns it.
type Record struct {
	ID           int64  `json:"id"`
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	AlbumName    string `json:"albumName"`
	Duration     int    `json:"duration"`
	PlainLyrics  string `json:"plainLyrics"`
	SyncedLyrics string `json:"syncedLyrics"`
}

// Client is an LRCLIB lyrics client. The service is open and fast, so
// requests go direct rather than through the pass-through proxy.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

// New creates a lyrics client.
func New(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: cfg.Lyrics.BaseURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.Lyrics.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

// Search runs a free-text lyrics search. Failures come back as an empty
// slice, matching the soft-failure behavior of the other resolvers.
func (c *Client) Search(ctx context.Context, query string) []Record {
	var records []Record
	endpoint := c.baseURL + "/api/search?q=" + url.QueryEscape(query)
	if err := c.getJSON(ctx, endpoint, &records); err != nil {
		c.logger.WithError(err).Debug("Lyrics search failed")
		return nil
	}
	return records
}

// Get looks up lyrics by exact track signature. Album and duration are
// optional refinements. A miss returns nil, not an error.
func (c *Client) Get(ctx context.Context, track, artist, album string, duration int) *Record {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString("/api/get?track_name=")
	b.WriteString(url.QueryEscape(track))
	b.WriteString("&artist_name=")
	b.WriteString(url.QueryEscape(artist))
	if album != "" {
		b.WriteString("&album_name=")
		b.WriteString(url.QueryEscape(album))
	}
	if duration > 0 {
		fmt.Fprintf(&b, "&duration=%d", duration)
	}

	var record Record
	if err := c.getJSON(ctx, b.String(), &record); err != nil {
		if err != errors.ErrLyricsNotFound {
			c.logger.WithError(err).Debug("Lyrics lookup failed")
		}
		return nil
	}
	return &record
}

// GetSynced resolves lyrics for a track: exact lookup first, then a
// free-text search picking the closest-looking result. Synced lyrics win
// over plain ones; nil means the track has no lyrics anywhere.
func (c *Client) GetSynced(ctx context.Context, track, artist, album string, duration int) *core.Lyrics {
	record := c.Get(ctx, track, artist, album, duration)

	if record == nil && track != "" && artist != "" {
		results := c.Search(ctx, track+" "+artist)
		if len(results) > 0 {
			record = pickRecord(results, track, artist)
		}
	}

	if record == nil {
		return nil
	}

	if record.SyncedLyrics != "" {
		return ParseLRC(record.SyncedLyrics)
	}

	if record.PlainLyrics != "" {
		var lines []core.LyricLine
		for _, text := range strings.Split(record.PlainLyrics, "\n") {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			lines = append(lines, core.LyricLine{Text: text})
		}
		return &core.Lyrics{Synced: false, Lines: lines}
	}

	return nil
}

// pickRecord prefers the first result whose track or artist name loosely
// matches the query, falling back to the first result.
func pickRecord(results []Record, track, artist string) *Record {
	wantTrack := strings.ToLower(track)
	wantArtist := strings.ToLower(artist)
	for i := range results {
		if strings.Contains(strings.ToLower(results[i].TrackName), wantTrack) ||
			strings.Contains(strings.ToLower(results[i].ArtistName), wantArtist) {
			return &results[i]
		}
	}
	return &results[0]
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.ErrLyricsNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lyrics service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
