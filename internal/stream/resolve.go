package stream

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lunamir/aria/internal/core"
	ariaerrors "github.com/lunamir/aria/internal/errors"
)

// Resolver turns a catalog track into a playable stream. It queries the
// streaming catalogs in order and falls through to the next provider when
// one is entirely unavailable.
type Resolver struct {
	providers []Provider
	logger    *logrus.Logger
}

// NewResolver creates a resolver over the given providers, tried in order.
func NewResolver(logger *logrus.Logger, providers ...Provider) *Resolver {
	return &Resolver{providers: providers, logger: logger}
}

// Resolve finds a playable audio stream for the track. The returned
// StreamInfo is ephemeral - stream URLs are short-lived and must not be
// persisted.
func (r *Resolver) Resolve(ctx context.Context, track core.Track) (videoID string, info *core.StreamInfo, err error) {
	var lastErr error
	for _, p := range r.providers {
		videoID, info, err = r.resolveWith(ctx, p, track)
		if err == nil {
			return videoID, info, nil
		}
		lastErr = err
		r.logger.WithError(err).WithFields(logrus.Fields{
			"provider": p.Name(),
			"track":    track.Title,
		}).Warn("Stream resolution failed, trying next provider")
	}
	if lastErr == nil {
		lastErr = ariaerrors.ErrTrackNotFound
	}
	return "", nil, lastErr
}

func (r *Resolver) resolveWith(ctx context.Context, p Provider, track core.Track) (string, *core.StreamInfo, error) {
	query := strings.TrimSpace(track.Title + " " + track.Artist)
	results, err := p.Search(ctx, query)
	if err != nil {
		return "", nil, err
	}
	if len(results) == 0 {
		return "", nil, ariaerrors.ErrTrackNotFound
	}

	candidate := pickCandidate(results, track)

	videoID := ExtractVideoID(candidate.URL)
	if videoID == "" {
		return "", nil, fmt.Errorf("no video id in %q: %w", candidate.URL, ariaerrors.ErrNoStream)
	}

	info, err := p.Stream(ctx, videoID)
	if err != nil {
		return "", nil, err
	}
	return videoID, info, nil
}

// pickCandidate chooses the result to play. Preference goes to a playable
// result whose title contains the track's title or artist; when nothing
// matches, the first result wins unconditionally, trading precision for
// guaranteed progress. The heuristic is deliberately loose and can pick a
// wrong stream for common titles; that is an accepted approximation.
func pickCandidate(results []Item, track core.Track) Item {
	lowerTitle := strings.ToLower(track.Title)
	lowerArtist := strings.ToLower(track.Artist)

	for _, item := range results {
		if !item.Playable {
			continue
		}
		itemTitle := strings.ToLower(item.Title)
		if strings.Contains(itemTitle, lowerTitle) || strings.Contains(itemTitle, lowerArtist) {
			return item
		}
	}
	return results[0]
}
