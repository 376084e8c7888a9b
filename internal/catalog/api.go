package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lunamir/aria/internal/core"
)

// SearchTracks searches the catalog for tracks.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) []core.Track {
	var payload listPayload
	endpoint := fmt.Sprintf("/search/track?q=%s&limit=%d", url.QueryEscape(query), limit)
	if !c.get(ctx, endpoint, &payload) {
		return nil
	}

	tracks := make([]core.Track, 0, len(payload.Data))
	for _, p := range payload.Data {
		tracks = append(tracks, normalizeTrack(p))
	}
	return tracks
}

// SearchArtists searches the catalog for artists.
func (c *Client) SearchArtists(ctx context.Context, query string, limit int) []core.Artist {
	var payload artistListPayload
	endpoint := fmt.Sprintf("/search/artist?q=%s&limit=%d", url.QueryEscape(query), limit)
	if !c.get(ctx, endpoint, &payload) {
		return nil
	}

	artists := make([]core.Artist, 0, len(payload.Data))
	for _, p := range payload.Data {
		artists = append(artists, normalizeArtist(p))
	}
	return artists
}

// SearchAlbums searches the catalog for albums.
func (c *Client) SearchAlbums(ctx context.Context, query string, limit int) []core.Album {
	var payload albumListPayload
	endpoint := fmt.Sprintf("/search/album?q=%s&limit=%d", url.QueryEscape(query), limit)
	if !c.get(ctx, endpoint, &payload) {
		return nil
	}

	albums := make([]core.Album, 0, len(payload.Data))
	for _, p := range payload.Data {
		albums = append(albums, normalizeAlbum(p))
	}
	return albums
}

// Chart returns the current top tracks.
func (c *Client) Chart(ctx context.Context, limit int) []core.Track {
	var payload listPayload
	endpoint := fmt.Sprintf("/chart/0/tracks?limit=%d", limit)
	if !c.get(ctx, endpoint, &payload) {
		return nil
	}

	tracks := make([]core.Track, 0, len(payload.Data))
	for _, p := range payload.Data {
		tracks = append(tracks, normalizeTrack(p))
	}
	return tracks
}

// Artist looks up a single artist. Returns nil when the lookup fails.
func (c *Client) Artist(ctx context.Context, artistID string) *core.Artist {
	var payload artistPayload
	if !c.get(ctx, "/artist/"+url.PathEscape(artistID), &payload) {
		return nil
	}
	if payload.ID == 0 {
		return nil
	}
	artist := normalizeArtist(payload)
	return &artist
}

// ArtistTopTracks returns an artist's most popular tracks.
func (c *Client) ArtistTopTracks(ctx context.Context, artistID string, limit int) []core.Track {
	var payload listPayload
	endpoint := fmt.Sprintf("/artist/%s/top?limit=%d", url.PathEscape(artistID), limit)
	if !c.get(ctx, endpoint, &payload) {
		return nil
	}

	tracks := make([]core.Track, 0, len(payload.Data))
	for _, p := range payload.Data {
		tracks = append(tracks, normalizeTrack(p))
	}
	return tracks
}

// ArtistAlbums returns an artist's albums.
func (c *Client) ArtistAlbums(ctx context.Context, artistID string, limit int) []core.Album {
	var payload albumListPayload
	endpoint := fmt.Sprintf("/artist/%s/albums?limit=%d", url.PathEscape(artistID), limit)
	if !c.get(ctx, endpoint, &payload) {
		return nil
	}

	albums := make([]core.Album, 0, len(payload.Data))
	for _, p := range payload.Data {
		albums = append(albums, normalizeAlbum(p))
	}
	return albums
}

// Album looks up a single album including its ordered track list. Returns
// nil when the lookup fails.
func (c *Client) Album(ctx context.Context, albumID string) *core.Album {
	var payload albumPayload
	if !c.get(ctx, "/album/"+url.PathEscape(albumID), &payload) {
		return nil
	}
	if payload.ID == 0 {
		return nil
	}
	album := normalizeAlbum(payload)
	return &album
}

// GenreArtists returns the artists listed under a genre.
func (c *Client) GenreArtists(ctx context.Context, genreID string) []core.Artist {
	var payload artistListPayload
	if !c.get(ctx, fmt.Sprintf("/genre/%s/artists", url.PathEscape(genreID)), &payload) {
		return nil
	}

	artists := make([]core.Artist, 0, len(payload.Data))
	for _, p := range payload.Data {
		artists = append(artists, normalizeArtist(p))
	}
	return artists
}

// FindTrack searches for a specific track by title and artist, preferring
// a result whose title and artist both contain the query terms, falling
// back to the first result. Returns nil when nothing is found.
func (c *Client) FindTrack(ctx context.Context, title, artist string) *core.Track {
	query := strings.TrimSpace(title + " " + artist)
	tracks := c.SearchTracks(ctx, query, 5)
	if len(tracks) == 0 {
		return nil
	}

	lowerTitle := strings.ToLower(title)
	lowerArtist := strings.ToLower(artist)
	for i, t := range tracks {
		if strings.Contains(strings.ToLower(t.Title), lowerTitle) &&
			strings.Contains(strings.ToLower(t.Artist), lowerArtist) {
			return &tracks[i]
		}
	}
	return &tracks[0]
}
