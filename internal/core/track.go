package core

import "time"

// Kind discriminates the record types returned by catalog searches.
type Kind string

const (
	KindTrack  Kind = "track"
	KindArtist Kind = "artist"
	KindAlbum  Kind = "album"
)

// Track represents a catalog track. It carries metadata only; a playable
// stream is resolved separately per play attempt.
type Track struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	ArtistID     string `json:"artist_id,omitempty"`
	Album        string `json:"album,omitempty"`
	AlbumID      string `json:"album_id,omitempty"`
	Duration     int    `json:"duration"` // seconds, 0 when unknown
	Artwork      string `json:"artwork,omitempty"`
	ArtworkLarge string `json:"artwork_large,omitempty"`
	Explicit     bool   `json:"explicit,omitempty"`
	Kind         Kind   `json:"kind"`
}

// ResolvedTrack is a Track annotated with the stream resolved for a single
// play attempt. It is built exactly once per attempt and never mutated; a
// new attempt produces a new record.
type ResolvedTrack struct {
	Track
	VideoID   string `json:"video_id"`
	StreamURL string `json:"stream_url"`
}

// StreamInfo describes a playable audio rendition. Stream URLs are
// short-lived, so this is never persisted.
type StreamInfo struct {
	URL       string `json:"url"`
	MimeType  string `json:"mime_type"`
	Bitrate   int    `json:"bitrate"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Thumbnail string `json:"thumbnail"`
	Duration  int    `json:"duration"` // seconds
}

// Artist represents a catalog artist.
type Artist struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Picture      string `json:"picture,omitempty"`
	PictureLarge string `json:"picture_large,omitempty"`
	Fans         int    `json:"fans,omitempty"`
	AlbumCount   int    `json:"album_count,omitempty"`
	Kind         Kind   `json:"kind"`
}

// Album represents a catalog album. Tracks, when present, are in catalog
// order.
type Album struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist,omitempty"`
	ArtistID     string  `json:"artist_id,omitempty"`
	Artwork      string  `json:"artwork,omitempty"`
	ArtworkLarge string  `json:"artwork_large,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	TrackCount   int     `json:"track_count,omitempty"`
	Duration     int     `json:"duration,omitempty"`
	Tracks       []Track `json:"tracks,omitempty"`
	Kind         Kind    `json:"kind"`
}

// HistoryEntry is a previously played track.
type HistoryEntry struct {
	Track    Track     `json:"track"`
	PlayedAt time.Time `json:"played_at"`
}
