package core

import "time"

// PlaylistTrack is a track inside a playlist, stamped with when it was
// added.
type PlaylistTrack struct {
	Track
	AddedAt time.Time `json:"added_at"`
}

// Playlist is a user-owned ordered collection of tracks. The library layer
// owns playlists exclusively; the player only reads them.
type Playlist struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Tracks      []PlaylistTrack `json:"tracks"`
	Artwork     string          `json:"artwork,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Contains reports whether the playlist already holds the track.
func (p *Playlist) Contains(trackID string) bool {
	for _, t := range p.Tracks {
		if t.ID == trackID {
			return true
		}
	}
	return false
}

// CatalogTracks returns the playlist entries as plain tracks, in order,
// for loading into a queue.
func (p *Playlist) CatalogTracks() []Track {
	tracks := make([]Track, len(p.Tracks))
	for i, t := range p.Tracks {
		tracks[i] = t.Track
	}
	return tracks
}
