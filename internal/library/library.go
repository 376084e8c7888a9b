package library

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lunamir/aria/internal/core"
	"github.com/lunamir/aria/internal/errors"
	"github.com/lunamir/aria/internal/storage"
)

// Storage keys for persisted library state.
const (
	keyPlaylists = "library_playlists"
	keyLiked     = "library_liked"
	keyAlbums    = "library_albums"
	keyArtists   = "library_artists"
)

// LikedTrack is a liked track stamped with when it was liked.
type LikedTrack struct {
	core.Track
	LikedAt time.Time `json:"liked_at"`
}

// SavedAlbum is a saved album stamped with when it was saved.
type SavedAlbum struct {
	core.Album
	SavedAt time.Time `json:"saved_at"`
}

// FollowedArtist is a followed artist stamped with when the follow
// happened.
type FollowedArtist struct {
	core.Artist
	FollowedAt time.Time `json:"followed_at"`
}

// Library owns playlists, liked tracks, and saved albums and artists.
// Every mutation persists immediately; a failed write is logged by the
// store and the in-memory state stays authoritative for the session.
type Library struct {
	mu        sync.Mutex
	store     *storage.Store
	logger    *logrus.Logger
	playlists []core.Playlist
	liked     []LikedTrack
	albums    []SavedAlbum
	artists   []FollowedArtist
}

// New creates a library backed by the given store and loads whatever
// state it holds.
func New(store *storage.Store, logger *logrus.Logger) *Library {
	l := &Library{store: store, logger: logger}
	if store != nil {
		store.GetJSON(keyPlaylists, &l.playlists)
		store.GetJSON(keyLiked, &l.liked)
		store.GetJSON(keyAlbums, &l.albums)
		store.GetJSON(keyArtists, &l.artists)
	}
	return l
}

// CreatePlaylist creates an empty playlist and puts it first in the
// list.
func (l *Library) CreatePlaylist(name, description string) core.Playlist {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	playlist := core.Playlist{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	l.playlists = append([]core.Playlist{playlist}, l.playlists...)
	l.persist(keyPlaylists, l.playlists)
	return playlist
}

// Playlist returns a copy of the playlist with the given id.
func (l *Library) Playlist(id string) (core.Playlist, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.playlists {
		if p.ID == id {
			return p, nil
		}
	}
	return core.Playlist{}, errors.ErrPlaylistNotFound
}

// FindPlaylist returns the playlist whose id or name matches.
func (l *Library) FindPlaylist(ref string) (core.Playlist, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.playlists {
		if p.ID == ref || p.Name == ref {
			return p, nil
		}
	}
	return core.Playlist{}, errors.ErrPlaylistNotFound
}

// RenamePlaylist updates a playlist's name and description.
func (l *Library) RenamePlaylist(id, name, description string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.playlistByID(id)
	if p == nil {
		return errors.ErrPlaylistNotFound
	}
	if name != "" {
		p.Name = name
	}
	p.Description = description
	p.UpdatedAt = time.Now()
	l.persist(keyPlaylists, l.playlists)
	return nil
}

// DeletePlaylist removes a playlist.
func (l *Library) DeletePlaylist(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, p := range l.playlists {
		if p.ID == id {
			l.playlists = append(l.playlists[:i], l.playlists[i+1:]...)
			l.persist(keyPlaylists, l.playlists)
			return nil
		}
	}
	return errors.ErrPlaylistNotFound
}

// AddToPlaylist appends a track. Adding a track that is already present
// reports false without duplicating it. A playlist with no artwork
// inherits the first track's.
func (l *Library) AddToPlaylist(id string, track core.Track) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.playlistByID(id)
	if p == nil {
		return false, errors.ErrPlaylistNotFound
	}
	if p.Contains(track.ID) {
		return false, nil
	}
	p.Tracks = append(p.Tracks, core.PlaylistTrack{Track: track, AddedAt: time.Now()})
	if p.Artwork == "" {
		p.Artwork = track.Artwork
	}
	p.UpdatedAt = time.Now()
	l.persist(keyPlaylists, l.playlists)
	return true, nil
}

// RemoveFromPlaylist removes a track by id, reporting whether it was
// present.
func (l *Library) RemoveFromPlaylist(id, trackID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.playlistByID(id)
	if p == nil {
		return false, errors.ErrPlaylistNotFound
	}
	for i, t := range p.Tracks {
		if t.ID == trackID {
			p.Tracks = append(p.Tracks[:i], p.Tracks[i+1:]...)
			p.UpdatedAt = time.Now()
			l.persist(keyPlaylists, l.playlists)
			return true, nil
		}
	}
	return false, nil
}

// Playlists returns a copy of all playlists, newest first.
func (l *Library) Playlists() []core.Playlist {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Playlist, len(l.playlists))
	copy(out, l.playlists)
	return out
}

// ToggleLike likes an unliked track and unlikes a liked one, returning
// the new liked state.
func (l *Library) ToggleLike(track core.Track) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, t := range l.liked {
		if t.ID == track.ID {
			l.liked = append(l.liked[:i], l.liked[i+1:]...)
			l.persist(keyLiked, l.liked)
			return false
		}
	}
	l.liked = append([]LikedTrack{{Track: track, LikedAt: time.Now()}}, l.liked...)
	l.persist(keyLiked, l.liked)
	return true
}

// IsLiked reports whether the track is liked.
func (l *Library) IsLiked(trackID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.liked {
		if t.ID == trackID {
			return true
		}
	}
	return false
}

// LikedTracks returns the liked tracks, most recently liked first.
func (l *Library) LikedTracks() []LikedTrack {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LikedTrack, len(l.liked))
	copy(out, l.liked)
	return out
}

// SaveAlbum saves an album, reporting false when it is already saved.
func (l *Library) SaveAlbum(album core.Album) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range l.albums {
		if a.ID == album.ID {
			return false
		}
	}
	l.albums = append([]SavedAlbum{{Album: album, SavedAt: time.Now()}}, l.albums...)
	l.persist(keyAlbums, l.albums)
	return true
}

// RemoveAlbum drops a saved album, reporting whether it was saved.
func (l *Library) RemoveAlbum(albumID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, a := range l.albums {
		if a.ID == albumID {
			l.albums = append(l.albums[:i], l.albums[i+1:]...)
			l.persist(keyAlbums, l.albums)
			return true
		}
	}
	return false
}

// SavedAlbums returns the saved albums, most recently saved first.
func (l *Library) SavedAlbums() []SavedAlbum {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]SavedAlbum, len(l.albums))
	copy(out, l.albums)
	return out
}

// FollowArtist follows an artist, reporting false when already
// followed.
func (l *Library) FollowArtist(artist core.Artist) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range l.artists {
		if a.ID == artist.ID {
			return false
		}
	}
	l.artists = append([]FollowedArtist{{Artist: artist, FollowedAt: time.Now()}}, l.artists...)
	l.persist(keyArtists, l.artists)
	return true
}

// UnfollowArtist drops a followed artist, reporting whether it was
// followed.
func (l *Library) UnfollowArtist(artistID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, a := range l.artists {
		if a.ID == artistID {
			l.artists = append(l.artists[:i], l.artists[i+1:]...)
			l.persist(keyArtists, l.artists)
			return true
		}
	}
	return false
}

// FollowedArtists returns the followed artists, most recent first.
func (l *Library) FollowedArtists() []FollowedArtist {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]FollowedArtist, len(l.artists))
	copy(out, l.artists)
	return out
}

func (l *Library) playlistByID(id string) *core.Playlist {
	for i := range l.playlists {
		if l.playlists[i].ID == id {
			return &l.playlists[i]
		}
	}
	return nil
}

func (l *Library) persist(key string, v interface{}) {
	if l.store == nil {
		return
	}
	l.store.SetJSON(key, v)
}
