package catalog

import (
	"strconv"

	"github.com/lunamir/aria/internal/core"
)

// Payload shapes for the catalog's native JSON. Upstream fields are
// frequently missing; all normalization fallbacks live in the normalize
// functions below, which are pure and testable without the network.

type listPayload struct {
	Data []trackPayload `json:"data"`
}

type artistListPayload struct {
	Data []artistPayload `json:"data"`
}

type albumListPayload struct {
	Data []albumPayload `json:"data"`
}

type trackPayload struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Duration       int            `json:"duration"`
	Position       int            `json:"position"`
	TrackPosition  int            `json:"track_position"`
	DiskNumber     int            `json:"disk_number"`
	ExplicitLyrics bool           `json:"explicit_lyrics"`
	Artist         *artistPayload `json:"artist"`
	Album          *albumPayload  `json:"album"`
}

type artistPayload struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	PictureMedium string `json:"picture_medium"`
	PictureBig    string `json:"picture_big"`
	PictureXL     string `json:"picture_xl"`
	NbFan         int    `json:"nb_fan"`
	NbAlbum       int    `json:"nb_album"`
}

type albumPayload struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Cover       string         `json:"cover"`
	CoverMedium string         `json:"cover_medium"`
	CoverBig    string         `json:"cover_big"`
	CoverXL     string         `json:"cover_xl"`
	NbTracks    int            `json:"nb_tracks"`
	ReleaseDate string         `json:"release_date"`
	Duration    int            `json:"duration"`
	Artist      *artistPayload `json:"artist"`
	Tracks      *listPayload   `json:"tracks"`
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// normalizeTrack maps a raw track payload onto the shared record shape.
func normalizeTrack(p trackPayload) core.Track {
	track := core.Track{
		ID:       formatID(p.ID),
		Title:    p.Title,
		Artist:   "Unknown Artist",
		Album:    "Unknown Album",
		Duration: p.Duration,
		Explicit: p.ExplicitLyrics,
		Kind:     core.KindTrack,
	}

	if p.Artist != nil {
		if p.Artist.Name != "" {
			track.Artist = p.Artist.Name
		}
		track.ArtistID = formatID(p.Artist.ID)
	}

	if p.Album != nil {
		if p.Album.Title != "" {
			track.Album = p.Album.Title
		}
		track.AlbumID = formatID(p.Album.ID)
		track.Artwork = firstNonEmpty(p.Album.CoverMedium, p.Album.Cover, PlaceholderArtwork)
		track.ArtworkLarge = firstNonEmpty(p.Album.CoverXL, p.Album.CoverBig, p.Album.CoverMedium)
	} else {
		track.Artwork = PlaceholderArtwork
	}

	return track
}

// normalizeArtist maps a raw artist payload onto the shared record shape.
func normalizeArtist(p artistPayload) core.Artist {
	return core.Artist{
		ID:           formatID(p.ID),
		Name:         p.Name,
		Picture:      firstNonEmpty(p.PictureMedium, p.Picture),
		PictureLarge: firstNonEmpty(p.PictureXL, p.PictureBig),
		Fans:         p.NbFan,
		AlbumCount:   p.NbAlbum,
		Kind:         core.KindArtist,
	}
}

// normalizeAlbum maps a raw album payload onto the shared record shape.
// Tracks, when present, stay in catalog order and inherit the album's
// artist and artwork since the nested payload omits them.
func normalizeAlbum(p albumPayload) core.Album {
	album := core.Album{
		ID:           formatID(p.ID),
		Title:        p.Title,
		Artist:       "Unknown Artist",
		Artwork:      firstNonEmpty(p.CoverMedium, p.Cover),
		ArtworkLarge: firstNonEmpty(p.CoverXL, p.CoverBig),
		ReleaseDate:  p.ReleaseDate,
		TrackCount:   p.NbTracks,
		Duration:     p.Duration,
		Kind:         core.KindAlbum,
	}

	if p.Artist != nil && p.Artist.Name != "" {
		album.Artist = p.Artist.Name
		album.ArtistID = formatID(p.Artist.ID)
	}

	if p.Tracks != nil {
		album.Tracks = make([]core.Track, 0, len(p.Tracks.Data))
		for _, tp := range p.Tracks.Data {
			track := normalizeTrack(tp)
			track.Artist = album.Artist
			track.ArtistID = album.ArtistID
			track.Album = album.Title
			track.AlbumID = album.ID
			if track.Artwork == PlaceholderArtwork {
				track.Artwork = firstNonEmpty(album.Artwork, PlaceholderArtwork)
			}
			if track.ArtworkLarge == "" {
				track.ArtworkLarge = album.ArtworkLarge
			}
			album.Tracks = append(album.Tracks, track)
		}
	}

	return album
}
