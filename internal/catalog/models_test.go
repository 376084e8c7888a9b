package catalog

import (
	"testing"

	"github.com/lunamir/aria/internal/core"
)

func TestNormalizeTrackFallbackChains(t *testing.T) {
	tests := []struct {
		name        string
		payload     trackPayload
		wantArtist  string
		wantAlbum   string
		wantArtwork string
		wantLarge   string
	}{
		{
			name: "full payload prefers medium and xl covers",
			payload: trackPayload{
				ID:     42,
				Title:  "Song",
				Artist: &artistPayload{ID: 7, Name: "Band"},
				Album: &albumPayload{
					ID: 9, Title: "Record",
					Cover: "c", CoverMedium: "cm", CoverBig: "cb", CoverXL: "cxl",
				},
			},
			wantArtist:  "Band",
			wantAlbum:   "Record",
			wantArtwork: "cm",
			wantLarge:   "cxl",
		},
		{
			name: "missing medium cover falls back to plain cover",
			payload: trackPayload{
				ID:    1,
				Album: &albumPayload{Title: "R", Cover: "c", CoverBig: "cb"},
			},
			wantArtist:  "Unknown Artist",
			wantAlbum:   "R",
			wantArtwork: "c",
			wantLarge:   "cb",
		},
		{
			name:        "no album at all gets the placeholder",
			payload:     trackPayload{ID: 1, Title: "X"},
			wantArtist:  "Unknown Artist",
			wantAlbum:   "Unknown Album",
			wantArtwork: PlaceholderArtwork,
			wantLarge:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := normalizeTrack(tt.payload)
			if track.Artist != tt.wantArtist {
				t.Errorf("Artist = %q, want %q", track.Artist, tt.wantArtist)
			}
			if track.Album != tt.wantAlbum {
				t.Errorf("Album = %q, want %q", track.Album, tt.wantAlbum)
			}
			if track.Artwork != tt.wantArtwork {
				t.Errorf("Artwork = %q, want %q", track.Artwork, tt.wantArtwork)
			}
			if track.ArtworkLarge != tt.wantLarge {
				t.Errorf("ArtworkLarge = %q, want %q", track.ArtworkLarge, tt.wantLarge)
			}
			if track.Kind != core.KindTrack {
				t.Errorf("Kind = %q, want %q", track.Kind, core.KindTrack)
			}
		})
	}
}

func TestNormalizeAlbumTracksInheritAlbumMetadata(t *testing.T) {
	payload := albumPayload{
		ID:          5,
		Title:       "Record",
		CoverMedium: "cm",
		CoverXL:     "cxl",
		Artist:      &artistPayload{ID: 3, Name: "Band"},
		Tracks: &listPayload{Data: []trackPayload{
			{ID: 10, Title: "One"},
			{ID: 11, Title: "Two"},
		}},
	}

	album := normalizeAlbum(payload)

	if len(album.Tracks) != 2 {
		t.Fatalf("Tracks = %d, want 2", len(album.Tracks))
	}
	// Catalog order is preserved
	if album.Tracks[0].Title != "One" || album.Tracks[1].Title != "Two" {
		t.Errorf("track order = %q, %q", album.Tracks[0].Title, album.Tracks[1].Title)
	}
	for _, track := range album.Tracks {
		if track.Artist != "Band" {
			t.Errorf("track Artist = %q, want Band", track.Artist)
		}
		if track.Album != "Record" {
			t.Errorf("track Album = %q, want Record", track.Album)
		}
		if track.AlbumID != "5" {
			t.Errorf("track AlbumID = %q, want 5", track.AlbumID)
		}
		if track.Artwork != "cm" {
			t.Errorf("track Artwork = %q, want cm", track.Artwork)
		}
	}
}

func TestNormalizeArtistPictureFallback(t *testing.T) {
	artist := normalizeArtist(artistPayload{
		ID: 1, Name: "Solo", Picture: "p", PictureBig: "pb",
	})

	if artist.Picture != "p" {
		t.Errorf("Picture = %q, want p", artist.Picture)
	}
	if artist.PictureLarge != "pb" {
		t.Errorf("PictureLarge = %q, want pb", artist.PictureLarge)
	}
}

func TestFormatID(t *testing.T) {
	if got := formatID(0); got != "" {
		t.Errorf("formatID(0) = %q, want empty", got)
	}
	if got := formatID(123); got != "123" {
		t.Errorf("formatID(123) = %q, want 123", got)
	}
}
