package lyrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lunamir/aria/internal/config"
	"github.com/lunamir/aria/internal/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Lyrics.BaseURL = srv.URL
	return New(cfg, logging.Discard())
}

func TestGetSyncedExactHit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/get" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("track_name") != "Hello" || r.URL.Query().Get("artist_name") != "Adele" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"trackName":"Hello","artistName":"Adele","syncedLyrics":"[00:05.00]Hello\n[00:10.00]It's me"}`))
	})

	got := c.GetSynced(context.Background(), "Hello", "Adele", "25", 295)
	if got == nil || !got.Synced {
		t.Fatalf("GetSynced() = %+v, want synced lyrics", got)
	}
	if len(got.Lines) != 2 || got.Lines[1].Text != "It's me" {
		t.Errorf("Lines = %+v", got.Lines)
	}
}

func TestGetSyncedFallsBackToSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/get":
			w.WriteHeader(http.StatusNotFound)
		case "/api/search":
			w.Write([]byte(`[
				{"trackName":"Unrelated","artistName":"Nobody","plainLyrics":"wrong"},
				{"trackName":"Hello (Remastered)","artistName":"Adele","plainLyrics":"line one\n\nline two"}
			]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	got := c.GetSynced(context.Background(), "Hello", "Adele", "", 0)
	if got == nil || got.Synced {
		t.Fatalf("GetSynced() = %+v, want plain lyrics", got)
	}
	if len(got.Lines) != 2 || got.Lines[0].Text != "line one" || got.Lines[1].Text != "line two" {
		t.Errorf("Lines = %+v", got.Lines)
	}
}

func TestGetSyncedSearchFirstResultFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/get":
			w.WriteHeader(http.StatusNotFound)
		case "/api/search":
			w.Write([]byte(`[{"trackName":"Something Else","artistName":"Other","plainLyrics":"text"}]`))
		}
	})

	got := c.GetSynced(context.Background(), "Hello", "Adele", "", 0)
	if got == nil || len(got.Lines) != 1 || got.Lines[0].Text != "text" {
		t.Errorf("GetSynced() = %+v, want first search result", got)
	}
}

func TestGetSyncedNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/get":
			w.WriteHeader(http.StatusNotFound)
		case "/api/search":
			w.Write([]byte(`[]`))
		}
	})

	if got := c.GetSynced(context.Background(), "No Such Song", "Nobody", "", 0); got != nil {
		t.Errorf("GetSynced() = %+v, want nil", got)
	}
}
