package piped

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/lunamir/aria/internal/config"
	"github.com/lunamir/aria/internal/logging"
)

// newTestClient builds a piped client whose instances resolve through a
// test proxy serving canned bodies keyed by target host + path prefix.
func newTestClient(t *testing.T, instances []string, responses map[string]string) *Client {
	t.Helper()

	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target, err := url.Parse(r.URL.Query().Get("url"))
		if err != nil {
			t.Fatalf("bad target url: %v", err)
		}
		for prefix, body := range responses {
			if strings.HasPrefix(target.Host+target.Path, prefix) {
				w.Write([]byte(body))
				return
			}
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(proxy.Close)

	cfg := config.Default()
	cfg.Proxy.URL = proxy.URL
	cfg.Proxy.FallbackURL = ""
	cfg.Stream.PipedInstances = instances
	return New(cfg, nil, logging.Discard())
}

func TestSearchMapsItems(t *testing.T) {
	c := newTestClient(t, []string{"https://one.example"}, map[string]string{
		"one.example/search": `{"items":[
			{"url":"/watch?v=abc","title":"Song","uploaderName":"Band","type":"stream","duration":200},
			{"url":"/channel/x","title":"Band","uploaderName":"Band","type":"channel"}
		]}`,
	})

	items, err := c.Search(context.Background(), "song band")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if !items[0].Playable || items[1].Playable {
		t.Errorf("Playable flags = %v, %v", items[0].Playable, items[1].Playable)
	}
	if items[0].Duration != 200 {
		t.Errorf("Duration = %d, want 200", items[0].Duration)
	}
}

func TestSearchRotatesToSecondInstance(t *testing.T) {
	c := newTestClient(t,
		[]string{"https://dead.example", "https://live.example"},
		map[string]string{
			"live.example/search": `{"items":[{"url":"/watch?v=x","title":"T","type":"stream"}]}`,
		})

	items, err := c.Search(context.Background(), "t")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 1 {
		t.Errorf("len = %d, want 1", len(items))
	}
}

func TestStreamSelectsBestAudio(t *testing.T) {
	c := newTestClient(t, []string{"https://one.example"}, map[string]string{
		"one.example/streams/abc": `{
			"title":"Song","uploader":"Band","duration":200,"thumbnailUrl":"th",
			"audioStreams":[
				{"url":"m4a","mimeType":"audio/mp4","bitrate":256000},
				{"url":"opus","mimeType":"audio/webm; codecs=\"opus\"","bitrate":160000}
			]}`,
	})

	info, err := c.Stream(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if info.URL != "opus" {
		t.Errorf("URL = %q, want opus", info.URL)
	}
	if info.Title != "Song" || info.Artist != "Band" || info.Duration != 200 {
		t.Errorf("info = %+v", info)
	}
}

func TestTrendingFiltersToMusicUploaders(t *testing.T) {
	c := newTestClient(t, []string{"https://one.example"}, map[string]string{
		"one.example/trending": `[
			{"url":"/watch?v=a","title":"A","uploaderName":"SomeoneVEVO","type":"stream"},
			{"url":"/watch?v=b","title":"B","uploaderName":"Random Vlogger","type":"stream"},
			{"url":"/watch?v=c","title":"C","uploaderName":"Official Artist","type":"stream"}
		]`,
	})

	items, err := c.Trending(context.Background(), "KR")
	if err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Title != "A" || items[1].Title != "C" {
		t.Errorf("items = %v", items)
	}
}
