package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/lunamir/aria/internal/logging"
)

func newTestProxy(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New("127.0.0.1:0", logging.Discard()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestMissingURLParameter(t *testing.T) {
	srv := newTestProxy(t)

	resp, err := http.Get(srv.URL + "/proxy")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestOptionsPreflightReturnsCORS(t *testing.T) {
	srv := newTestProxy(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/proxy", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); got != "GET, HEAD, POST, OPTIONS" {
		t.Errorf("Access-Control-Allow-Methods = %q", got)
	}
}

func TestRelaysUpstreamBodyAndStatus(t *testing.T) {
	var gotUA, gotReferer string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	srv := newTestProxy(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/proxy?url="+url.QueryEscape(upstream.URL), nil)
	req.Header.Set("Referer", "https://example.com")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTeapot)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %s", body)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if gotReferer != "" {
		t.Errorf("Referer forwarded upstream: %q", gotReferer)
	}
	if gotUA != userAgent {
		t.Errorf("User-Agent = %q, want generic browser UA", gotUA)
	}
}

func TestUpstreamFailureYields500JSON(t *testing.T) {
	srv := newTestProxy(t)

	// Unroutable target
	resp, err := http.Get(srv.URL + "/proxy?url=" + url.QueryEscape("http://127.0.0.1:1/nope"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if payload["error"] == "" {
		t.Error("error field is empty")
	}
}
