package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lunamir/aria/internal/cache"
	ariaerrors "github.com/lunamir/aria/internal/errors"
)

// Fetcher resolves provider requests through the pass-through proxy, with
// a response cache in front and a secondary public proxy as fallback. All
// upstream services are consumed this way; none of them see the client
// directly.
type Fetcher struct {
	Name        string // cache namespace, e.g. "catalog"
	ProxyURL    string // local proxy base URL
	FallbackURL string // public pass-through prefix, target appended encoded
	Cache       *cache.Cache
	TTL         time.Duration
	Logger      *logrus.Logger

	client *http.Client
}

// NewFetcher builds a fetcher with a bounded-wait HTTP client.
func NewFetcher(name, proxyURL, fallbackURL string, c *cache.Cache, ttl time.Duration, logger *logrus.Logger) *Fetcher {
	return &Fetcher{
		Name:        name,
		ProxyURL:    proxyURL,
		FallbackURL: fallbackURL,
		Cache:       c,
		TTL:         ttl,
		Logger:      logger,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// GetJSON fetches target through the proxy and unmarshals the JSON
// response into out. Responses are cached by request signature; a cached
// payload younger than the TTL short-circuits the network entirely.
func (f *Fetcher) GetJSON(ctx context.Context, target string, out interface{}) error {
	key := cache.Key(f.Name, http.MethodGet, target)

	if f.Cache != nil {
		if data, ok := f.Cache.Get(key, f.TTL); ok {
			return json.Unmarshal(data, out)
		}
	}

	proxied := strings.TrimRight(f.ProxyURL, "/") + "/proxy?url=" + url.QueryEscape(target)
	data, err := f.fetchJSON(ctx, proxied)
	if err != nil {
		f.Logger.WithError(err).WithField("target", target).Debug("Proxy fetch failed, trying fallback")
		if f.FallbackURL == "" {
			return err
		}
		data, err = f.fetchJSON(ctx, f.FallbackURL+url.QueryEscape(target))
		if err != nil {
			return fmt.Errorf("all proxies failed for %s: %w", target, err)
		}
	}

	if f.Cache != nil {
		f.Cache.Put(key, data)
	}
	return json.Unmarshal(data, out)
}

// fetchJSON performs one GET and validates that the body is JSON. An HTML
// body is the conventional signal that the proxy is down and an SPA
// fallback page was served instead.
func (f *Fetcher) fetchJSON(ctx context.Context, fetchURL string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if strings.HasPrefix(strings.TrimSpace(string(body)), "<") {
		return nil, fmt.Errorf("received HTML instead of JSON: %w", ariaerrors.ErrProxyUnreachable)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("malformed JSON response")
	}

	return body, nil
}
