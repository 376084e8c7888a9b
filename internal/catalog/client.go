package catalog

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lunamir/aria/internal/cache"
	"github.com/lunamir/aria/internal/config"
	"github.com/lunamir/aria/internal/provider"
)

// PlaceholderArtwork is used whenever a record carries no artwork at all,
// so downstream code never has to special-case a missing image.
const PlaceholderArtwork = "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHZpZXdCb3g9IjAgMCAyNCAyNCIgZmlsbD0iIzMzMyI+PHBhdGggZD0iTTEyIDN2MTAuNTVjLS41OS0uMzQtMS4yNy0uNTUtMi0uNTUtMi4yMSAwLTQgMS43OS00IDRzMS43OSA0IDQgNCA0LTEuNzkgNC00VjdoNFYzaC02eiIvPjwvc3ZnPg=="

// Client is a metadata catalog client. Every lookup goes through the
// pass-through proxy and is cached. Failures are absorbed: searches come
// back empty and single-entity lookups come back nil, never an error.
type Client struct {
	baseURL string
	fetcher *provider.Fetcher
	logger  *logrus.Logger
}

// New creates a catalog client.
func New(cfg *config.Config, c *cache.Cache, logger *logrus.Logger) *Client {
	ttl := time.Duration(cfg.Catalog.CacheTTL) * time.Hour
	return &Client{
		baseURL: cfg.Catalog.BaseURL,
		fetcher: provider.NewFetcher("catalog", cfg.Proxy.URL, cfg.Proxy.FallbackURL, c, ttl, logger),
		logger:  logger,
	}
}

// get fetches a catalog endpoint into out, reporting only success.
func (c *Client) get(ctx context.Context, endpoint string, out interface{}) bool {
	if err := c.fetcher.GetJSON(ctx, c.baseURL+endpoint, out); err != nil {
		c.logger.WithError(err).WithField("endpoint", endpoint).Warn("Catalog request failed")
		return false
	}
	return true
}
