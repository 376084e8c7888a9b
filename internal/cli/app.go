package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lunamir/aria/internal/cache"
	"github.com/lunamir/aria/internal/catalog"
	"github.com/lunamir/aria/internal/config"
	"github.com/lunamir/aria/internal/core"
	"github.com/lunamir/aria/internal/library"
	"github.com/lunamir/aria/internal/logging"
	"github.com/lunamir/aria/internal/lyrics"
	"github.com/lunamir/aria/internal/player"
	"github.com/lunamir/aria/internal/storage"
	"github.com/lunamir/aria/internal/stream"
	"github.com/lunamir/aria/internal/stream/invidious"
	"github.com/lunamir/aria/internal/stream/piped"
)

// App is the assembled dependency graph: storage, cache, the provider
// clients, and the playback session. Commands build it once and tear it
// down when they exit.
type App struct {
	Config    *config.Config
	Logger    *logrus.Logger
	Store     *storage.Store
	Catalog   *catalog.Client
	Lyrics    *lyrics.Client
	Providers []stream.Provider
	Resolver  *stream.Resolver
	Library   *library.Library
	Transport *player.FFplay
	Session   *player.Session
}

// newApp wires the application from the loaded config. notifier may be
// nil for commands that never touch the session.
func newApp(notifier player.Notifier) (*App, error) {
	logger := logging.New(cfg.Log)

	path, err := cfg.StoragePath()
	if err != nil {
		return nil, fmt.Errorf("resolving storage path: %w", err)
	}
	store, err := storage.Open(path, logger)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	responseCache := cache.New(store)
	providers := []stream.Provider{
		piped.New(cfg, responseCache, logger),
		invidious.New(cfg, responseCache, logger),
	}
	resolver := stream.NewResolver(logger, providers...)

	lyricsClient := lyrics.New(cfg, logger)
	transport := player.NewFFplay(cfg.Player.FFplay, logger)
	session := player.NewSession(resolver, lyricsClient, transport, notifier, store, logger)
	session.ApplyDefaults(cfg.Player.Volume, cfg.Player.Shuffle, core.RepeatMode(cfg.Player.Repeat))

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Catalog:   catalog.New(cfg, responseCache, logger),
		Lyrics:    lyricsClient,
		Providers: providers,
		Resolver:  resolver,
		Library:   library.New(store, logger),
		Transport: transport,
		Session:   session,
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	a.Transport.Stop()
	if a.Store != nil {
		a.Store.Close()
	}
}
