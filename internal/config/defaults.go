package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Proxy: ProxyConfig{
			URL:         "http://127.0.0.1:8787",
			FallbackURL: "https://api.allorigins.win/raw?url=",
			Listen:      "127.0.0.1:8787",
		},
		Catalog: CatalogConfig{
			BaseURL:  "https://api.deezer.com",
			CacheTTL: 24,
		},
		Stream: StreamConfig{
			PipedInstances: []string{
				"https://pipedapi.kavin.rocks",
				"https://pipedapi.systemless.io",
				"https://api.piped.privacy.com.de",
				"https://pipedapi.smnz.de",
				"https://pipedapi.adminforge.de",
			},
			InvidiousInstances: []string{
				"https://inv.nadeko.net",
				"https://invidious.nerdvpn.de",
				"https://yewtu.be",
			},
			Region:   "KR",
			CacheTTL: 30,
		},
		Lyrics: LyricsConfig{
			BaseURL:        "https://lrclib.net",
			TimeoutSeconds: 10,
		},
		Player: PlayerConfig{
			Volume: 0.8,
			Repeat: "none",
			FFplay: "ffplay",
		},
		TUI: TUIConfig{
			RefreshInterval: 500,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.Proxy.URL == "" {
		c.Proxy.URL = d.Proxy.URL
	}
	if c.Proxy.FallbackURL == "" {
		c.Proxy.FallbackURL = d.Proxy.FallbackURL
	}
	if c.Proxy.Listen == "" {
		c.Proxy.Listen = d.Proxy.Listen
	}

	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = d.Catalog.BaseURL
	}
	if c.Catalog.CacheTTL == 0 {
		c.Catalog.CacheTTL = d.Catalog.CacheTTL
	}

	if len(c.Stream.PipedInstances) == 0 {
		c.Stream.PipedInstances = d.Stream.PipedInstances
	}
	if len(c.Stream.InvidiousInstances) == 0 {
		c.Stream.InvidiousInstances = d.Stream.InvidiousInstances
	}
	if c.Stream.Region == "" {
		c.Stream.Region = d.Stream.Region
	}
	if c.Stream.CacheTTL == 0 {
		c.Stream.CacheTTL = d.Stream.CacheTTL
	}

	if c.Lyrics.BaseURL == "" {
		c.Lyrics.BaseURL = d.Lyrics.BaseURL
	}
	if c.Lyrics.TimeoutSeconds == 0 {
		c.Lyrics.TimeoutSeconds = d.Lyrics.TimeoutSeconds
	}

	if c.Player.Volume == 0 {
		c.Player.Volume = d.Player.Volume
	}
	if c.Player.Repeat == "" {
		c.Player.Repeat = d.Player.Repeat
	}
	if c.Player.FFplay == "" {
		c.Player.FFplay = d.Player.FFplay
	}

	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}
