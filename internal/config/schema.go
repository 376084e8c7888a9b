package config

// Config is the root configuration structure.
type Config struct {
	Proxy   ProxyConfig   `toml:"proxy"`
	Catalog CatalogConfig `toml:"catalog"`
	Stream  StreamConfig  `toml:"stream"`
	Lyrics  LyricsConfig  `toml:"lyrics"`
	Player  PlayerConfig  `toml:"player"`
	Storage StorageConfig `toml:"storage"`
	TUI     TUIConfig     `toml:"tui"`
	Log     LogConfig     `toml:"log"`
}

// ProxyConfig holds the pass-through proxy settings. URL is where API
// clients send their traffic; Listen is where 'aria proxy' serves.
type ProxyConfig struct {
	URL         string `toml:"url"`
	FallbackURL string `toml:"fallback_url"`
	Listen      string `toml:"listen"`
}

// CatalogConfig holds the metadata catalog settings.
type CatalogConfig struct {
	BaseURL  string `toml:"base_url"`
	CacheTTL int    `toml:"cache_ttl_hours"`
}

// StreamConfig holds the streaming catalog settings. Both providers keep
// an ordered list of interchangeable public instances.
type StreamConfig struct {
	PipedInstances     []string `toml:"piped_instances"`
	InvidiousInstances []string `toml:"invidious_instances"`
	Region             string   `toml:"region"`
	CacheTTL           int      `toml:"cache_ttl_minutes"`
}

// LyricsConfig holds the lyrics provider settings.
type LyricsConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// PlayerConfig holds default playback settings.
type PlayerConfig struct {
	Volume  float64 `toml:"volume"`
	Shuffle bool    `toml:"shuffle"`
	Repeat  string  `toml:"repeat"`
	FFplay  string  `toml:"ffplay_path"`
}

// StorageConfig holds local persistence settings.
type StorageConfig struct {
	Path string `toml:"path"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	RefreshInterval int `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}
