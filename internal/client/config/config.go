package config

import "time"

// Config holds runtime settings for the gophdrive CLI.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	SessionFile    string
	DownloadDir    string
	// MaxUploadBytes is checked locally before a file is base64-encoded and sent.
	MaxUploadBytes int64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.SessionFile = "gophdrive.db"
	c.DownloadDir = "downloads"
	c.MaxUploadBytes = 24 << 20
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
