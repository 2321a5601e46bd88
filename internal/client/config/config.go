package config

import "time"

// Config holds runtime settings for the gophfeed CLI.
//
// Fields:
//   - ServerURL: base URL of the gophfeed server.
//   - TokenFile: where the bearer token of the last login is kept.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerURL      string
	TokenFile      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.TokenFile = ".gophfeed/token"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig builds a Config from defaults, the optional JSON file,
// GOPHFEED_* environment variables and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
