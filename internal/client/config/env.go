package config

import (
	"time"

	"github.com/dmitrijs2005/gophfeed/internal/flagx"
)

// parseEnv overlays GOPHFEED_SERVER_URL, GOPHFEED_TOKEN_FILE and
// GOPHFEED_REQUEST_TIMEOUT (a duration string such as "5s"). Unparsable or
// non-positive timeouts are ignored.
func parseEnv(cfg *Config) {
	if v, ok := flagx.LookupEnv("GOPHFEED_SERVER_URL"); ok {
		cfg.ServerURL = v
	}
	if v, ok := flagx.LookupEnv("GOPHFEED_TOKEN_FILE"); ok {
		cfg.TokenFile = v
	}
	if v, ok := flagx.LookupEnv("GOPHFEED_REQUEST_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
}
