// Package config loads runtime configuration for the gophfeed CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment: GOPHFEED_SERVER_URL, GOPHFEED_TOKEN_FILE,
//     GOPHFEED_REQUEST_TIMEOUT (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   server base URL
//	-t string   token file path
//	-r int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "token_file": ".gophfeed/token",
//	  "request_timeout": "10s"
//	}
package config
