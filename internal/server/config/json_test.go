package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	dir := t.TempDir()

	path := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"endpoint_addr_http":       "www.example:9000",
		"storage_driver":           "postgres",
		"secret_key":               "my_secret_key",
		"token_validity_duration":  "2h",
		"blob_delete_timeout":      "5s",
		"s3_bucket":                "bucket",
		"posts_per_page":           5,
		"rest_not_found_status":    404,
		"graphql_not_found_status": 401,
		"cors_allowed_origins":     []string{"http://localhost:3000"},
	})

	t.Run("overlays set fields only", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, StoragePostgres, cfg.StorageDriver)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 2*time.Hour, cfg.TokenValidityDuration)
		assert.Equal(t, 5*time.Second, cfg.BlobDeleteTimeout)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, 5, cfg.PostsPerPage)
		assert.Equal(t, 404, cfg.RESTNotFoundStatus)
		assert.Equal(t, 401, cfg.GraphQLNotFoundStatus)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
		// untouched
		assert.Equal(t, "us-east-1", cfg.S3Region)
		assert.Equal(t, 12, cfg.BcryptCost)
	})

	t.Run("no config flag leaves config alone", func(t *testing.T) {
		os.Args = []string{"testbin"}
		cfg := &Config{SecretKey: "key"}
		parseJson(cfg)
		assert.Equal(t, &Config{SecretKey: "key"}, cfg)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"testbin", "-c", bad}
		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
