package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophfeed/internal/flagx"
	"github.com/dmitrijs2005/gophfeed/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "1h" and integer nanoseconds are accepted. Zero
// values leave the current setting untouched.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	StorageDriver         string         `json:"storage_driver"`
	DatabaseDSN           string         `json:"database_dsn"`
	MongoURI              string         `json:"mongo_uri"`
	MongoDatabase         string         `json:"mongo_database"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	BcryptCost            int            `json:"bcrypt_cost"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	S3PublicBaseURL       string         `json:"s3_public_base_url"`
	MaxUploadBytes        int64          `json:"max_upload_bytes"`
	PostsPerPage          int            `json:"posts_per_page"`
	RESTAuthPolicy        string         `json:"rest_auth_policy"`
	GraphQLAuthPolicy     string         `json:"graphql_auth_policy"`
	RESTNotFoundStatus    int            `json:"rest_not_found_status"`
	GraphQLNotFoundStatus int            `json:"graphql_not_found_status"`
	BlobDeleteTimeout     timex.Duration `json:"blob_delete_timeout"`
	CORSAllowedOrigins    []string       `json:"cors_allowed_origins"`
	LogLevel              string         `json:"log_level"`
	LogFormat             string         `json:"log_format"`
}

// parseJson overlays values from the file named by -c / -config. Without
// the flag nothing happens; an unreadable or invalid file panics, since the
// server cannot start with a config it was explicitly pointed at.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.StorageDriver, c.StorageDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoURI, c.MongoURI)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
	setString(&config.RESTAuthPolicy, c.RESTAuthPolicy)
	setString(&config.GraphQLAuthPolicy, c.GraphQLAuthPolicy)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.BlobDeleteTimeout.Duration > 0 {
		config.BlobDeleteTimeout = c.BlobDeleteTimeout.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.MaxUploadBytes > 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
	if c.PostsPerPage > 0 {
		config.PostsPerPage = c.PostsPerPage
	}
	if c.RESTNotFoundStatus > 0 {
		config.RESTNotFoundStatus = c.RESTNotFoundStatus
	}
	if c.GraphQLNotFoundStatus > 0 {
		config.GraphQLNotFoundStatus = c.GraphQLNotFoundStatus
	}
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
