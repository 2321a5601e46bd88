package config

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophfeed/internal/flagx"
)

// parseEnv overlays environment variables. The GOPHFEED_* names win over the
// legacy .env names (PORT, JWT_SECRET_KEY, MONGODB_CONNECTION, AWS_REGION,
// AWS_BUCKET_NAME).
func parseEnv(config *Config) {
	if v, ok := flagx.LookupEnv("GOPHFEED_ADDR"); ok {
		config.EndpointAddrHTTP = v
	} else if v, ok := flagx.LookupEnv("PORT"); ok {
		config.EndpointAddrHTTP = ":" + strings.TrimPrefix(v, ":")
	}

	envString(&config.StorageDriver, "GOPHFEED_STORAGE")
	envString(&config.DatabaseDSN, "GOPHFEED_DATABASE_DSN", "DATABASE_URL")
	envString(&config.MongoURI, "GOPHFEED_MONGO_URI", "MONGODB_CONNECTION")
	envString(&config.MongoDatabase, "GOPHFEED_MONGO_DATABASE")
	envString(&config.SecretKey, "GOPHFEED_SECRET_KEY", "JWT_SECRET_KEY")
	envString(&config.S3RootUser, "GOPHFEED_S3_USER", "AWS_ACCESS_KEY_ID")
	envString(&config.S3RootPassword, "GOPHFEED_S3_PASSWORD", "AWS_SECRET_ACCESS_KEY")
	envString(&config.S3Bucket, "GOPHFEED_S3_BUCKET", "AWS_BUCKET_NAME")
	envString(&config.S3Region, "GOPHFEED_S3_REGION", "AWS_REGION")
	envString(&config.S3BaseEndpoint, "GOPHFEED_S3_ENDPOINT")
	envString(&config.S3PublicBaseURL, "GOPHFEED_S3_PUBLIC_URL")
	envString(&config.RESTAuthPolicy, "GOPHFEED_REST_AUTH_POLICY")
	envString(&config.GraphQLAuthPolicy, "GOPHFEED_GRAPHQL_AUTH_POLICY")
	envString(&config.LogLevel, "GOPHFEED_LOG_LEVEL")
	envString(&config.LogFormat, "GOPHFEED_LOG_FORMAT")

	envInt(&config.PostsPerPage, "GOPHFEED_POSTS_PER_PAGE")
	envInt(&config.RESTNotFoundStatus, "GOPHFEED_REST_NOT_FOUND_STATUS")
	envInt(&config.GraphQLNotFoundStatus, "GOPHFEED_GRAPHQL_NOT_FOUND_STATUS")
	envInt(&config.BcryptCost, "GOPHFEED_BCRYPT_COST")

	if v, ok := flagx.LookupEnv("GOPHFEED_CORS_ORIGINS"); ok {
		config.CORSAllowedOrigins = strings.Split(v, ",")
	}
}

func envString(dst *string, names ...string) {
	if v, ok := flagx.LookupEnv(names...); ok {
		*dst = v
	}
}

func envInt(dst *int, names ...string) {
	v, ok := flagx.LookupEnv(names...)
	if !ok {
		return
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		*dst = n
	}
}
