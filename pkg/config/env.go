package config

// EnvPrefix namespaces every variable read by Load.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "STOREFRONT_APP_ENV"
	EnvPort      = "STOREFRONT_APP_PORT"
	EnvPublicURL = "STOREFRONT_APP_PUBLIC_URL"
	EnvLogLevel  = "STOREFRONT_LOG_LEVEL"

	EnvDBDSN  = "STOREFRONT_DB_DSN"
	EnvDBHost = "STOREFRONT_DB_HOST"
	EnvDBUser = "STOREFRONT_DB_USER"
	EnvDBName = "STOREFRONT_DB_NAME"

	EnvRedisURL = "STOREFRONT_REDIS_URL"

	EnvJWTSecret               = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer               = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins              = "STOREFRONT_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes  = "STOREFRONT_REFRESH_TOKEN_TTL_MINUTES"
	EnvUseSQLite               = "STOREFRONT_USE_SQLITE"
	EnvStorageDriver           = "STOREFRONT_STORAGE_DRIVER"
	EnvStorageMaxUploadKB      = "STOREFRONT_STORAGE_MAX_UPLOAD_KB"
	EnvGCSBucket               = "STOREFRONT_GCS_BUCKET_NAME"
	EnvGoogleClientID          = "STOREFRONT_GOOGLE_CLIENT_ID"
	EnvCORSAllowedOrigins      = "STOREFRONT_CORS_ALLOWED_ORIGINS"
	EnvPaginationDefaultPerPag = "STOREFRONT_PAGINATION_DEFAULT_PER_PAGE"
)

// legacyDBEnvVars must all be present when no DSN is configured.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
