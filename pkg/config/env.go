package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv      = "STOREFRONT_APP_ENV"
	EnvPort        = "STOREFRONT_APP_PORT"
	EnvDBDSN       = "STOREFRONT_DB_DSN"
	EnvDBDriver    = "STOREFRONT_DB_DRIVER"
	EnvDBHost      = "STOREFRONT_DB_HOST"
	EnvDBUser      = "STOREFRONT_DB_USER"
	EnvDBName      = "STOREFRONT_DB_NAME"
	EnvDBPassword  = "STOREFRONT_DB_PASSWORD"
	EnvRedisURL    = "STOREFRONT_REDIS_URL"
	EnvJWTSecret   = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer   = "STOREFRONT_JWT_ISSUER"
	EnvJWTExpMins  = "STOREFRONT_JWT_EXPIRATION_MINUTES"
	EnvUseSQLite   = "STOREFRONT_USE_SQLITE"
	EnvCORSOrigins = "STOREFRONT_CORS_ORIGINS"
	EnvCommerceURL = "STOREFRONT_COMMERCE_API_URL"
	EnvBatchConc   = "STOREFRONT_VARIANTS_BATCH_CONCURRENCY"
	EnvMaxOptions  = "STOREFRONT_VARIANTS_MAX_OPTIONS"
	EnvCartTTL     = "STOREFRONT_CART_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
