package config

// EnvPrefix is passed to envconfig; every variable already embeds the full
// FLORERIA_ prefix in its tag, so the processing prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "FLORERIA_APP_ENV"
	EnvPort       = "FLORERIA_APP_PORT"
	EnvDBDSN      = "FLORERIA_DB_DSN"
	EnvDBHost     = "FLORERIA_DB_HOST"
	EnvDBUser     = "FLORERIA_DB_USER"
	EnvDBName     = "FLORERIA_DB_NAME"
	EnvRedisURL   = "FLORERIA_REDIS_URL"
	EnvJWTSecret  = "FLORERIA_JWT_SECRET"
	EnvJWTIssuer  = "FLORERIA_JWT_ISSUER"
	EnvJWTExpMins = "FLORERIA_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
