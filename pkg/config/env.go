package config

// EnvPrefix is handed to envconfig; every field carries its full name.
const EnvPrefix = "DOCCART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// DBDriverSQLite is the driver forced by the sqlite feature flag.
const DBDriverSQLite = "sqlite"

const (
	CartBackendSession  = "session"
	CartBackendDatabase = "database"
	CartBackendMemory   = "memory"
)

const (
	EnvAppEnv       = "DOCCART_APP_ENV"
	EnvPort         = "DOCCART_APP_PORT"
	EnvLogLevel     = "DOCCART_LOG_LEVEL"
	EnvDBDSN        = "DOCCART_DB_DSN"
	EnvDBHost       = "DOCCART_DB_HOST"
	EnvDBUser       = "DOCCART_DB_USER"
	EnvDBName       = "DOCCART_DB_NAME"
	EnvDBPassword   = "DOCCART_DB_PASSWORD"
	EnvRedisURL     = "DOCCART_REDIS_URL"
	EnvCartBackend  = "DOCCART_CART_BACKEND"
	EnvCartTTL      = "DOCCART_CART_SESSION_TTL"
	EnvUseSQLite    = "DOCCART_USE_SQLITE"
	EnvAutoMigrate  = "DOCCART_AUTO_MIGRATE"
	EnvCookieName   = "DOCCART_CART_COOKIE_NAME"
	EnvCookieSecure = "DOCCART_CART_COOKIE_SECURE"
)

var splitDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
