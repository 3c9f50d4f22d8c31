package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "BLAST"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultSQLiteDSN is the fallback datasource when the sqlite flag is
// set without an explicit DSN.
const DefaultSQLiteDSN = "file:blast.db?cache=shared"

// Environment variable names referenced outside struct tags (tests,
// error messages, tooling).
const (
	EnvAppEnv   = "BLAST_APP_ENV"
	EnvPort     = "BLAST_APP_PORT"
	EnvLogLevel = "BLAST_LOG_LEVEL"

	EnvDBDSN      = "BLAST_DB_DSN"
	EnvDBHost     = "BLAST_DB_HOST"
	EnvDBPort     = "BLAST_DB_PORT"
	EnvDBUser     = "BLAST_DB_USER"
	EnvDBPassword = "BLAST_DB_PASSWORD"
	EnvDBName     = "BLAST_DB_NAME"

	EnvRedisURL = "BLAST_REDIS_URL"

	EnvJWTSecret  = "BLAST_JWT_SECRET"
	EnvJWTIssuer  = "BLAST_JWT_ISSUER"
	EnvJWTExpMins = "BLAST_JWT_EXPIRATION_MINUTES"
)

// legacyDBEnvVars are the discrete connection vars accepted when
// BLAST_DB_DSN is not set.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
