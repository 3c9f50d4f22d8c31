package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Orders       OrdersConfig
	Idempotency  IdempotencyConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// The sqlite flag is the dev shortcut: it forces the driver and
	// supplies a local datasource when none is configured.
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if cfg.DB.Driver == DriverSQLite {
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = DefaultSQLiteDSN
		}
	} else if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BLAST_APP_ENV" required:"true"`
	Port         string `envconfig:"BLAST_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BLAST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BLAST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BLAST_DB_DSN"`
	Driver string `envconfig:"BLAST_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BLAST_DB_HOST"`
	LegacyPort     int    `envconfig:"BLAST_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BLAST_DB_USER"`
	LegacyPassword string `envconfig:"BLAST_DB_PASSWORD"`
	LegacyName     string `envconfig:"BLAST_DB_NAME"`
	LegacySSLMode  string `envconfig:"BLAST_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BLAST_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BLAST_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BLAST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BLAST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BLAST_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"BLAST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BLAST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BLAST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BLAST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BLAST_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BLAST_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BLAST_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BLAST_JWT_EXPIRATION_MINUTES" required:"true"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type OrdersConfig struct {
	NumberPrefix    string `envconfig:"BLAST_ORDERS_NUMBER_PREFIX" default:"BWP"`
	DeliveryETADays int    `envconfig:"BLAST_ORDERS_DELIVERY_ETA_DAYS" default:"7"`
	ShippingCarrier string `envconfig:"BLAST_ORDERS_SHIPPING_CARRIER" default:"BLAST Express"`
	ShippingMethod  string `envconfig:"BLAST_ORDERS_SHIPPING_METHOD" default:"Standard Delivery"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"BLAST_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BLAST_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BLAST_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
