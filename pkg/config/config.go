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
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DOCCART_APP_ENV" required:"true"`
	Port         string `envconfig:"DOCCART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DOCCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DOCCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DOCCART_DB_DSN"`
	Driver string `envconfig:"DOCCART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"DOCCART_DB_HOST"`
	Port     int    `envconfig:"DOCCART_DB_PORT" default:"5432"`
	User     string `envconfig:"DOCCART_DB_USER"`
	Password string `envconfig:"DOCCART_DB_PASSWORD"`
	Name     string `envconfig:"DOCCART_DB_NAME"`
	SSLMode  string `envconfig:"DOCCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DOCCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DOCCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DOCCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DOCCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DOCCART_REDIS_URL"`
	Address      string        `envconfig:"DOCCART_REDIS_ADDR"`
	Password     string        `envconfig:"DOCCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"DOCCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DOCCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DOCCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DOCCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DOCCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DOCCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether enough Redis settings exist to dial a client.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// CartConfig selects the cart storage strategy and the session cookie.
type CartConfig struct {
	Backend      string        `envconfig:"DOCCART_CART_BACKEND" default:"session"`
	SessionTTL   time.Duration `envconfig:"DOCCART_CART_SESSION_TTL" default:"24h"`
	CookieName   string        `envconfig:"DOCCART_CART_COOKIE_NAME" default:"doccart_session"`
	CookieSecure bool          `envconfig:"DOCCART_CART_COOKIE_SECURE" default:"false"`
}

// BackendKind returns the normalized backend selector.
func (c CartConfig) BackendKind() string {
	kind := strings.TrimSpace(strings.ToLower(c.Backend))
	if kind == "" {
		return CartBackendSession
	}
	return kind
}

func (c CartConfig) validate() error {
	switch c.BackendKind() {
	case CartBackendSession, CartBackendDatabase, CartBackendMemory:
		return nil
	}
	return fmt.Errorf("%s must be one of %s, %s, %s", EnvCartBackend, CartBackendSession, CartBackendDatabase, CartBackendMemory)
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DOCCART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DOCCART_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, DBDriverSQLite) {
		return fmt.Errorf("%s is required for sqlite", EnvDBDSN)
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range splitDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
