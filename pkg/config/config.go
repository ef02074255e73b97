package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Password      PasswordConfig
	Session       SessionConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SMARTMERCHANT_APP_ENV" required:"true"`
	Port         string `envconfig:"SMARTMERCHANT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SMARTMERCHANT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SMARTMERCHANT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SMARTMERCHANT_DB_DSN"`
	Driver string `envconfig:"SMARTMERCHANT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SMARTMERCHANT_DB_HOST"`
	LegacyPort     int    `envconfig:"SMARTMERCHANT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SMARTMERCHANT_DB_USER"`
	LegacyPassword string `envconfig:"SMARTMERCHANT_DB_PASSWORD"`
	LegacyName     string `envconfig:"SMARTMERCHANT_DB_NAME"`
	LegacySSLMode  string `envconfig:"SMARTMERCHANT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SMARTMERCHANT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SMARTMERCHANT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SMARTMERCHANT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SMARTMERCHANT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SMARTMERCHANT_REDIS_URL"`
	Address      string        `envconfig:"SMARTMERCHANT_REDIS_ADDR"`
	Password     string        `envconfig:"SMARTMERCHANT_REDIS_PASSWORD"`
	DB           int           `envconfig:"SMARTMERCHANT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SMARTMERCHANT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SMARTMERCHANT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SMARTMERCHANT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SMARTMERCHANT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SMARTMERCHANT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SMARTMERCHANT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SMARTMERCHANT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SMARTMERCHANT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SMARTMERCHANT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SMARTMERCHANT_ARGON_KEY_LEN" default:"32"`
	MinLength        int `envconfig:"SMARTMERCHANT_PASSWORD_MIN_LENGTH" default:"12"`
}

type SessionConfig struct {
	TokenBytes int           `envconfig:"SMARTMERCHANT_SESSION_TOKEN_BYTES" default:"32"`
	TTL        time.Duration `envconfig:"SMARTMERCHANT_SESSION_TTL" default:"720h"`
}

// TokenTTL returns the configured session lifetime, defaulting to 30 days.
func (s SessionConfig) TokenTTL() time.Duration {
	if s.TTL <= 0 {
		return 30 * 24 * time.Hour
	}
	return s.TTL
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"SMARTMERCHANT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit    int           `envconfig:"SMARTMERCHANT_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"SMARTMERCHANT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"SMARTMERCHANT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUsernameLimit int           `envconfig:"SMARTMERCHANT_AUTH_RATE_LIMIT_REGISTER_USERNAME_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"SMARTMERCHANT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SMARTMERCHANT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SMARTMERCHANT_AUTO_MIGRATE" default:"false"`
	SeedDemo    bool `envconfig:"SMARTMERCHANT_SEED_DEMO" default:"false"`
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
