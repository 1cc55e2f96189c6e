package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/vincentyono/icp-smart-contract/internal/common/constants"
	commonerrors "github.com/vincentyono/icp-smart-contract/internal/common/errors"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	AuthzModeUser    = "user"
	AuthzModeSession = "session"

	HasherPlain  = "plain"
	HasherBcrypt = "bcrypt"
)

type Config struct {
	HTTPPort       string        `yaml:"http_port" env:"HTTP_PORT" env-default:"8080"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"5s"`

	LogDir   string `yaml:"log_dir" env:"LOG_DIR"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	Store StoreConfig `yaml:"store"`

	SessionSecret   string        `yaml:"session_secret" env:"SESSION_SECRET" env-required:"true"`
	SessionTokenTTL time.Duration `yaml:"session_token_ttl" env:"SESSION_TOKEN_TTL" env-default:"24h"`
	AuthzMode       string        `yaml:"authz_mode" env:"AUTHZ_MODE" env-default:"user"`
	PasswordHasher  string        `yaml:"password_hasher" env:"PASSWORD_HASHER" env-default:"plain"`

	CircuitBreakerThreshold int32         `yaml:"circuit_breaker_threshold" env:"CIRCUIT_BREAKER_THRESHOLD" env-default:"50"`
	CircuitBreakerTimeout   time.Duration `yaml:"circuit_breaker_timeout" env:"CIRCUIT_BREAKER_TIMEOUT" env-default:"15s"`
	CircuitBreakerReset     time.Duration `yaml:"circuit_breaker_reset" env:"CIRCUIT_BREAKER_RESET" env-default:"10s"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps" env:"RATE_LIMIT_RPS" env-default:"20"`
	RateLimitBurst int     `yaml:"rate_limit_burst" env:"RATE_LIMIT_BURST" env-default:"40"`

	FeedSendBuffer int `yaml:"feed_send_buffer" env:"FEED_SEND_BUFFER" env-default:"256"`
}

type StoreConfig struct {
	Driver      string `yaml:"driver" env:"STORE_DRIVER" env-default:"postgres"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
	SQLitePath  string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"social.db"`
}

// Load reads CONFIG_PATH (yaml) when set, then applies environment overrides.
func Load() (Config, error) {
	var cfg Config

	if path, ok := os.LookupEnv("CONFIG_PATH"); ok && path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, commonerrors.ErrMissingRequiredEnv.WithCause(err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.SessionSecret) < constants.JWTSecretMinLength {
		return commonerrors.ErrInvalidSessionSecret.WithCause(fmt.Errorf("got %d bytes", len(c.SessionSecret)))
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return commonerrors.ErrMissingRequiredEnv.WithCause(fmt.Errorf("DATABASE_URL is required for driver %q", c.Store.Driver))
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return commonerrors.ErrMissingRequiredEnv.WithCause(fmt.Errorf("SQLITE_PATH is required for driver %q", c.Store.Driver))
		}
	default:
		return commonerrors.ErrInvalidConfig.WithCause(fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	if c.AuthzMode != AuthzModeUser && c.AuthzMode != AuthzModeSession {
		return commonerrors.ErrInvalidConfig.WithCause(fmt.Errorf("unknown AUTHZ_MODE %q", c.AuthzMode))
	}

	if c.PasswordHasher != HasherPlain && c.PasswordHasher != HasherBcrypt {
		return commonerrors.ErrInvalidConfig.WithCause(fmt.Errorf("unknown PASSWORD_HASHER %q", c.PasswordHasher))
	}

	if c.RequestTimeout <= 0 {
		return commonerrors.ErrInvalidConfig.WithCause(fmt.Errorf("REQUEST_TIMEOUT must be positive"))
	}

	return nil
}
