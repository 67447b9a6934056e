package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is read from the environment. A .env file in the working directory
// is loaded first when present; real environment variables win.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`
	Port   int    `envconfig:"PORT" default:"8082"`

	StoreDriver   string `envconfig:"STORE_DRIVER" default:"postgres"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"true"`

	Redis    Redis
	RabbitMQ RabbitMQ

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"1h"`

	PurchaseMaxAttempts int           `envconfig:"PURCHASE_MAX_ATTEMPTS" default:"5"`
	ShutdownTimeout     time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Redis configures the top-rated cache. An empty URL disables it.
type Redis struct {
	URL          string        `split_words:"true"`
	ReadTimeout  int           `split_words:"true" default:"3"`
	WriteTimeout int           `split_words:"true" default:"3"`
	DialTimeout  int           `split_words:"true" default:"5"`
	TTL          time.Duration `envconfig:"TOP_RATED_CACHE_TTL" default:"30s"`
}

// RabbitMQ configures stock event publishing. An empty URL disables it.
type RabbitMQ struct {
	URL      string `split_words:"true"`
	Queue    string `split_words:"true" default:"stock_events"`
	PoolSize int    `envconfig:"CHANNEL_POOL_SIZE" default:"10"`
}

func (c *Config) Environment() Environment {
	return ParseEnvironment(c.AppEnv)
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.PurchaseMaxAttempts < 1 {
		return fmt.Errorf("PURCHASE_MAX_ATTEMPTS must be >= 1, got %d", c.PurchaseMaxAttempts)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.RabbitMQ.URL != "" && c.RabbitMQ.PoolSize < 1 {
		return fmt.Errorf("CHANNEL_POOL_SIZE must be >= 1, got %d", c.RabbitMQ.PoolSize)
	}
	return nil
}

// Load reads .env (if any) and the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
