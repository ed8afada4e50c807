package config

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	HashRounds      int           `env:"HASH_ROUNDS,      default=10"`
	StoreDriver     string        `env:"STORE_DRIVER,     default=postgres"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	DB    DBConfig
	Mongo MongoConfig
}

type DBConfig struct {
	Host         string `env:"DB_HOST,           default=localhost"`
	Port         int    `env:"DB_PORT,           default=5432"`
	Name         string `env:"DB_NAME,           default=users"`
	Username     string `env:"DB_USERNAME,       default=postgres"`
	Password     string `env:"DB_PASSWORD"`
	SSL          bool   `env:"DB_SSL,            default=true"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS, default=10"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=user_service"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=10"`
}

// Load reads an optional .env file, then configuration from the process
// environment using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		return fmt.Errorf("invalid DB_PORT %d", c.DB.Port)
	}
	return nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Addr is the listen address derived from Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (d DBConfig) sslMode() string {
	if d.SSL {
		return "require"
	}
	return "disable"
}

// URL renders the postgres:// connection URL used by both the GORM driver and
// golang-migrate. Every component is escaped by net/url.
func (d DBConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.Username, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.sslMode()}}.Encode(),
	}
	return u.String()
}
