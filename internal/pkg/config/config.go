package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=5000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=1h"`

	// CORSOrigins is a comma-separated allow list; "*" allows any origin.
	CORSOrigins []string `env:"CORS_ORIGIN, default=*"`

	// AuthRequiredForWrites guards POST/PUT/DELETE /recipes with a bearer token.
	AuthRequiredForWrites bool `env:"AUTH_REQUIRED_FOR_WRITES, default=true"`
	SeedOnStartup         bool `env:"SEED_ON_STARTUP,          default=true"`
	ActivityWorkers       int  `env:"ACTIVITY_WORKERS,         default=4"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Argon2 Argon2Config
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI, required"`
	Database string `env:"MONGO_DB,    default=recipes"`
}

// RedisConfig is optional: an empty Addr disables idempotency keys.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type Argon2Config struct {
	MemoryKiB   uint32 `env:"ARGON2_MEMORY_KIB,  default=65536"`
	Iterations  uint32 `env:"ARGON2_ITERATIONS,  default=3"`
	Parallelism uint8  `env:"ARGON2_PARALLELISM, default=4"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
