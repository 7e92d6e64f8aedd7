package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the immutable process-wide configuration, loaded once at
// startup and injected into every component that needs it.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// JWTConfig holds the signing key and per-type token lifetimes. Rotating
// the secret invalidates every outstanding token.
type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET, required"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL,  default=30m"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL, default=168h"`
}

type AuthConfig struct {
	BcryptCost          int `env:"BCRYPT_COST, default=10"`
	LoginRatePerMinute  int `env:"LOGIN_RATE_LIMIT_PER_MINUTE, default=60"`
	VerificationWorkers int `env:"VERIFICATION_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=driving_school"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
