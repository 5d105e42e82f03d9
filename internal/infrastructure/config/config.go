package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds process configuration, loaded from the environment.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `envconfig:"ADDR" default:":8080"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `envconfig:"DB_URL" required:"true"`
	// RedisURL enables the Redis conversation cache when set; empty falls
	// back to the in-process cache.
	RedisURL string `envconfig:"REDIS_URL"`
	// JWTSecret signs and validates bearer tokens.
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	// TokenTTL bounds the lifetime of issued tokens.
	TokenTTL time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
