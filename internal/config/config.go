// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Document store (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache (Redis): caller auth cache + rate limiting
	RedisURL string `env:"REDIS_URL,required"`

	// Identity provider admin API
	IdentityAPIURL string `env:"IDENTITY_API_URL,required"`
	IdentityAPIKey string `env:"IDENTITY_API_KEY,required"`

	// Subscription oracle
	OracleAPIURL string `env:"ORACLE_API_URL" envDefault:"https://api.revenuecat.com/v1"`
	OracleAPIKey string `env:"ORACLE_API_KEY,required"`

	// Notification gateway
	GatewayAPIURL string `env:"GATEWAY_API_URL" envDefault:"https://api.onesignal.com"`
	GatewayAppID  string `env:"GATEWAY_APP_ID,required"`
	GatewayAPIKey string `env:"GATEWAY_API_KEY,required"`

	// Telemetry sink
	TelemetryHost   string `env:"TELEMETRY_HOST,required"`
	TelemetryAPIKey string `env:"TELEMETRY_API_KEY,required"`

	// Aggregation settings
	PostsCollection    string `env:"POSTS_COLLECTION" envDefault:"posts"`
	EntitlementWorkers int    `env:"ENTITLEMENT_WORKERS" envDefault:"8"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Caller auth cache
	AuthCacheTTL time.Duration `env:"AUTH_CACHE_TTL" envDefault:"5m"`

	// Rate limiting (per authenticated caller)
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPM     int  `env:"RATE_LIMIT_RPM" envDefault:"60"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
