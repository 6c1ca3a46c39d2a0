package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/bridgekit")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("IDENTITY_API_URL", "https://identity.example.com")
	t.Setenv("IDENTITY_API_KEY", "id_key")
	t.Setenv("ORACLE_API_KEY", "rc_key")
	t.Setenv("GATEWAY_APP_ID", "app-1")
	t.Setenv("GATEWAY_API_KEY", "os_key")
	t.Setenv("TELEMETRY_HOST", "https://telemetry.example.com")
	t.Setenv("TELEMETRY_API_KEY", "tm_key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("AppEnv = %q, want development", cfg.AppEnv)
	}
	if cfg.AppPort != 8080 {
		t.Errorf("AppPort = %d, want 8080", cfg.AppPort)
	}
	if cfg.OracleAPIURL != "https://api.revenuecat.com/v1" {
		t.Errorf("OracleAPIURL = %q", cfg.OracleAPIURL)
	}
	if cfg.GatewayAPIURL != "https://api.onesignal.com" {
		t.Errorf("GatewayAPIURL = %q", cfg.GatewayAPIURL)
	}
	if cfg.PostsCollection != "posts" {
		t.Errorf("PostsCollection = %q, want posts", cfg.PostsCollection)
	}
	if cfg.EntitlementWorkers != 8 {
		t.Errorf("EntitlementWorkers = %d, want 8", cfg.EntitlementWorkers)
	}
	if cfg.AuthCacheTTL != 5*time.Minute {
		t.Errorf("AuthCacheTTL = %v, want 5m", cfg.AuthCacheTTL)
	}
	if !cfg.RateLimitEnabled || cfg.RateLimitRPM != 60 || cfg.RateLimitBurst != 10 {
		t.Errorf("rate limit defaults = %v/%d/%d", cfg.RateLimitEnabled, cfg.RateLimitRPM, cfg.RateLimitBurst)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POSTS_COLLECTION", "articles")
	t.Setenv("ENTITLEMENT_WORKERS", "4")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "10s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("IsProduction() = false")
	}
	if cfg.AppPort != 9090 {
		t.Errorf("AppPort = %d, want 9090", cfg.AppPort)
	}
	if cfg.PostsCollection != "articles" {
		t.Errorf("PostsCollection = %q, want articles", cfg.PostsCollection)
	}
	if cfg.EntitlementWorkers != 4 {
		t.Errorf("EntitlementWorkers = %d, want 4", cfg.EntitlementWorkers)
	}
	if cfg.RateLimitEnabled {
		t.Error("RateLimitEnabled = true, want false")
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	// t.Setenv registered the restore; unset so the variable is absent,
	// not merely empty.
	t.Setenv("DATABASE_URL", "placeholder")
	os.Unsetenv("DATABASE_URL")

	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without DATABASE_URL")
	}
}
