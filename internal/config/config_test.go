package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DB_DRIVER", "DATABASE_URL", "TOKEN_TTL_HOURS", "SESSION_IDLE_MINUTES",
		"DASHBOARD_CACHE_TTL_SECONDS", "AMQP_EXCHANGE", "LOGIN_MAX_ATTEMPTS", "LOGIN_LOCKOUT_MINUTES",
		"PROMETHEUS_ENABLED", "JWT_SECRET",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "3000" {
		t.Fatalf("expected port 3000, got %q", cfg.Port)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("expected postgres driver, got %q", cfg.DBDriver)
	}
	if !strings.Contains(cfg.DatabaseURL, "sslmode=disable") {
		t.Fatalf("expected DSN assembled from DB_* vars, got %q", cfg.DatabaseURL)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h token ttl, got %s", cfg.TokenTTL)
	}
	if cfg.SessionIdleTimeout != 5*time.Minute {
		t.Fatalf("expected 5m idle timeout, got %s", cfg.SessionIdleTimeout)
	}
	if cfg.DashboardCacheTTL != time.Hour {
		t.Fatalf("expected 1h cache ttl, got %s", cfg.DashboardCacheTTL)
	}
	if cfg.AMQPExchange != "pos.events" {
		t.Fatalf("expected pos.events exchange, got %q", cfg.AMQPExchange)
	}
	if cfg.LoginMaxAttempts != 5 || cfg.LoginLockout != time.Hour {
		t.Fatalf("unexpected login limits: %d / %s", cfg.LoginMaxAttempts, cfg.LoginLockout)
	}
	if cfg.PrometheusEnabled {
		t.Fatalf("expected prometheus disabled by default")
	}
	if cfg.JWTSecret != "" {
		t.Fatalf("expected empty JWT_SECRET when unset, got %q", cfg.JWTSecret)
	}
}

func TestLoadRejectsInvalidNumbers(t *testing.T) {
	t.Setenv("TOKEN_TTL_HOURS", "zero")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "-3")
	t.Setenv("SESSION_IDLE_MINUTES", "0")

	cfg := Load()
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected fallback ttl, got %s", cfg.TokenTTL)
	}
	if cfg.LoginMaxAttempts != 5 {
		t.Fatalf("expected fallback attempts, got %d", cfg.LoginMaxAttempts)
	}
	if cfg.SessionIdleTimeout != 0 {
		t.Fatalf("expected idle timeout disabled, got %s", cfg.SessionIdleTimeout)
	}
}

func TestLoadSQLiteKeepsDSNEmpty(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SQLITE_PATH", "/tmp/pos.db")

	cfg := Load()
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("expected lower-cased driver, got %q", cfg.DBDriver)
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("expected no postgres DSN for sqlite, got %q", cfg.DatabaseURL)
	}
	if cfg.SQLitePath != "/tmp/pos.db" {
		t.Fatalf("unexpected sqlite path %q", cfg.SQLitePath)
	}
}

func TestLoadTimezoneFallback(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Not/AZone")

	cfg := Load()
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, cfg.Location).Zone()
	if offset != 7*60*60 {
		t.Fatalf("expected UTC+7 fallback, got offset %d", offset)
	}
}
