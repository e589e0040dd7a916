package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"nexus-pos/pkg/database"
)

type Config struct {
	Port    string
	AppName string

	Location *time.Location

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	JWTSecret          string
	TokenTTL           time.Duration
	SessionIdleTimeout time.Duration

	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	DashboardCacheTTL time.Duration

	AMQPURL      string
	AMQPExchange string

	PrometheusEnabled bool

	SeedAdminEmail    string
	SeedAdminPassword string

	LoginMaxAttempts int
	LoginLockout     time.Duration
}

func Load() Config {
	cfg := Config{
		Port:    getEnv("PORT", "3000"),
		AppName: getEnv("APP_NAME", "Nexus POS v1.0"),

		Location: loadLocation(getEnv("APP_TIMEZONE", "Asia/Jakarta")),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "nexus-pos.db"),

		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:           time.Duration(getInt("TOKEN_TTL_HOURS", 24, 1)) * time.Hour,
		SessionIdleTimeout: time.Duration(getInt("SESSION_IDLE_MINUTES", 5, 0)) * time.Minute,

		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getInt("REDIS_DB", 0, 0),
		DashboardCacheTTL: time.Duration(getInt("DASHBOARD_CACHE_TTL_SECONDS", 3600, 1)) * time.Second,

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "pos.events"),

		PrometheusEnabled: os.Getenv("PROMETHEUS_ENABLED") == "true",

		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@example.com"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),

		LoginMaxAttempts: getInt("LOGIN_MAX_ATTEMPTS", 5, 1),
		LoginLockout:     time.Duration(getInt("LOGIN_LOCKOUT_MINUTES", 60, 1)) * time.Minute,
	}

	if cfg.DatabaseURL == "" && cfg.DBDriver == "postgres" {
		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			getEnv("DB_PORT", "5432"),
		)
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c Config) Database() database.Config {
	return database.Config{
		Driver:     c.DBDriver,
		DSN:        c.DatabaseURL,
		SQLitePath: c.SQLitePath,
	}
}

// loadLocation falls back to a fixed UTC+7 zone when tzdata is missing.
func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Warning: timezone %q unavailable (%v), using UTC+7", name, err)
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getInt(key string, fallback, min int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil || n < min {
		return fallback
	}
	return n
}
