package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers selectable through STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	LogLevel       slog.Level
	StoreDriver    string
	MigrationsPath string
	DBMaxConns     int32

	// Idempotency keys are cached in Redis when RedisURL is set.
	RedisURL       string
	IdempotencyTTL time.Duration

	// Ledger events go to RabbitMQ when AMQPURL is set.
	AMQPURL              string
	LedgerEventsExchange string

	RateLimit          string
	CORSAllowedOrigins []string

	ReferenceMaxAttempts int
	MetricsNamespace     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("IDEMPOTENCY_TTL", "24h")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("LEDGER_EVENTS_EXCHANGE", "ledger.events")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("REFERENCE_MAX_ATTEMPTS", 10)
	v.SetDefault("METRICS_NAMESPACE", "bank")

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:          v.GetString("PGSQL_URL"),
		Port:                 v.GetString("PORT"),
		IsProduction:         v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:        v.GetBool("ENABLE_DB_CHECK"),
		StoreDriver:          strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		MigrationsPath:       v.GetString("MIGRATIONS_PATH"),
		DBMaxConns:           v.GetInt32("DB_MAX_CONNS"),
		RedisURL:             v.GetString("REDIS_URL"),
		AMQPURL:              v.GetString("AMQP_URL"),
		LedgerEventsExchange: v.GetString("LEDGER_EVENTS_EXCHANGE"),
		RateLimit:            v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		ReferenceMaxAttempts: v.GetInt("REFERENCE_MAX_ATTEMPTS"),
		MetricsNamespace:     v.GetString("METRICS_NAMESPACE"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v.GetString("LOG_LEVEL"), err)
	}

	ttlStr := v.GetString("IDEMPOTENCY_TTL")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL %q", ttlStr)
	}
	cfg.IdempotencyTTL = ttl

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_DRIVER is %s", StoreDriverPostgres)
		}
	case StoreDriverMemory:
		if cfg.IsProduction {
			slog.Warn("In-memory store selected in production; all data is lost on restart")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.ReferenceMaxAttempts <= 0 {
		return nil, fmt.Errorf("REFERENCE_MAX_ATTEMPTS must be positive, got %d", cfg.ReferenceMaxAttempts)
	}
	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = 10
		slog.Warn("DB_MAX_CONNS not positive, defaulting", slog.Int("db_max_conns", int(cfg.DBMaxConns)))
	}
	if cfg.RedisURL == "" {
		slog.Warn("REDIS_URL not set; Idempotency-Key headers will be ignored")
	}
	if cfg.AMQPURL == "" {
		slog.Warn("AMQP_URL not set; ledger events will only be logged")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
