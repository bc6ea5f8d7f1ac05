package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Log         LogConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Mirror      MirrorConfig
	Ledger      LedgerConfig
	Seed        SeedConfig
	Idempotency IdempotencyConfig
}

type AppConfig struct {
	Name   string
	Env    string
	Port   string
	Debug  bool
	NodeID int64
}

// DatabaseConfig selects the durable store. Driver "memory" runs without one.
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
	SQLitePath string
}

type LogConfig struct {
	Level string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type MirrorConfig struct {
	MaxAttempts     int
	BaseBackoff     time.Duration
	MaxBackoff      time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type LedgerConfig struct {
	// EnforceSaleStock rejects sales that would drive stock below zero.
	EnforceSaleStock bool
}

type SeedConfig struct {
	Shops []string
}

type IdempotencyConfig struct {
	// SweepInterval is how often expired keys are deleted
	SweepInterval time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// a missing .env is normal outside local development
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("APP_NAME", "shopledger-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("APP_NODE_ID", 1)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "shopledger")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Africa/Nairobi")
	viper.SetDefault("DB_SQLITE_PATH", "shopledger.db")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("MIRROR_MAX_ATTEMPTS", 10)
	viper.SetDefault("MIRROR_BASE_BACKOFF", "500ms")
	viper.SetDefault("MIRROR_MAX_BACKOFF", "1m")
	viper.SetDefault("MIRROR_WRITE_TIMEOUT", "10s")
	viper.SetDefault("MIRROR_SHUTDOWN_TIMEOUT", "30s")
	viper.SetDefault("LEDGER_ENFORCE_SALE_STOCK", false)
	viper.SetDefault("SEED_SHOPS", "Main Wholesale:WHOLESALE,Town Retail:RETAIL")
	viper.SetDefault("IDEMPOTENCY_SWEEP_INTERVAL", "10m")

	cfg := &Config{
		App: AppConfig{
			Name:   viper.GetString("APP_NAME"),
			Env:    viper.GetString("APP_ENV"),
			Port:   viper.GetString("APP_PORT"),
			Debug:  viper.GetBool("APP_DEBUG"),
			NodeID: viper.GetInt64("APP_NODE_ID"),
		},
		Database: DatabaseConfig{
			Driver:     viper.GetString("DB_DRIVER"),
			Host:       viper.GetString("DB_HOST"),
			Port:       viper.GetString("DB_PORT"),
			Name:       viper.GetString("DB_NAME"),
			User:       viper.GetString("DB_USER"),
			Password:   viper.GetString("DB_PASSWORD"),
			SSLMode:    viper.GetString("DB_SSL_MODE"),
			Timezone:   viper.GetString("DB_TIMEZONE"),
			SQLitePath: viper.GetString("DB_SQLITE_PATH"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Mirror: MirrorConfig{
			MaxAttempts:     viper.GetInt("MIRROR_MAX_ATTEMPTS"),
			BaseBackoff:     viper.GetDuration("MIRROR_BASE_BACKOFF"),
			MaxBackoff:      viper.GetDuration("MIRROR_MAX_BACKOFF"),
			WriteTimeout:    viper.GetDuration("MIRROR_WRITE_TIMEOUT"),
			ShutdownTimeout: viper.GetDuration("MIRROR_SHUTDOWN_TIMEOUT"),
		},
		Ledger: LedgerConfig{
			EnforceSaleStock: viper.GetBool("LEDGER_ENFORCE_SALE_STOCK"),
		},
		Seed: SeedConfig{
			Shops: splitList(viper.GetString("SEED_SHOPS")),
		},
		Idempotency: IdempotencyConfig{
			SweepInterval: viper.GetDuration("IDEMPOTENCY_SWEEP_INTERVAL"),
		},
	}

	switch cfg.Database.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.RateLimit.Duration <= 0 {
		cfg.RateLimit.Duration = 60
	}
	if cfg.Idempotency.SweepInterval <= 0 {
		cfg.Idempotency.SweepInterval = 10 * time.Minute
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
