package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/lib/pq"
)

type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string
	Port        string

	Database DatabaseConfig
	Auth     AuthConfig

	CORSAllowedOrigins []string

	// Empty disables tracing.
	OtelEndpoint string
}

type DatabaseConfig struct {
	Driver   string // "postgres" or "sqlite"
	DSN      string
	LogLevel string // "silent", "error", "warn", "info"

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	Secret        string
	CookieName    string
	CookieSecure  bool
	TokenLifetime time.Duration
}

// Load reads the configuration from the environment, a .env file being loaded first when present.
func Load() (*Config, error) {
	cfg := &Config{
		Env:         getEnv("APP_ENV", "local"),
		ServiceName: getEnv("SERVICE_NAME", "social-network"),
		Port:        getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			LogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		Auth: AuthConfig{
			Secret:        getEnv("AUTH_SECRET_KEY", os.Getenv("JWT_SECRET")),
			CookieName:    getEnv("AUTH_COOKIE_NAME", "social_network"),
			CookieSecure:  getEnvBool("AUTH_COOKIE_SECURE", false),
			TokenLifetime: time.Duration(getEnvInt("AUTH_TOKEN_LIFETIME", 3600)) * time.Second,
		},
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	dsn, err := databaseDSN(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	cfg.Database.DSN = dsn

	if cfg.Auth.Secret == "" {
		if cfg.Env == "prod" {
			return nil, fmt.Errorf("AUTH_SECRET_KEY is required in production")
		}
		cfg.Auth.Secret = "local-dev-secret"
	}
	if cfg.Auth.TokenLifetime <= 0 {
		return nil, fmt.Errorf("AUTH_TOKEN_LIFETIME must be positive")
	}

	return cfg, nil
}

// databaseDSN prefers DATABASE_URL and falls back to the DB_* variables.
func databaseDSN(driver string) (string, error) {
	switch driver {
	case "sqlite":
		return getEnv("DB_PATH", "social_network.db"), nil
	case "postgres":
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		dsn, err := pq.ParseURL(url)
		if err != nil {
			return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		return dsn, nil
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "social_network"),
		getEnv("DB_SSLMODE", "disable"),
	), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
