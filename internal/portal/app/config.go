package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
)

// Database drivers accepted in PORTAL_DATABASE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Issuer string // Issuer claim of session tokens (default: hoa-portal)

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // SQLite database file (default: ./portal.db)
	DatabaseURL    string // Postgres DSN, required when DatabaseDriver is postgres
	PepperFile     string // File holding the password hashing pepper (default: ./pepper)

	SigningKeyFile string        // PEM Ed25519 key reused across restarts; empty means ephemeral keys
	NumKeys        int           // Number of ephemeral signing keys, 1 to 10 (default: 3)
	SessionTTL     time.Duration // Session token lifetime (default: 7 days)

	AdminEmail    string // Seeded administrator on an empty database; skipped when empty
	AdminPassword string // Seeded administrator password; generated and logged once when empty

	SeedAnnouncements bool // Publish sample bulletins on an empty board (default: false)

	LateFee          domain.Money // Flat late fee, zero disables assessment
	LateFeeGraceDays int          // Days after the due date before the fee applies

	CORSOrigin string // Allowed browser origin; empty disables CORS headers

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("PORTAL_ISSUER", "hoa-portal"),
		DatabaseDriver: getEnvOrDefault("PORTAL_DATABASE_DRIVER", DriverSQLite),
		DatabaseFile:   getEnvOrDefault("PORTAL_DATABASE_FILE", "portal.db"),
		DatabaseURL:    os.Getenv("PORTAL_DATABASE_URL"),
		PepperFile:     getEnvOrDefault("PORTAL_PEPPER_FILE", "pepper"),

		SigningKeyFile: os.Getenv("PORTAL_SIGNING_KEY_FILE"),
		NumKeys:        getEnvIntOrDefault("PORTAL_NUM_KEYS", 0), // 0 lets the KeyManager pick its default
		SessionTTL:     getEnvDurationOrDefault("PORTAL_SESSION_TTL", 7*24*time.Hour),

		AdminEmail:    os.Getenv("PORTAL_ADMIN_EMAIL"),
		AdminPassword: os.Getenv("PORTAL_ADMIN_PASSWORD"),

		SeedAnnouncements: getEnvBoolOrDefault("PORTAL_SEED_ANNOUNCEMENTS", false),

		LateFee:          getEnvMoneyOrDefault("PORTAL_LATE_FEE", 0),
		LateFeeGraceDays: getEnvIntOrDefault("PORTAL_LATE_FEE_GRACE_DAYS", 0),

		CORSOrigin: os.Getenv("PORTAL_CORS_ORIGIN"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func getEnvMoneyOrDefault(key string, defaultValue domain.Money) domain.Money {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if m, err := domain.ParseMoney(value); err == nil && m >= 0 {
		return m
	}

	return defaultValue
}
