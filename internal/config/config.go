package config

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Config holds application configuration values.
type Config struct {
	Secret      string
	DatabaseDSN string
	HTTPPort    string
	LogLevel    string

	// RecomputeProfitOnEdit controls whether editing a sale's sell price
	// recomputes profit against the stored cost snapshot. Off by default:
	// profit stays frozen at creation, matching the historical behavior.
	RecomputeProfitOnEdit bool

	// EnforceAccessoryStock rejects accessory sales when on-hand quantity
	// is zero instead of letting it go negative. On by default.
	EnforceAccessoryStock bool

	// Bootstrap admin account, created at startup when both are set.
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "dev_secret"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		logrus.WithField("http_port", port).Warn("invalid HTTP_PORT value, defaulting to 8080")
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "tokoponsel.db"
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	return Config{
		Secret:                secret,
		DatabaseDSN:           dsn,
		HTTPPort:              port,
		LogLevel:              level,
		RecomputeProfitOnEdit: boolEnv("RECOMPUTE_PROFIT_ON_EDIT", false),
		EnforceAccessoryStock: boolEnv("ENFORCE_ACCESSORY_STOCK", true),
		AdminEmail:            os.Getenv("ADMIN_EMAIL"),
		AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
	}
}

func boolEnv(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		logrus.WithField(key, raw).Warn("invalid boolean env value, using default")
		return fallback
	}
	return val
}
