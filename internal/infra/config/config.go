package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL string // empty selects the in-memory stores
	HTTPAddr    string
	LogLevel    string
	Environment string

	// TelegramToken enables the push delivery channel when set.
	TelegramToken string

	CronSpecReminderCheck string // evaluation tick, default every minute
	CronSpecMarkerSweep   string // daily marker retention sweep
	MarkerRetentionDays   int
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.HTTPAddr = os.Getenv("HTTP_LISTEN_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	cfg.CronSpecReminderCheck = os.Getenv("CRON_SPEC_REMINDER_CHECK")
	if cfg.CronSpecReminderCheck == "" {
		cfg.CronSpecReminderCheck = "* * * * *" // Default: every minute
	}

	cfg.CronSpecMarkerSweep = os.Getenv("CRON_SPEC_MARKER_SWEEP")
	if cfg.CronSpecMarkerSweep == "" {
		cfg.CronSpecMarkerSweep = "0 3 * * *" // Default: 03:00 daily
	}

	retentionStr := os.Getenv("MARKER_RETENTION_DAYS")
	if retentionStr == "" {
		cfg.MarkerRetentionDays = 14
	} else {
		retention, err := strconv.Atoi(retentionStr)
		if err != nil || retention < 1 {
			return nil, fmt.Errorf("invalid MARKER_RETENTION_DAYS %q", retentionStr)
		}
		cfg.MarkerRetentionDays = retention
	}

	return cfg, nil
}
