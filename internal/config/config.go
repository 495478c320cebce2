package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the planner.
type Config struct {
	DatabaseURL   string
	HTTPAddr      string
	TelegramToken string
	DigestTime    string
	Timezone      string
	LogLevel      string
	LogPath       string
	GinMode       string
}

// Load reads configuration from an optional .env file and environment variables with sane defaults.
func Load() (Config, error) {
	// A missing .env file is fine, the environment still applies.
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL:   getEnv("DATABASE_URL", "study_planner.db"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		TelegramToken: getEnv("TELEGRAM_TOKEN", ""),
		DigestTime:    getEnv("DIGEST_TIME", "07:30"),
		Timezone:      getEnv("TIMEZONE", "UTC"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPath:       getEnv("LOG_PATH", "logs/app.log"),
		GinMode:       getEnv("GIN_MODE", "release"),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if _, _, err := ParseClock(c.DigestTime); err != nil {
		return fmt.Errorf("DIGEST_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE %q: expected debug, release or test", c.GinMode)
	}
	return nil
}

// Location returns the zone used to decide which calendar day "today" is.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BotEnabled reports whether a Telegram token was supplied.
func (c Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

// ParseClock parses an HH:MM wall-clock string.
func ParseClock(raw string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return hour, minute, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
