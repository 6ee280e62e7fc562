// Package config holds the server settings, read from the environment and
// overridden by command line flags.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Host          string
	Port          int
	Debug         bool
	ChromePath    string
	DatabaseURL   string
	SessionTTL    time.Duration
	ExportTimeout time.Duration
}

// FromEnv reads HOST, PORT, DEBUG, CHROME_PATH, DATABASE_URL, SESSION_TTL
// and EXPORT_TIMEOUT. Unset or unparsable values fall back to defaults.
func FromEnv() Config {
	return Config{
		Host:          envString("HOST", "0.0.0.0"),
		Port:          envInt("PORT", 3000),
		Debug:         envBool("DEBUG", false),
		ChromePath:    os.Getenv("CHROME_PATH"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionTTL:    envDuration("SESSION_TTL", time.Hour),
		ExportTimeout: envDuration("EXPORT_TIMEOUT", 60*time.Second),
	}
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("session ttl must not be negative")
	}
	if c.ExportTimeout <= 0 {
		return fmt.Errorf("export timeout must be positive")
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return def
}
