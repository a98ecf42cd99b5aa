// Package config reads application settings from the environment,
// optionally seeded from a .env file.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found", "error", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
		slog.Warn("invalid integer in environment, using default", "key", key, "default", defaultVal)
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable (e.g. "30m") or
// a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		slog.Warn("invalid duration in environment, using default", "key", key, "default", defaultVal)
	}
	return defaultVal
}

// GetBoolEnv returns a boolean environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
		slog.Warn("invalid boolean in environment, using default", "key", key, "default", defaultVal)
	}
	return defaultVal
}

// GetListEnv splits a comma separated variable, dropping blanks.
func GetListEnv(key string, defaultVal []string) []string {
	val := GetEnv(key, "")
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}
