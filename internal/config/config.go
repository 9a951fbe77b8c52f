package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	HTTPPort       string
	TCPPort        string
	HistorySize    int
	ReadBufferSize int
	IdleTimeout    time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		HTTPPort:       getEnv("NEUROSYNC_HTTP_PORT", "8000"),
		TCPPort:        getEnv("NEUROSYNC_TCP_PORT", "5678"),
		HistorySize:    getEnvInt("NEUROSYNC_HISTORY_SIZE", 100),
		ReadBufferSize: getEnvInt("NEUROSYNC_READ_BUFFER", 1024),
		IdleTimeout:    getEnvDuration("NEUROSYNC_IDLE_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
