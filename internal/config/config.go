package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultMaxRequestBytes bounds a single JSON-RPC line read from stdin.
const DefaultMaxRequestBytes = 10 * 1024 * 1024

type Config struct {
	LogLevel        string
	EnvFile         string
	MaxRequestBytes int
}

// Load reads the configuration from the environment. Variables from the
// optional env file (PRAESENSE_ENV_FILE, default ".env") are applied first
// without overriding variables that are already set.
func Load() *Config {
	envFile := getEnv("PRAESENSE_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Ignoring env file %s: %v", envFile, err)
	}

	return &Config{
		LogLevel:        strings.ToLower(getEnv("PRAESENSE_LOG_LEVEL", "info")),
		EnvFile:         envFile,
		MaxRequestBytes: getEnvAsInt("PRAESENSE_MAX_REQUEST_BYTES", DefaultMaxRequestBytes),
	}
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}
