package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	TablePrefix string
	// Remote conversion service
	ConversionBaseURL string
	ConversionAPIKey  string
	// Optional registry snapshot persistence; empty disables it
	DatabaseURL string
	// Poller
	PollInterval  time.Duration
	PollOnStartup bool
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       env,
		CORSOrigins:       getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:       tablePrefix,
		ConversionBaseURL: getEnv("CONVERSION_SERVICE_URL", "http://localhost:9090"),
		ConversionAPIKey:  getEnv("CONVERSION_SERVICE_API_KEY", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		PollInterval:      getDurationEnv("POLL_INTERVAL_SECONDS", DefaultPollInterval),
		PollOnStartup:     getEnv("POLL_ON_STARTUP", "true") == "true",
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	case "dev":
		return "dev_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv reads a whole-seconds env var, clamped to MinPollInterval.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return defaultValue
	}
	d := time.Duration(secs) * time.Second
	if d < MinPollInterval {
		return MinPollInterval
	}
	return d
}
