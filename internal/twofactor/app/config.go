package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer     string // Optional: issuer claim for attestations (default: twofactor)
	AdminToken string // Required: static bearer token guarding the /v1 API

	APIKey         string // Optional: initial API key for the push provider
	TestMode       bool   // Optional: route push traffic to the sandbox endpoint
	StoreDriver    string // Optional: credential store driver (file, sqlite) (default: file)
	CredentialFile string // Optional: path to the flat credential file (file driver)
	DatabaseFile   string // Optional: path to SQLite database file (sqlite driver) (default: ./twofactor.db)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	AttestationTTL      time.Duration // Attestation lifetime (default: 5m)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:     getEnvOrDefault("TWOFACTOR_ISSUER", "twofactor"),
		AdminToken: os.Getenv("ADMIN_TOKEN"),

		APIKey:         os.Getenv("TWOFACTOR_API_KEY"),
		TestMode:       getEnvBoolOrDefault("TWOFACTOR_TEST_MODE", false),
		StoreDriver:    getEnvOrDefault("TWOFACTOR_STORE_DRIVER", "file"),
		CredentialFile: os.Getenv("TWOFACTOR_CREDENTIAL_FILE"),
		DatabaseFile:   getEnvOrDefault("TWOFACTOR_DATABASE_FILE", "twofactor.db"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		AttestationTTL:      getEnvDurationOrDefault("TWOFACTOR_ATTESTATION_TTL", 5*time.Minute),
	}

	return cfg
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are read as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
