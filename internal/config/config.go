// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// TokenCleanupInterval is how often the background sweeper removes expired tokens.
	TokenCleanupInterval time.Duration
	// TokenDefaultTTL is the TTL applied when an issuance request omits ttl_seconds.
	TokenDefaultTTL time.Duration

	// AuthEnabled indicates whether API key authentication is enforced.
	AuthEnabled bool
	// APIKeys is a comma-separated list of accepted API keys.
	// Keys are hashed at startup; plaintext values are not retained.
	APIKeys string

	// RateLimitEnabled indicates whether IP-based rate limiting is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per client IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// MasterKey is the master key entry in "id:base64" format.
	// When empty a fresh key is generated at startup (tokens and blobs do not
	// survive restarts, so an ephemeral key is acceptable for this service).
	MasterKey string
	// KMSProvider is the KMS provider used to unwrap the master key (e.g., "localsecrets", "hashivault").
	KMSProvider string
	// KMSKeyURI is the URI for the wrapping key in the KMS.
	KMSKeyURI string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Token lifecycle
		TokenCleanupInterval: env.GetDuration("TOKEN_CLEANUP_INTERVAL_SECONDS", 60, time.Second),
		TokenDefaultTTL:      env.GetDuration("TOKEN_DEFAULT_TTL_SECONDS", 300, time.Second),

		// Authentication
		AuthEnabled: env.GetBool("AUTH_ENABLED", false),
		APIKeys:     env.GetString("API_KEYS", ""),

		// Rate Limiting (IP-based, applies to all API endpoints)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "tokengate"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// Master key configuration
		MasterKey:   env.GetString("MASTER_KEY", ""),
		KMSProvider: env.GetString("KMS_PROVIDER", ""),
		KMSKeyURI:   env.GetString("KMS_KEY_URI", ""),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
