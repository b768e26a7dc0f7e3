// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Ceilings on upload size. A constrained serverless deployment caps request
// bodies at 4.5MB at the platform edge; the pre-check rejects anything the
// Content-Length header already shows is over that, while the stream limiter
// enforces a slightly lower hard cap on bytes actually read.
const (
	ConstrainedPrecheckBytes int64 = 4608 * 1024 // 4.5MB
	ConstrainedLimitBytes    int64 = 4 * 1024 * 1024
	DefaultMaxFileSizeMB           = 25
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Postgres audit log; empty DSN disables the upload audit trail
	PostgresURI string

	// Upload limits
	ConstrainedDeploy bool
	MaxFileSizeMB     int

	// CORS
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 60)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "voterdata"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		ConstrainedDeploy: getEnvAsBool("CONSTRAINED_DEPLOY", false) || os.Getenv("VERCEL") == "1",
		MaxFileSizeMB:     getEnvAsInt("MAX_FILE_SIZE_MB", DefaultMaxFileSizeMB),

		CORSAllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ","),
	}

	return config, nil
}

// UploadLimitBytes returns the hard ceiling the stream limiter enforces
// on an upload body in the current deployment mode.
func (c *Config) UploadLimitBytes() int64 {
	if c.ConstrainedDeploy {
		return ConstrainedLimitBytes
	}
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
