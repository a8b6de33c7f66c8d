package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sdp-dev/tech-audit-scraper/internal/apperrors"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultRegion    = "eu-west-2"
	DefaultSourceKey = "repositories.json"
	DefaultBatchSize = 30
	DefaultLogLevel  = "info"
)

// Config holds the full run configuration, collected once at startup and
// passed to each component. Fields are never read from the environment
// after Load returns.
type Config struct {
	// GitHub
	Organization string
	AppClientID  string

	// AWS
	SecretName string
	Region     string

	// Target object-storage location for the snapshot
	Bucket string
	Key    string

	// GraphQL page size
	BatchSize int

	LogLevel string
}

// Load reads the configuration from environment variables. A .env file in
// the working directory is honored when present.
func Load() (*Config, error) {
	// Ignore error if no .env file exists
	_ = godotenv.Load()

	cfg := &Config{
		Organization: os.Getenv("GITHUB_ORG"),
		AppClientID:  os.Getenv("GITHUB_APP_CLIENT_ID"),
		SecretName:   os.Getenv("AWS_SECRET_NAME"),
		Region:       getEnv("AWS_DEFAULT_REGION", DefaultRegion),
		Bucket:       os.Getenv("SOURCE_BUCKET"),
		Key:          getEnv("SOURCE_KEY", DefaultSourceKey),
		LogLevel:     getEnv("LOG_LEVEL", DefaultLogLevel),
	}

	batch := getEnv("BATCH_SIZE", strconv.Itoa(DefaultBatchSize))
	size, err := strconv.Atoi(batch)
	if err != nil {
		return nil, apperrors.NewConfiguration("BATCH_SIZE must be an integer, got " + batch)
	}
	cfg.BatchSize = size

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every required setting is present and sane.
func (c *Config) Validate() error {
	if c.Organization == "" {
		return apperrors.NewConfiguration("GITHUB_ORG is required")
	}
	if c.AppClientID == "" {
		return apperrors.NewConfiguration("GITHUB_APP_CLIENT_ID is required")
	}
	if c.SecretName == "" {
		return apperrors.NewConfiguration("AWS_SECRET_NAME is required")
	}
	if c.Region == "" {
		return apperrors.NewConfiguration("AWS_DEFAULT_REGION is required")
	}
	if c.Bucket == "" {
		return apperrors.NewConfiguration("SOURCE_BUCKET is required")
	}
	if c.Key == "" {
		return apperrors.NewConfiguration("SOURCE_KEY is required")
	}
	if c.BatchSize <= 0 {
		return apperrors.NewConfiguration("BATCH_SIZE must be a positive integer")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
