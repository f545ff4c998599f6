// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Blacklist sources understood by BlacklistConfig.GetBlacklistSource.
const (
	BlacklistSourceEmbedded = "embedded"
	BlacklistSourceFile     = "file"
	BlacklistSourceMinIO    = "minio"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetShutdownTimeout() time.Duration
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	IsMetricsEnabled() bool
}

// JWTConfig provides bearer token validation settings for the API.
// An empty secret disables authentication.
type JWTConfig interface {
	GetJWTSecret() string
	IsAuthEnabled() bool
}

// EvaluatorConfig provides settings for the MPIN evaluation service.
type EvaluatorConfig interface {
	GetMatchMode() string
	GetMaxBatchSize() int
	GetBatchConcurrency() int
}

// BlacklistConfig selects where the commonly-used MPIN list is loaded from.
type BlacklistConfig interface {
	GetBlacklistSource() string
	GetBlacklistPath() string
	GetBlacklistBucket() string
	GetBlacklistObject() string
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxObjectSize() int64
	IsMinIOEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	ShutdownTimeout  time.Duration
	CORSAllowAll     bool
	CORSOrigins      []string
	CORSAllowCreds   bool
	MetricsEnabled   bool
	JWTSecret        string
	MatchMode        string
	MaxBatchSize     int
	BatchConcurrency int
	BlacklistSource  string
	BlacklistPath    string
	BlacklistBucket  string
	BlacklistObject  string
	MinIOEndpoint    string
	MinIOAccessKey   string
	MinIOSecretKey   string
	MinIOUseSSL      bool
	MinIOMaxObjSize  int64
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string               { return c.HTTPAddr }
func (c *Config) GetShutdownTimeout() time.Duration { return c.ShutdownTimeout }
func (c *Config) GetCORSAllowAll() bool             { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string          { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool           { return c.CORSAllowCreds }
func (c *Config) IsMetricsEnabled() bool            { return c.MetricsEnabled }

// JWTConfig implementation
func (c *Config) GetJWTSecret() string { return c.JWTSecret }
func (c *Config) IsAuthEnabled() bool  { return c.JWTSecret != "" }

// EvaluatorConfig implementation
func (c *Config) GetMatchMode() string     { return c.MatchMode }
func (c *Config) GetMaxBatchSize() int     { return c.MaxBatchSize }
func (c *Config) GetBatchConcurrency() int { return c.BatchConcurrency }

// BlacklistConfig implementation
func (c *Config) GetBlacklistSource() string { return c.BlacklistSource }
func (c *Config) GetBlacklistPath() string   { return c.BlacklistPath }
func (c *Config) GetBlacklistBucket() string { return c.BlacklistBucket }
func (c *Config) GetBlacklistObject() string { return c.BlacklistObject }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string     { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string    { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string    { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool         { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxObjectSize() int64 { return c.MinIOMaxObjSize }
func (c *Config) IsMinIOEnabled() bool         { return c.MinIOEndpoint != "" }

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() (*Config, error) {
	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:  mustDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		CORSAllowCreds:   strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		MetricsEnabled:   strings.EqualFold(getEnv("METRICS_ENABLED", "true"), "true"),
		JWTSecret:        getEnv("API_JWT_SECRET", ""),
		MatchMode:        strings.ToLower(getEnv("MATCH_MODE", "exact")),
		MaxBatchSize:     mustInt(getEnv("MAX_BATCH_SIZE", "100")),
		BatchConcurrency: mustInt(getEnv("BATCH_CONCURRENCY", "8")),
		BlacklistSource:  strings.ToLower(getEnv("BLACKLIST_SOURCE", BlacklistSourceEmbedded)),
		BlacklistPath:    getEnv("BLACKLIST_PATH", ""),
		BlacklistBucket:  getEnv("BLACKLIST_BUCKET", "mpin-config"),
		BlacklistObject:  getEnv("BLACKLIST_OBJECT", "blacklist.yaml"),
		MinIOEndpoint:    getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:   getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:   getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:      strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxObjSize:  mustInt64(getEnv("MINIO_MAX_OBJECT_SIZE", "1048576")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.MatchMode {
	case "exact", "contains":
	default:
		return fmt.Errorf("MATCH_MODE must be exact or contains, got %q", c.MatchMode)
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("MAX_BATCH_SIZE must be a positive integer")
	}
	if c.BatchConcurrency <= 0 {
		return fmt.Errorf("BATCH_CONCURRENCY must be a positive integer")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be a positive duration")
	}
	switch c.BlacklistSource {
	case BlacklistSourceEmbedded:
	case BlacklistSourceFile:
		if c.BlacklistPath == "" {
			return fmt.Errorf("BLACKLIST_PATH is required when BLACKLIST_SOURCE is file")
		}
	case BlacklistSourceMinIO:
		if !c.IsMinIOEnabled() {
			return fmt.Errorf("MINIO_ENDPOINT is required when BLACKLIST_SOURCE is minio")
		}
		if c.BlacklistBucket == "" || c.BlacklistObject == "" {
			return fmt.Errorf("BLACKLIST_BUCKET and BLACKLIST_OBJECT are required when BLACKLIST_SOURCE is minio")
		}
	default:
		return fmt.Errorf("BLACKLIST_SOURCE must be embedded, file or minio, got %q", c.BlacklistSource)
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
