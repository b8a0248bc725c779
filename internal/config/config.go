package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL connection settings for the metadata store.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for the blob store.
// Bucket plus Prefix together form the container the engine lists.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// EngineConfig holds the reconciliation/routing engine tunables.
type EngineConfig struct {
	// AdminIDs are the identities allowed to register routing targets.
	AdminIDs []string
	// PendingTTLSec bounds how long an uploaded payload waits for a target
	// selection before it expires.
	PendingTTLSec int
	// RetryMaxAttempts and RetryInitialBackoffMs parameterize the bounded
	// retry policy around idempotent store reads.
	RetryMaxAttempts      int
	RetryInitialBackoffMs int
	// ListPaceMs is the delay between successive per-blob share-link
	// refreshes during a listing. Throughput control, not correctness.
	ListPaceMs int
	// ShareExpiryHours is the lifetime of generated share URLs.
	ShareExpiryHours int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Engine   EngineConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			Prefix:    getEnv("BLOB_PREFIX", "submissions/"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Engine: EngineConfig{
			AdminIDs:              getEnvList("ADMIN_IDS"),
			PendingTTLSec:         getEnvInt("PENDING_TTL_SEC", 300),
			RetryMaxAttempts:      getEnvInt("RETRY_MAX_ATTEMPTS", 3),
			RetryInitialBackoffMs: getEnvInt("RETRY_INITIAL_BACKOFF_MS", 2000),
			ListPaceMs:            getEnvInt("LIST_PACE_MS", 1000),
			ShareExpiryHours:      getEnvInt("SHARE_EXPIRY_HOURS", 168),
		},
	}
}

// IsAdmin reports whether the given identity is in the configured admin list.
func (e EngineConfig) IsAdmin(id string) bool {
	for _, a := range e.AdminIDs {
		if a == id {
			return true
		}
	}
	return false
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
