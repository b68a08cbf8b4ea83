// Package config reads process configuration from DIOCESE_* environment
// variables.
package config

import (
	"os"
	"strings"
)

// Storage drivers accepted by DIOCESE_STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Storage selects and configures the collection store backend.
type Storage struct {
	// Driver is explicit when set; otherwise the backend is detected from
	// which connection settings are present.
	Driver      string
	SQLitePath  string
	PostgresDSN string
	RedisURL    string
	RedisPrefix string
}

// Blob configures the profile image store.
type Blob struct {
	Driver      string
	FSRoot      string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// Log configures the process logger.
type Log struct {
	Level  string
	Format string
}

// Config is the full process configuration.
type Config struct {
	Storage Storage
	Blob    Blob
	Log     Log
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Storage: Storage{
			Driver:      strings.ToLower(strings.TrimSpace(os.Getenv("DIOCESE_STORAGE_DRIVER"))),
			SQLitePath:  getenv("DIOCESE_SQLITE_PATH", "./diocese.db"),
			PostgresDSN: os.Getenv("DIOCESE_POSTGRES_DSN"),
			RedisURL:    os.Getenv("DIOCESE_REDIS_URL"),
			RedisPrefix: getenv("DIOCESE_REDIS_PREFIX", "diocese:"),
		},
		Blob: Blob{
			Driver:      getenv("DIOCESE_BLOB_DRIVER", "fs"),
			FSRoot:      getenv("DIOCESE_BLOB_FS_ROOT", "./blobdata"),
			S3Bucket:    os.Getenv("DIOCESE_BLOB_S3_BUCKET"),
			S3Region:    os.Getenv("DIOCESE_BLOB_S3_REGION"),
			S3Endpoint:  os.Getenv("DIOCESE_BLOB_S3_ENDPOINT"),
			S3PathStyle: strings.EqualFold(os.Getenv("DIOCESE_BLOB_S3_PATH_STYLE"), "true"),
		},
		Log: Log{
			Level:  getenv("DIOCESE_LOG_LEVEL", "info"),
			Format: getenv("DIOCESE_LOG_FORMAT", "text"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
