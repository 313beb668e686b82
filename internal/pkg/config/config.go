package config

import (
	"time"

	units "github.com/docker/go-units"
)

type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Links    LinkConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	LogLevel string
}

type ServerConfig struct {
	Host string
	Port string
}

type UploadConfig struct {
	// MaxFileSize caps declaredSize at session creation.
	MaxFileSize int64
	// AllowedTypes is the content-type allow-list. Empty list means any
	// type; an empty declared type is always permitted and resolved by
	// sniffing at finalize.
	AllowedTypes []string
	// StaleTimeout is how long a Receiving session may sit with no
	// accepted chunk before the reaper aborts it.
	StaleTimeout time.Duration
	// Retention is how long terminal sessions are kept for status polls
	// before being garbage-collected.
	Retention time.Duration
	// MaxConcurrentSessions is the admission cap on Receiving sessions.
	MaxConcurrentSessions int
	// ReapSchedule is a cron expression (with seconds) for the sweep.
	ReapSchedule string
}

type LinkConfig struct {
	// TTL is the fixed share-link lifetime; expiresAt = createdAt + TTL.
	TTL time.Duration
}

type StorageConfig struct {
	// Driver selects the blob store backend: "local" or "s3".
	Driver   string
	LocalDir string
	S3Bucket string
	S3Region string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host string
	Port string
	// WorkerCount sizes the cleanup worker pool.
	WorkerCount int
}

func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnv("SERVER_PORT", "3000"),
		},
		Upload: UploadConfig{
			MaxFileSize:           getEnvAsBytes("MAX_FILE_SIZE", 100*units.MB),
			AllowedTypes:          getEnvAsList("ALLOWED_TYPES"),
			StaleTimeout:          getEnvAsDuration("SESSION_STALE_TIMEOUT", 24*time.Hour),
			Retention:             getEnvAsDuration("SESSION_RETENTION", time.Hour),
			MaxConcurrentSessions: getEnvAsInt("MAX_CONCURRENT_SESSIONS", 64),
			ReapSchedule:          getEnv("REAP_SCHEDULE", "0 */5 * * * *"),
		},
		Links: LinkConfig{
			TTL: getEnvAsDuration("LINK_TTL", 30*24*time.Hour),
		},
		Storage: StorageConfig{
			Driver:   getEnv("STORAGE_DRIVER", "local"),
			LocalDir: getEnv("STORAGE_LOCAL_DIR", "blobs"),
			S3Bucket: getEnv("S3_BUCKET", ""),
			S3Region: getEnv("S3_REGION", "eu-central-1"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "dropzone"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			WorkerCount: getEnvAsInt("WORKER_COUNT", 4),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}
