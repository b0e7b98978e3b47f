package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted by STORE_BACKEND
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMySQL    = "mysql"
	BackendFile     = "file"
	BackendS3       = "s3"
	BackendGCS      = "gcs"
	BackendRemote   = "remote"
	BackendMemory   = "memory"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Persistence
	Store    StoreConfig
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// HTTP API
	API APIConfig

	// Export
	Export ExportConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// StoreConfig selects and configures the persistence backend
type StoreConfig struct {
	Backend     string
	SQLitePath  string
	MySQLDSN    string
	Dir         string // file backend root
	Bucket      string // s3 / gcs
	Prefix      string
	S3Region    string
	S3Endpoint  string // MinIO / localstack
	S3AccessKey string
	S3SecretKey string
	RemoteURL   string

	SaveTimeout time.Duration
	LoadTimeout time.Duration
	CacheTTL    time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL            string
	MigrateOnStart bool

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// APIConfig holds HTTP surface settings
type APIConfig struct {
	CORSOrigin    string
	SaveRateLimit float64 // requests per second on write routes
	SaveRateBurst int
}

// ExportConfig holds image export settings
type ExportConfig struct {
	PixelRatio float64
	Quality    float64
	Schedule   string // cron with seconds field; empty disables the job
	Dir        string
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only caller of os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Store: StoreConfig{
			Backend:     getEnv("STORE_BACKEND", BackendPostgres),
			SQLitePath:  getEnv("SQLITE_PATH", "scorecard.db"),
			MySQLDSN:    getEnv("MYSQL_DSN", ""),
			Dir:         getEnv("STORE_DIR", "data"),
			Bucket:      getEnv("BLOB_BUCKET", ""),
			Prefix:      getEnv("BLOB_PREFIX", "scorecard"),
			S3Region:    getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:  getEnv("S3_ENDPOINT", ""),
			S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey: getEnv("S3_SECRET_KEY", ""),
			RemoteURL:   getEnv("REMOTE_URL", ""),
			SaveTimeout: getEnvAsDuration("SAVE_TIMEOUT", "10s"),
			LoadTimeout: getEnvAsDuration("LOAD_TIMEOUT", "5s"),
			CacheTTL:    getEnvAsDuration("STATE_CACHE_TTL", "5m"),
		},

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MigrateOnStart:  getEnvAsBool("MIGRATE_ON_START", true),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		API: APIConfig{
			CORSOrigin:    getEnv("CORS_ORIGIN", "*"),
			SaveRateLimit: getEnvAsFloat("SAVE_RATE_LIMIT", 20),
			SaveRateBurst: getEnvAsInt("SAVE_RATE_BURST", 40),
		},

		Export: ExportConfig{
			PixelRatio: getEnvAsFloat("EXPORT_PIXEL_RATIO", 3),
			Quality:    getEnvAsFloat("EXPORT_QUALITY", 0.95),
			Schedule:   getEnv("EXPORT_SCHEDULE", ""),
			Dir:        getEnv("EXPORT_DIR", "exports"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Store.Backend {
	case BackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for STORE_BACKEND=postgres")
		}
	case BackendMySQL:
		if c.Store.MySQLDSN == "" {
			return fmt.Errorf("MYSQL_DSN is required for STORE_BACKEND=mysql")
		}
	case BackendS3, BackendGCS:
		if c.Store.Bucket == "" {
			return fmt.Errorf("BLOB_BUCKET is required for STORE_BACKEND=%s", c.Store.Backend)
		}
	case BackendRemote:
		if c.Store.RemoteURL == "" {
			return fmt.Errorf("REMOTE_URL is required for STORE_BACKEND=remote")
		}
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of: postgres, sqlite, mysql, file, s3, gcs, remote, memory")
	}

	if !(c.Export.PixelRatio > 0) || math.IsInf(c.Export.PixelRatio, 1) {
		return fmt.Errorf("EXPORT_PIXEL_RATIO must be a positive number")
	}
	if !(c.Export.Quality > 0 && c.Export.Quality <= 1) {
		return fmt.Errorf("EXPORT_QUALITY must be in (0, 1]")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
