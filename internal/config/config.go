package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Artifacts  ArtifactConfig
	MinIO      MinIOConfig
	PostgreSQL PostgreSQLConfig
	History    HistoryConfig
	Logging    LoggingConfig
	Metrics    MetricsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// ArtifactConfig describes where the model and vocabulary artifacts come from
type ArtifactConfig struct {
	Source         string // "file" or "minio"
	Dir            string // base directory for the file source
	Model          string // model artifact name (.json, .yaml, .yml)
	Vocabulary     string // vocabulary artifact name (.json, .yaml, .yml)
	ModelServerURL string // remote inference server; overrides Model when set
	ModelTimeout   time.Duration
}

// MinIOConfig holds S3-compatible object storage configuration for artifacts
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
}

// PostgreSQLConfig holds PostgreSQL configuration for the prediction audit log
type PostgreSQLConfig struct {
	Enabled            bool
	DSN                string // full connection URL (takes precedence)
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	MigrateOnStart     bool
}

// HistoryConfig holds limits for audit history lookups
type HistoryConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string // zap output path: stdout, stderr or a file
}

// MetricsConfig holds prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			// PORT is what most PaaS runtimes inject
			Port:           getEnvAsInt("SERVER_PORT", getEnvAsInt("PORT", 5000)),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Artifacts: ArtifactConfig{
			Source:         getEnv("ARTIFACT_SOURCE", "file"),
			Dir:            getEnv("ARTIFACT_DIR", "./artifacts"),
			Model:          getEnv("MODEL_ARTIFACT", "model.json"),
			Vocabulary:     getEnv("VOCABULARY_ARTIFACT", "label_encoders.json"),
			ModelServerURL: getEnv("MODEL_SERVER_URL", ""),
			ModelTimeout:   time.Duration(getEnvAsInt("MODEL_SERVER_TIMEOUT", 10)) * time.Second,
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
			Bucket:    getEnv("MINIO_BUCKET", "estimator-artifacts"),
			Region:    getEnv("MINIO_REGION", ""),
		},
		PostgreSQL: PostgreSQLConfig{
			Enabled:            getEnvAsBool("AUDIT_ENABLED", false),
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "estimator"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
			MigrateOnStart:     getEnvAsBool("PG_MIGRATE_ON_START", true),
		},
		History: HistoryConfig{
			DefaultLimit: getEnvAsInt("HISTORY_DEFAULT_LIMIT", 5),
			MaxLimit:     getEnvAsInt("HISTORY_MAX_LIMIT", 50),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that would otherwise fail late and obscurely
func (c *Config) Validate() error {
	switch c.Artifacts.Source {
	case "file", "minio":
	default:
		return fmt.Errorf("unsupported ARTIFACT_SOURCE %q (want file or minio)", c.Artifacts.Source)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.History.DefaultLimit <= 0 || c.History.MaxLimit < c.History.DefaultLimit {
		return fmt.Errorf("invalid history limits: default %d, max %d", c.History.DefaultLimit, c.History.MaxLimit)
	}
	if c.Artifacts.ModelServerURL != "" {
		if _, err := url.ParseRequestURI(c.Artifacts.ModelServerURL); err != nil {
			return fmt.Errorf("invalid MODEL_SERVER_URL: %w", err)
		}
	}
	return nil
}

// GetPostgreSQLURL returns a postgres:// connection URL.
// golang-migrate only understands the URL form, so the DSN is always built that way.
func (c *Config) GetPostgreSQLURL() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgreSQL.User, c.PostgreSQL.Password),
		Host:     fmt.Sprintf("%s:%d", c.PostgreSQL.Host, c.PostgreSQL.Port),
		Path:     "/" + c.PostgreSQL.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.PostgreSQL.SSLMode),
	}
	return u.String()
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
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
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}
