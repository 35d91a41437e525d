package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the process-wide configuration for the lane service.
// It is loaded once at startup and never mutated afterwards; components
// receive the values they need explicitly.
//
// Environment variables carry the MEMORY_LANE_ prefix, e.g.
// MEMORY_LANE_SESSION_SECRET, MEMORY_LANE_HTTP_PORT.
type Config struct {
	// HTTP
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Admin session
	SessionSecret   string `envconfig:"SESSION_SECRET"`
	AdminPassword   string `envconfig:"ADMIN_PASSWORD"`
	TokenTTLSeconds int    `envconfig:"TOKEN_TTL_SECONDS" default:"3600"`
	AuthCookieName  string `envconfig:"AUTH_COOKIE_NAME" default:"lane_admin_token"`
	CookieSecure    bool   `envconfig:"COOKIE_SECURE" default:"false"`

	// Content store. Driver is "postgres" or "sqlite".
	DBDriver    string `envconfig:"DB_DRIVER" default:"postgres"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/lanes.db"`

	// Blob store (MinIO / S3-compatible)
	BlobEndpoint      string `envconfig:"BLOB_ENDPOINT" default:"localhost:9000"`
	BlobAccessKey     string `envconfig:"BLOB_ACCESS_KEY" default:""`
	BlobSecretKey     string `envconfig:"BLOB_SECRET_KEY" default:""`
	BlobBucket        string `envconfig:"BLOB_BUCKET" default:"memories"`
	BlobUseSSL        bool   `envconfig:"BLOB_USE_SSL" default:"false"`
	BlobPublicBaseURL string `envconfig:"BLOB_PUBLIC_BASE_URL" default:""`

	// Presigned upload URLs expire after this many seconds.
	UploadURLTTLSeconds int `envconfig:"UPLOAD_URL_TTL_SECONDS" default:"600"`
}

// New creates a new Config by parsing environment variables and validating
// the required values. Missing required configuration is a startup error,
// never a per-request one.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("MEMORY_LANE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the fail-fast startup contract for required values.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("MEMORY_LANE_SESSION_SECRET is required")
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("MEMORY_LANE_ADMIN_PASSWORD is required")
	}
	if c.TokenTTLSeconds <= 0 {
		return fmt.Errorf("MEMORY_LANE_TOKEN_TTL_SECONDS must be positive")
	}
	switch c.DBDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("MEMORY_LANE_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("MEMORY_LANE_SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// TokenTTL returns the configured token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSeconds) * time.Second
}

// UploadURLTTL returns the presigned upload URL lifetime as a duration.
func (c *Config) UploadURLTTL() time.Duration {
	return time.Duration(c.UploadURLTTLSeconds) * time.Second
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// NewForTesting returns a config with the required values filled in so
// tests do not depend on process environment.
func NewForTesting() *Config {
	return &Config{
		HTTPPort:            8080,
		SessionSecret:       "test-session-secret",
		AdminPassword:       "test-admin-password",
		TokenTTLSeconds:     3600,
		AuthCookieName:      "lane_admin_token",
		DBDriver:            "sqlite",
		SQLitePath:          ":memory:",
		BlobBucket:          "memories-test",
		UploadURLTTLSeconds: 600,
	}
}
