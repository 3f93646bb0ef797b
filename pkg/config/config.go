package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tackboard/tack/pkg/mail"
	"github.com/tackboard/tack/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Object storage configuration
	Blob BlobConfig

	// Auth token configuration
	Auth AuthConfig

	// SMTP configuration
	Mail mail.Config

	// OIDC single sign-on configuration
	SSO SSOConfig

	// Observability configuration
	Observability ObservabilityConfig

	// Maintenance configuration
	Maintenance MaintenanceConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string

	// BaseURL is the externally reachable URL, embedded in invitation and
	// password-reset links
	BaseURL string
}

// DatabaseConfig holds PostgreSQL and Redis settings
type DatabaseConfig struct {
	PostgresURL      string
	PostgresMaxConns int
	RedisURL         string
	RedisPassword    string
	RedisDB          int
}

// BlobConfig holds S3-compatible object storage settings
type BlobConfig struct {
	Bucket        string
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	PublicBaseURL string
}

// AuthConfig holds token secrets and lifetimes
type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	InviteSecret  string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	InviteTTL     time.Duration
	BcryptCost    int
}

// SSOConfig holds OIDC provider settings. SSO is enabled when IssuerURL
// is non-empty.
type SSOConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// MaintenanceConfig holds background maintenance settings
type MaintenanceConfig struct {
	// DeliveryRetention is how long invitation delivery records are kept
	DeliveryRetention time.Duration
	// PurgeSchedule is the cron expression for the purge job
	PurgeSchedule string
}

// LoadConfig loads configuration from a .env file (if present) and the
// environment
func LoadConfig() (*Config, error) {
	// missing .env is the normal case outside development
	_ = godotenv.Load()

	cfg := &Config{
		Server:        loadServerConfig(),
		Database:      loadDatabaseConfig(),
		Blob:          loadBlobConfig(),
		Auth:          loadAuthConfig(),
		Mail:          loadMailConfig(),
		SSO:           loadSSOConfig(),
		Observability: loadObservabilityConfig(),
		Maintenance:   loadMaintenanceConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("TACK_HOST", "0.0.0.0"),
		Port:            getEnv("TACK_PORT", "8080"),
		ReadTimeout:     getEnvDuration("TACK_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("TACK_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("TACK_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("TACK_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("TACK_HEALTH_PORT", "9090"),
		BaseURL:         getEnv("TACK_BASE_URL", "http://localhost:8080"),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		PostgresURL:      getEnv("TACK_POSTGRES_URL", ""),
		PostgresMaxConns: getEnvInt("TACK_POSTGRES_MAX_CONNS", 20),
		RedisURL:         getEnv("TACK_REDIS_URL", ""),
		RedisPassword:    getEnv("TACK_REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("TACK_REDIS_DB", 0),
	}
}

func loadBlobConfig() BlobConfig {
	return BlobConfig{
		Bucket:        getEnv("TACK_S3_BUCKET", "tack-attachments"),
		Endpoint:      getEnv("TACK_S3_ENDPOINT", ""),
		Region:        getEnv("TACK_S3_REGION", "us-east-1"),
		AccessKey:     getEnv("TACK_S3_ACCESS_KEY", ""),
		SecretKey:     getEnv("TACK_S3_SECRET_KEY", ""),
		UsePathStyle:  getEnvBool("TACK_S3_USE_PATH_STYLE", false),
		PublicBaseURL: getEnv("TACK_S3_PUBLIC_BASE_URL", ""),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		AccessSecret:  getEnv("TACK_ACCESS_SECRET", ""),
		RefreshSecret: getEnv("TACK_REFRESH_SECRET", ""),
		InviteSecret:  getEnv("TACK_INVITE_SECRET", ""),
		AccessTTL:     getEnvDuration("TACK_ACCESS_TTL", time.Hour),
		RefreshTTL:    getEnvDuration("TACK_REFRESH_TTL", 30*24*time.Hour),
		InviteTTL:     getEnvDuration("TACK_INVITE_TTL", 15*time.Minute),
		BcryptCost:    getEnvInt("TACK_BCRYPT_COST", 10),
	}
}

func loadMailConfig() mail.Config {
	return mail.Config{
		Host:     getEnv("TACK_SMTP_HOST", "localhost"),
		Port:     getEnvInt("TACK_SMTP_PORT", 587),
		Username: getEnv("TACK_SMTP_USERNAME", ""),
		Password: getEnv("TACK_SMTP_PASSWORD", ""),
		From:     getEnv("TACK_SMTP_FROM", "noreply@tack.local"),
		FromName: getEnv("TACK_SMTP_FROM_NAME", "Tack"),
	}
}

func loadSSOConfig() SSOConfig {
	return SSOConfig{
		IssuerURL:    getEnv("TACK_OIDC_ISSUER_URL", ""),
		ClientID:     getEnv("TACK_OIDC_CLIENT_ID", ""),
		ClientSecret: getEnv("TACK_OIDC_CLIENT_SECRET", ""),
		RedirectURL:  getEnv("TACK_OIDC_REDIRECT_URL", ""),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           observability.ParseLogLevel(getEnv("TACK_LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("TACK_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("TACK_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("TACK_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("TACK_OTEL_SERVICE_NAME", "tack"),
		OTelServiceVersion: getEnv("TACK_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("TACK_OTEL_INSECURE", true),
	}
}

func loadMaintenanceConfig() MaintenanceConfig {
	return MaintenanceConfig{
		DeliveryRetention: getEnvDuration("TACK_DELIVERY_RETENTION", 30*24*time.Hour),
		PurgeSchedule:     getEnv("TACK_PURGE_SCHEDULE", "0 3 * * *"),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}

	if c.Database.PostgresURL == "" {
		return fmt.Errorf("postgres URL is required")
	}

	if c.Auth.AccessSecret == "" || c.Auth.RefreshSecret == "" || c.Auth.InviteSecret == "" {
		return fmt.Errorf("access, refresh and invite token secrets are all required")
	}
	if c.Auth.AccessSecret == c.Auth.RefreshSecret || c.Auth.AccessSecret == c.Auth.InviteSecret || c.Auth.RefreshSecret == c.Auth.InviteSecret {
		return fmt.Errorf("token secrets must be pairwise distinct")
	}
	if c.Auth.InviteTTL <= 0 {
		return fmt.Errorf("invite TTL must be positive")
	}

	if c.SSO.IssuerURL != "" {
		if c.SSO.ClientID == "" || c.SSO.ClientSecret == "" || c.SSO.RedirectURL == "" {
			return fmt.Errorf("OIDC client id, secret and redirect URL are required when an issuer is set")
		}
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
