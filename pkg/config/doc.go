// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings. A local .env file, when present, is loaded
// first via godotenv so development machines do not need exported variables.
//
// # Configuration Structure
//
// Server settings:
//
//	TACK_HOST="0.0.0.0"
//	TACK_PORT="8080"
//	TACK_HEALTH_PORT="9090"
//	TACK_BASE_URL="https://tack.example.com"
//	TACK_READ_TIMEOUT="15s"
//	TACK_WRITE_TIMEOUT="15s"
//
// Database settings:
//
//	TACK_POSTGRES_URL="postgres://localhost/tack"
//	TACK_POSTGRES_MAX_CONNS="20"
//	TACK_REDIS_URL="localhost:6379"
//
// Object storage settings:
//
//	TACK_S3_BUCKET="tack-attachments"
//	TACK_S3_ENDPOINT="http://localhost:9000"
//	TACK_S3_REGION="us-east-1"
//
// Auth settings:
//
//	TACK_ACCESS_SECRET / TACK_REFRESH_SECRET / TACK_INVITE_SECRET
//	TACK_ACCESS_TTL="1h"
//	TACK_REFRESH_TTL="720h"
//	TACK_INVITE_TTL="15m"
//
// Mail settings:
//
//	TACK_SMTP_HOST="localhost"
//	TACK_SMTP_PORT="587"
//	TACK_SMTP_FROM="noreply@tack.example.com"
//
// Observability settings:
//
//	TACK_LOG_LEVEL="info"  # debug, info, warn, error
//	TACK_METRICS_ENABLED="true"
//	TACK_OTEL_ENABLED="false"
//	TACK_OTEL_ENDPOINT="otel-collector:4317"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Related Packages
//
//   - pkg/observability: Uses observability configuration
//   - cmd/tack: Wires the loaded configuration into the services
package config
