package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `env:"DB_HOST"`
	Port               string `env:"DB_PORT, default=5432"`
	User               string `env:"DB_USER"`
	Password           string `env:"DB_PASSWORD"`
	Name               string `env:"DB_NAME"`
	SSLMode            string `env:"DB_SSLMODE, default=disable"`
	MaxOpenConns       int    `env:"DB_MAX_OPEN_CONNS, default=10"`
	MaxIdleConns       int    `env:"DB_MAX_IDLE_CONNS, default=5"`
	ConnMaxLifetimeSec int    `env:"DB_CONN_MAX_LIFETIME_SEC, default=300"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET"`
	UseSSL    bool   `env:"MINIO_USE_SSL, default=false"`
}

// AuthConfig holds the server-side secrets and token lifetimes.
type AuthConfig struct {
	SecretKey            string        `env:"SECRET_KEY, required"`
	LinkSecretKey        string        `env:"LINK_SECRET_KEY"`
	AccessTokenTTL       time.Duration `env:"ACCESS_TOKEN_TTL, default=1h"`
	VerificationTokenTTL time.Duration `env:"VERIFICATION_TOKEN_TTL, default=72h"`
}

// LinkSecret returns the key used to seal download links.
// Falls back to SecretKey when no dedicated key is configured.
func (a AuthConfig) LinkSecret() string {
	if a.LinkSecretKey != "" {
		return a.LinkSecretKey
	}
	return a.SecretKey
}

// LinkConfig controls download link generation.
type LinkConfig struct {
	PresignTTL time.Duration `env:"PRESIGN_TTL, default=1h"`
}

// SMTPConfig holds outgoing mail settings. An empty Host disables SMTP delivery.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=no-reply@localhost"`
}

// TracingConfig holds OpenTelemetry exporter and sampler settings. The names
// follow the standard OTEL_* variables.
type TracingConfig struct {
	Disabled    bool   `env:"OTEL_SDK_DISABLED, default=false"`
	ServiceName string `env:"OTEL_SERVICE_NAME, default=docexchange"`
	Protocol    string `env:"OTEL_EXPORTER_OTLP_PROTOCOL, default=grpc"`
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Sampler     string `env:"OTEL_TRACES_SAMPLER, default=parentbased_traceidratio"`
	SamplerArg  string `env:"OTEL_TRACES_SAMPLER_ARG, default=1.0"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	// AppHost is the public host advertised in the API docs when a request carries none.
	AppHost       string `env:"APP_HOST, default=localhost:8080"`
	Port          string `env:"PORT, default=8080"`
	ClientBaseURL string `env:"CLIENT_BASE_URL, default=http://localhost:8080"`
	BodyLimitMB   int    `env:"BODY_LIMIT_MB, default=25"`
	LogLevel      string `env:"LOG_LEVEL, default=info"`
	LogPretty     bool   `env:"LOG_PRETTY, default=false"`

	Auth     AuthConfig
	Links    LinkConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
	SMTP     SMTPConfig
	Tracing  TracingConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load(ctx context.Context) (*AppConfig, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.BodyLimitMB <= 0 {
		cfg.BodyLimitMB = 25
	}
	return &cfg, nil
}
