// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Mail drivers supported by the notifier.
const (
	MailDriverSMTP    = "smtp"
	MailDriverWebhook = "webhook"
	MailDriverLog     = "log"
)

// ErrMissingDeliveryConfig is returned when invitation delivery
// credentials are absent for the configured mail driver.
var ErrMissingDeliveryConfig = errors.New("missing delivery configuration")

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Route prefix for the admin API
	ServicePrefix string `env:"SERVICE_PREFIX" envDefault:"iam-admin"`

	// Database (PostgreSQL)
	DatabaseURL      string        `env:"DATABASE_URL,required"`
	DBMaxConns       int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns       int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	DBAcquireTimeout time.Duration `env:"DB_ACQUIRE_TIMEOUT" envDefault:"3s"`

	// Cache (Redis)
	RedisURL         string        `env:"REDIS_URL,required"`
	RedisPoolSize    int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisPoolTimeout time.Duration `env:"REDIS_POOL_TIMEOUT" envDefault:"4s"`

	// Caller claims verification
	JWTSecret string `env:"JWT_SECRET,required"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:""`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// Invitation delivery
	Delivery Delivery
}

// Delivery holds the credentials used to send invitation messages.
type Delivery struct {
	Driver string `env:"MAIL_DRIVER" envDefault:"smtp"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"465"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	From         string `env:"MAIL_FROM"`

	WebhookURL    string `env:"MAIL_WEBHOOK_URL"`
	WebhookSecret string `env:"MAIL_WEBHOOK_SECRET"`

	// Base of the deep link embedded in invitation messages;
	// the token is appended as a query parameter.
	InviteBaseURL string `env:"INVITE_BASE_URL,required"`
}

// Validate checks that the credentials for the selected driver are present.
func (d *Delivery) Validate() error {
	var missing []string

	switch d.Driver {
	case MailDriverSMTP:
		if d.SMTPHost == "" {
			missing = append(missing, "SMTP_HOST")
		}
		if d.SMTPUsername == "" {
			missing = append(missing, "SMTP_USERNAME")
		}
		if d.SMTPPassword == "" {
			missing = append(missing, "SMTP_PASSWORD")
		}
	case MailDriverWebhook:
		if d.WebhookURL == "" {
			missing = append(missing, "MAIL_WEBHOOK_URL")
		}
		if d.WebhookSecret == "" {
			missing = append(missing, "MAIL_WEBHOOK_SECRET")
		}
	case MailDriverLog:
	default:
		return fmt.Errorf("%w: unknown MAIL_DRIVER %q", ErrMissingDeliveryConfig, d.Driver)
	}

	if d.InviteBaseURL == "" {
		missing = append(missing, "INVITE_BASE_URL")
	} else if u, err := url.Parse(d.InviteBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: INVITE_BASE_URL must be an absolute URL", ErrMissingDeliveryConfig)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingDeliveryConfig, missing)
	}
	return nil
}

// SenderAddress returns the From address for outgoing mail.
// Falls back to the SMTP username.
func (d *Delivery) SenderAddress() string {
	if d.From != "" {
		return d.From
	}
	return d.SMTPUsername
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.DBAcquireTimeout <= 0 {
		return errors.New("DB_ACQUIRE_TIMEOUT must be positive")
	}
	if c.RedisPoolSize < 1 {
		return fmt.Errorf("REDIS_POOL_SIZE must be positive, got %d", c.RedisPoolSize)
	}
	return c.Delivery.Validate()
}

// Load parses environment variables and returns a Config.
// A .env file in the working directory is applied first when present.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
