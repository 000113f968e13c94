package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	MailProviderResend  = "resend"
	MailProviderMailjet = "mailjet"

	minSecretLength = 32
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"freelancer.db"`

	// AuthSecret signs session tokens.
	AuthSecret string        `env:"AUTH_SECRET"`
	AuthIssuer string        `env:"AUTH_ISSUER" envDefault:"freelancer-be"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	// TrustHost allows X-Forwarded-* headers from a fronting proxy to be honoured.
	TrustHost bool   `env:"AUTH_TRUST_HOST" envDefault:"false"`
	AppURL    string `env:"APP_URL" envDefault:"http://localhost:8080"`

	VerificationTokenTTL time.Duration `env:"VERIFICATION_TOKEN_TTL" envDefault:"24h"`
	BcryptCost           int           `env:"BCRYPT_COST" envDefault:"10"`

	MailActive    bool   `env:"MAIL_ACTIVE" envDefault:"false"`
	MailProvider  string `env:"MAIL_PROVIDER" envDefault:"resend"`
	ResendAPIKey  string `env:"RESEND_API_KEY"`
	MailjetKey    string `env:"MAILJET_KEY"`
	MailjetSecret string `env:"MAILJET_SECRET"`
	MailFrom      string `env:"MAIL_FROM" envDefault:"onboarding@resend.dev"`
	MailFromName  string `env:"MAIL_FROM_NAME" envDefault:"Freelancer Hub"`

	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// AuthRateLimit is the number of credential submissions per minute per client.
	AuthRateLimit int `env:"AUTH_RATE_LIMIT" envDefault:"20"`
	AuthRateBurst int `env:"AUTH_RATE_BURST" envDefault:"5"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	c.MailProvider = strings.ToLower(strings.TrimSpace(c.MailProvider))
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.AuthSecret = strings.TrimSpace(c.AuthSecret)
	c.AppURL = strings.TrimRight(strings.TrimSpace(c.AppURL), "/")
	c.CORSOrigins = parseOrigins(c.CORSOrigins)
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.AuthSecret == "" {
		return errors.New("AUTH_SECRET is required")
	}
	if len(c.AuthSecret) < minSecretLength {
		return fmt.Errorf("AUTH_SECRET must be at least %d bytes", minSecretLength)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.VerificationTokenTTL <= 0 {
		return errors.New("VERIFICATION_TOKEN_TTL must be positive")
	}

	u, err := url.Parse(c.AppURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("APP_URL must be an absolute URL, got %q", c.AppURL)
	}

	if c.MailActive {
		switch c.MailProvider {
		case MailProviderResend:
			if c.ResendAPIKey == "" {
				return errors.New("RESEND_API_KEY is required when MAIL_ACTIVE is set")
			}
		case MailProviderMailjet:
			if c.MailjetKey == "" || c.MailjetSecret == "" {
				return errors.New("MAILJET_KEY and MAILJET_SECRET are required when MAIL_ACTIVE is set")
			}
		default:
			return fmt.Errorf("unknown MAIL_PROVIDER %q", c.MailProvider)
		}
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// SecureCookies reports whether the public URL is served over TLS.
func (c Config) SecureCookies() bool {
	return strings.HasPrefix(c.AppURL, "https://")
}

// VerificationURL is the callback link embedded in verification emails, without the token.
func (c Config) VerificationURL() string {
	return c.AppURL + "/api/verify-email"
}

func parseOrigins(input []string) []string {
	var out []string
	for _, part := range input {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
