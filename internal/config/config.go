// Package config loads the runtime configuration of the blog server from the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Verifier names accepted in EMAIL_VERIFIER.
const (
	VerifierTruemail = "truemail"
	VerifierMailgun  = "mailgun"
	VerifierNone     = "none"
)

// Config holds all runtime configuration. It is built once in internal.Init and
// handed to the constructors that need it.
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	APIVersion  string

	Database Database

	KeyPairPath     string
	SessionTTL      time.Duration
	VerificationTTL time.Duration

	FrontendURL   string
	MailgunDomain string
	MailgunAPIKey string
	MailgunEU     bool
	MailFrom      string

	EmailVerifier string
	VerifierEmail string

	AllowedOrigins []string
	AuthRateLimit  float64
	AuthRateBurst  int

	StaticDir string
}

// Database holds the PostgreSQL connection settings.
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the postgres:// URL understood by pgxpool.ParseConfig. Credentials and
// database name are escaped, so they may contain any character.
func (d Database) DSN() string {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return dsn.String()
}

// IsProduction reports whether mails are really sent.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		APIVersion:  getEnv("API_VERSION", "main:latest"),
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		KeyPairPath:     getEnv("KEY_PAIR_PATH", "./keys/ed25519.key"),
		SessionTTL:      getEnvDuration("SESSION_TTL", 24*time.Hour),
		VerificationTTL: getEnvDuration("VERIFICATION_TTL", 24*time.Hour),
		FrontendURL:     strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		MailgunDomain:   os.Getenv("MAILGUN_DOMAIN"),
		MailgunAPIKey:   os.Getenv("MAILGUN_API_KEY"),
		MailgunEU:       getEnvBool("MAILGUN_EU", false),
		MailFrom:        getEnv("MAIL_FROM", "BlogApp <no-reply@blogapp.local>"),
		EmailVerifier:   getEnv("EMAIL_VERIFIER", VerifierTruemail),
		VerifierEmail:   getEnv("VERIFIER_EMAIL", "no-reply@blogapp.local"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS",
			"http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000")),
		AuthRateLimit: getEnvFloat("AUTH_RATE_LIMIT", 1),
		AuthRateBurst: getEnvInt("AUTH_RATE_BURST", 5),
		StaticDir:     os.Getenv("STATIC_DIR"),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	db := c.Database
	if db.Host == "" || db.Port == "" || db.User == "" || db.Password == "" || db.Name == "" {
		errs = append(errs, errors.New("database environment variables not set"))
	}
	switch c.EmailVerifier {
	case VerifierTruemail, VerifierNone:
	case VerifierMailgun:
		if c.MailgunAPIKey == "" {
			errs = append(errs, errors.New("EMAIL_VERIFIER=mailgun requires MAILGUN_API_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EMAIL_VERIFIER %q", c.EmailVerifier))
	}
	if c.IsProduction() && (c.MailgunDomain == "" || c.MailgunAPIKey == "") {
		errs = append(errs, errors.New("production requires MAILGUN_DOMAIN and MAILGUN_API_KEY"))
	}
	if c.SessionTTL <= 0 || c.VerificationTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
