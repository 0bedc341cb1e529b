package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultJWTAccessTTL = "24h"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultListenAddr   = ":8080"
	defaultDatabaseURL  = "homeservices.db"
)

// Config is the process-wide runtime configuration, read once at startup.
type Config struct {
	AppEnv       string
	ListenAddr   string
	DatabaseURL  string
	JWTSecret    string
	JWTAccessTTL time.Duration

	// ProviderLoginRequiresVerified gates provider login on a verified
	// email. The dashboard historically only warned unverified providers,
	// while the login form blocked them; which one is intended is left to
	// deployment policy.
	ProviderLoginRequiresVerified bool

	// CancelAnyActive lets a requester cancel an already-approved request
	// (the assigned provider gets notified). Off, only pending requests
	// can be cancelled.
	CancelAnyActive bool

	// PublicBaseURL is the address verification links in outgoing
	// emails point at.
	PublicBaseURL string

	// SMTP settings for the mailer. Empty host means log-only delivery.
	SMTPHost string
	SMTPPort int
	SMTPFrom string
	SMTPUser string
	SMTPPass string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.ListenAddr = getEnv("LISTEN_ADDR", defaultListenAddr)
	cfg.DatabaseURL = getEnv("DATABASE_URL", defaultDatabaseURL)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.ProviderLoginRequiresVerified = parseBoolEnv("PROVIDER_LOGIN_REQUIRES_VERIFIED", true)
	cfg.CancelAnyActive = parseBoolEnv("CANCEL_ANY_ACTIVE", false)

	cfg.PublicBaseURL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/")

	cfg.SMTPHost = strings.TrimSpace(os.Getenv("SMTP_HOST"))
	cfg.SMTPPort = parseIntEnv("SMTP_PORT", 587)
	cfg.SMTPFrom = getEnv("SMTP_FROM", "no-reply@homeservices.local")
	cfg.SMTPUser = os.Getenv("SMTP_USER")
	cfg.SMTPPass = os.Getenv("SMTP_PASS")

	if cfg.isProd() {
		if cfg.JWTSecret == defaultJWTSecret || len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be set to a strong value in %s", cfg.AppEnv)
		}
	} else if cfg.JWTSecret == defaultJWTSecret {
		log.Println("WARNING: using default JWT_SECRET (dev only)")
	}

	return cfg, nil
}

func (c *Config) isProd() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return d, nil
}

func parseBoolEnv(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("WARNING: %s=%q is not a bool, using %v", key, raw, fallback)
		return fallback
	}
	return v
}

func parseIntEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
