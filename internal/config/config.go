package config

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	JWTTTLHours int
	CORSOrigins string

	// Base URL of the SPA, used to build password reset links.
	FrontendURL string

	// SMTP settings for the password reset mailer. When SMTPHost is
	// empty the server falls back to a log-only mailer.
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=profitpulse port=5432 sslmode=disable"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTTTLHours:  getEnvInt("JWT_TTL_HOURS", 24),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3000"),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "ProfitPulse <no-reply@profitpulse.local>"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET environment variable is not set")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal().Msg("JWT_SECRET must be at least 32 characters")
	}
	if cfg.SMTPHost == "" {
		log.Warn().Msg("SMTP_HOST not set, password reset mails will only be logged")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
