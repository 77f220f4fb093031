package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is read from the environment once at startup.
type Config struct {
	// Server
	GRPCPort string
	WebPort  string

	// Storage. Empty values select the in-memory backends.
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Session
	JWTSecret  string
	SessionTTL time.Duration

	// Logging
	LogLevel string

	// CORS
	CORSAllowedOrigin string

	// Rate limits: RPS and burst apply to login/register, HTTPPerMinute to
	// every web request per IP.
	RateLimitRPS   float64
	RateLimitBurst int
	HTTPPerMinute  int

	// Seed admin, created on start when both email and password are set.
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// Reminders
	ReminderSchedule string
	ReminderLead     time.Duration

	// SMTP. Reminder e-mail is skipped when SMTPHost is empty.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// Load reads the configuration. It fails when a required variable is unset.
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.GRPCPort = getEnvString("PORT", "50051")
	cfg.WebPort = getEnvString("WEB_PORT", "8080")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", 0)
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "*")
	cfg.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", 5)
	cfg.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 10)
	cfg.HTTPPerMinute = getEnvInt("HTTP_RATE_LIMIT_PER_MINUTE", 300)
	cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.AdminName = getEnvString("ADMIN_NAME", "Administrator")
	cfg.ReminderSchedule = getEnvString("REMINDER_SCHEDULE", "0 * * * *")
	cfg.ReminderLead = getEnvDuration("REMINDER_LEAD", 24*time.Hour)
	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPPort = getEnvInt("SMTP_PORT", 587)
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.SMTPFrom = getEnvString("SMTP_FROM", "TheraPath <no-reply@therapath.com>")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
