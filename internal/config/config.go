package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Slack       SlackConfig
	Pusher      PusherConfig
	Logging     LoggingConfig
	Environment string
}

type ServerConfig struct {
	Host    string
	Port    int
	BaseURL string
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
}

// AuthConfig carries the two credential surfaces: the shared attendee secret
// compared verbatim against basic-auth passwords, and the admin account whose
// password is stored as a bcrypt hash.
type AuthConfig struct {
	AttendeeSecret    string
	AdminUsername     string
	AdminPasswordHash string
}

type SlackConfig struct {
	BaseURL  string
	BotToken string
	// RateLimit is the maximum users.info requests per second.
	RateLimit float64
	Timeout   time.Duration
}

// PusherConfig configures the outbound event webhook.
type PusherConfig struct {
	WebhookURL string
	Channel    string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvInt("SERVER_PORT", 8080),
			BaseURL: getEnv("SERVER_BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConnections: getEnvInt("DATABASE_MAX_CONNECTIONS", 25),
		},
		Auth: AuthConfig{
			AttendeeSecret:    getEnv("ATTENDEE_SECRET", ""),
			AdminUsername:     getEnv("ADMIN_USERNAME", ""),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Slack: SlackConfig{
			BaseURL:   getEnv("SLACK_API_URL", "https://slack.com/api"),
			BotToken:  getEnv("SLACK_BOT_TOKEN", ""),
			RateLimit: getEnvFloat("SLACK_RATE_LIMIT", 5),
			Timeout:   time.Duration(getEnvInt("SLACK_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Pusher: PusherConfig{
			WebhookURL: getEnv("PUSHER_WEBHOOK_URL", ""),
			Channel:    getEnv("PUSHER_CHANNEL", "api_events"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Auth.AttendeeSecret == "" {
		return Config{}, fmt.Errorf("ATTENDEE_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
