package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	SessionDuration time.Duration

	// Database: sqlite (default), postgres or mysql
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// LINE Login / LIFF channel
	LineChannelID     string
	LineChannelSecret string
	// Base URL used to build the OAuth callback for the browser flow
	OAuthRedirectBaseURL string

	// Optional Redis mirror for the onboarding flag and leaderboard
	RedisAddr     string
	RedisPassword string

	// AWS SES backup report mail (disabled when SESFromEmail is empty)
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	SESToEmail   string

	// IANA zone used to bucket reading logs into calendar days when the
	// client does not ask for a specific zone
	DefaultTimezone string

	LeaderboardLimit int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		SessionDuration: 30 * 24 * time.Hour,

		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./bibletracker.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		LineChannelID:        getEnv("LINE_CHANNEL_ID", ""),
		LineChannelSecret:    getEnv("LINE_CHANNEL_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", "http://localhost:8080"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		AWSRegion:    getEnv("AWS_REGION", "ap-southeast-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "Bible Tracker"),
		SESToEmail:   getEnv("SES_TO_EMAIL", ""),

		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "Asia/Bangkok"),

		LeaderboardLimit: getEnvInt("LEADERBOARD_LIMIT", 20),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads a positive integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
