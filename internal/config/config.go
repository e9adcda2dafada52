// Package config reads the notifier's configuration from the process
// environment once at startup into an immutable value. Missing credentials
// are a configuration error: the server still binds, but answers 500 on
// every request until the environment is corrected.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config is the complete, immutable runtime configuration.
type Config struct {
	HTTPAddr        string
	SigningSecret   string
	BotToken        string
	WebhookURL      string
	AnnounceChannel string
	SiteBaseURL     string
	APIBaseURL      string
	DBPath          string
	RatePerSec      float64
	RecentLimit     int
	ShutdownTimeout time.Duration
	LogLevel        string
	LogPretty       bool
}

// Load reads configuration from NOTIFY_-prefixed environment variables.
func Load() Config {
	l := NewLoader("NOTIFY")
	return Config{
		HTTPAddr:        l.String("HTTP_ADDR", ":8080"),
		SigningSecret:   l.String("SLACK_SIGNING_SECRET", ""),
		BotToken:        l.String("SLACK_BOT_TOKEN", ""),
		WebhookURL:      l.String("SLACK_WEBHOOK_URL", ""),
		AnnounceChannel: l.String("ANNOUNCE_CHANNEL", "#novidades"),
		SiteBaseURL:     l.String("SITE_BASE_URL", "https://vibeflow.site"),
		APIBaseURL:      l.String("SLACK_API_BASE_URL", "https://slack.com/api"),
		DBPath:          l.String("DB_PATH", "data/deliveries.db"),
		RatePerSec:      l.Float("RATE_PER_SEC", 1),
		RecentLimit:     l.Int("RECENT_LIMIT", 50),
		ShutdownTimeout: l.Duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        l.String("LOG_LEVEL", "info"),
		LogPretty:       l.Bool("LOG_PRETTY", false),
	}
}

// Validate reports the configuration error, if any. The signing secret, bot
// token and announce webhook are all required for the service to operate.
func (c Config) Validate() error {
	switch {
	case c.SigningSecret == "":
		return errors.New("NOTIFY_SLACK_SIGNING_SECRET is required")
	case c.BotToken == "":
		return errors.New("NOTIFY_SLACK_BOT_TOKEN is required")
	case c.WebhookURL == "":
		return errors.New("NOTIFY_SLACK_WEBHOOK_URL is required")
	}
	return nil
}

// Loader provides helpers for reading configuration values scoped by a
// common environment variable prefix.
type Loader struct {
	Prefix string
}

// NewLoader constructs a loader with the provided prefix. The prefix is
// automatically suffixed with an underscore when reading variables.
func NewLoader(prefix string) Loader {
	if prefix != "" && !hasTrailingUnderscore(prefix) {
		prefix += "_"
	}
	return Loader{Prefix: prefix}
}

func hasTrailingUnderscore(s string) bool {
	return len(s) > 0 && s[len(s)-1] == '_'
}

// String returns the environment variable value or the provided default.
func (l Loader) String(key, def string) string {
	if val := os.Getenv(l.Prefix + key); val != "" {
		return val
	}
	return def
}

// Int returns an integer environment variable or the provided default.
func (l Loader) Int(key string, def int) int {
	if val := os.Getenv(l.Prefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

// Float returns a float environment variable or the provided default.
func (l Loader) Float(key string, def float64) float64 {
	if val := os.Getenv(l.Prefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return def
}

// Duration returns a duration environment variable (in seconds) or the default.
func (l Loader) Duration(key string, def time.Duration) time.Duration {
	if val := os.Getenv(l.Prefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return time.Duration(parsed * float64(time.Second))
		}
	}
	return def
}

// Bool returns a boolean environment variable or the default.
func (l Loader) Bool(key string, def bool) bool {
	if val := os.Getenv(l.Prefix + key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return def
}
