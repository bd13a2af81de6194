package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config carries everything the server needs from the environment.
type Config struct {
	Port         int
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBDatabase   string
	DBSSLMode    string
	QueryTimeout time.Duration
}

// Load reads configuration from the environment. Database settings are
// required; everything else has a default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         8080,
		DBSSLMode:    "disable",
		QueryTimeout: 30 * time.Second,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	required := map[string]*string{
		"DB_HOST":     &cfg.DBHost,
		"DB_PORT":     &cfg.DBPort,
		"DB_USERNAME": &cfg.DBUser,
		"DB_PASSWORD": &cfg.DBPassword,
		"DB_DATABASE": &cfg.DBDatabase,
	}
	for name, dst := range required {
		v := os.Getenv(name)
		if v == "" {
			return nil, fmt.Errorf("%s environment variable is required", name)
		}
		*dst = v
	}

	if v := os.Getenv("DB_SSLMODE"); v != "" {
		cfg.DBSSLMode = v
	}
	if v := os.Getenv("QUERY_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 1 {
			return nil, fmt.Errorf("invalid QUERY_TIMEOUT_SECONDS %q", v)
		}
		cfg.QueryTimeout = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

// DSN builds a postgres:// connection string with user info and database
// name properly encoded.
func (c *Config) DSN() string {
	userInfo := url.UserPassword(c.DBUser, c.DBPassword)
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=%s",
		userInfo.String(),
		c.DBHost,
		c.DBPort,
		url.PathEscape(c.DBDatabase),
		c.DBSSLMode,
	)
}
