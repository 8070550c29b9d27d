// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Config struct {
	BasePath           string
	// ContentOrigin is where post files are fetched from. Empty means this
	// process's own listen address; see ContentURL.
	ContentOrigin      string
	ContentDir         string
	CatalogDir         string
	DataDir            string
	Host               string
	Port               string
	FetchTimeout       time.Duration
	SearchDebounce     time.Duration
	SyncSchedule       string
	CORSAllowedOrigins []string
	LogLevel           string
	LogFormat          string
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from getenv, applying defaults for unset keys.
func FromLookup(getenv func(string) string) (Config, error) {
	env := func(key, fallback string) string {
		value := strings.TrimSpace(getenv(key))
		if value == "" {
			return fallback
		}
		return value
	}

	cfg := Config{
		BasePath:           env("BLOG_BASE_PATH", "/practice/"),
		ContentOrigin:      strings.TrimRight(env("BLOG_CONTENT_ORIGIN", ""), "/"),
		ContentDir:         env("BLOG_CONTENT_DIR", "./public"),
		CatalogDir:         env("BLOG_CATALOG_DIR", ""),
		DataDir:            env("BLOG_DATA_DIR", "./data"),
		Host:               env("BLOG_HOST", "localhost"),
		Port:               env("BLOG_PORT", "6893"),
		SyncSchedule:       env("BLOG_SYNC_SCHEDULE", ""),
		CORSAllowedOrigins: splitCSV(env("BLOG_CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           strings.ToLower(env("BLOG_LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(env("BLOG_LOG_FORMAT", "console")),
	}

	var err error
	if cfg.FetchTimeout, err = parseDuration("BLOG_FETCH_TIMEOUT", env("BLOG_FETCH_TIMEOUT", "30s")); err != nil {
		return Config{}, err
	}
	if cfg.SearchDebounce, err = parseDuration("BLOG_SEARCH_DEBOUNCE", env("BLOG_SEARCH_DEBOUNCE", "300ms")); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field formats and ranges.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ContentOrigin, is.URL),
		validation.Field(&c.DataDir, validation.Required),
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.FetchTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.SearchDebounce, validation.Min(time.Duration(0))),
		validation.Field(&c.SyncSchedule, validation.By(validSchedule)),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error", "fatal")),
		validation.Field(&c.LogFormat, validation.In("console", "json", "pretty")),
	)
}

// Addr is the listen address for serve.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// ContentURL is the origin the content loader fetches from: ContentOrigin
// when set, otherwise the serve address, so a changed host or port keeps
// the blog reading its own post files.
func (c Config) ContentURL() string {
	if c.ContentOrigin != "" {
		return c.ContentOrigin
	}
	host := c.Host
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(strings.Trim(host, "[]"), c.Port)
}

// DBPath is the SQLite content cache inside DataDir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "blog.db")
}

// IndexPath is the bleve index directory inside DataDir.
func (c Config) IndexPath() string {
	return filepath.Join(c.DataDir, "bleve")
}

func validSchedule(value any) error {
	spec, _ := value.(string)
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return errors.New("must be a cron expression")
	}
	return nil
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
