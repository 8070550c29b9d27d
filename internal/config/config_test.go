package config

import (
	"path/filepath"
	"testing"
	"time"
)

func lookup(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestDefaults(t *testing.T) {
	cfg, err := FromLookup(lookup(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.BasePath != "/practice/" {
		t.Fatalf("unexpected base path %q", cfg.BasePath)
	}
	if cfg.ContentOrigin != "" || cfg.ContentURL() != "http://localhost:6893" {
		t.Fatalf("unexpected origin %q / %q", cfg.ContentOrigin, cfg.ContentURL())
	}
	if cfg.FetchTimeout != 30*time.Second || cfg.SearchDebounce != 300*time.Millisecond {
		t.Fatalf("unexpected durations %v %v", cfg.FetchTimeout, cfg.SearchDebounce)
	}
	if cfg.Addr() != "localhost:6893" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
	if cfg.DBPath() != filepath.Join("./data", "blog.db") {
		t.Fatalf("unexpected db path %q", cfg.DBPath())
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestOverrides(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		"BLOG_BASE_PATH":            "/",
		"BLOG_CONTENT_ORIGIN":       "https://example.com/",
		"BLOG_PORT":                 "8080",
		"BLOG_SEARCH_DEBOUNCE":      "1s",
		"BLOG_SYNC_SCHEDULE":        "*/15 * * * *",
		"BLOG_CORS_ALLOWED_ORIGINS": "https://a.dev, https://b.dev,",
		"BLOG_LOG_FORMAT":           "JSON",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ContentOrigin != "https://example.com" || cfg.ContentURL() != "https://example.com" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.ContentOrigin)
	}
	if cfg.SearchDebounce != time.Second {
		t.Fatalf("unexpected debounce %v", cfg.SearchDebounce)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.dev" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("unexpected log format %q", cfg.LogFormat)
	}
}

func TestContentURLFollowsListenAddress(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{"BLOG_PORT": "8080"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.ContentURL(); got != "http://localhost:8080" {
		t.Fatalf("expected origin to follow BLOG_PORT, got %q", got)
	}

	// serve flags are applied after loading
	cfg.Host = "0.0.0.0"
	cfg.Port = "9090"
	if got := cfg.ContentURL(); got != "http://localhost:9090" {
		t.Fatalf("expected origin to follow flags, got %q", got)
	}

	cfg.Host = "blog.internal"
	if got := cfg.ContentURL(); got != "http://blog.internal:9090" {
		t.Fatalf("unexpected origin %q", got)
	}
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"port":     {"BLOG_PORT": "not-a-port"},
		"timeout":  {"BLOG_FETCH_TIMEOUT": "soon"},
		"schedule": {"BLOG_SYNC_SCHEDULE": "every day"},
		"format":   {"BLOG_LOG_FORMAT": "xml"},
		"level":    {"BLOG_LOG_LEVEL": "loud"},
		"origin":   {"BLOG_CONTENT_ORIGIN": "::not a url::"},
	}
	for name, env := range cases {
		if _, err := FromLookup(lookup(env)); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}
