package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

// chdirEmpty moves the test into a directory without config.yaml.
func chdirEmpty(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  shutdown_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2
  auto_migrate: false

log:
  level: "debug"
  format: "text"

rate_limit:
  enabled: true
  per_minute: 30

wikimedia:
  user_agent: "TestAgent/0.1"
  request_timeout: "3s"
  max_retries: 1
  requests_per_second: 5
  burst: 2

classifier:
  text_fallback: false
  max_nodes: 100
  concurrency: 4
  max_batch: 50
  cache_size: 0
  languages: "EN, fr ,es"

collections:
  page_suffix: "Lists"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}
	if cfg.Server.WriteTimeout != 60*time.Second {
		t.Errorf("server.write_timeout = %v, want default 60s", cfg.Server.WriteTimeout)
	}

	// Database
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}
	if cfg.Database.AutoMigrate {
		t.Error("database.auto_migrate should be false")
	}

	// Wikimedia
	if cfg.Wikimedia.UserAgent != "TestAgent/0.1" {
		t.Errorf("wikimedia.user_agent = %q", cfg.Wikimedia.UserAgent)
	}
	if cfg.Wikimedia.RequestTimeout != 3*time.Second {
		t.Errorf("wikimedia.request_timeout = %v, want 3s", cfg.Wikimedia.RequestTimeout)
	}
	if cfg.Wikimedia.MaxRetries != 1 {
		t.Errorf("wikimedia.max_retries = %d, want 1", cfg.Wikimedia.MaxRetries)
	}
	if cfg.Wikimedia.WikidataURL != "https://www.wikidata.org/w/api.php" {
		t.Errorf("wikimedia.wikidata_url = %q, want default", cfg.Wikimedia.WikidataURL)
	}

	// Classifier
	if cfg.Classifier.TextFallback {
		t.Error("classifier.text_fallback should be false")
	}
	if cfg.Classifier.MaxNodes != 100 {
		t.Errorf("classifier.max_nodes = %d, want 100", cfg.Classifier.MaxNodes)
	}
	if cfg.Classifier.CacheEnabled() {
		t.Error("classifier cache should be disabled with cache_size 0")
	}
	if got := strings.Join(cfg.Classifier.Languages, ","); got != "en,fr,es" {
		t.Errorf("classifier.languages = %q, want %q", got, "en,fr,es")
	}
	if cfg.Classifier.DefaultLanguage() != "en" {
		t.Errorf("DefaultLanguage() = %q, want en", cfg.Classifier.DefaultLanguage())
	}

	// Collections
	if cfg.Collections.PageSuffix != "Lists" {
		t.Errorf("collections.page_suffix = %q, want Lists", cfg.Collections.PageSuffix)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("CLASSIFIER_MAX_NODES", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Classifier.MaxNodes != 42 {
		t.Errorf("classifier.max_nodes = %d, want 42 (ENV override)", cfg.Classifier.MaxNodes)
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)
	chdirEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Wikimedia.MaxRetries != 0 {
		t.Errorf("wikimedia.max_retries = %d, want 0 (default)", cfg.Wikimedia.MaxRetries)
	}
	if cfg.Classifier.MaxNodes != 500 {
		t.Errorf("classifier.max_nodes = %d, want 500 (default)", cfg.Classifier.MaxNodes)
	}
	if !cfg.Classifier.TextFallback {
		t.Error("classifier.text_fallback should default to true")
	}
	if len(cfg.Classifier.Languages) != 4 {
		t.Errorf("classifier.languages = %v, want 4 defaults", cfg.Classifier.Languages)
	}
	if !cfg.Classifier.CacheEnabled() {
		t.Error("classifier cache should be enabled by default")
	}
}

func TestLoad_MissingDSN(t *testing.T) {
	chdirEmpty(t)
	t.Setenv("DATABASE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing database.dsn")
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoadOffline_NoDSNRequired(t *testing.T) {
	chdirEmpty(t)
	t.Setenv("DATABASE_DSN", "")

	cfg, err := LoadOffline()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Collections.PageSuffix != "WikiNaturalist" {
		t.Errorf("collections.page_suffix = %q, want default", cfg.Collections.PageSuffix)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"min above max conns", func(c *Config) { c.Database.MinConns = 30 }, "min_conns"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log: level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log: format"},
		{"negative retries", func(c *Config) { c.Wikimedia.MaxRetries = -1 }, "max_retries"},
		{"zero timeout", func(c *Config) { c.Wikimedia.RequestTimeout = 0 }, "request_timeout"},
		{"wikipedia url without placeholder", func(c *Config) { c.Wikimedia.WikipediaURL = "https://en.wikipedia.org" }, "wikipedia_url"},
		{"relative wikidata url", func(c *Config) { c.Wikimedia.WikidataURL = "/w/api.php" }, "wikidata_url"},
		{"zero max nodes", func(c *Config) { c.Classifier.MaxNodes = 0 }, "max_nodes"},
		{"zero concurrency", func(c *Config) { c.Classifier.Concurrency = 0 }, "concurrency"},
		{"cache without ttl", func(c *Config) { c.Classifier.CacheTTL = 0 }, "cache_ttl"},
		{"no languages", func(c *Config) { c.Classifier.LanguagesRaw = " , " }, "languages"},
		{"classify lang not accepted", func(c *Config) { c.Classifier.ClassifyLang = "de" }, "classify_lang"},
		{"rate limit zero", func(c *Config) { c.RateLimit.PerMinute = 0 }, "rate_limit"},
		{"empty page suffix", func(c *Config) { c.Collections.PageSuffix = " " }, "page_suffix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestParseLanguages(t *testing.T) {
	got := ParseLanguages(" EN,,fr , zh ")
	if strings.Join(got, ",") != "en,fr,zh" {
		t.Errorf("ParseLanguages = %v", got)
	}
	if ParseLanguages("") != nil {
		t.Error("ParseLanguages(\"\") should be nil")
	}
}

func validConfig() *Config {
	return &Config{
		Server:    ServerConfig{Port: 8080},
		Database:  DatabaseConfig{DSN: "postgres://x", MaxConns: 25, MinConns: 5},
		Log:       LogConfig{Level: "info", Format: "json"},
		RateLimit: RateLimitConfig{Enabled: true, PerMinute: 60},
		Wikimedia: WikimediaConfig{
			WikidataURL:    "https://www.wikidata.org/w/api.php",
			WikipediaURL:   "https://%s.wikipedia.org",
			MetaWikiURL:    "https://meta.wikimedia.org/w/api.php",
			RequestTimeout: 10 * time.Second,
		},
		Classifier: ClassifierConfig{
			MaxNodes:     500,
			Concurrency:  8,
			MaxBatch:     200,
			CacheSize:    100,
			CacheTTL:     time.Hour,
			ClassifyLang: "en",
			LanguagesRaw: "en,fr,es,zh",
		},
		Collections: CollectionsConfig{PageSuffix: "WikiNaturalist"},
	}
}
