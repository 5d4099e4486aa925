package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Wikimedia   WikimediaConfig   `yaml:"wikimedia"`
	Classifier  ClassifierConfig  `yaml:"classifier"`
	Collections CollectionsConfig `yaml:"collections"`
}

// OfflineConfig is the subset used by tools that run without a database.
type OfflineConfig struct {
	Log         LogConfig         `yaml:"log"`
	Wikimedia   WikimediaConfig   `yaml:"wikimedia"`
	Classifier  ClassifierConfig  `yaml:"classifier"`
	Collections CollectionsConfig `yaml:"collections"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds inbound per-IP rate limit settings.
type RateLimitConfig struct {
	Enabled         bool          `yaml:"enabled"          env:"RATE_LIMIT_ENABLED"          env-default:"true"`
	PerMinute       int           `yaml:"per_minute"       env:"RATE_LIMIT_PER_MINUTE"       env-default:"120"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// WikimediaConfig holds outbound Wikimedia API settings.
type WikimediaConfig struct {
	WikidataURL       string        `yaml:"wikidata_url"        env:"WIKIMEDIA_WIKIDATA_URL"        env-default:"https://www.wikidata.org/w/api.php"`
	WikipediaURL      string        `yaml:"wikipedia_url"       env:"WIKIMEDIA_WIKIPEDIA_URL"       env-default:"https://%s.wikipedia.org"`
	MetaWikiURL       string        `yaml:"metawiki_url"        env:"WIKIMEDIA_METAWIKI_URL"        env-default:"https://meta.wikimedia.org/w/api.php"`
	UserAgent         string        `yaml:"user_agent"          env:"WIKIMEDIA_USER_AGENT"          env-default:"WikiNaturalist/1.0 (https://meta.wikimedia.org/wiki/User:WikiNaturalist)"`
	RequestTimeout    time.Duration `yaml:"request_timeout"     env:"WIKIMEDIA_REQUEST_TIMEOUT"     env-default:"10s"`
	MaxRetries        int           `yaml:"max_retries"         env:"WIKIMEDIA_MAX_RETRIES"         env-default:"0"`
	RetryDelay        time.Duration `yaml:"retry_delay"         env:"WIKIMEDIA_RETRY_DELAY"         env-default:"500ms"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"WIKIMEDIA_REQUESTS_PER_SECOND" env-default:"20"`
	Burst             int           `yaml:"burst"               env:"WIKIMEDIA_BURST"               env-default:"10"`
}

// ClassifierConfig holds classification settings.
type ClassifierConfig struct {
	TextFallback bool          `yaml:"text_fallback"   env:"CLASSIFIER_TEXT_FALLBACK"   env-default:"true"`
	MaxNodes     int           `yaml:"max_nodes"       env:"CLASSIFIER_MAX_NODES"       env-default:"500"`
	Concurrency  int           `yaml:"concurrency"     env:"CLASSIFIER_CONCURRENCY"     env-default:"8"`
	MaxBatch     int           `yaml:"max_batch"       env:"CLASSIFIER_MAX_BATCH"       env-default:"200"`
	CacheSize    int           `yaml:"cache_size"      env:"CLASSIFIER_CACHE_SIZE"      env-default:"10000"`
	CacheTTL     time.Duration `yaml:"cache_ttl"       env:"CLASSIFIER_CACHE_TTL"       env-default:"24h"`
	ClassifyLang string        `yaml:"classify_lang"   env:"CLASSIFIER_CLASSIFY_LANG"   env-default:"en"`
	LanguagesRaw string        `yaml:"languages"       env:"CLASSIFIER_LANGUAGES"       env-default:"en,fr,es,zh"`

	// Languages is parsed from LanguagesRaw during validation.
	Languages []string `yaml:"-" env:"-"`
}

// CollectionsConfig holds list page settings.
type CollectionsConfig struct {
	PageSuffix string `yaml:"page_suffix" env:"COLLECTIONS_PAGE_SUFFIX" env-default:"WikiNaturalist"`
}

// CacheEnabled reports whether the claims cache should be installed.
func (c ClassifierConfig) CacheEnabled() bool {
	return c.CacheSize > 0
}

// DefaultLanguage returns the first accepted language.
func (c ClassifierConfig) DefaultLanguage() string {
	if len(c.Languages) == 0 {
		return "en"
	}
	return c.Languages[0]
}

// ParseLanguages splits a comma-separated language list, lower-casing and
// dropping empty entries.
func ParseLanguages(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
