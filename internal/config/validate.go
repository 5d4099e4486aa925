package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "text"}
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}
	if c.RateLimit.Enabled && c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("rate_limit.per_minute must be > 0 when enabled (got %d)", c.RateLimit.PerMinute)
	}

	offline := OfflineConfig{
		Log:         c.Log,
		Wikimedia:   c.Wikimedia,
		Classifier:  c.Classifier,
		Collections: c.Collections,
	}
	if err := offline.Validate(); err != nil {
		return err
	}
	c.Classifier = offline.Classifier

	return nil
}

// Validate checks the database-independent sections.
func (c *OfflineConfig) Validate() error {
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Wikimedia.validate(); err != nil {
		return fmt.Errorf("wikimedia: %w", err)
	}
	if err := c.Classifier.validate(); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if strings.TrimSpace(c.Collections.PageSuffix) == "" {
		return fmt.Errorf("collections: page_suffix is required")
	}
	return nil
}

func (l LogConfig) validate() error {
	if !slices.Contains(validLogLevels, strings.ToLower(l.Level)) {
		return fmt.Errorf("level must be one of %v (got %q)", validLogLevels, l.Level)
	}
	if !slices.Contains(validLogFormats, strings.ToLower(l.Format)) {
		return fmt.Errorf("format must be one of %v (got %q)", validLogFormats, l.Format)
	}
	return nil
}

func (w WikimediaConfig) validate() error {
	for name, raw := range map[string]string{
		"wikidata_url": w.WikidataURL,
		"metawiki_url": w.MetaWikiURL,
	} {
		if err := validateURL(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if strings.Count(w.WikipediaURL, "%s") != 1 {
		return fmt.Errorf("wikipedia_url must contain exactly one %%s for the language (got %q)", w.WikipediaURL)
	}
	if err := validateURL(fmt.Sprintf(w.WikipediaURL, "en")); err != nil {
		return fmt.Errorf("wikipedia_url: %w", err)
	}
	if w.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0 (got %s)", w.RequestTimeout)
	}
	if w.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", w.MaxRetries)
	}
	if w.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must be >= 0 (got %v)", w.RequestsPerSecond)
	}
	return nil
}

func (c *ClassifierConfig) validate() error {
	if c.MaxNodes <= 0 {
		return fmt.Errorf("max_nodes must be > 0 (got %d)", c.MaxNodes)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be > 0 (got %d)", c.Concurrency)
	}
	if c.MaxBatch <= 0 {
		return fmt.Errorf("max_batch must be > 0 (got %d)", c.MaxBatch)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be >= 0 (got %d)", c.CacheSize)
	}
	if c.CacheEnabled() && c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be > 0 when the cache is enabled (got %s)", c.CacheTTL)
	}

	c.Languages = ParseLanguages(c.LanguagesRaw)
	if len(c.Languages) == 0 {
		return fmt.Errorf("languages must list at least one language code")
	}
	if !slices.Contains(c.Languages, c.ClassifyLang) {
		return fmt.Errorf("classify_lang %q must be one of languages %v", c.ClassifyLang, c.Languages)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("must be an absolute http(s) URL (got %q)", raw)
	}
	return nil
}
