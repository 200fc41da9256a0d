package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: haltwatch-test
feed:
  url: https://example.com/rss.aspx?feed=tradehalts
state:
  backend: file
  path: /tmp/haltwatch-test/state.json
notify:
  backend: log
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "haltwatch-test" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "haltwatch-test")
	}
	if cfg.Feed.URL != "https://example.com/rss.aspx?feed=tradehalts" {
		t.Errorf("Feed.URL = %q", cfg.Feed.URL)
	}
	if cfg.Notify.Backend != "log" {
		t.Errorf("Notify.Backend = %q, want %q", cfg.Notify.Backend, "log")
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_FMP_KEY", "sekrit")

	yaml := `
enrichment:
  api_key: ${TEST_FMP_KEY}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Enrichment.APIKey != "sekrit" {
		t.Errorf("Enrichment.APIKey = %q, want expanded env value", cfg.Enrichment.APIKey)
	}
}

func TestLoadAndValidateDefaults(t *testing.T) {
	path := writeTempFile(t, "instance:\n  id: defaults-test\n")

	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}

	if cfg.Feed.URL != DefaultFeedURL {
		t.Errorf("Feed.URL = %q, want default", cfg.Feed.URL)
	}
	if cfg.Poller.Interval != DefaultPollInterval {
		t.Errorf("Poller.Interval = %v, want %v", cfg.Poller.Interval, DefaultPollInterval)
	}
	if cfg.State.Backend != "file" {
		t.Errorf("State.Backend = %q, want file", cfg.State.Backend)
	}
	if cfg.Enrichment.Concurrency != DefaultEnrichParallel {
		t.Errorf("Enrichment.Concurrency = %d, want %d", cfg.Enrichment.Concurrency, DefaultEnrichParallel)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"missing feed url", func(c *Config) { c.Feed.URL = "" }, true},
		{"bad provider", func(c *Config) { c.Enrichment.Provider = "bloomberg" }, true},
		{"zero concurrency", func(c *Config) { c.Enrichment.Concurrency = 0 }, true},
		{"bad state backend", func(c *Config) { c.State.Backend = "redis" }, true},
		{"file backend without path", func(c *Config) { c.State.Path = "" }, true},
		{"postgres backend incomplete", func(c *Config) { c.State.Backend = "postgres" }, true},
		{"negative poll interval", func(c *Config) { c.Poller.Interval = -time.Second }, true},
		{"bad notify backend", func(c *Config) { c.Notify.Backend = "carrier-pigeon" }, true},
		{"bad health port", func(c *Config) { c.Health.Port = 70000 }, true},
		{
			"postgres backend complete",
			func(c *Config) {
				c.State.Backend = "postgres"
				c.State.Postgres.Host = "localhost"
				c.State.Postgres.Name = "haltwatch"
				c.State.Postgres.User = "haltwatch"
				c.State.Postgres.Password = "pw"
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("HALTWATCH_FEED_URL", "https://example.com/halts")
	t.Setenv("HALTWATCH_POLL_INTERVAL", "30s")
	t.Setenv("HALTWATCH_NOTIFY_BACKEND", "log")
	t.Setenv("FMP_API_KEY", "env-key")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.Feed.URL != "https://example.com/halts" {
		t.Errorf("Feed.URL = %q", cfg.Feed.URL)
	}
	if cfg.Poller.Interval != 30*time.Second {
		t.Errorf("Poller.Interval = %v, want 30s", cfg.Poller.Interval)
	}
	if cfg.Enrichment.APIKey != "env-key" {
		t.Errorf("Enrichment.APIKey = %q, want env-key", cfg.Enrichment.APIKey)
	}
}
