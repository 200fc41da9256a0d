package config

import "time"

// Config is the root configuration for a haltwatch instance.
type Config struct {
	Instance   InstanceConfig   `yaml:"instance"`
	Feed       FeedConfig       `yaml:"feed"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	State      StateConfig      `yaml:"state"`
	Poller     PollerConfig     `yaml:"poller"`
	Notify     NotifyConfig     `yaml:"notify"`
	Health     HealthConfig     `yaml:"health"`
}

// InstanceConfig identifies this haltwatch instance.
type InstanceConfig struct {
	ID string `yaml:"id" envconfig:"HALTWATCH_INSTANCE_ID"`
}

// FeedConfig holds halt-feed settings.
type FeedConfig struct {
	URL       string        `yaml:"url" envconfig:"HALTWATCH_FEED_URL"`
	Timeout   time.Duration `yaml:"timeout" envconfig:"HALTWATCH_FEED_TIMEOUT"`
	UserAgent string        `yaml:"user_agent" envconfig:"HALTWATCH_FEED_USER_AGENT"`
}

// EnrichmentConfig holds market-data provider settings.
//
// Provider selects the quote source:
//   - "auto": FMP when api_key is set, Yahoo otherwise
//   - "fmp":  FMP only (degrades to n/a without a key)
//   - "yahoo": Yahoo only
//   - "off":  no quote lookups
type EnrichmentConfig struct {
	Provider    string        `yaml:"provider" envconfig:"HALTWATCH_ENRICHMENT_PROVIDER"`
	FMPURL      string        `yaml:"fmp_url" envconfig:"HALTWATCH_FMP_URL"`
	APIKey      string        `yaml:"api_key" envconfig:"FMP_API_KEY"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"HALTWATCH_ENRICHMENT_TIMEOUT"`
	Concurrency int           `yaml:"concurrency" envconfig:"HALTWATCH_ENRICHMENT_CONCURRENCY"`
	NewsURL     string        `yaml:"news_url" envconfig:"HALTWATCH_NEWS_URL"`
}

// StateConfig selects and configures the dedup state backend.
type StateConfig struct {
	Backend  string   `yaml:"backend" envconfig:"HALTWATCH_STATE_BACKEND"` // "file" or "postgres"
	Path     string   `yaml:"path" envconfig:"HALTWATCH_STATE_PATH"`
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host" envconfig:"HALTWATCH_DB_HOST"`
	Port     int    `yaml:"port" envconfig:"HALTWATCH_DB_PORT"`
	Name     string `yaml:"name" envconfig:"HALTWATCH_DB_NAME"`
	User     string `yaml:"user" envconfig:"HALTWATCH_DB_USER"`
	Password string `yaml:"password" envconfig:"HALTWATCH_DB_PASSWORD"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"HALTWATCH_DB_SSL_MODE"`
	MaxConns int    `yaml:"max_conns" envconfig:"HALTWATCH_DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" envconfig:"HALTWATCH_DB_MIN_CONNS"`
}

// PollerConfig holds poll-loop settings.
type PollerConfig struct {
	Interval time.Duration `yaml:"interval" envconfig:"HALTWATCH_POLL_INTERVAL"`
}

// NotifyConfig holds alert delivery settings.
type NotifyConfig struct {
	Backend string        `yaml:"backend" envconfig:"HALTWATCH_NOTIFY_BACKEND"` // "desktop" or "log"
	Timeout time.Duration `yaml:"timeout" envconfig:"HALTWATCH_NOTIFY_TIMEOUT"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port" envconfig:"HALTWATCH_HEALTH_PORT"`
}
