package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultFeedURL        = "https://www.nasdaqtrader.com/rss.aspx?feed=tradehalts"
	DefaultFeedTimeout    = 20 * time.Second
	DefaultFeedUserAgent  = "haltwatch/1.0"
	DefaultProvider       = "auto"
	DefaultFMPURL         = "https://financialmodelingprep.com/api/v3"
	DefaultEnrichTimeout  = 20 * time.Second
	DefaultEnrichParallel = 4
	DefaultNewsURL        = "https://news.google.com/rss/search"
	DefaultStateBackend   = "file"
	DefaultStatePath      = "~/.haltwatch/state.json"
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultDBMaxConns     = 4
	DefaultDBMinConns     = 1
	DefaultPollInterval   = 60 * time.Second
	DefaultNotifyBackend  = "desktop"
	DefaultNotifyTimeout  = 5 * time.Second
	DefaultHealthPort     = 9090
)

func (c *Config) applyDefaults() {
	if c.Instance.ID == "" {
		c.Instance.ID = "haltwatch"
	}

	// Feed defaults
	if c.Feed.URL == "" {
		c.Feed.URL = DefaultFeedURL
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = DefaultFeedTimeout
	}
	if c.Feed.UserAgent == "" {
		c.Feed.UserAgent = DefaultFeedUserAgent
	}

	// Enrichment defaults
	if c.Enrichment.Provider == "" {
		c.Enrichment.Provider = DefaultProvider
	}
	if c.Enrichment.FMPURL == "" {
		c.Enrichment.FMPURL = DefaultFMPURL
	}
	if c.Enrichment.Timeout == 0 {
		c.Enrichment.Timeout = DefaultEnrichTimeout
	}
	if c.Enrichment.Concurrency == 0 {
		c.Enrichment.Concurrency = DefaultEnrichParallel
	}
	if c.Enrichment.NewsURL == "" {
		c.Enrichment.NewsURL = DefaultNewsURL
	}

	// State defaults
	if c.State.Backend == "" {
		c.State.Backend = DefaultStateBackend
	}
	if c.State.Path == "" {
		c.State.Path = DefaultStatePath
	}
	if c.State.Postgres.Port == 0 {
		c.State.Postgres.Port = DefaultDBPort
	}
	if c.State.Postgres.SSLMode == "" {
		c.State.Postgres.SSLMode = DefaultDBSSLMode
	}
	if c.State.Postgres.MaxConns == 0 {
		c.State.Postgres.MaxConns = DefaultDBMaxConns
	}
	if c.State.Postgres.MinConns == 0 {
		c.State.Postgres.MinConns = DefaultDBMinConns
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}

	// Notify defaults
	if c.Notify.Backend == "" {
		c.Notify.Backend = DefaultNotifyBackend
	}
	if c.Notify.Timeout == 0 {
		c.Notify.Timeout = DefaultNotifyTimeout
	}

	// Health defaults
	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
}
