package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Feed.URL == "" {
		return errors.New("feed.url is required")
	}
	if c.Feed.Timeout <= 0 {
		return errors.New("feed.timeout must be positive")
	}

	switch c.Enrichment.Provider {
	case "auto", "fmp", "yahoo", "off":
	default:
		return fmt.Errorf("enrichment.provider must be one of auto, fmp, yahoo, off, got %q", c.Enrichment.Provider)
	}
	if c.Enrichment.Timeout <= 0 {
		return errors.New("enrichment.timeout must be positive")
	}
	if c.Enrichment.Concurrency < 1 {
		return errors.New("enrichment.concurrency must be >= 1")
	}

	switch c.State.Backend {
	case "file":
		if c.State.Path == "" {
			return errors.New("state.path is required for the file backend")
		}
	case "postgres":
		if err := c.State.Postgres.validate("state.postgres"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("state.backend must be file or postgres, got %q", c.State.Backend)
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be positive")
	}

	switch c.Notify.Backend {
	case "desktop", "log":
	default:
		return fmt.Errorf("notify.backend must be desktop or log, got %q", c.Notify.Backend)
	}
	if c.Notify.Timeout <= 0 {
		return errors.New("notify.timeout must be positive")
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
