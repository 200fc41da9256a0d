package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/haltwatch/internal/alert"
	"github.com/rickgao/haltwatch/internal/config"
	"github.com/rickgao/haltwatch/internal/database"
	"github.com/rickgao/haltwatch/internal/enrich"
	"github.com/rickgao/haltwatch/internal/feed"
	"github.com/rickgao/haltwatch/internal/poller"
	"github.com/rickgao/haltwatch/internal/state"
	"github.com/rickgao/haltwatch/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (environment-only when empty)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("haltwatch", version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting haltwatch",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadAndValidate(*configPath)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"feed_url", cfg.Feed.URL,
		"state_backend", cfg.State.Backend,
		"poll_interval", cfg.Poller.Interval,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Open the state store
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open state store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Load(ctx); err != nil {
		// A corrupt state file is fatal: restarting with an empty map
		// would re-alert on everything already seen.
		logger.Error("failed to load state", "error", err)
		os.Exit(1)
	}

	logger.Info("state store ready", "entries", store.Len())

	// Assemble the pipeline
	feedClient := feed.NewClient(
		cfg.Feed.URL,
		feed.WithTimeout(cfg.Feed.Timeout),
		feed.WithUserAgent(cfg.Feed.UserAgent),
		feed.WithLogger(logger),
	)

	enricher := enrich.New(
		buildProviders(cfg, logger),
		enrich.NewNewsClient(cfg.Enrichment.NewsURL, logger),
		cfg.Enrichment.Timeout,
		logger,
	)

	dispatcher := alert.NewDispatcher(buildNotifier(cfg, logger), cfg.Notify.Timeout, logger)

	pollerCfg := poller.Config{
		Interval:          cfg.Poller.Interval,
		EnrichConcurrency: cfg.Enrichment.Concurrency,
		PersistTimeout:    10 * time.Second,
	}
	p := poller.New(pollerCfg, feedClient, store, enricher, dispatcher, logger)

	// Start health server
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(p),
	}
	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	// Start polling
	if err := p.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	logger.Info("haltwatch running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/healthz", cfg.Health.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := p.Stop(shutdownCtx); err != nil {
		logger.Warn("poller stop timed out", "error", err)
	}
	healthServer.Shutdown(shutdownCtx)

	logger.Info("haltwatch stopped")
}

// openStore creates the configured state backend.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (state.Store, error) {
	switch cfg.State.Backend {
	case "postgres":
		logger.Info("connecting to database",
			"host", cfg.State.Postgres.Host,
			"port", cfg.State.Postgres.Port,
			"database", cfg.State.Postgres.Name,
		)
		pool, err := database.Connect(ctx, cfg.State.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return state.NewPostgresStore(ctx, pool, logger)
	default:
		return state.NewFileStore(cfg.State.Path, logger)
	}
}

// buildProviders assembles the quote provider chain per config.
func buildProviders(cfg *config.Config, logger *slog.Logger) []enrich.Provider {
	fmp := enrich.NewFMPProvider(
		cfg.Enrichment.FMPURL,
		cfg.Enrichment.APIKey,
		enrich.WithFMPLogger(logger),
	)

	switch cfg.Enrichment.Provider {
	case "fmp":
		return []enrich.Provider{fmp}
	case "yahoo":
		return []enrich.Provider{enrich.NewYahooProvider()}
	case "off":
		return nil
	default: // auto
		if cfg.Enrichment.APIKey != "" {
			return []enrich.Provider{fmp, enrich.NewYahooProvider()}
		}
		return []enrich.Provider{enrich.NewYahooProvider()}
	}
}

func buildNotifier(cfg *config.Config, logger *slog.Logger) alert.Notifier {
	if cfg.Notify.Backend == "log" {
		return alert.NewLogNotifier(logger)
	}
	return alert.NewDesktopNotifier()
}

// createHealthHandler serves loop progress for the control surface.
func createHealthHandler(p *poller.Poller) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := p.Stats()

		status := "healthy"
		if stats.Cycles > 0 && stats.FetchFailures == stats.Cycles {
			status = "degraded"
		}

		health := struct {
			Status  string       `json:"status"`
			Version string       `json:"version"`
			Poller  poller.Stats `json:"poller"`
		}{
			Status:  status,
			Version: version.Version,
			Poller:  stats,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
