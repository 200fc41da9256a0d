package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/haltwatch/internal/alert"
	"github.com/rickgao/haltwatch/internal/dedup"
	"github.com/rickgao/haltwatch/internal/enrich"
	"github.com/rickgao/haltwatch/internal/feed"
	"github.com/rickgao/haltwatch/internal/model"
	"github.com/rickgao/haltwatch/internal/normalize"
	"github.com/rickgao/haltwatch/internal/state"
)

// Config holds poll loop configuration.
type Config struct {
	Interval          time.Duration // Poll interval (default: 60s)
	EnrichConcurrency int           // Max concurrent enrichments per cycle (default: 4)
	PersistTimeout    time.Duration // Bound on the persist step (default: 10s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:          60 * time.Second,
		EnrichConcurrency: 4,
		PersistTimeout:    10 * time.Second,
	}
}

// Stats is a snapshot of poll loop progress, served by the health endpoint.
type Stats struct {
	Cycles        int64     `json:"cycles"`
	FetchFailures int64     `json:"fetch_failures"`
	AlertsSent    int64     `json:"alerts_sent"`
	AlertsFailed  int64     `json:"alerts_failed"`
	LastCycleAt   time.Time `json:"last_cycle_at"`
	LastRecords   int       `json:"last_records"`
	Tracked       int       `json:"tracked_identities"`
}

// Poller runs the poll loop against the halt feed.
type Poller struct {
	cfg        Config
	feed       *feed.Client
	store      state.Store
	enricher   *enrich.Enricher
	dispatcher *alert.Dispatcher
	logger     *slog.Logger

	statsMu sync.Mutex
	stats   Stats

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, fc *feed.Client, store state.Store, enricher *enrich.Enricher, dispatcher *alert.Dispatcher, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:        cfg,
		feed:       fc,
		store:      store,
		enricher:   enricher,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("poller started",
		"interval", p.cfg.Interval,
		"enrich_concurrency", p.cfg.EnrichConcurrency,
	)

	return nil
}

// Stop gracefully shuts down the poller, waiting for an in-flight cycle.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns a snapshot of loop progress. The store itself is owned by
// the cycle worker, so Tracked is captured at cycle end rather than read
// live.
func (p *Poller) Stats() Stats {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	return p.stats
}

// run is the main polling loop. One cycle runs to completion before the
// next tick is considered.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.runCycle()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.runCycle()
		}
	}
}

// runCycle executes one fetch-normalize-classify-enrich-dispatch-persist
// pass. Fetch failure skips the cycle; per-record failures skip only that
// record.
func (p *Poller) runCycle() {
	start := time.Now()
	log := p.logger.With("cycle", uuid.New().String())

	records, warnings, err := p.feed.Fetch(p.ctx)
	if err != nil {
		log.Warn("fetch failed, skipping cycle", "err", err)
		p.statsMu.Lock()
		p.stats.Cycles++
		p.stats.FetchFailures++
		p.stats.LastCycleAt = time.Now()
		p.statsMu.Unlock()
		return
	}
	for _, w := range warnings {
		log.Warn("skipped malformed feed item", "index", w.Index, "reason", w.Reason)
	}

	type job struct {
		ev  model.HaltEvent
		cls model.Classification
	}
	var jobs []job
	var newHalts, newResumes, duplicates, ignored, skipped int

	for _, raw := range records {
		ev, err := normalize.Record(raw)
		if err != nil {
			log.Warn("skipped unclassifiable record", "err", err, "fields", raw.Fields)
			skipped++
			continue
		}

		var prior *model.EventRecord
		if rec, ok := p.store.Get(ev.Identity); ok {
			prior = &rec
		}

		// Classify before upsert; upsert regardless of verdict. This is
		// what bounds alerts to one per state transition across cycles.
		cls := dedup.Classify(ev, prior)
		p.store.Upsert(ev.Identity, ev.Status, time.Now())

		switch cls {
		case model.NewHalt:
			newHalts++
		case model.NewResume:
			newResumes++
		case model.Duplicate:
			duplicates++
		case model.Ignore:
			ignored++
		}

		if cls.Alertable() {
			log.Info("new event",
				"classification", cls.String(),
				"identity", ev.Identity,
				"symbol", ev.Symbol,
				"reason", ev.ReasonCode,
			)
			jobs = append(jobs, job{ev: ev, cls: cls})
		}
	}

	// Enrich and dispatch new events with bounded parallelism. All of it
	// completes (or times out) before this cycle persists.
	var delivered, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(p.cfg.EnrichConcurrency)

	for _, j := range jobs {
		j := j
		g.Go(func() error {
			res := p.enricher.Enrich(p.ctx, j.ev.Symbol)
			if p.dispatcher.Dispatch(p.ctx, j.ev, res) == alert.Delivered {
				delivered.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	g.Wait()

	// Persist with an independent context so a shutdown signal mid-cycle
	// cannot abort the durable write.
	persistCtx, cancel := context.WithTimeout(context.Background(), p.cfg.PersistTimeout)
	defer cancel()
	if err := p.store.Persist(persistCtx); err != nil {
		log.Error("state persist failed", "err", err)
	}

	p.statsMu.Lock()
	p.stats.Cycles++
	p.stats.AlertsSent += delivered.Load()
	p.stats.AlertsFailed += failed.Load()
	p.stats.LastCycleAt = time.Now()
	p.stats.LastRecords = len(records)
	p.stats.Tracked = p.store.Len()
	p.statsMu.Unlock()

	log.Info("poll cycle complete",
		"records", len(records),
		"new_halts", newHalts,
		"new_resumes", newResumes,
		"duplicates", duplicates,
		"ignored", ignored,
		"skipped", skipped,
		"delivered", delivered.Load(),
		"failed", failed.Load(),
		"duration", time.Since(start),
	)
}
