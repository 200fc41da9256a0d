package state

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/haltwatch/internal/model"
)

// PostgresStore keeps the durable mapping in a halt_events table. Persist
// only flushes identities touched since the last flush; row upserts are
// individually atomic, so a crash mid-persist leaves prior rows readable.
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger

	events map[string]model.EventRecord
	dirty  map[string]struct{}
}

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS halt_events (
		identity        TEXT PRIMARY KEY,
		last_status     TEXT NOT NULL,
		first_seen_at   TIMESTAMPTZ NOT NULL,
		last_updated_at TIMESTAMPTZ NOT NULL
	)
`

// NewPostgresStore creates a database-backed store, ensuring the schema.
func NewPostgresStore(ctx context.Context, db *pgxpool.Pool, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := db.Exec(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("ensure halt_events table: %w", err)
	}

	return &PostgresStore{
		db:     db,
		logger: logger,
		events: make(map[string]model.EventRecord),
		dirty:  make(map[string]struct{}),
	}, nil
}

// Load reads all rows into memory. An empty table is a cold start.
func (s *PostgresStore) Load(ctx context.Context) error {
	rows, err := s.db.Query(ctx,
		`SELECT identity, last_status, first_seen_at, last_updated_at FROM halt_events`)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	defer rows.Close()

	events := make(map[string]model.EventRecord)
	for rows.Next() {
		var identity, status string
		var rec model.EventRecord
		if err := rows.Scan(&identity, &status, &rec.FirstSeenAt, &rec.LastUpdatedAt); err != nil {
			return fmt.Errorf("scan state row: %w", err)
		}
		rec.LastStatus = model.Status(status)
		events[identity] = rec
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	s.events = events
	s.logger.Info("state loaded", "backend", "postgres", "entries", len(s.events))
	return nil
}

func (s *PostgresStore) Get(identity string) (model.EventRecord, bool) {
	rec, ok := s.events[identity]
	return rec, ok
}

func (s *PostgresStore) Upsert(identity string, status model.Status, at time.Time) {
	rec, ok := s.events[identity]
	if !ok {
		rec = model.EventRecord{FirstSeenAt: at}
	}
	rec.LastStatus = status
	rec.LastUpdatedAt = at
	s.events[identity] = rec
	s.dirty[identity] = struct{}{}
}

// Persist flushes dirty identities with a pgx batch upsert.
func (s *PostgresStore) Persist(ctx context.Context) error {
	if len(s.dirty) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for identity := range s.dirty {
		rec := s.events[identity]
		batch.Queue(`
			INSERT INTO halt_events (identity, last_status, first_seen_at, last_updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (identity) DO UPDATE SET
				last_status = EXCLUDED.last_status,
				last_updated_at = EXCLUDED.last_updated_at
		`, identity, string(rec.LastStatus), rec.FirstSeenAt, rec.LastUpdatedAt)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	flushed := len(s.dirty)
	for i := 0; i < flushed; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("persist state: %w", err)
		}
	}

	s.dirty = make(map[string]struct{})
	s.logger.Debug("state persisted", "backend", "postgres", "flushed", flushed)
	return nil
}

func (s *PostgresStore) Len() int { return len(s.events) }

func (s *PostgresStore) Close() {
	s.db.Close()
}
