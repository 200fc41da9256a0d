package state

import (
	"context"
	"fmt"
	"time"

	"github.com/rickgao/haltwatch/internal/model"
)

// Store is the durable mapping from event identity to last-known status.
//
// Load is called once at startup. Get/Upsert operate on the in-memory
// mapping; Persist writes it out durably and is called after every
// successfully processed cycle, regardless of enrichment or dispatch
// outcomes.
type Store interface {
	// Load reads the persisted snapshot. A missing backing file or empty
	// table is a cold start, not an error. A present-but-unreadable file
	// fails with *CorruptError: silently restarting empty would re-alert
	// on everything already seen.
	Load(ctx context.Context) error

	// Get returns the record for identity, if any.
	Get(identity string) (model.EventRecord, bool)

	// Upsert records the latest observed status for identity, in memory.
	// New identities get FirstSeenAt = at; existing ones keep it.
	Upsert(identity string, status model.Status, at time.Time)

	// Persist durably writes the mapping. A crash mid-persist must leave
	// the previous snapshot intact and loadable.
	Persist(ctx context.Context) error

	// Len returns the number of tracked identities.
	Len() int

	// Close releases backend resources.
	Close()
}

// CorruptError reports persisted state that exists but cannot be read.
// It is fatal at startup.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("state file %s is corrupt: %v (move it aside to start fresh)", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }
