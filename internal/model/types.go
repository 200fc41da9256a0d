package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the trading state reported by the halt feed.
type Status string

const (
	StatusHalted  Status = "HALTED"
	StatusResumed Status = "RESUMED"
)

// HaltEvent is one normalized halt or resume observation from the feed.
// Events are transient: they are rebuilt on every poll cycle and never
// persisted themselves.
type HaltEvent struct {
	Identity   string            // Deterministic key for this halt lifecycle
	Symbol     string            // Ticker, uppercase
	Status     Status            // HALTED or RESUMED
	ReasonCode string            // Feed reason code (e.g., "T1", "LUDP")
	Market     string            // Listing market, when the feed provides it
	HaltTime   time.Time         // Zero if the feed omitted it
	ResumeTime time.Time         // Zero unless the halt has a resumption
	Raw        map[string]string // Unparsed feed attributes, for logging only
}

// EventRecord is the durable dedup record for one identity.
// An identity present in the store has been processed for its LastStatus;
// absence means never seen. Records are updated in place and never deleted.
type EventRecord struct {
	LastStatus    Status    `json:"last_status"`
	FirstSeenAt   time.Time `json:"first_seen_at"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// Classification is the dedup verdict for an observed event.
type Classification int

const (
	// NewHalt is a halt not previously alerted on (including re-halts).
	NewHalt Classification = iota
	// NewResume is a resumption of a tracked halt.
	NewResume
	// Duplicate repeats the already-alerted status for its identity.
	Duplicate
	// Ignore is a resume with no tracked halt. Recorded, never alerted.
	Ignore
)

func (c Classification) String() string {
	switch c {
	case NewHalt:
		return "new_halt"
	case NewResume:
		return "new_resume"
	case Duplicate:
		return "duplicate"
	case Ignore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Alertable reports whether this classification warrants a notification.
func (c Classification) Alertable() bool {
	return c == NewHalt || c == NewResume
}

// Quote holds best-effort market data for a symbol.
// Each field is independently present-or-absent; nil renders as "n/a".
type Quote struct {
	Price     *decimal.Decimal
	MarketCap *decimal.Decimal
	Float     *decimal.Decimal
}

// NewsSummary holds a best-effort headline lookup for a symbol.
type NewsSummary struct {
	Link    string // Top story link, "" if unavailable
	Summary string // Shortened headlines joined by "; ", "" if unavailable
}
