package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rickgao/haltwatch/internal/model"
)

func newTestStore(t *testing.T, path string) *FileStore {
	t.Helper()
	s, err := NewFileStore(path, nil)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestFileStoreColdStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := newTestStore(t, path)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load on missing file: %v, want nil (cold start)", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	s := newTestStore(t, path)
	t0 := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
	t1 := t0.Add(10 * time.Minute)

	s.Upsert("ABCD#T1#2026-01-05T09:30:00", model.StatusHalted, t0)
	s.Upsert("EFGH#LUDP#2026-01-05T09:31:00", model.StatusHalted, t0)
	s.Upsert("ABCD#T1#2026-01-05T09:30:00", model.StatusResumed, t1)

	if err := s.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	reloaded := newTestStore(t, path)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if reloaded.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reloaded.Len())
	}

	rec, ok := reloaded.Get("ABCD#T1#2026-01-05T09:30:00")
	if !ok {
		t.Fatal("ABCD record missing after reload")
	}
	if rec.LastStatus != model.StatusResumed {
		t.Errorf("LastStatus = %s, want %s", rec.LastStatus, model.StatusResumed)
	}
	if !rec.FirstSeenAt.Equal(t0) {
		t.Errorf("FirstSeenAt = %v, want %v (resume must not reset it)", rec.FirstSeenAt, t0)
	}
	if !rec.LastUpdatedAt.Equal(t1) {
		t.Errorf("LastUpdatedAt = %v, want %v", rec.LastUpdatedAt, t1)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newTestStore(t, path)
	err := s.Load(context.Background())

	var corrupt *CorruptError
	if !errors.As(err, &corrupt) {
		t.Fatalf("Load on corrupt file: %v, want *CorruptError", err)
	}
	if corrupt.Path != path {
		t.Errorf("CorruptError.Path = %q, want %q", corrupt.Path, path)
	}
}

// A crash between temp-file creation and rename must leave the previous
// snapshot intact and loadable.
func TestFileStoreCrashMidPersist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	ctx := context.Background()

	s := newTestStore(t, path)
	t0 := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
	s.Upsert("ABCD#T1#2026-01-05T09:30:00", model.StatusHalted, t0)
	if err := s.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	// Simulate an abandoned write: a temp file with garbage contents.
	if err := os.WriteFile(filepath.Join(dir, ".state-12345.json"), []byte("partial wr"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := newTestStore(t, path)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load after simulated crash: %v", err)
	}
	if _, ok := reloaded.Get("ABCD#T1#2026-01-05T09:30:00"); !ok {
		t.Error("previously persisted record lost after simulated crash")
	}
}

func TestFileStorePersistSkipsWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := newTestStore(t, path)

	if err := s.Persist(context.Background()); err != nil {
		t.Fatalf("Persist with no changes: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Persist with no changes wrote a file")
	}
}

// Snapshots must tolerate unknown fields so the schema can grow.
func TestFileStoreForwardCompatible(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	payload := `{
		"version": 2,
		"saved_at": "2026-01-05T10:00:00Z",
		"future_field": {"x": 1},
		"events": {
			"ABCD#T1#2026-01-05T09:30:00": {
				"last_status": "HALTED",
				"first_seen_at": "2026-01-05T09:30:00Z",
				"last_updated_at": "2026-01-05T09:30:00Z",
				"future_note": "ignored"
			}
		}
	}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newTestStore(t, path)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load with unknown fields: %v", err)
	}
	rec, ok := s.Get("ABCD#T1#2026-01-05T09:30:00")
	if !ok || rec.LastStatus != model.StatusHalted {
		t.Errorf("record = %+v ok=%v, want HALTED record", rec, ok)
	}
}
