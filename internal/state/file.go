package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rickgao/haltwatch/internal/model"
)

// snapshot is the on-disk file format. Unknown fields are ignored on load,
// so the schema can grow without breaking older snapshots.
type snapshot struct {
	Version int                          `json:"version"`
	SavedAt time.Time                    `json:"saved_at"`
	Events  map[string]model.EventRecord `json:"events"`
}

const snapshotVersion = 1

// FileStore persists the mapping as a JSON snapshot at a fixed path.
type FileStore struct {
	path   string
	logger *slog.Logger

	events map[string]model.EventRecord
	dirty  bool
}

// NewFileStore creates a file-backed store. A leading "~/" in path expands
// to the user's home directory.
func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	return &FileStore{
		path:   path,
		logger: logger,
		events: make(map[string]model.EventRecord),
	}, nil
}

// Load reads the snapshot file. Missing file = cold start.
func (s *FileStore) Load(_ context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("no state file, starting cold", "path", s.path)
			return nil
		}
		return fmt.Errorf("read state file: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return &CorruptError{Path: s.path, Err: err}
	}
	if snap.Events == nil {
		snap.Events = make(map[string]model.EventRecord)
	}

	s.events = snap.Events
	s.logger.Info("state loaded", "path", s.path, "entries", len(s.events))
	return nil
}

func (s *FileStore) Get(identity string) (model.EventRecord, bool) {
	rec, ok := s.events[identity]
	return rec, ok
}

func (s *FileStore) Upsert(identity string, status model.Status, at time.Time) {
	rec, ok := s.events[identity]
	if !ok {
		rec = model.EventRecord{FirstSeenAt: at}
	}
	rec.LastStatus = status
	rec.LastUpdatedAt = at
	s.events[identity] = rec
	s.dirty = true
}

// Persist writes the snapshot to a temp file in the same directory, then
// atomically renames it over the previous one. A crash mid-write leaves the
// old snapshot untouched.
func (s *FileStore) Persist(_ context.Context) error {
	if !s.dirty {
		return nil
	}

	snap := snapshot{
		Version: snapshotVersion,
		SavedAt: time.Now().UTC(),
		Events:  s.events,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}

	s.dirty = false
	s.logger.Debug("state persisted", "path", s.path, "entries", len(s.events))
	return nil
}

func (s *FileStore) Len() int { return len(s.events) }

func (s *FileStore) Close() {}
