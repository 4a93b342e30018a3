// Package store persists game state (balance, settings, statistics, UI
// preferences) as a JSON snapshot on disk. The engine treats any load
// failure as "no saved state" and keeps playing with defaults; persistence
// problems are never fatal.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-trainer/internal/fileutil"
	"github.com/lox/blackjack-trainer/internal/game"
)

// FileStore implements game.Store on top of a single JSON file
type FileStore struct {
	path   string
	logger *log.Logger
}

// NewFileStore creates a store writing to the given path. The parent
// directory is created on the first save.
func NewFileStore(path string, logger *log.Logger) *FileStore {
	return &FileStore{path: path, logger: logger.WithPrefix("store")}
}

// Path returns the snapshot file path
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the saved snapshot. A missing file returns (nil, nil): the
// caller starts fresh.
func (s *FileStore) Load() (*game.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}

	s.logger.Debug("Loaded saved state", "path", s.path, "balance", snap.Balance)
	return &snap, nil
}

// Save writes the snapshot atomically so a crash mid-write never corrupts
// the previous state.
func (s *FileStore) Save(snap *game.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	if err := fileutil.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
