package cache

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sgleason/bizatlas/internal/infra/logger"
)

// Store is a disk-backed response cache: one JSON document mapping request
// signatures to raw response payloads. The whole document is read once at
// startup and rewritten after every insertion. Entries are never refreshed
// or evicted, so responses persist across runs indefinitely.
type Store struct {
	path    string
	entries map[string]json.RawMessage
	log     *logger.Logger
}

// Load reads the backing file at path. A missing or unparseable file is a
// recoverable condition: the store starts empty instead of failing the
// process.
func Load(path string, log *logger.Logger) *Store {
	s := &Store{path: path, entries: make(map[string]json.RawMessage), log: log}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Info("cache: starting empty (%v)", err)
		return s
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		log.Warn("cache: corrupt backing file %s, starting empty: %v", path, err)
		s.entries = make(map[string]json.RawMessage)
		return s
	}

	log.Info("cache: loaded %d entries from %s", len(s.entries), path)
	return s
}

// Get returns the cached payload for key, if any.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	v, ok := s.entries[key]
	return v, ok
}

// Put inserts a payload under key and flushes the entire store to disk.
// A flush failure is returned to the caller and is fatal to the pipeline:
// there is no partial-write guard.
func (s *Store) Put(key string, val json.RawMessage) error {
	s.entries[key] = val
	return s.flush()
}

// Len reports the number of cached entries.
func (s *Store) Len() int { return len(s.entries) }

func (s *Store) flush() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("cache: flush %s: %w", s.path, err)
	}
	return nil
}
