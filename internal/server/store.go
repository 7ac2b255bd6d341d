package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/feltops/holdem/holdem"
)

// ErrTableNotFound is returned by Store.LoadTable for unknown ids.
var ErrTableNotFound = fmt.Errorf("server: table not found")

// Store persists table state between calls. GameState is an opaque
// JSON value to the store: implementations must round-trip it exactly
// so a reloaded table keeps playing identically.
type Store interface {
	SaveTable(ctx context.Context, state *holdem.GameState) error
	LoadTable(ctx context.Context, id string) (*holdem.GameState, error)
	ListTables(ctx context.Context) ([]string, error)
	DeleteTable(ctx context.Context, id string) error
	Close() error
}

// MemoryStore is the default Store: serialized snapshots in a map.
// Snapshots are stored as JSON so Memory and SQLite behave identically
// with respect to aliasing (a loaded state never shares memory with
// the saved one).
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]byte)}
}

func (s *MemoryStore) SaveTable(_ context.Context, state *holdem.GameState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode table %s: %w", state.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[state.ID] = data
	return nil
}

func (s *MemoryStore) LoadTable(_ context.Context, id string) (*holdem.GameState, error) {
	s.mu.RLock()
	data, ok := s.tables[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrTableNotFound
	}
	var state holdem.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode table %s: %w", id, err)
	}
	return &state, nil
}

func (s *MemoryStore) ListTables(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.tables))
	for id := range s.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) DeleteTable(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
