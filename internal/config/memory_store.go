package config

import (
	"context"
	"sync"
)

// MemoryStore keeps the namespace in memory. It is used in tests and for
// runs that must not touch the file system.
type MemoryStore struct {
	mu  sync.RWMutex
	cfg Config
}

// NewMemoryStore returns a store seeded with a copy of initial.
func NewMemoryStore(initial Config) *MemoryStore {
	return &MemoryStore{cfg: initial.Clone()}
}

// Fetch implements Store.
func (s *MemoryStore) Fetch(ctx context.Context) (Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone(), nil
}

// Update implements Store.
func (s *MemoryStore) Update(ctx context.Context, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.Clone()
	return nil
}

// Destroy implements Destroyer.
func (s *MemoryStore) Destroy(ctx context.Context) (Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.cfg
	s.cfg = Config{}
	return old, nil
}
