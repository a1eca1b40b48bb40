package checkpoint

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemStore is an in-memory checkpoint store. Checkpoints survive only for
// the process lifetime; useful for tests and throwaway runs.
type MemStore struct {
	mu    sync.RWMutex
	ckpts map[string][]byte
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{ckpts: make(map[string][]byte)}
}

// Save serializes the checkpoint so later mutation of the caller's state
// cannot leak into the stored snapshot.
func (s *MemStore) Save(ctx context.Context, name string, ckpt *Checkpoint) error {
	if name == "" {
		return fmt.Errorf("checkpoint name is required")
	}
	data, err := Marshal(ckpt)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ckpts[name] = data
	return nil
}

// Load returns the checkpoint saved under name.
func (s *MemStore) Load(ctx context.Context, name string) (*Checkpoint, error) {
	s.mu.RLock()
	data, ok := s.ckpts[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return Unmarshal(data)
}

// Delete removes the checkpoint saved under name, if present.
func (s *MemStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ckpts, name)
	return nil
}

// List returns the names of all saved checkpoints.
func (s *MemStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.ckpts))
	for name := range s.ckpts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op for in-memory stores.
func (s *MemStore) Close() error { return nil }
