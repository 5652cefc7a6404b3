package repository

import (
	"context"
	"maps"
	"sync"

	"github.com/lewtec/photolabel/internal/domain"
)

// MemoryPreferenceStore keeps preferences for the lifetime of the process
type MemoryPreferenceStore struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ domain.PreferenceStore = (*MemoryPreferenceStore)(nil)

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{values: make(map[string]string)}
}

func (s *MemoryPreferenceStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryPreferenceStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryPreferenceStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryPreferenceStore) List(context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values), nil
}
