package recordstore

import (
	"context"
	"sync"
)

// InMemoryKV keeps the default deployment dependency-free and the tests fast.
// It intentionally favors clarity over performance.
type InMemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewInMemoryKV() *InMemoryKV {
	return &InMemoryKV{values: make(map[string]string)}
}

func (s *InMemoryKV) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

func (s *InMemoryKV) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *InMemoryKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
