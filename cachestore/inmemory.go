package cachestore

import (
	"context"
	"sync"
)

// InMemoryStore is a thread-safe, in-process Store. It satisfies the Store
// interface and is the default backend.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]*Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		data: make(map[string]map[string]*Entry),
	}
}

func (s *InMemoryStore) Match(_ context.Context, namespace string, key Key) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ns, ok := s.data[namespace]
	if !ok {
		return nil, ErrNotFound
	}
	entry, ok := ns[key.String()]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneEntry(entry), nil
}

func (s *InMemoryStore) Put(_ context.Context, namespace string, key Key, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.data[namespace]
	if !ok {
		ns = make(map[string]*Entry)
		s.data[namespace] = ns
	}
	ns[key.String()] = cloneEntry(entry)
	return nil
}

func (s *InMemoryStore) Namespaces(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	return names, nil
}

func (s *InMemoryStore) Purge(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, namespace)
	return nil
}
