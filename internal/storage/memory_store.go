package storage

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps records in process memory. Used for tests and for runs without a db path.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[Key]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[Key]string)}
}

func (s *MemoryStore) Get(_ context.Context, key Key) (string, error) {
	if err := key.Validate(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[normalize(key)]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key Key, value string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[normalize(key)] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := normalize(key)
	if _, ok := s.records[k]; !ok {
		return ErrNotFound
	}
	delete(s.records, k)
	return nil
}

func normalize(key Key) Key {
	return Key{User: UserID(strings.TrimSpace(string(key.User))), Resource: key.Resource}
}
