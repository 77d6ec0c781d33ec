package cache

import (
	"context"
	"time"

	memoryStorage "github.com/gofiber/storage/memory/v2"
)

// MemoryStore keeps images in process memory.
type MemoryStore struct {
	storage *memoryStorage.Storage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{storage: memoryStorage.New()}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	val, err := s.storage.Get(key)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, ErrMiss
	}
	return val, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	return s.storage.Set(key, val, ttlOrDefault(ttl))
}

func (s *MemoryStore) Close() error { return s.storage.Close() }
