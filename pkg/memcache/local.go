package mem

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// LocalStore keeps entries in process memory.
type LocalStore struct {
	cache *cache.Cache
}

func NewLocalStore(defaultTTL, cleanupInterval time.Duration) *LocalStore {
	return &LocalStore{cache: cache.New(defaultTTL, cleanupInterval)}
}

func (s *LocalStore) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b...), true
}

func (s *LocalStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	s.cache.Set(key, append([]byte(nil), value...), ttl)
}
