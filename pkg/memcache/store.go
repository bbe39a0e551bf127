// pkg/memcache/store.go
package mem

import (
	"context"
	"sync"
	"time"
)

// Store is a best-effort key/value cache. Writes report whether they took
// effect; a false return is never fatal to the caller.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool

	Delete(ctx context.Context, key string) bool
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Set stores a copy of value. A non-positive ttl never expires.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) bool {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = e
	return true
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if e.expired(s.now()) {
		s.mu.Lock()
		// re-check: a concurrent Set may have replaced it
		if cur, ok := s.data[key]; ok && cur.expired(s.now()) {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return append([]byte(nil), e.value...), true
}

// Delete reports whether a live entry was removed.
func (s *MemoryStore) Delete(_ context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return false
	}
	delete(s.data, key)
	return !e.expired(s.now())
}

// Len counts entries including expired ones not yet evicted.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
