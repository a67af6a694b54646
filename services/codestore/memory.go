package codestore

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*entry
	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

type entry struct {
	value     string
	expiresAt time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, letting tests move past a TTL without sleeping.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	store := &MemoryStore{
		data: make(map[string]*entry),
		now:  time.Now,
		stop: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(store)
	}

	go store.cleanup(time.Minute)

	return store
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, exists := s.data[key]; exists && s.now().Before(e.expiresAt) {
		return e.value, true, nil
	}

	return "", false, nil
}

func (s *MemoryStore) SetWithExpire(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := checkTTL(ttl); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = &entry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}

	return nil
}

func (s *MemoryStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (string, bool, error) {
	if err := checkTTL(ttl); err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, exists := s.data[key]; exists && now.Before(e.expiresAt) {
		return e.value, false, nil
	}

	s.data[key] = &entry{
		value:     value,
		expiresAt: now.Add(ttl),
	}

	return value, true, nil
}

// Close stops the background sweeper. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.once.Do(func() {
		close(s.stop)
	})
	return nil
}

func (s *MemoryStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.data {
		if !now.Before(e.expiresAt) {
			delete(s.data, key)
		}
	}
}
