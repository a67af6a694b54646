package ratelimit

import (
	"sync"
	"time"
)

type Store interface {
	// Increment counts one hit for key in the window ending at resetTime, or
	// opens a new window when the previous one has passed.
	Increment(key string, resetTime time.Time) (count int, windowReset time.Time)
	Reset(key string)
}

type MemoryStore struct {
	mu   sync.Mutex
	data map[string]*window
	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

type window struct {
	count     int
	resetTime time.Time
}

type MemoryOption func(*MemoryStore)

func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	store := &MemoryStore{
		data: make(map[string]*window),
		now:  time.Now,
		stop: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(store)
	}

	go store.cleanup(time.Minute)

	return store
}

func (s *MemoryStore) Increment(key string, resetTime time.Time) (int, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w, exists := s.data[key]; exists && s.now().Before(w.resetTime) {
		w.count++
		return w.count, w.resetTime
	}

	s.data[key] = &window{count: 1, resetTime: resetTime}
	return 1, resetTime
}

func (s *MemoryStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.data)
}

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
	for key, w := range s.data {
		if !now.Before(w.resetTime) {
			delete(s.data, key)
		}
	}
}
