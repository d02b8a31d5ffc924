package idempotency

import (
	"context"
	"sync"
	"time"
)

const defaultCleanupInterval = time.Hour

// MemoryStore хранит ответы в памяти процесса. Используется, когда Redis не настроен.
type MemoryStore struct {
	mu      sync.Mutex
	store   map[string]*CachedResponse
	ttl     time.Duration
	lockTTL time.Duration
	now     func() time.Time
	stopCh  chan struct{}
	once    sync.Once
}

// NewMemoryStore создает хранилище и запускает периодическую очистку устаревших записей
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		store:   make(map[string]*CachedResponse),
		ttl:     ttl,
		lockTTL: defaultLockTTL,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}

	go s.cleanup(defaultCleanupInterval)

	return s
}

func (s *MemoryStore) Reserve(_ context.Context, key, fingerprint string) (*CachedResponse, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.store[key]; ok && !s.expired(existing) {
		copied := *existing
		return &copied, false, nil
	}

	s.store[key] = &CachedResponse{Fingerprint: fingerprint, CreatedAt: s.now()}
	return nil, true, nil
}

func (s *MemoryStore) Complete(_ context.Context, key string, response *CachedResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	response.CreatedAt = s.now()
	s.store[key] = response
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.store[key]; ok && existing.InProgress() {
		delete(s.store, key)
	}
	return nil
}

// Close останавливает фоновую очистку
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stopCh) })
	return nil
}

func (s *MemoryStore) expired(response *CachedResponse) bool {
	ttl := s.ttl
	if response.InProgress() {
		ttl = s.lockTTL
	}
	return s.now().Sub(response.CreatedAt) > ttl
}

func (s *MemoryStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, response := range s.store {
		if s.expired(response) {
			delete(s.store, key)
		}
	}
}

func (s *MemoryStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.stopCh:
			return
		}
	}
}
