package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

type entry struct {
	saleID    string // vacío mientras la solicitud está en curso
	expiresAt time.Time
}

// InMemoryIdempotencyStore implementa sales.IdempotencyStore en memoria.
// Sirve para una sola instancia y para pruebas.
type InMemoryIdempotencyStore struct {
	mu        sync.Mutex
	entries   map[string]entry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore crea el store y arranca la limpieza periódica de claves vencidas.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		entries:  make(map[string]entry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.cleanupLoop()
	return s
}

func memKey(tenantID, key string) string { return tenantID + ":" + key }

func (s *InMemoryIdempotencyStore) Claim(_ context.Context, tenantID, key string, ttl time.Duration) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := memKey(tenantID, key)
	now := s.now()
	if e, ok := s.entries[k]; ok && now.Before(e.expiresAt) {
		if e.saleID == "" {
			return "", false, domain.ErrRequestInFlight
		}
		return e.saleID, true, nil
	}
	s.entries[k] = entry{expiresAt: now.Add(ttl)}
	return "", false, nil
}

func (s *InMemoryIdempotencyStore) Complete(_ context.Context, tenantID, key, saleID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[memKey(tenantID, key)] = entry{saleID: saleID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *InMemoryIdempotencyStore) Release(_ context.Context, tenantID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, memKey(tenantID, key))
	return nil
}

// Close detiene la limpieza. Se puede llamar varias veces.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) cleanupLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}

// Size número de claves guardadas.
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var _ sales.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
