package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cobrowse/internal/pkg/logx"
)

// MemoryCleanupInterval is how often expired sessions are swept from a MemoryStore.
const MemoryCleanupInterval = time.Minute

// MemoryStore keeps sessions in a map. Expired entries are invisible to readers
// and are removed by a background loop.
type MemoryStore struct {
	// sessions maps PIN to session.
	sessions map[string]*Session

	// mu protects concurrent access to the sessions map.
	mu sync.RWMutex

	now func() time.Time

	stop chan struct{}
	wg   sync.WaitGroup

	logger zerolog.Logger
}

// NewMemoryStore constructs a MemoryStore and starts its cleanup loop.
func NewMemoryStore() *MemoryStore {
	return newMemoryStore(time.Now, MemoryCleanupInterval)
}

func newMemoryStore(now func() time.Time, interval time.Duration) *MemoryStore {
	m := &MemoryStore{
		sessions: make(map[string]*Session),
		now:      now,
		stop:     make(chan struct{}),
		logger:   logx.Component("SessionStore"),
	}

	m.wg.Add(1)
	go m.runCleanupLoop(interval)

	return m
}

func (m *MemoryStore) runCleanupLoop(interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			if n := m.removeExpired(); n > 0 {
				m.logger.Info().Int("removed", n).Msg("Expired sessions removed.")
			}
		}
	}
}

func (m *MemoryStore) removeExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for pin, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, pin)
			removed++
		}
	}
	return removed
}

// Create implements Store.
func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[s.PIN]; ok && !existing.Expired(m.now()) {
		return ErrPINExists
	}

	cp := *s
	m.sessions[s.PIN] = &cp
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, pin string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[pin]
	if !ok || s.Expired(m.now()) {
		return nil, ErrNotFound
	}

	cp := *s
	return &cp, nil
}

// Activate implements Store.
func (m *MemoryStore) Activate(_ context.Context, pin, agentID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[pin]
	if !ok || s.Expired(m.now()) {
		return nil, ErrNotFound
	}
	if err := s.activate(agentID); err != nil {
		return nil, err
	}

	cp := *s
	return &cp, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, pin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[pin]
	if !ok {
		return ErrNotFound
	}
	delete(m.sessions, pin)

	if s.Expired(m.now()) {
		return ErrNotFound
	}
	return nil
}

// Len returns the number of stored sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup loop and waits for it to exit. It must be called once.
func (m *MemoryStore) Close() error {
	close(m.stop)
	m.wg.Wait()

	m.logger.Info().Msg("Session store shutdown complete.")
	return nil
}
