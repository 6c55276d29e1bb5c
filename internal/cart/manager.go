package cart

import (
	"context"
	"log"
	"sync"
	"time"
)

type session struct {
	store     *Store
	lastTouch time.Time
}

// Manager owns one Store per client session. Stores are created on first use
// and torn down either explicitly or by the janitor once a session has been
// idle longer than the configured TTL.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	idleTTL  time.Duration
}

func NewManager(idleTTL time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		idleTTL:  idleTTL,
	}
}

// Get returns the session's store, creating it on first use.
func (m *Manager) Get(sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		s = &session{store: NewStore()}
		m.sessions[sessionID] = s
	}
	s.lastTouch = time.Now()
	return s.store
}

// Close tears down a session's store.
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// RunJanitor evicts idle sessions until the context is cancelled.
func (m *Manager) RunJanitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.sweep(); n > 0 {
				log.Printf("cart janitor evicted %d idle sessions", n)
			}
		}
	}
}

func (m *Manager) sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.idleTTL)
	evicted := 0
	for id, s := range m.sessions {
		// Never evict mid-checkout; the saga must run to completion.
		if s.lastTouch.Before(cutoff) && !s.store.checkingOutNow() {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (s *Store) checkingOutNow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkingOut
}
