package composer

import (
	"context"
	"sync"
	"time"
)

// Manager owns the live sessions, keyed by id, and disposes of idle ones.
type Manager struct {
	opts Options
	ttl  time.Duration

	mu       sync.Mutex
	sessions map[SessionID]*Session
}

func NewManager(opts Options, ttl time.Duration) *Manager {
	return &Manager{
		opts:     opts.withDefaults(),
		ttl:      ttl,
		sessions: make(map[SessionID]*Session),
	}
}

func (m *Manager) Create() *Session {
	s := NewSession(NewSessionID(), m.opts)

	m.mu.Lock()
	m.sessions[s.id] = s
	n := len(m.sessions)
	m.mu.Unlock()

	m.gauge(n)
	composerLogger.Debug().Str("session", string(s.id)).Msg("Session created")
	return s
}

// Get returns a live session and marks it active.
func (m *Manager) Get(id SessionID) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}

	s.touch()
	return s, true
}

// GetOrCreate returns the session for id, creating a fresh one when id is unknown.
func (m *Manager) GetOrCreate(id SessionID) (s *Session, created bool) {
	if s, ok := m.Get(id); ok {
		return s, false
	}
	return m.Create(), true
}

// Discard closes and forgets the session. Unknown ids are ignored.
func (m *Manager) Discard(id SessionID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	if ok {
		s.Close()
		m.gauge(n)
		composerLogger.Debug().Str("session", string(id)).Msg("Session discarded")
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep discards sessions idle for longer than the ttl and returns how many it removed.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.opts.now().Add(-m.ttl)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 {
		m.gauge(n)
		composerLogger.Info().Int("removed", len(stale)).Int("remaining", n).Msg("Idle sessions swept")
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Close disposes of every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[SessionID]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	m.gauge(0)
}

func (m *Manager) gauge(n int) {
	if m.opts.Metrics != nil {
		m.opts.Metrics.SessionsActive.Set(float64(n))
	}
}
