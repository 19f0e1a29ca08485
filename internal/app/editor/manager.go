package editor

import (
	"sort"
	"sync"
)

// Manager keeps the open sessions of a host. Each session has its own lock,
// so events for one session run one at a time while sessions proceed in parallel.
// PRINCIPLES:
// - KISS: Simple map-based storage
// - Thread-safe
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*managed
	newCfg   func() Config
}

type managed struct {
	mu      sync.Mutex
	session *Session
}

// NewManager creates a manager. newCfg supplies the configuration of each new session.
func NewManager(newCfg func() Config) *Manager {
	if newCfg == nil {
		newCfg = func() Config { return Config{} }
	}
	return &Manager{
		sessions: make(map[string]*managed),
		newCfg:   newCfg,
	}
}

// Create opens a new session and returns its id
func (m *Manager) Create() string {
	cfg := m.newCfg()
	cfg.ID = ""
	s := New(cfg)

	m.mu.Lock()
	m.sessions[s.ID()] = &managed{session: s}
	m.mu.Unlock()

	s.metrics.SessionOpened()
	return s.ID()
}

// Do runs fn with exclusive access to the session
func (m *Manager) Do(id string, fn func(*Session) error) error {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.session)
}

// Close discards a session
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	entry.session.metrics.SessionClosed()
	return nil
}

// IDs lists the open sessions in lexical order
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
