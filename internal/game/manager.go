package game

import (
	"sync"
	"time"
)

// Manager is the session registry, keyed by table (channel) identity.
// Each table holds at most one session; sessions lock themselves, the
// registry only guards the map.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create opens a session for a table and seats the host. A table can only
// host one session at a time, and the round limit must fit the deck.
func (m *Manager) Create(tableID, hostID, hostName string, cfg SessionConfig, now time.Time) (*Session, error) {
	if cfg.RoundLimit < 1 || cfg.RoundLimit > MaxRoundLimit {
		return nil, ErrInvalidRoundLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[tableID]; ok {
		return nil, ErrGameInProgress
	}
	s := NewSession(tableID, hostID, hostName, cfg, 0, now)
	m.sessions[tableID] = s
	return s, nil
}

func (m *Manager) Get(tableID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[tableID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return s, nil
}

func (m *Manager) Remove(tableID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tableID)
}

// Tables lists the table ids with an open session.
func (m *Manager) Tables() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	return out
}

// Sweep expires stalled turns and idle sessions across all tables and
// drops finished sessions. It returns the events produced, keyed by table
// id, for the caller to deliver and settle.
func (m *Manager) Sweep(now time.Time) map[string][]Event {
	m.mu.RLock()
	sessions := make(map[string]*Session, len(m.sessions))
	for id, s := range m.sessions {
		sessions[id] = s
	}
	m.mu.RUnlock()

	out := make(map[string][]Event)
	for id, s := range sessions {
		events := s.ExpireTurn(now)
		events = append(events, s.ExpireSession(now)...)
		if len(events) > 0 {
			out[id] = events
		}
		if s.Finished() {
			m.Remove(id)
		}
	}
	return out
}
