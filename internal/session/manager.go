// Package session gives each dashboard user an isolated engine: own
// filter parameters, own memoized view, shared read-only dataset.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/censusstack/income-explorer/internal/dataset"
	"github.com/censusstack/income-explorer/internal/engine"
)

// ErrNotFound marks an unknown or expired session id.
var ErrNotFound = errors.New("session not found")

// ErrTooManySessions marks a create request over the session cap.
var ErrTooManySessions = errors.New("session limit reached")

// Session couples one user's engine with idle-expiry bookkeeping.
type Session struct {
	id       string
	engine   *engine.Engine
	created  time.Time
	lastSeen time.Time
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Engine returns the session's filter engine.
func (s *Session) Engine() *engine.Engine { return s.engine }

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time { return s.created }

// Manager owns the live sessions. Sessions expire after sitting idle
// for the configured TTL; any lookup refreshes the timer.
type Manager struct {
	mu       sync.Mutex
	ds       *dataset.Dataset
	obs      engine.Observer
	logger   *slog.Logger
	ttl      time.Duration
	max      int
	now      func() time.Time
	onCount  func(int)
	sessions map[string]*Session
}

// NewManager constructs a session manager over the shared dataset.
// ttl <= 0 disables expiry, max <= 0 removes the session cap, onCount
// (may be nil) is told the live session count after every change.
func NewManager(ds *dataset.Dataset, obs engine.Observer, ttl time.Duration, max int, logger *slog.Logger, onCount func(int)) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		ds:       ds,
		obs:      obs,
		logger:   logger,
		ttl:      ttl,
		max:      max,
		now:      time.Now,
		onCount:  onCount,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with default parameters.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.max > 0 && len(m.sessions) >= m.max {
		return nil, ErrTooManySessions
	}

	now := m.now()
	s := &Session{
		id:       uuid.NewString(),
		engine:   engine.New(m.ds, m.obs),
		created:  now,
		lastSeen: now,
	}
	m.sessions[s.id] = s
	m.notifyLocked()
	return s, nil
}

// Get returns the session and refreshes its idle timer.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.lastSeen = m.now()
	return s, nil
}

// Drop removes a session.
func (m *Manager) Drop(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	m.notifyLocked()
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle past the TTL and returns how many went.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)
	removed := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.notifyLocked()
	}
	return removed
}

// Run sweeps on the given interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := m.Sweep(); removed > 0 {
				m.logger.Info("expired idle sessions",
					slog.Int("removed", removed),
					slog.Int("live", m.Count()),
				)
			}
		}
	}
}

func (m *Manager) notifyLocked() {
	if m.onCount != nil {
		m.onCount(len(m.sessions))
	}
}
