package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jmylchreest/yasem/internal/emulation"
)

// DefaultIdleTimeout is how long a session may go without host messages.
const DefaultIdleTimeout = 30 * time.Minute

// ProfileSource resolves profile ids.
type ProfileSource interface {
	DeviceProfile(ctx context.Context, id string) (*emulation.DeviceProfile, error)
}

// Manager owns the live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	profiles    ProfileSource
	opts        Options
	idleTimeout time.Duration
	logger      *slog.Logger
}

// NewManager creates a session manager.
func NewManager(profiles ProfileSource, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		profiles:    profiles,
		opts:        opts,
		idleTimeout: DefaultIdleTimeout,
		logger:      opts.Logger,
	}
}

// WithIdleTimeout sets how long an idle session survives.
func (m *Manager) WithIdleTimeout(d time.Duration) *Manager {
	if d > 0 {
		m.idleTimeout = d
	}
	return m
}

// Open creates and starts a session for profileID.
func (m *Manager) Open(ctx context.Context, profileID string, transport Transport) (*Session, error) {
	profile, err := m.profiles.DeviceProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("resolving profile %s: %w", profileID, err)
	}

	s, err := New(uuid.NewString(), *profile, transport, m.opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	if err := s.Start(); err != nil {
		m.Close(s.ID())
		return nil, fmt.Errorf("starting session: %w", err)
	}

	m.logger.InfoContext(ctx, "session opened",
		slog.String("session_id", s.ID()),
		slog.String("profile_id", profileID),
		slog.String("class_id", profile.ClassID),
	)
	return s, nil
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Close removes and closes a session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.Close()
	return nil
}

// List returns a summary of every live session, oldest first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	infos := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ReapIdle closes sessions that have been silent longer than the idle
// timeout at now, returning their ids.
func (m *Manager) ReapIdle(now time.Time) []string {
	cutoff := now.Add(-m.idleTimeout)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	ids := make([]string, 0, len(idle))
	for _, s := range idle {
		s.Close()
		ids = append(ids, s.ID())
	}
	return ids
}

// CloseAll closes every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
