package tcp

import (
	"log/slog"
	"sync"
)

// SessionManager tracks live control sessions so shutdown can close them
// all. Event fan-out itself goes through the event bus, not the manager.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *slog.Logger
}

func NewSessionManager(logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

func (m *SessionManager) Add(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	m.logger.Info("tcp_session_added", "session_id", s.ID)
}

func (m *SessionManager) Remove(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, s.ID)
	m.logger.Info("tcp_session_removed", "session_id", s.ID)
}

// CloseAll tears down every tracked session. Each session's own cleanup
// path handles its bus unregistration.
func (m *SessionManager) CloseAll() {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		s.Close()
	}
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
