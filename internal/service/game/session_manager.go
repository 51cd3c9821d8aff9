package game

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/connect4-engine/pkg/uid"
)

// SessionManager manages active game sessions
type SessionManager struct {
	Session  map[string]*GameSession // sessionID → GameSession
	mu       sync.RWMutex
	chooser  ColumnChooser
	onRemove []func(sessionID string)
}

// NewSessionManager uses chooser for every session it creates; nil means the
// default bot engine.
func NewSessionManager(chooser ColumnChooser) *SessionManager {
	return &SessionManager{
		Session: make(map[string]*GameSession),
		chooser: chooser,
	}
}

// OnRemove registers fn to run after a session is removed, whether by
// RemoveSession or by idle cleanup. Register before serving traffic.
func (sm *SessionManager) OnRemove(fn func(sessionID string)) {
	sm.onRemove = append(sm.onRemove, fn)
}

func (sm *SessionManager) notifyRemoved(sessionID string) {
	for _, fn := range sm.onRemove {
		fn(sessionID)
	}
}

func (sm *SessionManager) CreateSession(opts Options) (*GameSession, error) {
	if opts.Chooser == nil {
		opts.Chooser = sm.chooser
	}

	session, err := NewGameSession(uid.GenerateSessionID(), opts)
	if err != nil {
		return nil, err
	}

	sm.mu.Lock()
	sm.Session[session.ID] = session
	sm.mu.Unlock()
	activeSessions.Inc()

	log.Printf("[SESSION] Created session %s (mode: %s, difficulty: %s, replayed moves: %d)",
		session.ID, session.Mode, session.Difficulty, len(opts.History))
	return session, nil
}

func (sm *SessionManager) GetSessionByID(sessionID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Session[sessionID]
	return session, exists
}

func (sm *SessionManager) RemoveSession(sessionID string) error {
	sm.mu.Lock()
	session, exists := sm.Session[sessionID]
	if exists {
		delete(sm.Session, sessionID)
	}
	sm.mu.Unlock()

	if !exists {
		return fmt.Errorf("session not found")
	}

	session.Close()
	activeSessions.Dec()
	sm.notifyRemoved(sessionID)
	log.Printf("[SESSION] Removing session %s", sessionID)
	return nil
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.Session)
}

// ListSessions returns every live session, oldest first.
func (sm *SessionManager) ListSessions() []*GameSession {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.Session))
	for _, session := range sm.Session {
		sessions = append(sessions, session)
	}
	sm.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions
}

// CleanupIdleSessions removes sessions with no activity for longer than ttl
// and returns how many were removed.
func (sm *SessionManager) CleanupIdleSessions(ttl time.Duration) int {
	sm.mu.Lock()
	now := time.Now()
	var stale []*GameSession
	for sessionID, session := range sm.Session {
		if now.Sub(session.LastActivity()) > ttl {
			delete(sm.Session, sessionID)
			stale = append(stale, session)
		}
	}
	sm.mu.Unlock()

	for _, session := range stale {
		session.Close()
		activeSessions.Dec()
		sm.notifyRemoved(session.ID)
	}

	if len(stale) > 0 {
		log.Printf("[SESSION] Memory cleanup: Removed %d idle game sessions", len(stale))
	}
	return len(stale)
}
