package app

import (
	"sync"

	"github.com/google/uuid"
)

// Session holds the per-user tailoring state between requests: the last
// unsaved generation, the last save confirmation, and the selection it
// belongs to. Changing either pick invalidates the generation so a result is
// never shown against a pairing it was not produced for.
type Session struct {
	mu sync.Mutex

	jobPick    uuid.UUID
	resumePick uuid.UUID

	lastGeneration   *Generation
	lastSavedMessage string
}

// Select records the user's current job/resume pairing. When the pairing
// changes, any pending generation and save confirmation are discarded.
func (s *Session) Select(jobID, resumeID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if jobID != s.jobPick || resumeID != s.resumePick {
		s.lastGeneration = nil
		s.lastSavedMessage = ""
	}
	s.jobPick = jobID
	s.resumePick = resumeID
}

// SetGeneration stores a fresh generation for the current pairing and clears
// any stale save confirmation.
func (s *Session) SetGeneration(g *Generation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastGeneration = g
	s.lastSavedMessage = ""
}

// Generation returns the pending generation, or nil when none is held.
func (s *Session) Generation() *Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastGeneration
}

// SetSavedMessage records a save confirmation for display.
func (s *Session) SetSavedMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSavedMessage = msg
}

// SavedMessage returns the last save confirmation, or "".
func (s *Session) SavedMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSavedMessage
}

// Sessions hands out one Session per user.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*Session)}
}

// For returns the user's session, creating it on first use.
func (m *Sessions) For(user string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[user]
	if !ok {
		sess = &Session{}
		m.sessions[user] = sess
	}
	return sess
}
