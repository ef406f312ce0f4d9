package dialogue

import (
	"sync"

	"github.com/vexabot/vexabot-dialog/internal/models"
)

// TurnRecord is one appended turn_history entry, kept for diagnostics.
type TurnRecord struct {
	Text     string
	Intent   string
	Entities []models.Entity
}

// Artifact is the result of a completed action, retained so a later intent
// can reuse it without re-asking (most importantly the ticket code).
type Artifact struct {
	TicketCode  string
	Departure   string
	Destination string
	Date        string
	Time        string
	Quantity    int
}

// SessionStatus is the externally visible snapshot of one session's state.
type SessionStatus struct {
	CurrentIntent    Intent
	CollectedSlots   map[string]string
	CompletedActions map[Intent]Artifact
}

// sessionState holds one conversation's dialogue state. The embedded mutex
// serializes turns for the session; different sessions run in parallel.
type sessionState struct {
	mu            sync.Mutex
	currentIntent Intent
	slots         map[string]string
	history       []TurnRecord
	completed     map[Intent]Artifact
}

func newSessionState() *sessionState {
	return &sessionState{
		slots:     make(map[string]string),
		completed: make(map[Intent]Artifact),
	}
}

// resetFlow drops the active intent and collected slots. History and
// completed actions survive the reset.
func (st *sessionState) resetFlow() {
	st.currentIntent = IntentNone
	st.slots = make(map[string]string)
}

type sessionStore struct {
	mu sync.Mutex
	m  map[string]*sessionState
}

func newSessionStore() *sessionStore {
	return &sessionStore{m: make(map[string]*sessionState)}
}

func (s *sessionStore) get(sessionID string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.m[sessionID]
	if st == nil {
		st = newSessionState()
		s.m[sessionID] = st
	}
	return st
}

func (s *sessionStore) peek(sessionID string) (*sessionState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[sessionID]
	return st, ok
}

func (s *sessionStore) reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, sessionID)
}
