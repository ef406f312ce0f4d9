package dialogue

import "sync"

// Ledger keeps the most recent completed-action artifact per session so a
// later flow can pick up the ticket code even after the session's dialogue
// state has been reset. Scope is strictly per session id; artifacts never
// leak across sessions.
type Ledger struct {
	mu sync.RWMutex
	m  map[string]Artifact
}

func NewLedger() *Ledger {
	return &Ledger{m: make(map[string]Artifact)}
}

// Record remembers the artifact as the session's most recent completed
// action.
func (l *Ledger) Record(sessionID string, a Artifact) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m[sessionID] = a
}

// Recent returns the session's most recent artifact, if any.
func (l *Ledger) Recent(sessionID string) (Artifact, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.m[sessionID]
	return a, ok
}

// Forget drops the session's artifact, e.g. on an explicit session reset.
func (l *Ledger) Forget(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.m, sessionID)
}
