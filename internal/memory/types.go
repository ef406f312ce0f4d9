package memory

import (
	"context"
	"time"
)

// Conversation roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Entry is one transcript line.
type Entry struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is the full stored conversation for a session.
type Transcript struct {
	SessionID string   `json:"session_id"`
	UserID    string   `json:"user_id"`
	Entries   []Entry  `json:"entries"`
	Metadata  Metadata `json:"metadata"`
}

// Metadata tracks transcript bookkeeping.
type Metadata struct {
	StartedAt    time.Time `json:"started_at"`
	LastActivity time.Time `json:"last_activity"`
	EntryCount   int       `json:"entry_count"`
}

// Store is the append-only session transcript store. Expiry is the store's
// concern (the Redis implementation uses a TTL); the dialogue core never
// depends on it.
type Store interface {
	// Append adds one line to the session's transcript.
	Append(ctx context.Context, sessionID, userID, role, text string) error

	// Read returns the session's transcript in order.
	Read(ctx context.Context, sessionID string) ([]Entry, error)

	// Clear removes the session's transcript.
	Clear(ctx context.Context, sessionID string) error

	// Exists checks whether a transcript exists for the session.
	Exists(ctx context.Context, sessionID string) (bool, error)
}
