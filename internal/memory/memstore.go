package memory

import (
	"context"
	"sync"
	"time"
)

// MemStore is an in-process Store for tests and single-node development.
type MemStore struct {
	mu sync.Mutex
	m  map[string]*Transcript
}

func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string]*Transcript)}
}

func (s *MemStore) Append(_ context.Context, sessionID, userID, role, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript := s.m[sessionID]
	if transcript == nil {
		now := time.Now()
		transcript = &Transcript{
			SessionID: sessionID,
			UserID:    userID,
			Metadata:  Metadata{StartedAt: now},
		}
		s.m[sessionID] = transcript
	}
	entry := Entry{Role: role, Text: text, Timestamp: time.Now()}
	transcript.Entries = append(transcript.Entries, entry)
	transcript.Metadata.LastActivity = entry.Timestamp
	transcript.Metadata.EntryCount = len(transcript.Entries)
	return nil
}

func (s *MemStore) Read(_ context.Context, sessionID string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript, ok := s.m[sessionID]
	if !ok {
		return []Entry{}, nil
	}
	out := make([]Entry, len(transcript.Entries))
	copy(out, transcript.Entries)
	return out, nil
}

func (s *MemStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, sessionID)
	return nil
}

func (s *MemStore) Exists(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[sessionID]
	return ok, nil
}

var _ Store = (*MemStore)(nil)
