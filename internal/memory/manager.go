package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
	lcmemory "github.com/tmc/langchaingo/memory"
)

// Manager layers LangChainGo conversation buffers over the transcript
// store: the store is the durable record, the buffers give cheap formatted
// context for NLU prompts.
type Manager struct {
	store         Store
	mu            sync.Mutex
	buffers       map[string]*lcmemory.ConversationBuffer
	defaultUserID string
}

// NewManager creates a transcript manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:         store,
		buffers:       make(map[string]*lcmemory.ConversationBuffer),
		defaultUserID: "default_user",
	}
}

// bufferFor returns the session's conversation buffer, loading stored
// transcript lines into a fresh one on first use.
func (m *Manager) bufferFor(ctx context.Context, sessionID string) (*lcmemory.ConversationBuffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if buf, ok := m.buffers[sessionID]; ok {
		return buf, nil
	}

	buf := lcmemory.NewConversationBuffer()

	entries, err := m.store.Read(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	for _, entry := range entries {
		var msg llms.ChatMessage
		switch entry.Role {
		case RoleUser:
			msg = llms.HumanChatMessage{Content: entry.Text}
		case RoleAssistant:
			msg = llms.AIChatMessage{Content: entry.Text}
		default:
			continue
		}
		if err := buf.ChatHistory.AddMessage(ctx, msg); err != nil {
			return nil, fmt.Errorf("failed to add message to buffer: %w", err)
		}
	}

	m.buffers[sessionID] = buf
	return buf, nil
}

// AppendUser records a user turn in both the buffer and the store.
func (m *Manager) AppendUser(ctx context.Context, sessionID, userID, text string) error {
	buf, err := m.bufferFor(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := buf.ChatHistory.AddUserMessage(ctx, text); err != nil {
		return fmt.Errorf("failed to buffer user message: %w", err)
	}
	if userID == "" {
		userID = m.defaultUserID
	}
	return m.store.Append(ctx, sessionID, userID, RoleUser, text)
}

// AppendAssistant records a bot turn in both the buffer and the store.
func (m *Manager) AppendAssistant(ctx context.Context, sessionID, userID, text string) error {
	buf, err := m.bufferFor(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := buf.ChatHistory.AddAIMessage(ctx, text); err != nil {
		return fmt.Errorf("failed to buffer assistant message: %w", err)
	}
	if userID == "" {
		userID = m.defaultUserID
	}
	return m.store.Append(ctx, sessionID, userID, RoleAssistant, text)
}

// FormattedHistory renders the session's conversation as prompt context.
func (m *Manager) FormattedHistory(ctx context.Context, sessionID string) (string, error) {
	buf, err := m.bufferFor(ctx, sessionID)
	if err != nil {
		return "", err
	}

	messages, err := buf.ChatHistory.Messages(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get messages: %w", err)
	}
	if len(messages) == 0 {
		return "Chưa có hội thoại trước đó.", nil
	}

	var b strings.Builder
	for _, msg := range messages {
		switch typed := msg.(type) {
		case llms.HumanChatMessage:
			fmt.Fprintf(&b, "Người dùng: %s\n", typed.Content)
		case llms.AIChatMessage:
			fmt.Fprintf(&b, "Bot: %s\n", typed.Content)
		}
	}
	return b.String(), nil
}

// Read returns the stored transcript for the session.
func (m *Manager) Read(ctx context.Context, sessionID string) ([]Entry, error) {
	return m.store.Read(ctx, sessionID)
}

// ClearSession drops the session from both the buffer cache and the store.
func (m *Manager) ClearSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.buffers, sessionID)
	m.mu.Unlock()

	if err := m.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear transcript: %w", err)
	}
	return nil
}

// ActiveSessionCount returns the number of cached buffers.
func (m *Manager) ActiveSessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buffers)
}

// Close closes the underlying store when it is closeable.
func (m *Manager) Close() error {
	if closer, ok := m.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
