package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManagerAppendAndRead(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemStore())

	require.NoError(t, m.AppendUser(ctx, "s1", "u1", "đặt vé đi sài gòn"))
	require.NoError(t, m.AppendAssistant(ctx, "s1", "u1", "Bạn muốn đi từ đâu?"))

	entries, err := m.Read(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, RoleUser, entries[0].Role)
	require.Equal(t, "đặt vé đi sài gòn", entries[0].Text)
	require.Equal(t, RoleAssistant, entries[1].Role)
}

func TestManagerFormattedHistory(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemStore())

	history, err := m.FormattedHistory(ctx, "empty")
	require.NoError(t, err)
	require.Equal(t, "Chưa có hội thoại trước đó.", history)

	require.NoError(t, m.AppendUser(ctx, "s1", "u1", "xin chào"))
	require.NoError(t, m.AppendAssistant(ctx, "s1", "u1", "chào bạn"))

	history, err = m.FormattedHistory(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "Người dùng: xin chào\nBot: chào bạn\n", history)
}

func TestManagerClearSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	m := NewManager(store)

	require.NoError(t, m.AppendUser(ctx, "s1", "u1", "xin chào"))
	require.NoError(t, m.ClearSession(ctx, "s1"))

	exists, err := store.Exists(ctx, "s1")
	require.NoError(t, err)
	require.False(t, exists)

	entries, err := m.Read(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, entries)
}
