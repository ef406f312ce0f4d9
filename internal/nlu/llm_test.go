package nlu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

type fakeModel struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, part := range messages[0].Parts {
		if text, ok := part.(llms.TextContent); ok {
			f.lastPrompt = text.Text
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.response}}}, nil
}

func (f *fakeModel) Call(_ context.Context, prompt string, _ ...llms.CallOption) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

type fakeHistory struct {
	history string
	err     error
}

func (f *fakeHistory) FormattedHistory(_ context.Context, _ string) (string, error) {
	return f.history, f.err
}

func TestLLMAnalyzeParsesModelJSON(t *testing.T) {
	model := &fakeModel{response: `Đây là kết quả:
{"intent": "book", "entities": [{"entity": "destination", "value": "sài gòn", "confidence": 0.9}], "confidence": 0.9}`}
	a := NewLLMAnalyzer(model, nil, zap.NewNop())

	sig, err := a.Analyze(context.Background(), "s1", "đặt vé đi sài gòn")
	require.NoError(t, err)
	require.Equal(t, "book", sig.Intent)
	require.Len(t, sig.Entities, 1)
	require.Equal(t, "destination", sig.Entities[0].Type)
	require.Equal(t, "sài gòn", sig.Entities[0].Value)
}

func TestLLMAnalyzeIncludesHistory(t *testing.T) {
	model := &fakeModel{response: `{"intent": "unknown", "entities": [], "confidence": 0.5}`}
	history := &fakeHistory{history: "Người dùng: đặt vé\nBot: Bạn muốn đi từ đâu?\n"}
	a := NewLLMAnalyzer(model, history, zap.NewNop())

	_, err := a.Analyze(context.Background(), "s1", "hà nội")
	require.NoError(t, err)
	require.Contains(t, model.lastPrompt, "Bạn muốn đi từ đâu?")
	require.Contains(t, model.lastPrompt, "hà nội")
}

func TestLLMAnalyzeFallsBackOnModelError(t *testing.T) {
	model := &fakeModel{err: errors.New("rate limited")}
	a := NewLLMAnalyzer(model, nil, zap.NewNop())

	sig, err := a.Analyze(context.Background(), "s1", "hủy vé VN000123")
	require.NoError(t, err)
	require.Equal(t, "cancel", sig.Intent)
}

func TestLLMAnalyzeFallsBackOnGarbage(t *testing.T) {
	model := &fakeModel{response: "xin lỗi, tôi không chắc"}
	a := NewLLMAnalyzer(model, nil, zap.NewNop())

	sig, err := a.Analyze(context.Background(), "s1", "đặt vé đi đà nẵng")
	require.NoError(t, err)
	require.Equal(t, "book", sig.Intent)
}

func TestParseSignalDefaultsToUnknown(t *testing.T) {
	sig, err := ParseSignal(`{"entities": [], "confidence": 0.2}`)
	require.NoError(t, err)
	require.Equal(t, IntentUnknown, sig.Intent)

	_, err = ParseSignal("no json here")
	require.Error(t, err)
}
