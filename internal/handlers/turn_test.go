package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vexabot/vexabot-dialog/internal/dialogue"
	"github.com/vexabot/vexabot-dialog/internal/models"
	"github.com/vexabot/vexabot-dialog/internal/nlu"
)

type mockRouter struct {
	route string
	err   error
	calls int
}

func (m *mockRouter) Classify(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.route, m.err
}

type mockAnalyzer struct {
	sig models.Signal
	err error
}

func (m *mockAnalyzer) Analyze(_ context.Context, _, _ string) (models.Signal, error) {
	return m.sig, m.err
}

type mockOrchestrator struct {
	active    bool
	resp      *models.TurnResponse
	status    *dialogue.SessionStatus
	processed int
	resets    int
}

func (m *mockOrchestrator) ProcessTurn(sessionID, _ string, _ models.Signal) *models.TurnResponse {
	m.processed++
	resp := *m.resp
	resp.SessionID = sessionID
	return &resp
}

func (m *mockOrchestrator) Active(string) bool                    { return m.active }
func (m *mockOrchestrator) Reset(string)                          { m.resets++ }
func (m *mockOrchestrator) Status(string) *dialogue.SessionStatus { return m.status }

type mockTranscripts struct {
	userLines      []string
	assistantLines []string
	cleared        int
	appendErr      error
}

func (m *mockTranscripts) AppendUser(_ context.Context, _, _, text string) error {
	m.userLines = append(m.userLines, text)
	return m.appendErr
}

func (m *mockTranscripts) AppendAssistant(_ context.Context, _, _, text string) error {
	m.assistantLines = append(m.assistantLines, text)
	return m.appendErr
}

func (m *mockTranscripts) ClearSession(_ context.Context, _ string) error {
	m.cleared++
	return nil
}

func newHandler(router *mockRouter, analyzer *mockAnalyzer, orch *mockOrchestrator, tr *mockTranscripts) *TurnHandler {
	return NewTurnHandler(router, analyzer, orch, tr, zap.NewNop())
}

func TestProcessTurnHappyPath(t *testing.T) {
	router := &mockRouter{route: nlu.RouteTransactional}
	analyzer := &mockAnalyzer{sig: models.Signal{Intent: "book"}}
	orch := &mockOrchestrator{resp: &models.TurnResponse{Status: models.StatusNeedMoreInfo, Message: "Bạn muốn đi từ đâu?"}}
	tr := &mockTranscripts{}

	resp, err := newHandler(router, analyzer, orch, tr).ProcessTurn(context.Background(),
		&models.TurnRequest{SessionID: "s1", Text: "đặt vé"})
	require.NoError(t, err)
	require.Equal(t, models.StatusNeedMoreInfo, resp.Status)
	require.Equal(t, "s1", resp.SessionID)
	require.Equal(t, 1, orch.processed)
	require.Equal(t, []string{"đặt vé"}, tr.userLines)
	require.Equal(t, []string{"Bạn muốn đi từ đâu?"}, tr.assistantLines)
}

func TestProcessTurnValidates(t *testing.T) {
	h := newHandler(&mockRouter{route: nlu.RouteTransactional}, &mockAnalyzer{}, &mockOrchestrator{resp: &models.TurnResponse{}}, &mockTranscripts{})

	resp, err := h.ProcessTurn(context.Background(), &models.TurnRequest{Text: "hi"})
	require.NoError(t, err)
	require.Equal(t, models.StatusFailed, resp.Status)
	require.Equal(t, models.ErrorParseError, *resp.ErrorCode)

	resp, err = h.ProcessTurn(context.Background(), &models.TurnRequest{SessionID: "s1"})
	require.NoError(t, err)
	require.Equal(t, models.StatusFailed, resp.Status)
}

func TestInformationalTurnRedirected(t *testing.T) {
	router := &mockRouter{route: nlu.RouteInformational}
	orch := &mockOrchestrator{resp: &models.TurnResponse{}}
	tr := &mockTranscripts{}

	resp, err := newHandler(router, &mockAnalyzer{}, orch, tr).ProcessTurn(context.Background(),
		&models.TurnRequest{SessionID: "s1", Text: "chính sách hoàn tiền?"})
	require.NoError(t, err)
	require.Equal(t, models.StatusNeedIntent, resp.Status)
	require.Zero(t, orch.processed)
	require.Len(t, tr.assistantLines, 1)
}

func TestActiveFlowSkipsRouting(t *testing.T) {
	router := &mockRouter{route: nlu.RouteInformational}
	orch := &mockOrchestrator{active: true, resp: &models.TurnResponse{Status: models.StatusNeedMoreInfo}}

	resp, err := newHandler(router, &mockAnalyzer{}, orch, &mockTranscripts{}).ProcessTurn(context.Background(),
		&models.TurnRequest{SessionID: "s1", Text: "ngày mai"})
	require.NoError(t, err)
	require.Equal(t, models.StatusNeedMoreInfo, resp.Status)
	require.Zero(t, router.calls)
	require.Equal(t, 1, orch.processed)
}

func TestAnalyzerFailureReturnsErrorResponse(t *testing.T) {
	analyzer := &mockAnalyzer{err: errors.New("model unavailable")}
	orch := &mockOrchestrator{resp: &models.TurnResponse{}}

	resp, err := newHandler(&mockRouter{route: nlu.RouteTransactional}, analyzer, orch, &mockTranscripts{}).ProcessTurn(
		context.Background(), &models.TurnRequest{SessionID: "s1", Text: "đặt vé"})
	require.NoError(t, err)
	require.Equal(t, models.StatusFailed, resp.Status)
	require.Equal(t, models.ErrorNLUFailed, *resp.ErrorCode)
	require.Zero(t, orch.processed)
}

func TestTranscriptFailureDoesNotBlockTurn(t *testing.T) {
	tr := &mockTranscripts{appendErr: errors.New("redis down")}
	orch := &mockOrchestrator{resp: &models.TurnResponse{Status: models.StatusCompleted}}

	resp, err := newHandler(&mockRouter{route: nlu.RouteTransactional}, &mockAnalyzer{}, orch, tr).ProcessTurn(
		context.Background(), &models.TurnRequest{SessionID: "s1", Text: "đặt vé"})
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, resp.Status)
}

func TestResetClearsOrchestratorAndTranscript(t *testing.T) {
	orch := &mockOrchestrator{resp: &models.TurnResponse{}}
	tr := &mockTranscripts{}
	h := newHandler(&mockRouter{}, &mockAnalyzer{}, orch, tr)

	require.NoError(t, h.Reset(context.Background(), "s1"))
	require.Equal(t, 1, orch.resets)
	require.Equal(t, 1, tr.cleared)
}

func TestStatusSnapshots(t *testing.T) {
	orch := &mockOrchestrator{resp: &models.TurnResponse{}}
	h := newHandler(&mockRouter{}, &mockAnalyzer{}, orch, &mockTranscripts{})

	st := h.Status("unknown")
	require.False(t, st.Known)

	orch.status = &dialogue.SessionStatus{
		CurrentIntent:  dialogue.IntentBook,
		CollectedSlots: map[string]string{"departure": "hà nội"},
		CompletedActions: map[dialogue.Intent]dialogue.Artifact{
			dialogue.IntentBook: {TicketCode: "VN000001", Quantity: 2},
		},
	}
	st = h.Status("s1")
	require.True(t, st.Known)
	require.Equal(t, "book", st.CurrentIntent)
	require.Equal(t, "VN000001", st.CompletedActions["book"].TicketCode)
}
