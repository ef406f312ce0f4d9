// Package handlers glues one delivered turn to the dialogue core: route it,
// analyze it, hand it to the orchestrator, and persist the transcript.
package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vexabot/vexabot-dialog/internal/dialogue"
	"github.com/vexabot/vexabot-dialog/internal/models"
	"github.com/vexabot/vexabot-dialog/internal/nlu"
)

const msgInformationalRedirect = "Câu hỏi về chính sách và quy định sẽ do bộ phận hỗ trợ giải đáp. " +
	"Tôi có thể giúp bạn đặt vé, hủy vé, đổi giờ, xuất hóa đơn hoặc khiếu nại."

// Orchestrator is the dialogue core as the handler sees it.
type Orchestrator interface {
	ProcessTurn(sessionID, rawText string, sig models.Signal) *models.TurnResponse
	Active(sessionID string) bool
	Reset(sessionID string)
	Status(sessionID string) *dialogue.SessionStatus
}

// Transcripts is the slice of the memory manager the handler needs.
type Transcripts interface {
	AppendUser(ctx context.Context, sessionID, userID, text string) error
	AppendAssistant(ctx context.Context, sessionID, userID, text string) error
	ClearSession(ctx context.Context, sessionID string) error
}

type TurnHandler struct {
	router      nlu.Router
	analyzer    nlu.Analyzer
	orch        Orchestrator
	transcripts Transcripts
	logger      *zap.Logger
}

func NewTurnHandler(router nlu.Router, analyzer nlu.Analyzer, orch Orchestrator, transcripts Transcripts, logger *zap.Logger) *TurnHandler {
	return &TurnHandler{
		router:      router,
		analyzer:    analyzer,
		orch:        orch,
		transcripts: transcripts,
		logger:      logger,
	}
}

// ProcessTurn runs the full per-turn pipeline. Transcript failures are
// logged but never block the conversation; NLU failures surface as an error
// response so the caller can retry the turn.
func (h *TurnHandler) ProcessTurn(ctx context.Context, req *models.TurnRequest) (*models.TurnResponse, error) {
	if err := h.validate(req); err != nil {
		return h.errorResponse(req, models.ErrorParseError, err.Error()), nil
	}

	if err := h.transcripts.AppendUser(ctx, req.SessionID, req.UserID, req.Text); err != nil {
		h.logger.Warn("failed to append user transcript", zap.String("session", req.SessionID), zap.Error(err))
	}

	// Mid-flow answers skip routing: an active session's turns belong to
	// the orchestrator until the flow ends.
	if !h.orch.Active(req.SessionID) {
		route, err := h.router.Classify(ctx, req.Text)
		if err != nil {
			h.logger.Warn("routing failed, assuming transactional", zap.Error(err))
			route = nlu.RouteTransactional
		}
		if route == nlu.RouteInformational {
			resp := &models.TurnResponse{
				SessionID: req.SessionID,
				Status:    models.StatusNeedIntent,
				Message:   msgInformationalRedirect,
			}
			h.appendAssistant(ctx, req, resp.Message)
			return resp, nil
		}
	}

	sig, err := h.analyzer.Analyze(ctx, req.SessionID, req.Text)
	if err != nil {
		return h.errorResponse(req, models.ErrorNLUFailed, err.Error()), nil
	}

	resp := h.orch.ProcessTurn(req.SessionID, req.Text, sig)
	h.appendAssistant(ctx, req, resp.Message)

	h.logger.Info("turn processed",
		zap.String("session", req.SessionID),
		zap.String("intent", sig.Intent),
		zap.String("status", resp.Status))

	return resp, nil
}

// Reset force-clears the session's dialogue state and transcript. The
// inventory is untouched.
func (h *TurnHandler) Reset(ctx context.Context, sessionID string) error {
	h.orch.Reset(sessionID)
	if err := h.transcripts.ClearSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear transcript: %w", err)
	}
	return nil
}

// Status snapshots the session's dialogue state for the wire.
func (h *TurnHandler) Status(sessionID string) *models.StatusResponse {
	st := h.orch.Status(sessionID)
	if st == nil {
		return &models.StatusResponse{SessionID: sessionID, Known: false}
	}

	completed := make(map[string]models.ActionArtifact, len(st.CompletedActions))
	for intent, a := range st.CompletedActions {
		completed[string(intent)] = models.ActionArtifact{
			TicketCode:  a.TicketCode,
			Departure:   a.Departure,
			Destination: a.Destination,
			Date:        a.Date,
			Time:        a.Time,
			Quantity:    a.Quantity,
		}
	}
	return &models.StatusResponse{
		SessionID:        sessionID,
		Known:            true,
		CurrentIntent:    string(st.CurrentIntent),
		CollectedSlots:   st.CollectedSlots,
		CompletedActions: completed,
	}
}

func (h *TurnHandler) validate(req *models.TurnRequest) error {
	if req.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	if req.Text == "" {
		return fmt.Errorf("text is required")
	}
	return nil
}

func (h *TurnHandler) appendAssistant(ctx context.Context, req *models.TurnRequest, message string) {
	if err := h.transcripts.AppendAssistant(ctx, req.SessionID, req.UserID, message); err != nil {
		h.logger.Warn("failed to append assistant transcript", zap.String("session", req.SessionID), zap.Error(err))
	}
}

func (h *TurnHandler) errorResponse(req *models.TurnRequest, errorCode, errorMessage string) *models.TurnResponse {
	return &models.TurnResponse{
		SessionID:    req.SessionID,
		Status:       models.StatusFailed,
		Message:      "Xin lỗi, tôi chưa xử lý được yêu cầu của bạn. Vui lòng thử lại.",
		ErrorCode:    &errorCode,
		ErrorMessage: &errorMessage,
	}
}
