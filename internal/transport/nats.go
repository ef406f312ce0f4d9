// Package transport exposes the dialogue service over NATS request/reply.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/vexabot/vexabot-dialog/internal/config"
	"github.com/vexabot/vexabot-dialog/internal/handlers"
	"github.com/vexabot/vexabot-dialog/internal/models"
)

type NATSTransport struct {
	conn    *nats.Conn
	config  *config.Config
	handler *handlers.TurnHandler
	logger  *zap.Logger
	subs    []*nats.Subscription
}

func NewNATSTransport(cfg *config.Config, handler *handlers.TurnHandler, logger *zap.Logger) (*NATSTransport, error) {
	conn, err := nats.Connect(cfg.NatsURL,
		nats.Name(cfg.ServiceName),
		nats.Timeout(cfg.NatsTimeout),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("connected to NATS", zap.String("url", cfg.NatsURL))

	return &NATSTransport{
		conn:    conn,
		config:  cfg,
		handler: handler,
		logger:  logger,
	}, nil
}

// Start subscribes to the turn, reset and status subjects.
func (nt *NATSTransport) Start() error {
	subjects := []struct {
		subject string
		cb      nats.MsgHandler
	}{
		{nt.config.NatsTurnSubject, nt.handleTurn},
		{nt.config.NatsResetSubject, nt.handleReset},
		{nt.config.NatsStatusSubject, nt.handleStatus},
	}

	for _, s := range subjects {
		sub, err := nt.conn.Subscribe(s.subject, s.cb)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", s.subject, err)
		}
		nt.subs = append(nt.subs, sub)
		nt.logger.Info("subscribed", zap.String("subject", s.subject))
	}
	return nil
}

func (nt *NATSTransport) handleTurn(msg *nats.Msg) {
	var request models.TurnRequest
	if err := json.Unmarshal(msg.Data, &request); err != nil {
		nt.logger.Error("failed to parse turn request", zap.Error(err))
		nt.sendTurnError(msg, &request, models.ErrorParseError, "Invalid request format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), nt.config.TurnTimeout)
	defer cancel()

	response, err := nt.handler.ProcessTurn(ctx, &request)
	if err != nil {
		nt.logger.Error("failed to process turn", zap.String("session", request.SessionID), zap.Error(err))
		nt.sendTurnError(msg, &request, models.ErrorNLUFailed, err.Error())
		return
	}

	nt.respond(msg, response)
}

func (nt *NATSTransport) handleReset(msg *nats.Msg) {
	var request models.ResetRequest
	if err := json.Unmarshal(msg.Data, &request); err != nil {
		nt.logger.Error("failed to parse reset request", zap.Error(err))
		nt.respond(msg, map[string]string{"status": "error", "error": "Invalid request format"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), nt.config.TurnTimeout)
	defer cancel()

	if err := nt.handler.Reset(ctx, request.SessionID); err != nil {
		nt.logger.Error("failed to reset session", zap.String("session", request.SessionID), zap.Error(err))
		nt.respond(msg, map[string]string{"status": "error", "error": err.Error()})
		return
	}

	nt.respond(msg, map[string]string{"status": "ok", "session_id": request.SessionID})
}

func (nt *NATSTransport) handleStatus(msg *nats.Msg) {
	var request models.StatusRequest
	if err := json.Unmarshal(msg.Data, &request); err != nil {
		nt.logger.Error("failed to parse status request", zap.Error(err))
		nt.respond(msg, map[string]string{"status": "error", "error": "Invalid request format"})
		return
	}

	nt.respond(msg, nt.handler.Status(request.SessionID))
}

func (nt *NATSTransport) respond(msg *nats.Msg, response any) {
	data, err := json.Marshal(response)
	if err != nil {
		nt.logger.Error("failed to marshal response", zap.Error(err))
		return
	}
	if err := msg.Respond(data); err != nil {
		nt.logger.Error("failed to send response", zap.Error(err))
	}
}

func (nt *NATSTransport) sendTurnError(msg *nats.Msg, request *models.TurnRequest, errorCode, errorMessage string) {
	response := &models.TurnResponse{
		SessionID:    request.SessionID,
		Status:       models.StatusFailed,
		Message:      "Xin lỗi, tôi chưa xử lý được yêu cầu của bạn. Vui lòng thử lại.",
		ErrorCode:    &errorCode,
		ErrorMessage: &errorMessage,
	}
	nt.respond(msg, response)
}

func (nt *NATSTransport) Close() error {
	for _, sub := range nt.subs {
		_ = sub.Unsubscribe()
	}
	if nt.conn != nil {
		nt.conn.Close()
		nt.logger.Info("NATS connection closed")
	}
	return nil
}
