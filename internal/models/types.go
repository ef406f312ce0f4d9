package models

// NATS request from the chat backend
type TurnRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`
	Text      string `json:"text"`
}

// Entity is a single extracted slot value from the NLU layer.
type Entity struct {
	Type       string  `json:"entity"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Signal is the NLU analysis of one utterance.
type Signal struct {
	Intent     string   `json:"intent"` // "unknown" when nothing matched
	Entities   []Entity `json:"entities"`
	Confidence float64  `json:"confidence"`
}

// NATS response to the chat backend
type TurnResponse struct {
	SessionID        string            `json:"session_id"`
	Status           string            `json:"status"`
	Message          string            `json:"message"`
	Collected        map[string]string `json:"collected,omitempty"`
	Missing          []string          `json:"missing,omitempty"`
	AvailableOptions []string          `json:"available_options,omitempty"`
	ExecutedAction   string            `json:"executed_action,omitempty"`
	ErrorCode        *string           `json:"error_code,omitempty"`
	ErrorMessage     *string           `json:"error_message,omitempty"`
}

// NATS request to force-clear a session's dialogue state
type ResetRequest struct {
	SessionID string `json:"session_id"`
}

// NATS request for a session state snapshot
type StatusRequest struct {
	SessionID string `json:"session_id"`
}

// ActionArtifact is a completed action's result as carried on the wire.
type ActionArtifact struct {
	TicketCode  string `json:"ticket_code"`
	Departure   string `json:"departure"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Quantity    int    `json:"quantity"`
}

// NATS response for status requests
type StatusResponse struct {
	SessionID        string                    `json:"session_id"`
	Known            bool                      `json:"known"`
	CurrentIntent    string                    `json:"current_intent,omitempty"`
	CollectedSlots   map[string]string         `json:"collected_slots,omitempty"`
	CompletedActions map[string]ActionArtifact `json:"completed_actions,omitempty"`
}

// Status constants
const (
	StatusNeedIntent   = "need_intent"
	StatusNeedMoreInfo = "need_more_info"
	StatusCompleted    = "completed"
	StatusFailed       = "failed"
)

// Error codes
const (
	ErrorParseError  = "PARSE_ERROR"
	ErrorNLUFailed   = "NLU_FAILED"
	ErrorStoreFailed = "STORE_FAILED"
)
