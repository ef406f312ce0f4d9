package dialogue

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vexabot/vexabot-dialog/internal/inventory"
	"github.com/vexabot/vexabot-dialog/internal/models"
	"github.com/vexabot/vexabot-dialog/internal/normalize"
)

// cancelKeywords force the active flow back to idle without executing.
// They only apply as the whole utterance, so "hủy vé" still starts a cancel
// flow while a bare "hủy" abandons the current one.
var cancelKeywords = map[string]bool{
	"hủy":        true,
	"cancel":     true,
	"dừng":       true,
	"stop":       true,
	"thoát flow": true,
	"reset":      true,
}

const (
	msgNeedIntent    = "Tôi chưa hiểu bạn muốn làm gì. Bạn có thể nói rõ hơn không?"
	msgFlowCancelled = "✅ Đã hủy giao dịch hiện tại. Bạn có thể bắt đầu lại hoặc hỏi tôi điều gì khác."
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the wall clock used for relative-date resolution.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator is the multi-turn dialogue state machine. One instance serves
// every session; per-session locking keeps turns for the same session
// serialized while different sessions proceed in parallel.
type Orchestrator struct {
	schema    *Schema
	executors map[Intent]Executor
	ledger    *Ledger
	sessions  *sessionStore
	logger    *zap.Logger
	now       func() time.Time
}

// New builds the orchestrator around an injected inventory store and
// carry-over ledger. The executor table is closed here: one executor per
// intent, looked up by the execute transition.
func New(store *inventory.Store, ledger *Ledger, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		schema:   DefaultSchema(),
		ledger:   ledger,
		sessions: newSessionStore(),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.executors = make(map[Intent]Executor)
	for _, ex := range []Executor{
		&bookExecutor{store: store, now: o.now},
		&cancelExecutor{store: store},
		&changeTimeExecutor{store: store},
		&invoiceExecutor{store: store},
		&complaintExecutor{store: store},
	} {
		o.executors[ex.Intent()] = ex
	}
	return o
}

// ProcessTurn runs one turn for a session: merge the NLU signal into the
// dialogue state, resolve free-text answers against the next missing slot,
// then either ask the next question or execute the flow's action.
func (o *Orchestrator) ProcessTurn(sessionID, rawText string, sig models.Signal) *models.TurnResponse {
	st := o.sessions.get(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	st.history = append(st.history, TurnRecord{Text: rawText, Intent: sig.Intent, Entities: sig.Entities})

	// Explicit abandonment of the active flow, without executing.
	if st.currentIntent != IntentNone && cancelKeywords[strings.ToLower(strings.TrimSpace(rawText))] {
		st.resetFlow()
		return &models.TurnResponse{
			SessionID: sessionID,
			Status:    models.StatusCompleted,
			Message:   msgFlowCancelled,
		}
	}

	// A recognized intent that differs from the active one resets the flow,
	// even if slots from the old flow would have applied.
	if intent, ok := ParseIntent(sig.Intent); ok && intent != st.currentIntent {
		if st.currentIntent != IntentNone {
			o.logger.Debug("switching flow",
				zap.String("session", sessionID),
				zap.String("from", string(st.currentIntent)),
				zap.String("to", string(intent)))
		}
		st.resetFlow()
		st.currentIntent = intent
	}

	// Merge extracted entities. A generic "time" entity answers the
	// new_time slot while a change_time flow is active.
	for _, e := range sig.Entities {
		name := e.Type
		if name == slotTime && st.currentIntent == IntentChangeTime {
			name = slotNewTime
		}
		st.slots[name] = e.Value
	}

	// No intent and no entities on this turn: the raw text answers the
	// single next missing slot. One answer per turn; two ambiguous values
	// in one utterance cannot both be resolved.
	if _, ok := ParseIntent(sig.Intent); !ok && st.currentIntent != IntentNone && len(sig.Entities) == 0 {
		o.resolveAnswer(st, rawText)
	}

	o.carryOver(sessionID, st)

	if st.currentIntent == IntentNone {
		// Drop any entities merged this turn: an idle session carries no
		// collected slots.
		st.resetFlow()
		return &models.TurnResponse{
			SessionID: sessionID,
			Status:    models.StatusNeedIntent,
			Message:   msgNeedIntent,
		}
	}

	missing := o.schema.Missing(st.currentIntent, st.slots)
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, spec := range missing {
			names[i] = spec.Name
		}
		return &models.TurnResponse{
			SessionID: sessionID,
			Status:    models.StatusNeedMoreInfo,
			Message:   missing[0].Question,
			Collected: copySlots(st.slots),
			Missing:   names,
		}
	}

	return o.execute(sessionID, st)
}

// execute invokes the intent's executor and exits the flow back to idle,
// except when the executor asks a clarification (need_more_info keeps the
// flow and its slots alive).
func (o *Orchestrator) execute(sessionID string, st *sessionState) *models.TurnResponse {
	intent := st.currentIntent
	res := o.executors[intent].Execute(copySlots(st.slots))

	if res.Status == models.StatusNeedMoreInfo {
		return &models.TurnResponse{
			SessionID:        sessionID,
			Status:           res.Status,
			Message:          res.Message,
			Collected:        copySlots(st.slots),
			AvailableOptions: res.Options,
			ExecutedAction:   string(intent),
		}
	}

	if res.Artifact != nil {
		st.completed[intent] = *res.Artifact
		o.ledger.Record(sessionID, *res.Artifact)
	}

	o.logger.Info("action executed",
		zap.String("session", sessionID),
		zap.String("intent", string(intent)),
		zap.String("status", res.Status))

	// Flow reset regardless of outcome; a failed action does not keep
	// partially filled slots around.
	st.resetFlow()

	return &models.TurnResponse{
		SessionID:      sessionID,
		Status:         res.Status,
		Message:        res.Message,
		ExecutedAction: string(intent),
	}
}

// resolveAnswer interprets free text as the value for the first missing
// slot, using the slot's declared kind.
func (o *Orchestrator) resolveAnswer(st *sessionState, rawText string) {
	missing := o.schema.Missing(st.currentIntent, st.slots)
	if len(missing) == 0 {
		return
	}
	spec := missing[0]
	answer := strings.TrimSpace(rawText)

	switch spec.Kind {
	case SlotLocation:
		if city, ok := normalize.MatchCity(answer); ok {
			st.slots[spec.Name] = city
		} else {
			st.slots[spec.Name] = strings.ToLower(answer)
		}
	case SlotTime:
		if t, ok := normalize.FindTime(answer); ok {
			st.slots[spec.Name] = t
		} else {
			// Stored verbatim; execution-time normalization tolerates it.
			st.slots[spec.Name] = answer
		}
	case SlotDate:
		if d, ok := normalize.FindDate(answer); ok {
			st.slots[spec.Name] = d
		} else if strings.Contains(strings.ToLower(answer), "mai") {
			st.slots[spec.Name] = "ngày mai"
		} else {
			st.slots[spec.Name] = answer
		}
	case SlotQuantity:
		st.slots[spec.Name] = normalize.CanonicalQuantity(normalize.Quantity(answer))
	case SlotTicketCode:
		if code, ok := normalize.FindTicketCode(answer); ok {
			st.slots[spec.Name] = code
		} else {
			st.slots[spec.Name] = strings.ToUpper(answer)
		}
	case SlotFreeText:
		st.slots[spec.Name] = answer
	}
}

// carryOver copies the ticket code from the session's most recent completed
// action into the active flow when it is still missing, so a fresh booking
// can be cancelled, rescheduled, invoiced or complained about without
// re-asking.
func (o *Orchestrator) carryOver(sessionID string, st *sessionState) {
	if st.currentIntent == IntentNone {
		return
	}
	for _, spec := range o.schema.Missing(st.currentIntent, st.slots) {
		if spec.Name != slotTicketCode {
			continue
		}
		if a, ok := st.completed[IntentBook]; ok && a.TicketCode != "" {
			st.slots[slotTicketCode] = a.TicketCode
		} else if a, ok := o.ledger.Recent(sessionID); ok && a.TicketCode != "" {
			st.slots[slotTicketCode] = a.TicketCode
		}
	}
}

// Reset force-clears a session's dialogue state. The inventory is untouched.
func (o *Orchestrator) Reset(sessionID string) {
	o.sessions.reset(sessionID)
	o.ledger.Forget(sessionID)
}

// Active reports whether the session has a flow in progress.
func (o *Orchestrator) Active(sessionID string) bool {
	st, ok := o.sessions.peek(sessionID)
	if !ok {
		return false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.currentIntent != IntentNone
}

// Status returns a snapshot of the session's state, or nil when the session
// is unknown.
func (o *Orchestrator) Status(sessionID string) *SessionStatus {
	st, ok := o.sessions.peek(sessionID)
	if !ok {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	completed := make(map[Intent]Artifact, len(st.completed))
	for k, v := range st.completed {
		completed[k] = v
	}
	return &SessionStatus{
		CurrentIntent:    st.currentIntent,
		CollectedSlots:   copySlots(st.slots),
		CompletedActions: completed,
	}
}

func copySlots(slots map[string]string) map[string]string {
	out := make(map[string]string, len(slots))
	for k, v := range slots {
		out[k] = v
	}
	return out
}
