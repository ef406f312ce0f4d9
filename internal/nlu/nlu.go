// Package nlu provides the language-understanding collaborators the
// orchestrator consumes: utterance analysis (intent + entities) and the
// transactional-vs-informational routing decision. Two Analyzer
// implementations exist, a regex engine that needs no external service and
// an LLM-backed one.
package nlu

import (
	"context"

	"github.com/vexabot/vexabot-dialog/internal/models"
)

// Intent names emitted by analyzers. The orchestrator treats anything else
// as unknown.
const (
	IntentUnknown = "unknown"
)

// Analyzer extracts the intent and entities of one utterance. The session
// id lets history-aware implementations pull conversation context; the
// regex engine ignores it.
type Analyzer interface {
	Analyze(ctx context.Context, sessionID, text string) (models.Signal, error)
}

// Route values returned by Router.
const (
	RouteTransactional = "transactional"
	RouteInformational = "informational"
)

// Router classifies an utterance before it is allowed to reach the
// orchestrator; only transactional turns get there.
type Router interface {
	Classify(ctx context.Context, text string) (string, error)
}
