package nlu

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/vexabot/vexabot-dialog/internal/models"
)

// History provides formatted conversation context for the extraction
// prompt. The memory manager implements it.
type History interface {
	FormattedHistory(ctx context.Context, sessionID string) (string, error)
}

// LLMAnalyzer extracts intent and entities through a language model. It
// speaks the same contract as the regex engine so the two are swappable at
// wiring time.
type LLMAnalyzer struct {
	model    llms.Model
	history  History
	fallback Analyzer
	logger   *zap.Logger
}

// NewLLMAnalyzer wraps a langchaingo model. When the model call or its JSON
// output fails, analysis falls back to the regex engine rather than dropping
// the turn. history may be nil.
func NewLLMAnalyzer(model llms.Model, history History, logger *zap.Logger) *LLMAnalyzer {
	return &LLMAnalyzer{
		model:    model,
		history:  history,
		fallback: NewRegexAnalyzer(),
		logger:   logger,
	}
}

func (a *LLMAnalyzer) Analyze(ctx context.Context, sessionID, text string) (models.Signal, error) {
	var history string
	if a.history != nil {
		h, err := a.history.FormattedHistory(ctx, sessionID)
		if err != nil {
			a.logger.Warn("failed to load history, analyzing without context",
				zap.String("session", sessionID), zap.Error(err))
		} else {
			history = h
		}
	}

	content, err := llms.GenerateFromSinglePrompt(ctx, a.model, BuildExtractionPrompt(history, text),
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(512),
	)
	if err != nil {
		a.logger.Warn("llm analysis failed, using regex fallback", zap.Error(err))
		return a.fallback.Analyze(ctx, sessionID, text)
	}

	sig, err := ParseSignal(content)
	if err != nil {
		a.logger.Warn("unparseable llm response, using regex fallback", zap.Error(err))
		return a.fallback.Analyze(ctx, sessionID, text)
	}
	return sig, nil
}

var _ Analyzer = (*LLMAnalyzer)(nil)

// NewOpenAIModel builds the langchaingo client used in production wiring,
// kept here so cmd/server does not import langchaingo directly.
func NewOpenAIModel(apiKey, model string) (llms.Model, error) {
	client, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("failed to build openai client: %w", err)
	}
	return client, nil
}
