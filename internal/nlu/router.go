package nlu

import (
	"context"
	"regexp"
)

// Informational turns are policy/FAQ questions served by the retrieval
// layer, not by the transaction orchestrator.
var informationalPattern = regexp.MustCompile(`(?i)chính sách|quy định|thủ tục|hoàn tiền|điều khoản|bao lâu|được không`)

// KeywordRouter is the transactional-vs-informational classifier. Anything
// not clearly a policy question is let through to the orchestrator, which
// answers with need_intent when it cannot establish a transaction.
type KeywordRouter struct{}

func NewKeywordRouter() *KeywordRouter {
	return &KeywordRouter{}
}

func (r *KeywordRouter) Classify(_ context.Context, text string) (string, error) {
	for _, ip := range intentPatterns {
		if ip.pattern.MatchString(text) {
			return RouteTransactional, nil
		}
	}
	if informationalPattern.MatchString(text) {
		return RouteInformational, nil
	}
	return RouteTransactional, nil
}

var _ Router = (*KeywordRouter)(nil)
