package nlu

import (
	"context"
	"regexp"
	"strings"

	"github.com/vexabot/vexabot-dialog/internal/models"
)

const patternConfidence = 0.8

// intentPattern pairs a canonical intent name with its utterance pattern.
// Order matters: the first match wins.
type intentPattern struct {
	intent  string
	pattern *regexp.Regexp
}

var intentPatterns = []intentPattern{
	{"book", regexp.MustCompile(`(?i)đặt|mua|book.*vé`)},
	{"cancel", regexp.MustCompile(`(?i)hủy|cancel|trả|huỷ.*vé`)},
	{"change_time", regexp.MustCompile(`(?i)đổi|thay đổi|chuyển.*giờ`)},
	{"invoice", regexp.MustCompile(`(?i)xuất|hóa đơn|bill`)},
	{"complaint", regexp.MustCompile(`(?i)khiếu nại|phản ánh|than phiền`)},
}

var (
	timeEntity     = regexp.MustCompile(`(?i)\d{1,2}:\d{2}|\d{1,2}h(?:\s*sáng|\s*chiều|\s*tối)?`)
	dateEntity     = regexp.MustCompile(`(?i)ngày mai|hôm nay|mai|\d{1,2}/\d{1,2}`)
	quantityEntity = regexp.MustCompile(`(?i)\d+\s*vé`)
	ticketEntity   = regexp.MustCompile(`[A-Z]{2,3}\d{6,}`)

	// "từ X đến Y" and "đi X"; \w is ASCII-only in RE2, so spell out the
	// letter classes for the Vietnamese place names.
	fromToPattern = regexp.MustCompile(`từ\s+([\p{L}\p{N}\s]+?)\s+đến\s+([\p{L}\p{N}\s]+?)(?:\s+lúc|\s+vào|\s+ngày|$)`)
	goToPattern   = regexp.MustCompile(`đi\s+([\p{L}\p{N}\s]+?)(?:\s+lúc|\s+vào|\s+ngày|$)`)
)

// RegexAnalyzer is the pattern-based NLU engine. It never fails, so the
// service can run without any model configured.
type RegexAnalyzer struct{}

func NewRegexAnalyzer() *RegexAnalyzer {
	return &RegexAnalyzer{}
}

func (a *RegexAnalyzer) Analyze(_ context.Context, _ string, text string) (models.Signal, error) {
	lower := strings.ToLower(text)

	intent := IntentUnknown
	for _, ip := range intentPatterns {
		if ip.pattern.MatchString(lower) {
			intent = ip.intent
			break
		}
	}

	var entities []models.Entity
	appendMatches := func(entityType string, re *regexp.Regexp, haystack string) {
		for _, m := range re.FindAllString(haystack, -1) {
			entities = append(entities, models.Entity{
				Type:       entityType,
				Value:      strings.TrimSpace(m),
				Confidence: patternConfidence,
			})
		}
	}

	appendMatches("time", timeEntity, lower)
	appendMatches("date", dateEntity, lower)
	appendMatches("quantity", quantityEntity, lower)
	// Ticket codes are matched against the raw text; their letters are
	// uppercase by definition.
	appendMatches("ticket_code", ticketEntity, text)

	if m := fromToPattern.FindStringSubmatch(lower); m != nil {
		entities = append(entities,
			models.Entity{Type: "departure", Value: strings.TrimSpace(m[1]), Confidence: patternConfidence},
			models.Entity{Type: "destination", Value: strings.TrimSpace(m[2]), Confidence: patternConfidence},
		)
	} else if m := goToPattern.FindStringSubmatch(lower); m != nil {
		entities = append(entities,
			models.Entity{Type: "destination", Value: strings.TrimSpace(m[1]), Confidence: patternConfidence},
		)
	}

	confidence := 0.0
	if intent != IntentUnknown {
		confidence = patternConfidence
	}
	return models.Signal{Intent: intent, Entities: entities, Confidence: confidence}, nil
}
