package nlu

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vexabot/vexabot-dialog/internal/models"
)

const extractionPrompt = `Bạn là bộ phân tích ngôn ngữ cho hệ thống đặt vé xe khách. Phân tích câu của người dùng và trả về JSON.

QUY TẮC:
1. intent là một trong: "book", "cancel", "change_time", "invoice", "complaint", "unknown"
2. entity có thể là: "departure", "destination", "date", "time", "quantity", "ticket_code"
3. Giữ nguyên giá trị entity như trong câu (ví dụ "9h sáng", "ngày mai", "2 vé")
4. Dùng lịch sử hội thoại để hiểu câu trả lời ngắn (ví dụ "ngày mai" trả lời câu hỏi về ngày)
5. Chỉ trả về JSON, không giải thích gì thêm

LỊCH SỬ HỘI THOẠI:
%s

ĐỊNH DẠNG TRẢ VỀ:
{
  "intent": "book hoặc unknown ...",
  "entities": [
    {"entity": "departure", "value": "hà nội", "confidence": 0.9}
  ],
  "confidence": 0.9
}

Câu của người dùng: %s`

// BuildExtractionPrompt renders the intent/entity extraction prompt for one
// utterance, with the session's formatted history as context.
func BuildExtractionPrompt(history, text string) string {
	if history == "" {
		history = "Chưa có hội thoại trước đó."
	}
	return fmt.Sprintf(extractionPrompt, history, text)
}

// ParseSignal pulls the JSON object out of a model response and decodes it.
// Models wrap JSON in prose or fences often enough that we scan for the
// outermost braces instead of decoding the raw content.
func ParseSignal(content string) (models.Signal, error) {
	jsonContent := extractJSON(content)
	if jsonContent == "" {
		return models.Signal{}, fmt.Errorf("no valid JSON found in response")
	}

	var sig models.Signal
	if err := json.Unmarshal([]byte(jsonContent), &sig); err != nil {
		return models.Signal{}, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if sig.Intent == "" {
		sig.Intent = IntentUnknown
	}
	return sig, nil
}

func extractJSON(content string) string {
	start := strings.Index(content, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(content, "}")
	if end == -1 || end <= start {
		return ""
	}
	return content[start : end+1]
}
