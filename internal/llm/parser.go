package llm

import (
	"encoding/json"
	"strings"

	"github.com/sevigo/review-mate/internal/core"
)

// rawSuggestion mirrors the JSON object the model is instructed to return.
type rawSuggestion struct {
	ImprovedCode string `json:"improvedCode"`
	Explanation  string `json:"explanation"`
	Category     string `json:"category"`
}

// parseSuggestion extracts a structured suggestion from the model's free-text
// output. It tolerates several common LLM quirks:
//   - response wrapped in a ```json (or bare ```) code fence
//   - preamble or postamble text around the JSON object
//
// If no parsing strategy yields a complete suggestion, it returns a
// malformed-response error. An unrecognized category is normalized, not
// rejected, because the rest of the suggestion is still usable.
func parseSuggestion(output string) (*core.ReviewSuggestion, error) {
	var raw rawSuggestion

	cleaned := stripCodeFence(output)
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		// Fall back to the first balanced {...} span in the original text.
		span, ok := extractJSONObject(output)
		if !ok {
			return nil, core.NewMalformedResponseError("failed to parse AI response: no valid JSON found")
		}
		if err := json.Unmarshal([]byte(span), &raw); err != nil {
			return nil, core.NewMalformedResponseError("failed to parse AI response: extracted span is not valid JSON")
		}
	}

	if strings.TrimSpace(raw.ImprovedCode) == "" ||
		strings.TrimSpace(raw.Explanation) == "" ||
		strings.TrimSpace(raw.Category) == "" {
		return nil, core.NewMalformedResponseError("invalid response structure from AI: missing required fields")
	}

	return &core.ReviewSuggestion{
		ImprovedCode: raw.ImprovedCode,
		Explanation:  raw.Explanation,
		Category:     core.NormalizeCategory(raw.Category),
	}, nil
}

// stripCodeFence removes a single wrapping code fence (```json, ```, ...)
// that some models add despite instructions. Inner fences are left alone.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	idx := strings.Index(trimmed, "\n")
	if idx < 0 {
		return trimmed
	}
	inner := trimmed[idx+1:]

	if lastFence := strings.LastIndex(inner, "```"); lastFence >= 0 {
		inner = inner[:lastFence]
	}
	return strings.TrimSpace(inner)
}

// extractJSONObject returns the first top-level {...} span in s, honoring
// string literals and escape sequences so braces inside the improved code do
// not unbalance the match.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
