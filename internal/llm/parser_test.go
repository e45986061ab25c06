package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-mate/internal/core"
)

func TestParseSuggestion(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantCode     string
		wantCategory core.Category
		expectErr    bool
	}{
		{
			name:         "clean JSON",
			input:        `{"improvedCode": "x := 1", "explanation": "Use short declaration.", "category": "Code Quality"}`,
			wantCode:     "x := 1",
			wantCategory: core.CategoryCodeQuality,
		},
		{
			name: "json fence",
			input: "```json\n" +
				`{"improvedCode": "let x = 1;", "explanation": "Use let.", "category": "Best Practices"}` +
				"\n```",
			wantCode:     "let x = 1;",
			wantCategory: core.CategoryBestPractices,
		},
		{
			name: "bare fence",
			input: "```\n" +
				`{"improvedCode": "y = 2", "explanation": "Renamed.", "category": "Readability"}` +
				"\n```",
			wantCode:     "y = 2",
			wantCategory: core.CategoryReadability,
		},
		{
			name: "preamble and postamble",
			input: "Here is my review:\n" +
				`{"improvedCode": "def f(): pass", "explanation": "Stubbed.", "category": "Bug Fix"}` +
				"\nLet me know if you need more.",
			wantCode:     "def f(): pass",
			wantCategory: core.CategoryBugFix,
		},
		{
			name:         "unknown category normalized",
			input:        `{"improvedCode": "a", "explanation": "b", "category": "Widget"}`,
			wantCode:     "a",
			wantCategory: core.CategoryCodeQuality,
		},
		{
			name:         "braces inside string literals",
			input:        `{"improvedCode": "if (a) { b(); } // }", "explanation": "Added braces.", "category": "Best Practices"}`,
			wantCode:     "if (a) { b(); } // }",
			wantCategory: core.CategoryBestPractices,
		},
		{
			name:      "no JSON at all",
			input:     "I cannot review this code.",
			expectErr: true,
		},
		{
			name:      "missing improvedCode",
			input:     `{"explanation": "b", "category": "Security"}`,
			expectErr: true,
		},
		{
			name:      "whitespace-only explanation",
			input:     `{"improvedCode": "a", "explanation": "   ", "category": "Security"}`,
			expectErr: true,
		},
		{
			name:      "empty category",
			input:     `{"improvedCode": "a", "explanation": "b", "category": ""}`,
			expectErr: true,
		},
		{
			name:      "unbalanced braces",
			input:     `some text { "improvedCode": "a"`,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSuggestion(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				assert.True(t, core.IsKind(err, core.KindMalformedResponse), "expected malformed-response error, got %v", err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, got.ImprovedCode)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.NotEmpty(t, got.Explanation)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence without closing", "```json\n{\"a\": 1}", `{"a": 1}`},
		{"fence with surrounding whitespace", "  ```\n{\"a\": 1}\n```  ", `{"a": 1}`},
		{"fence marker only", "```", "```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	span, ok := extractJSONObject(`noise {"a": {"b": "}"}} trailing`)
	assert.True(t, ok)
	assert.Equal(t, `{"a": {"b": "}"}}`, span)

	_, ok = extractJSONObject("no braces here")
	assert.False(t, ok)

	_, ok = extractJSONObject(`{"never": "closed"`)
	assert.False(t, ok)

	span, ok = extractJSONObject(`{"escaped": "quote \" and brace }"}`)
	assert.True(t, ok)
	assert.Equal(t, `{"escaped": "quote \" and brace }"}`, span)
}
