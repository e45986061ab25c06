package llm

import (
	"fmt"
	"strings"

	"github.com/sevigo/review-mate/internal/core"
)

const promptTemplate = `You are an expert code reviewer specializing in %s. Analyze the following code and provide constructive feedback.

Code to review:
` + "```%s\n%s\n```" + `

Your task:
1. Identify issues or areas for improvement (bugs, performance, readability, security, best practices)
2. Provide an improved version of the code
3. Explain what you changed and why
4. Categorize the main improvement type

Respond ONLY with valid JSON in this exact format (no markdown, no code blocks):
{
  "improvedCode": "the complete improved code here",
  "explanation": "clear explanation of what was improved and why (2-3 sentences)",
  "category": "one of: %s"
}

Important:
- Keep the improved code functional and complete
- Make meaningful improvements, not just formatting changes
- Choose the most relevant category
- Be concise but clear in your explanation`

// buildReviewPrompt produces the instruction prompt for one review request.
// It is deterministic: the same code and language always yield the same
// prompt, with the source embedded verbatim.
func buildReviewPrompt(req core.ReviewRequest) string {
	names := make([]string, 0, len(core.Categories()))
	for _, c := range core.Categories() {
		names = append(names, string(c))
	}
	return fmt.Sprintf(promptTemplate, req.Language, req.Language, req.Code, strings.Join(names, ", "))
}
