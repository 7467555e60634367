package prompts

import (
	"fmt"
	"strings"
)

// SuggestionSystemInstruction defines the drafting role for gap suggestions.
const SuggestionSystemInstruction = `You are a content strategist helping a brand earn mentions in AI assistant answers. You respond with a single JSON object and nothing else: no prose, no markdown, no code fences.`

// BuildSuggestionPrompt creates the prompt for drafting a gap suggestion: a
// model answer that would have mentioned the brand, plus the content format
// most likely to earn that mention.
func BuildSuggestionPrompt(promptText, brandName, brandDomain string) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("The brand %q", brandName))
	if brandDomain != "" {
		prompt.WriteString(fmt.Sprintf(" (%s)", brandDomain))
	}
	prompt.WriteString(" is not mentioned when AI assistants answer this question:\n\n")
	prompt.WriteString(fmt.Sprintf("%q\n\n", promptText))

	prompt.WriteString("Draft a response under 100 words that answers the question well AND naturally mentions or recommends the brand. ")
	prompt.WriteString("Then name the content format most likely to earn the brand that mention, for example \"Comparison Guide\" or \"FAQ Page\".\n\n")

	prompt.WriteString("Respond with only this JSON object:\n")
	prompt.WriteString(`{"suggested_answer": "<string>", "suggested_page_type": "<string>"}`)

	return prompt.String()
}
