package prompts

import (
	"fmt"
	"strings"
)

// ScoringSystemInstruction defines the extractor's role and the output
// contract: a bare JSON object, nothing else.
const ScoringSystemInstruction = `You are a precise data extraction system. You read an AI assistant's answer and report how visible specific brands are in it. You respond with a single JSON object and absolutely nothing else: no prose, no markdown, no code fences.`

// BuildScoringPrompt creates the extraction prompt for one generated answer.
// The rubric here is the single source of truth for what visibility means
// numerically: 2 recommended, 1 mentioned, 0 absent.
func BuildScoringPrompt(answer, brandName, brandDomain string, competitors []string) string {
	var prompt strings.Builder

	prompt.WriteString("Score the visibility of the following brands in the answer below.\n\n")
	prompt.WriteString("Scoring rubric:\n")
	prompt.WriteString("- 2 = clearly recommended, or the primary / strongly endorsed option\n")
	prompt.WriteString("- 1 = mentioned, but not the primary recommendation\n")
	prompt.WriteString("- 0 = not mentioned at all\n\n")

	prompt.WriteString(fmt.Sprintf("Brand to score: %q", brandName))
	if brandDomain != "" {
		prompt.WriteString(fmt.Sprintf(" (domain: %s)", brandDomain))
	}
	prompt.WriteString("\n")

	if len(competitors) > 0 {
		prompt.WriteString("Competitors to score:\n")
		for _, c := range competitors {
			prompt.WriteString(fmt.Sprintf("- %q\n", c))
		}
	} else {
		prompt.WriteString("Competitors to score: none\n")
	}

	prompt.WriteString("\nAnswer to analyze:\n---\n")
	prompt.WriteString(answer)
	prompt.WriteString("\n---\n\n")

	prompt.WriteString("Respond with only this JSON object, using the competitor names exactly as given:\n")
	prompt.WriteString(`{"brand_score": <int>, "competitor_scores": {`)
	for i, c := range competitors {
		if i > 0 {
			prompt.WriteString(", ")
		}
		prompt.WriteString(fmt.Sprintf("%q: <int>", c))
	}
	prompt.WriteString("}}")

	return prompt.String()
}
