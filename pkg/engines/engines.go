// Package engines provides a uniform adapter layer over the supported LLM
// providers. Every provider is hidden behind the same Invoke contract; the
// caller never sees per-provider wire shapes.
package engines

import (
	"context"
)

// Engine identifies one provider/model combination.
type Engine string

const (
	EngineChatGPT    Engine = "chatgpt"
	EngineClaude     Engine = "claude"
	EngineGemini     Engine = "gemini"
	EnginePerplexity Engine = "perplexity"
	EngineGrok       Engine = "grok"
)

// AllEngines lists every supported engine in display order.
var AllEngines = []Engine{EngineChatGPT, EngineClaude, EngineGemini, EnginePerplexity, EngineGrok}

// PrimaryEngine is the default engine for single-engine scans. It is the
// cheapest and fastest of the supported set.
const PrimaryEngine = EngineChatGPT

// IsValid reports whether e names a supported engine.
func (e Engine) IsValid() bool {
	for _, known := range AllEngines {
		if e == known {
			return true
		}
	}
	return false
}

// Message roles. Adapters map these onto each provider's required shape.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged turn in a conversation.
type Message struct {
	Role    string
	Content string
}

// Adapter is the single call contract every provider backend implements.
// Invoke returns the best textual completion, trimmed of surrounding
// whitespace. It is synchronous and whole-response; adapters never retry and
// never fall back to another engine.
type Adapter interface {
	Invoke(ctx context.Context, messages []Message, maxTokens int, temperature float32) (string, error)

	// Engine returns the engine id this adapter serves.
	Engine() Engine
}

// splitSystem separates system turns from the conversational turns, for
// providers that take the system instruction as a separate field.
func splitSystem(messages []Message) (system string, rest []Message) {
	for _, m := range messages {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
