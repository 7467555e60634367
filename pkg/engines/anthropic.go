package engines

import (
	"context"
	"strings"
	"time"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

// anthropicAdapter serves claude. Anthropic's Messages API takes the system
// instruction as a top-level field rather than a message turn, so the logical
// role sequence is re-shaped here.
type anthropicAdapter struct {
	client  *anthropic.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func newAnthropicAdapter(apiKey, model string, timeout time.Duration, logger *zap.Logger) *anthropicAdapter {
	return &anthropicAdapter{
		client:  anthropic.NewClient(apiKey),
		model:   model,
		timeout: timeout,
		logger:  logger.Named(string(EngineClaude)),
	}
}

// Invoke implements Adapter.
func (a *anthropicAdapter) Invoke(ctx context.Context, messages []Message, maxTokens int, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	system, rest := splitSystem(messages)

	wireMessages := make([]anthropic.Message, 0, len(rest))
	for _, m := range rest {
		role := anthropic.RoleUser
		if m.Role == RoleAssistant {
			role = anthropic.RoleAssistant
		}
		content := m.Content
		wireMessages = append(wireMessages, anthropic.Message{
			Role: role,
			Content: []anthropic.MessageContent{
				{Type: anthropic.MessagesContentTypeText, Text: &content},
			},
		})
	}

	start := time.Now()

	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(a.model),
		System:      system,
		MaxTokens:   maxTokens,
		Temperature: &temperature,
		Messages:    wireMessages,
	})
	if err != nil {
		a.logger.Error("engine request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", classifyProviderError(EngineClaude, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text.WriteString(*block.Text)
		}
	}

	a.logger.Debug("engine request completed",
		zap.Duration("elapsed", time.Since(start)))

	return strings.TrimSpace(text.String()), nil
}

// Engine implements Adapter.
func (a *anthropicAdapter) Engine() Engine {
	return EngineClaude
}

// Ensure anthropicAdapter implements Adapter at compile time.
var _ Adapter = (*anthropicAdapter)(nil)
