package engines

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Base URLs for the OpenAI-compatible providers.
const (
	perplexityBaseURL = "https://api.perplexity.ai"
	grokBaseURL       = "https://api.x.ai/v1"
)

// openAIAdapter serves chatgpt, perplexity and grok. The latter two expose
// OpenAI-compatible chat completion APIs and differ only in base URL and
// model name.
type openAIAdapter struct {
	client  *openai.Client
	engine  Engine
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func newOpenAIAdapter(engine Engine, apiKey, model, baseURL string, timeout time.Duration, logger *zap.Logger) *openAIAdapter {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(baseURL, "/")
	}

	return &openAIAdapter{
		client:  openai.NewClientWithConfig(clientConfig),
		engine:  engine,
		model:   model,
		timeout: timeout,
		logger:  logger.Named(string(engine)),
	}
}

// Invoke implements Adapter.
func (a *openAIAdapter) Invoke(ctx context.Context, messages []Message, maxTokens int, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	wireMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		wireMessages = append(wireMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	start := time.Now()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    wireMessages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		a.logger.Error("engine request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", classifyProviderError(a.engine, err)
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Engine: a.engine, Message: "no choices in response", Retryable: true, Cause: fmt.Errorf("empty choice list")}
	}

	a.logger.Debug("engine request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Engine implements Adapter.
func (a *openAIAdapter) Engine() Engine {
	return a.engine
}

// Ensure openAIAdapter implements Adapter at compile time.
var _ Adapter = (*openAIAdapter)(nil)
