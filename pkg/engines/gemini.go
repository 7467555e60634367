package engines

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// geminiTemperature is the fixed sampling temperature for gemini calls.
// The Gemini backend ignores the caller-supplied temperature: the extractor
// relies on near-deterministic output and the generative path tolerates it.
const geminiTemperature = 0.4

// geminiAdapter serves gemini via the google generative AI SDK.
type geminiAdapter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func newGeminiAdapter(ctx context.Context, apiKey, model string, timeout time.Duration, logger *zap.Logger) (*geminiAdapter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &geminiAdapter{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger.Named(string(EngineGemini)),
	}, nil
}

// Invoke implements Adapter. The temperature argument is ignored; see
// geminiTemperature.
func (a *geminiAdapter) Invoke(ctx context.Context, messages []Message, maxTokens int, _ float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	system, rest := splitSystem(messages)

	model := a.client.GenerativeModel(a.model)
	model.SetTemperature(geminiTemperature)
	model.SetMaxOutputTokens(int32(maxTokens))
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	parts := make([]genai.Part, 0, len(rest))
	for _, m := range rest {
		parts = append(parts, genai.Text(m.Content))
	}

	start := time.Now()

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		a.logger.Error("engine request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", classifyProviderError(EngineGemini, err)
	}

	text, err := geminiResponseText(resp)
	if err != nil {
		return "", &ProviderError{Engine: EngineGemini, Message: "empty response", Retryable: true, Cause: err}
	}

	a.logger.Debug("engine request completed",
		zap.Duration("elapsed", time.Since(start)))

	return strings.TrimSpace(text), nil
}

// Engine implements Adapter.
func (a *geminiAdapter) Engine() Engine {
	return EngineGemini
}

// geminiResponseText extracts the text parts from a gemini response.
func geminiResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// Ensure geminiAdapter implements Adapter at compile time.
var _ Adapter = (*geminiAdapter)(nil)
