package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/brandlens-ai/brandlens-engine/pkg/engines"
	"github.com/brandlens-ai/brandlens-engine/pkg/prompts"
)

// Answer generation call settings. The system instruction bounds answers to
// roughly 120 words; the token limit leaves headroom for that.
const (
	answerMaxTokens   = 400
	answerTemperature = 0.7
)

// AnswerGenerator produces the text an end user would plausibly see from one
// engine for one prompt.
type AnswerGenerator interface {
	// Generate returns the engine's trimmed answer. An empty answer is valid
	// output; any adapter failure propagates to the caller, which decides
	// whether to skip the pair.
	Generate(ctx context.Context, promptText string, engine engines.Engine) (string, error)
}

type answerGenerator struct {
	registry engines.Registry
	logger   *zap.Logger
}

// NewAnswerGenerator creates an answer generator over the given registry.
func NewAnswerGenerator(registry engines.Registry, logger *zap.Logger) AnswerGenerator {
	return &answerGenerator{
		registry: registry,
		logger:   logger.Named("generator"),
	}
}

// Generate implements AnswerGenerator.
func (g *answerGenerator) Generate(ctx context.Context, promptText string, engine engines.Engine) (string, error) {
	adapter, err := g.registry.Get(engine)
	if err != nil {
		return "", fmt.Errorf("answer generation failed for engine %s: %w", engine, err)
	}

	messages := []engines.Message{
		{Role: engines.RoleSystem, Content: prompts.AnswerSystemInstruction},
		{Role: engines.RoleUser, Content: promptText},
	}

	answer, err := adapter.Invoke(ctx, messages, answerMaxTokens, answerTemperature)
	if err != nil {
		return "", fmt.Errorf("answer generation failed for engine %s: %w", engine, err)
	}

	return answer, nil
}

// Ensure answerGenerator implements AnswerGenerator at compile time.
var _ AnswerGenerator = (*answerGenerator)(nil)
