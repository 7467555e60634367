package services

import (
	"context"
	"encoding/json"
	"math"

	"go.uber.org/zap"

	"github.com/brandlens-ai/brandlens-engine/pkg/engines"
	"github.com/brandlens-ai/brandlens-engine/pkg/jsonutil"
	"github.com/brandlens-ai/brandlens-engine/pkg/prompts"
)

// Scoring call settings. Temperature 0: the extractor must be as
// deterministic as the provider allows.
const (
	scoringMaxTokens   = 300
	scoringTemperature = 0
)

// VisibilityScorer extracts 0-2 visibility scores for the brand and each
// competitor from a generated answer, using an LLM as a semantic extractor.
type VisibilityScorer interface {
	// Score never fails: on any extractor or parse failure it degrades to
	// brand score 0 and every competitor score 0, so a single malformed
	// extraction cannot make a whole scan unusable. The returned competitor
	// map's key set always equals the supplied competitor list.
	Score(ctx context.Context, answer, brandName, brandDomain string, competitors []string) (int, map[string]int)
}

type visibilityScorer struct {
	registry engines.Registry
	engine   engines.Engine
	logger   *zap.Logger
}

// NewVisibilityScorer creates a scorer that extracts via the given engine.
func NewVisibilityScorer(registry engines.Registry, engine engines.Engine, logger *zap.Logger) VisibilityScorer {
	return &visibilityScorer{
		registry: registry,
		engine:   engine,
		logger:   logger.Named("scorer"),
	}
}

// scoreExtraction is the shape the extractor is instructed to emit. Values
// are raw: extractors return floats, quoted ints, and worse.
type scoreExtraction struct {
	BrandScore       json.RawMessage            `json:"brand_score"`
	CompetitorScores map[string]json.RawMessage `json:"competitor_scores"`
}

// Score implements VisibilityScorer.
func (s *visibilityScorer) Score(ctx context.Context, answer, brandName, brandDomain string, competitors []string) (int, map[string]int) {
	adapter, err := s.registry.Get(s.engine)
	if err != nil {
		s.logger.Error("scoring engine not configured; defaulting to zero scores",
			zap.String("engine", string(s.engine)),
			zap.Error(err))
		return 0, zeroScores(competitors)
	}

	messages := []engines.Message{
		{Role: engines.RoleSystem, Content: prompts.ScoringSystemInstruction},
		{Role: engines.RoleUser, Content: prompts.BuildScoringPrompt(answer, brandName, brandDomain, competitors)},
	}

	raw, err := adapter.Invoke(ctx, messages, scoringMaxTokens, scoringTemperature)
	if err != nil {
		s.logger.Warn("score extraction call failed; defaulting to zero scores",
			zap.String("engine", string(s.engine)),
			zap.Error(err))
		return 0, zeroScores(competitors)
	}

	extraction, err := engines.ParseJSONResponse[scoreExtraction](raw)
	if err != nil {
		s.logger.Warn("score extraction returned unparsable output; defaulting to zero scores",
			zap.String("engine", string(s.engine)),
			zap.Error(err))
		return 0, zeroScores(competitors)
	}

	brandScore := clampScore(jsonutil.FlexibleNumberValue(extraction.BrandScore))

	// The returned map covers exactly the caller's competitor list: a
	// competitor the extractor omitted scores 0 (not mentioned), and names
	// the extractor invented are dropped.
	competitorScores := make(map[string]int, len(competitors))
	for _, name := range competitors {
		if rawScore, ok := extraction.CompetitorScores[name]; ok {
			competitorScores[name] = clampScore(jsonutil.FlexibleNumberValue(rawScore))
		} else {
			competitorScores[name] = 0
		}
	}

	return brandScore, competitorScores
}

// clampScore forces an extracted value into the 0-2 rubric. Out-of-range and
// fractional values are clamped rather than rejected: a clamp is recoverable,
// a hard failure would zero out the whole result downstream.
func clampScore(value float64, ok bool) int {
	if !ok {
		return 0
	}
	score := int(math.Round(value))
	if score < 0 {
		return 0
	}
	if score > 2 {
		return 2
	}
	return score
}

func zeroScores(competitors []string) map[string]int {
	scores := make(map[string]int, len(competitors))
	for _, name := range competitors {
		scores[name] = 0
	}
	return scores
}

// Ensure visibilityScorer implements VisibilityScorer at compile time.
var _ VisibilityScorer = (*visibilityScorer)(nil)
