package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brandlens-ai/brandlens-engine/pkg/apperrors"
	"github.com/brandlens-ai/brandlens-engine/pkg/engines"
	"github.com/brandlens-ai/brandlens-engine/pkg/jsonutil"
	"github.com/brandlens-ai/brandlens-engine/pkg/models"
	"github.com/brandlens-ai/brandlens-engine/pkg/prompts"
	"github.com/brandlens-ai/brandlens-engine/pkg/repositories"
	"github.com/brandlens-ai/brandlens-engine/pkg/retry"
)

// Suggestion call settings. Higher temperature than scoring: drafting is a
// creative task, and 0.7 matches answer generation.
const (
	suggestionMaxTokens   = 500
	suggestionTemperature = 0.7
)

// GapService derives gap analysis from the latest scan and drafts content
// suggestions for gapped prompts.
type GapService interface {
	// GetGaps returns rows from the project's latest scan where the brand
	// scored 0 and at least one competitor scored 1 or higher. A project with
	// no scans yet returns an empty slice, not an error. Stored suggestions
	// are attached where present; they may be stale relative to the latest
	// scan and are returned anyway.
	GetGaps(ctx context.Context, projectID uuid.UUID) ([]*models.GapAnalysis, error)

	// GenerateSuggestion drafts and persists a suggestion for one prompt,
	// replacing any previous one. Failures wrap apperrors.ErrSuggestionFailed.
	GenerateSuggestion(ctx context.Context, promptID uuid.UUID) (*models.GapSuggestion, error)
}

type gapService struct {
	projects    repositories.ProjectRepository
	promptSets  repositories.PromptSetRepository
	promptsRepo repositories.PromptRepository
	scans       repositories.ScanRepository
	results     repositories.ScanResultRepository
	suggestions repositories.SuggestionRepository
	registry    engines.Registry
	engine      engines.Engine
	logger      *zap.Logger
}

// NewGapService creates the gap analysis service. Suggestions are drafted via
// the given engine, normally the same one used for scoring.
func NewGapService(
	projects repositories.ProjectRepository,
	promptSets repositories.PromptSetRepository,
	promptsRepo repositories.PromptRepository,
	scans repositories.ScanRepository,
	results repositories.ScanResultRepository,
	suggestions repositories.SuggestionRepository,
	registry engines.Registry,
	engine engines.Engine,
	logger *zap.Logger,
) GapService {
	return &gapService{
		projects:    projects,
		promptSets:  promptSets,
		promptsRepo: promptsRepo,
		scans:       scans,
		results:     results,
		suggestions: suggestions,
		registry:    registry,
		engine:      engine,
		logger:      logger.Named("gaps"),
	}
}

// GetGaps implements GapService.
func (s *gapService) GetGaps(ctx context.Context, projectID uuid.UUID) ([]*models.GapAnalysis, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}

	scan, err := s.scans.GetLatestByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoScansYet) {
			return []*models.GapAnalysis{}, nil
		}
		return nil, err
	}

	rows, err := s.results.ListByScanWithPrompts(ctx, scan.ID)
	if err != nil {
		return nil, fmt.Errorf("list scan results: %w", err)
	}

	gaps := make([]*models.GapAnalysis, 0)
	var gapPromptIDs []uuid.UUID
	for _, row := range rows {
		if !isGap(row.BrandScore, row.CompetitorScores) {
			continue
		}
		gaps = append(gaps, &models.GapAnalysis{
			PromptID:         row.PromptID,
			PromptText:       row.PromptText,
			BrandScore:       row.BrandScore,
			CompetitorScores: row.CompetitorScores,
		})
		gapPromptIDs = append(gapPromptIDs, row.PromptID)
	}

	stored, err := s.suggestions.GetByPromptIDs(ctx, gapPromptIDs)
	if err != nil {
		return nil, fmt.Errorf("load stored suggestions: %w", err)
	}
	for _, gap := range gaps {
		if suggestion, ok := stored[gap.PromptID]; ok {
			gap.SuggestedAnswer = suggestion.SuggestedAnswer
			gap.SuggestedPageType = suggestion.SuggestedPageType
		}
	}

	return gaps, nil
}

// isGap reports whether a result row is a visibility gap: the brand is
// absent while at least one competitor is at least mentioned.
func isGap(brandScore int, competitorScores map[string]int) bool {
	if brandScore != 0 {
		return false
	}
	for _, score := range competitorScores {
		if score >= 1 {
			return true
		}
	}
	return false
}

// GenerateSuggestion implements GapService.
func (s *gapService) GenerateSuggestion(ctx context.Context, promptID uuid.UUID) (*models.GapSuggestion, error) {
	prompt, err := s.promptsRepo.Get(ctx, promptID)
	if err != nil {
		return nil, err
	}
	promptSet, err := s.promptSets.Get(ctx, prompt.PromptSetID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.Get(ctx, promptSet.ProjectID)
	if err != nil {
		return nil, err
	}

	adapter, err := s.registry.Get(s.engine)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSuggestionFailed, err)
	}

	messages := []engines.Message{
		{Role: engines.RoleSystem, Content: prompts.SuggestionSystemInstruction},
		{Role: engines.RoleUser, Content: prompts.BuildSuggestionPrompt(prompt.Text, project.BrandName, project.BrandDomain)},
	}

	var raw string
	err = retry.DoIfRetryable(ctx, retry.DefaultConfig(), func() error {
		var invokeErr error
		raw, invokeErr = adapter.Invoke(ctx, messages, suggestionMaxTokens, suggestionTemperature)
		return invokeErr
	})
	if err != nil {
		s.logger.Warn("suggestion call failed",
			zap.String("prompt_id", promptID.String()),
			zap.String("engine", string(s.engine)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSuggestionFailed, err)
	}

	fields, err := engines.ParseJSONResponse[map[string]json.RawMessage](raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSuggestionFailed, err)
	}

	answer := jsonutil.FlexibleStringValue(fields["suggested_answer"])
	pageType := jsonutil.FlexibleStringValue(fields["suggested_page_type"])
	if answer == "" {
		return nil, fmt.Errorf("%w: response missing suggested_answer", apperrors.ErrSuggestionFailed)
	}

	suggestion := &models.GapSuggestion{
		PromptID:          promptID,
		SuggestedAnswer:   answer,
		SuggestedPageType: pageType,
	}
	if err := s.suggestions.Upsert(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("store suggestion: %w", err)
	}

	return suggestion, nil
}

// Ensure gapService implements GapService at compile time.
var _ GapService = (*gapService)(nil)
