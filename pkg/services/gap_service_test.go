package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brandlens-ai/brandlens-engine/pkg/apperrors"
	"github.com/brandlens-ai/brandlens-engine/pkg/engines"
	"github.com/brandlens-ai/brandlens-engine/pkg/models"
)

type gapServiceFixture struct {
	projectRepo   *mockProjectRepo
	promptSetRepo *mockPromptSetRepo
	promptRepo    *mockPromptRepo
	scanRepo      *mockScanRepo
	resultRepo    *mockScanResultRepo
	suggestions   *mockSuggestionRepo
	adapter       *engines.MockAdapter
	service       GapService

	project   *models.Project
	promptSet *models.PromptSet
	prompt    *models.Prompt
}

func newGapServiceFixture(t *testing.T) *gapServiceFixture {
	t.Helper()

	project := &models.Project{
		ID:          uuid.New(),
		Name:        "Test",
		BrandName:   "MyBrand",
		BrandDomain: "mybrand.com",
		Competitors: []string{"Acme", "Globex"},
	}
	promptSet := &models.PromptSet{ID: uuid.New(), ProjectID: project.ID, Name: "core"}
	prompt := &models.Prompt{ID: uuid.New(), PromptSetID: promptSet.ID, Text: "best tool for X?"}

	f := &gapServiceFixture{
		projectRepo: &mockProjectRepo{
			getFunc: func(ctx context.Context, id uuid.UUID) (*models.Project, error) {
				if id == project.ID {
					return project, nil
				}
				return nil, apperrors.ErrProjectNotFound
			},
		},
		promptSetRepo: &mockPromptSetRepo{
			getFunc: func(ctx context.Context, id uuid.UUID) (*models.PromptSet, error) {
				if id == promptSet.ID {
					return promptSet, nil
				}
				return nil, apperrors.ErrPromptSetNotFound
			},
		},
		promptRepo: &mockPromptRepo{
			getFunc: func(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
				if id == prompt.ID {
					return prompt, nil
				}
				return nil, apperrors.ErrPromptNotFound
			},
		},
		scanRepo:    &mockScanRepo{},
		resultRepo:  &mockScanResultRepo{},
		suggestions: newMockSuggestionRepo(),
		adapter:     engines.NewMockAdapter(),
		project:     project,
		promptSet:   promptSet,
		prompt:      prompt,
	}

	registry := engines.NewMockRegistry(f.adapter)
	f.service = NewGapService(
		f.projectRepo, f.promptSetRepo, f.promptRepo,
		f.scanRepo, f.resultRepo, f.suggestions,
		registry, f.adapter.Engine(), zap.NewNop())
	return f
}

func (f *gapServiceFixture) withLatestScanRows(rows []*models.ScanReportRow) {
	scanID := uuid.New()
	f.scanRepo.getLatestFunc = func(ctx context.Context, projectID uuid.UUID) (*models.Scan, error) {
		return &models.Scan{ID: scanID, ProjectID: projectID, Engines: []string{"chatgpt"}}, nil
	}
	f.resultRepo.listWithPromptsFunc = func(ctx context.Context, id uuid.UUID) ([]*models.ScanReportRow, error) {
		return rows, nil
	}
}

func TestGetGaps_NoScansYetReturnsEmpty(t *testing.T) {
	f := newGapServiceFixture(t)

	gaps, err := f.service.GetGaps(context.Background(), f.project.ID)
	require.NoError(t, err)
	assert.Empty(t, gaps)
	assert.NotNil(t, gaps)
}

func TestGetGaps_ProjectNotFound(t *testing.T) {
	f := newGapServiceFixture(t)

	_, err := f.service.GetGaps(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
}

func TestGetGaps_FiltersByBrandAbsenceAndCompetitorPresence(t *testing.T) {
	f := newGapServiceFixture(t)

	gapPromptID := uuid.New()
	f.withLatestScanRows([]*models.ScanReportRow{
		// Qualifies: brand absent, competitor mentioned.
		{ScanResult: models.ScanResult{PromptID: gapPromptID, BrandScore: 0, CompetitorScores: map[string]int{"Acme": 1, "Globex": 0}}, PromptText: "q1"},
		// Brand mentioned, not a gap even though a competitor is recommended.
		{ScanResult: models.ScanResult{PromptID: uuid.New(), BrandScore: 1, CompetitorScores: map[string]int{"Acme": 2}}, PromptText: "q2"},
		// Nobody visible, not a gap.
		{ScanResult: models.ScanResult{PromptID: uuid.New(), BrandScore: 0, CompetitorScores: map[string]int{"Acme": 0, "Globex": 0}}, PromptText: "q3"},
		// Qualifies: competitor recommended.
		{ScanResult: models.ScanResult{PromptID: uuid.New(), BrandScore: 0, CompetitorScores: map[string]int{"Globex": 2}}, PromptText: "q4"},
	})

	gaps, err := f.service.GetGaps(context.Background(), f.project.ID)
	require.NoError(t, err)

	require.Len(t, gaps, 2)
	assert.Equal(t, gapPromptID, gaps[0].PromptID)
	assert.Equal(t, "q1", gaps[0].PromptText)
	assert.Equal(t, "q4", gaps[1].PromptText)
}

func TestGetGaps_AttachesStoredSuggestions(t *testing.T) {
	f := newGapServiceFixture(t)

	gapPromptID := uuid.New()
	f.withLatestScanRows([]*models.ScanReportRow{
		{ScanResult: models.ScanResult{PromptID: gapPromptID, BrandScore: 0, CompetitorScores: map[string]int{"Acme": 2}}, PromptText: "q1"},
		{ScanResult: models.ScanResult{PromptID: uuid.New(), BrandScore: 0, CompetitorScores: map[string]int{"Acme": 1}}, PromptText: "q2"},
	})

	// Stored from an earlier scan; attached as-is even if stale.
	require.NoError(t, f.suggestions.Upsert(context.Background(), &models.GapSuggestion{
		PromptID:          gapPromptID,
		SuggestedAnswer:   "a drafted answer",
		SuggestedPageType: "Comparison Guide",
	}))

	gaps, err := f.service.GetGaps(context.Background(), f.project.ID)
	require.NoError(t, err)
	require.Len(t, gaps, 2)

	assert.Equal(t, "a drafted answer", gaps[0].SuggestedAnswer)
	assert.Equal(t, "Comparison Guide", gaps[0].SuggestedPageType)
	assert.Empty(t, gaps[1].SuggestedAnswer)
}

func TestGetGaps_RepeatedReadsReturnIdenticalResults(t *testing.T) {
	f := newGapServiceFixture(t)

	f.withLatestScanRows([]*models.ScanReportRow{
		{ScanResult: models.ScanResult{PromptID: uuid.New(), BrandScore: 0, CompetitorScores: map[string]int{"Acme": 2, "Globex": 0}}, PromptText: "q1"},
		{ScanResult: models.ScanResult{PromptID: uuid.New(), BrandScore: 2, CompetitorScores: map[string]int{"Acme": 1}}, PromptText: "q2"},
		{ScanResult: models.ScanResult{PromptID: uuid.New(), BrandScore: 0, CompetitorScores: map[string]int{"Globex": 1}}, PromptText: "q3"},
	})

	first, err := f.service.GetGaps(context.Background(), f.project.ID)
	require.NoError(t, err)
	second, err := f.service.GetGaps(context.Background(), f.project.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 0, f.suggestions.upsertCalls)
}

func TestGenerateSuggestion_HappyPath(t *testing.T) {
	f := newGapServiceFixture(t)
	f.adapter.InvokeFunc = func(ctx context.Context, messages []engines.Message, maxTokens int, temperature float32) (string, error) {
		return `{"suggested_answer": "MyBrand is a great fit because...", "suggested_page_type": "FAQ Page"}`, nil
	}

	suggestion, err := f.service.GenerateSuggestion(context.Background(), f.prompt.ID)
	require.NoError(t, err)

	assert.Equal(t, f.prompt.ID, suggestion.PromptID)
	assert.Equal(t, "MyBrand is a great fit because...", suggestion.SuggestedAnswer)
	assert.Equal(t, "FAQ Page", suggestion.SuggestedPageType)
	assert.Equal(t, 1, f.suggestions.upsertCalls)
}

func TestGenerateSuggestion_PromptNotFound(t *testing.T) {
	f := newGapServiceFixture(t)

	_, err := f.service.GenerateSuggestion(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrPromptNotFound)
	assert.Equal(t, 0, f.adapter.InvokeCalls)
}

func TestGenerateSuggestion_RetriesTransientFailure(t *testing.T) {
	f := newGapServiceFixture(t)
	f.adapter.InvokeFunc = func(ctx context.Context, messages []engines.Message, maxTokens int, temperature float32) (string, error) {
		if f.adapter.InvokeCalls == 1 {
			return "", &engines.ProviderError{Engine: engines.EngineChatGPT, Message: "rate limited", Retryable: true}
		}
		return `{"suggested_answer": "answer", "suggested_page_type": "Blog Post"}`, nil
	}

	suggestion, err := f.service.GenerateSuggestion(context.Background(), f.prompt.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.adapter.InvokeCalls)
	assert.Equal(t, "answer", suggestion.SuggestedAnswer)
}

func TestGenerateSuggestion_PermanentFailureDoesNotRetry(t *testing.T) {
	f := newGapServiceFixture(t)
	f.adapter.InvokeFunc = func(ctx context.Context, messages []engines.Message, maxTokens int, temperature float32) (string, error) {
		return "", &engines.ProviderError{Engine: engines.EngineChatGPT, Message: "authentication failed", Retryable: false}
	}

	_, err := f.service.GenerateSuggestion(context.Background(), f.prompt.ID)
	assert.ErrorIs(t, err, apperrors.ErrSuggestionFailed)
	assert.Equal(t, 1, f.adapter.InvokeCalls)
	assert.Equal(t, 0, f.suggestions.upsertCalls)
}

func TestGenerateSuggestion_UnparsableResponse(t *testing.T) {
	f := newGapServiceFixture(t)
	f.adapter.InvokeFunc = func(ctx context.Context, messages []engines.Message, maxTokens int, temperature float32) (string, error) {
		return "Sure! Here is some advice without any JSON.", nil
	}

	_, err := f.service.GenerateSuggestion(context.Background(), f.prompt.ID)
	assert.ErrorIs(t, err, apperrors.ErrSuggestionFailed)
	assert.Equal(t, 0, f.suggestions.upsertCalls)
}

func TestGenerateSuggestion_MissingAnswerField(t *testing.T) {
	f := newGapServiceFixture(t)
	f.adapter.InvokeFunc = func(ctx context.Context, messages []engines.Message, maxTokens int, temperature float32) (string, error) {
		return `{"suggested_page_type": "FAQ Page"}`, nil
	}

	_, err := f.service.GenerateSuggestion(context.Background(), f.prompt.ID)
	assert.ErrorIs(t, err, apperrors.ErrSuggestionFailed)
}

func TestGenerateSuggestion_RegeneratingReplacesStored(t *testing.T) {
	f := newGapServiceFixture(t)

	responses := []string{
		`{"suggested_answer": "first draft", "suggested_page_type": "FAQ Page"}`,
		`{"suggested_answer": "second draft", "suggested_page_type": "Comparison Guide"}`,
	}
	f.adapter.InvokeFunc = func(ctx context.Context, messages []engines.Message, maxTokens int, temperature float32) (string, error) {
		response := responses[0]
		responses = responses[1:]
		return response, nil
	}

	_, err := f.service.GenerateSuggestion(context.Background(), f.prompt.ID)
	require.NoError(t, err)
	second, err := f.service.GenerateSuggestion(context.Background(), f.prompt.ID)
	require.NoError(t, err)

	assert.Equal(t, "second draft", second.SuggestedAnswer)
	stored := f.suggestions.stored[f.prompt.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "second draft", stored.SuggestedAnswer)
}

func TestGenerateSuggestion_UnconfiguredEngine(t *testing.T) {
	f := newGapServiceFixture(t)
	service := NewGapService(
		f.projectRepo, f.promptSetRepo, f.promptRepo,
		f.scanRepo, f.resultRepo, f.suggestions,
		engines.NewMockRegistry(), engines.EngineChatGPT, zap.NewNop())

	_, err := service.GenerateSuggestion(context.Background(), f.prompt.ID)
	assert.ErrorIs(t, err, apperrors.ErrSuggestionFailed)
}

func TestIsGap(t *testing.T) {
	assert.True(t, isGap(0, map[string]int{"Acme": 1}))
	assert.True(t, isGap(0, map[string]int{"Acme": 0, "Globex": 2}))
	assert.False(t, isGap(1, map[string]int{"Acme": 2}))
	assert.False(t, isGap(0, map[string]int{"Acme": 0}))
	assert.False(t, isGap(0, map[string]int{}))
}

func TestGetGaps_PropagatesSuggestionLookupError(t *testing.T) {
	f := newGapServiceFixture(t)
	f.withLatestScanRows(nil)
	f.resultRepo.listWithPromptsFunc = func(ctx context.Context, id uuid.UUID) ([]*models.ScanReportRow, error) {
		return nil, errors.New("connection reset")
	}

	_, err := f.service.GetGaps(context.Background(), f.project.ID)
	assert.Error(t, err)
}
