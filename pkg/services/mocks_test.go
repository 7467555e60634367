package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brandlens-ai/brandlens-engine/pkg/apperrors"
	"github.com/brandlens-ai/brandlens-engine/pkg/engines"
	"github.com/brandlens-ai/brandlens-engine/pkg/models"
)

// mockProjectRepo is a minimal in-memory mock for the project repository.
type mockProjectRepo struct {
	getFunc func(ctx context.Context, id uuid.UUID) (*models.Project, error)

	project     *models.Project
	createCalls int
	deleteCalls int
}

func (m *mockProjectRepo) Create(ctx context.Context, project *models.Project) error {
	m.createCalls++
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	return nil
}

func (m *mockProjectRepo) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, apperrors.ErrProjectNotFound
}

func (m *mockProjectRepo) List(ctx context.Context) ([]*models.Project, error) {
	return nil, nil
}

func (m *mockProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleteCalls++
	return nil
}

// mockPromptSetRepo is a minimal mock for the prompt set repository.
type mockPromptSetRepo struct {
	getFunc func(ctx context.Context, id uuid.UUID) (*models.PromptSet, error)
}

func (m *mockPromptSetRepo) Create(ctx context.Context, set *models.PromptSet) error {
	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}
	return nil
}

func (m *mockPromptSetRepo) Get(ctx context.Context, id uuid.UUID) (*models.PromptSet, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, apperrors.ErrPromptSetNotFound
}

func (m *mockPromptSetRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.PromptSet, error) {
	return nil, nil
}

func (m *mockPromptSetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

// mockPromptRepo is a minimal mock for the prompt repository.
type mockPromptRepo struct {
	getFunc           func(ctx context.Context, id uuid.UUID) (*models.Prompt, error)
	listByProjectFunc func(ctx context.Context, projectID uuid.UUID) ([]*models.Prompt, error)
}

func (m *mockPromptRepo) Create(ctx context.Context, prompt *models.Prompt) error {
	if prompt.ID == uuid.Nil {
		prompt.ID = uuid.New()
	}
	return nil
}

func (m *mockPromptRepo) Get(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, apperrors.ErrPromptNotFound
}

func (m *mockPromptRepo) ListBySet(ctx context.Context, promptSetID uuid.UUID) ([]*models.Prompt, error) {
	return nil, nil
}

func (m *mockPromptRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Prompt, error) {
	if m.listByProjectFunc != nil {
		return m.listByProjectFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *mockPromptRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

// mockScanRepo is a minimal mock for the scan repository.
type mockScanRepo struct {
	countFunc     func(ctx context.Context, projectID uuid.UUID, since time.Time) (int, error)
	getLatestFunc func(ctx context.Context, projectID uuid.UUID) (*models.Scan, error)

	createCalls      int
	created          []*models.Scan
	updateNotesCalls int
}

func (m *mockScanRepo) Create(ctx context.Context, scan *models.Scan) error {
	m.createCalls++
	if scan.ID == uuid.Nil {
		scan.ID = uuid.New()
	}
	scan.CreatedAt = time.Now()
	m.created = append(m.created, scan)
	return nil
}

func (m *mockScanRepo) Get(ctx context.Context, id uuid.UUID) (*models.Scan, error) {
	return nil, apperrors.ErrScanNotFound
}

func (m *mockScanRepo) GetLatestByProject(ctx context.Context, projectID uuid.UUID) (*models.Scan, error) {
	if m.getLatestFunc != nil {
		return m.getLatestFunc(ctx, projectID)
	}
	return nil, apperrors.ErrNoScansYet
}

func (m *mockScanRepo) CountByProjectSince(ctx context.Context, projectID uuid.UUID, since time.Time) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, projectID, since)
	}
	return 0, nil
}

func (m *mockScanRepo) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	m.updateNotesCalls++
	return nil
}

// mockScanResultRepo records created results in memory.
type mockScanResultRepo struct {
	createFunc          func(ctx context.Context, result *models.ScanResult) error
	listWithPromptsFunc func(ctx context.Context, scanID uuid.UUID) ([]*models.ScanReportRow, error)

	created []*models.ScanResult
}

func (m *mockScanResultRepo) Create(ctx context.Context, result *models.ScanResult) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, result); err != nil {
			return err
		}
	}
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	m.created = append(m.created, result)
	return nil
}

func (m *mockScanResultRepo) ListByScan(ctx context.Context, scanID uuid.UUID) ([]*models.ScanResult, error) {
	return m.created, nil
}

func (m *mockScanResultRepo) ListByScanWithPrompts(ctx context.Context, scanID uuid.UUID) ([]*models.ScanReportRow, error) {
	if m.listWithPromptsFunc != nil {
		return m.listWithPromptsFunc(ctx, scanID)
	}
	return nil, nil
}

// mockSuggestionRepo records upserts in memory.
type mockSuggestionRepo struct {
	stored map[uuid.UUID]*models.GapSuggestion

	upsertCalls int
}

func newMockSuggestionRepo() *mockSuggestionRepo {
	return &mockSuggestionRepo{stored: make(map[uuid.UUID]*models.GapSuggestion)}
}

func (m *mockSuggestionRepo) Upsert(ctx context.Context, suggestion *models.GapSuggestion) error {
	m.upsertCalls++
	now := time.Now()
	suggestion.UpdatedAt = now
	if suggestion.CreatedAt.IsZero() {
		suggestion.CreatedAt = now
	}
	m.stored[suggestion.PromptID] = suggestion
	return nil
}

func (m *mockSuggestionRepo) GetByPromptIDs(ctx context.Context, promptIDs []uuid.UUID) (map[uuid.UUID]*models.GapSuggestion, error) {
	found := make(map[uuid.UUID]*models.GapSuggestion)
	for _, id := range promptIDs {
		if s, ok := m.stored[id]; ok {
			found[id] = s
		}
	}
	return found, nil
}

// mockScorer returns canned scores and counts calls.
type mockScorer struct {
	scoreFunc func(ctx context.Context, answer, brandName, brandDomain string, competitors []string) (int, map[string]int)

	scoreCalls int
}

func (m *mockScorer) Score(ctx context.Context, answer, brandName, brandDomain string, competitors []string) (int, map[string]int) {
	m.scoreCalls++
	if m.scoreFunc != nil {
		return m.scoreFunc(ctx, answer, brandName, brandDomain, competitors)
	}
	scores := make(map[string]int, len(competitors))
	for _, name := range competitors {
		scores[name] = 0
	}
	return 0, scores
}

// mockGenerator returns canned answers and counts calls.
type mockGenerator struct {
	generateFunc func(ctx context.Context, promptText string, engine engines.Engine) (string, error)

	generateCalls int
}

func (m *mockGenerator) Generate(ctx context.Context, promptText string, engine engines.Engine) (string, error) {
	m.generateCalls++
	if m.generateFunc != nil {
		return m.generateFunc(ctx, promptText, engine)
	}
	return "an answer", nil
}
