package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/brandlens-ai/brandlens-engine/pkg/apperrors"
	"github.com/brandlens-ai/brandlens-engine/pkg/models"
)

// mockProjectService is a minimal mock for the project catalog service.
type mockProjectService struct {
	createProjectFunc func(ctx context.Context, project *models.Project) error
	getProjectFunc    func(ctx context.Context, id uuid.UUID) (*models.Project, error)
	listProjectsFunc  func(ctx context.Context) ([]*models.Project, error)
}

func (m *mockProjectService) CreateProject(ctx context.Context, project *models.Project) error {
	if m.createProjectFunc != nil {
		return m.createProjectFunc(ctx, project)
	}
	project.ID = uuid.New()
	return nil
}

func (m *mockProjectService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	if m.getProjectFunc != nil {
		return m.getProjectFunc(ctx, id)
	}
	return nil, apperrors.ErrProjectNotFound
}

func (m *mockProjectService) ListProjects(ctx context.Context) ([]*models.Project, error) {
	if m.listProjectsFunc != nil {
		return m.listProjectsFunc(ctx)
	}
	return nil, nil
}

func (m *mockProjectService) DeleteProject(ctx context.Context, id uuid.UUID) error { return nil }

func (m *mockProjectService) CreatePromptSet(ctx context.Context, set *models.PromptSet) error {
	set.ID = uuid.New()
	return nil
}

func (m *mockProjectService) ListPromptSets(ctx context.Context, projectID uuid.UUID) ([]*models.PromptSet, error) {
	return nil, nil
}

func (m *mockProjectService) DeletePromptSet(ctx context.Context, id uuid.UUID) error { return nil }

func (m *mockProjectService) CreatePrompt(ctx context.Context, prompt *models.Prompt) error {
	prompt.ID = uuid.New()
	return nil
}

func (m *mockProjectService) ListPrompts(ctx context.Context, promptSetID uuid.UUID) ([]*models.Prompt, error) {
	return nil, nil
}

func (m *mockProjectService) DeletePrompt(ctx context.Context, id uuid.UUID) error { return nil }

// mockScanService is a minimal mock for the scan orchestrator.
type mockScanService struct {
	runScanFunc         func(ctx context.Context, projectID uuid.UUID, userID *uuid.UUID, multiEngine bool, notes string) (*models.ScanRunResult, error)
	getLatestReportFunc func(ctx context.Context, projectID uuid.UUID) (*models.ScanReport, error)
	updateNotesFunc     func(ctx context.Context, scanID uuid.UUID, notes string) error
}

func (m *mockScanService) RunScan(ctx context.Context, projectID uuid.UUID, userID *uuid.UUID, multiEngine bool, notes string) (*models.ScanRunResult, error) {
	if m.runScanFunc != nil {
		return m.runScanFunc(ctx, projectID, userID, multiEngine, notes)
	}
	return &models.ScanRunResult{Scan: &models.Scan{ID: uuid.New(), ProjectID: projectID}}, nil
}

func (m *mockScanService) GetLatestReport(ctx context.Context, projectID uuid.UUID) (*models.ScanReport, error) {
	if m.getLatestReportFunc != nil {
		return m.getLatestReportFunc(ctx, projectID)
	}
	return nil, apperrors.ErrNoScansYet
}

func (m *mockScanService) UpdateNotes(ctx context.Context, scanID uuid.UUID, notes string) error {
	if m.updateNotesFunc != nil {
		return m.updateNotesFunc(ctx, scanID, notes)
	}
	return nil
}

// mockGapService is a minimal mock for gap analysis.
type mockGapService struct {
	getGapsFunc            func(ctx context.Context, projectID uuid.UUID) ([]*models.GapAnalysis, error)
	generateSuggestionFunc func(ctx context.Context, promptID uuid.UUID) (*models.GapSuggestion, error)
}

func (m *mockGapService) GetGaps(ctx context.Context, projectID uuid.UUID) ([]*models.GapAnalysis, error) {
	if m.getGapsFunc != nil {
		return m.getGapsFunc(ctx, projectID)
	}
	return []*models.GapAnalysis{}, nil
}

func (m *mockGapService) GenerateSuggestion(ctx context.Context, promptID uuid.UUID) (*models.GapSuggestion, error) {
	if m.generateSuggestionFunc != nil {
		return m.generateSuggestionFunc(ctx, promptID)
	}
	return &models.GapSuggestion{PromptID: promptID}, nil
}
