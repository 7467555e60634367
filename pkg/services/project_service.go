package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/brandlens-ai/brandlens-engine/pkg/models"
	"github.com/brandlens-ai/brandlens-engine/pkg/repositories"
)

// ProjectService manages projects and their prompt catalog. It layers parent
// existence checks over the repositories so handlers get not-found sentinels
// instead of foreign key violations.
type ProjectService interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error

	CreatePromptSet(ctx context.Context, set *models.PromptSet) error
	ListPromptSets(ctx context.Context, projectID uuid.UUID) ([]*models.PromptSet, error)
	DeletePromptSet(ctx context.Context, id uuid.UUID) error

	CreatePrompt(ctx context.Context, prompt *models.Prompt) error
	ListPrompts(ctx context.Context, promptSetID uuid.UUID) ([]*models.Prompt, error)
	DeletePrompt(ctx context.Context, id uuid.UUID) error
}

type projectService struct {
	projects    repositories.ProjectRepository
	promptSets  repositories.PromptSetRepository
	promptsRepo repositories.PromptRepository
}

// NewProjectService creates the project catalog service.
func NewProjectService(
	projects repositories.ProjectRepository,
	promptSets repositories.PromptSetRepository,
	promptsRepo repositories.PromptRepository,
) ProjectService {
	return &projectService{
		projects:    projects,
		promptSets:  promptSets,
		promptsRepo: promptsRepo,
	}
}

func (s *projectService) CreateProject(ctx context.Context, project *models.Project) error {
	return s.projects.Create(ctx, project)
}

func (s *projectService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.projects.Get(ctx, id)
}

func (s *projectService) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return s.projects.Delete(ctx, id)
}

func (s *projectService) CreatePromptSet(ctx context.Context, set *models.PromptSet) error {
	if _, err := s.projects.Get(ctx, set.ProjectID); err != nil {
		return err
	}
	return s.promptSets.Create(ctx, set)
}

func (s *projectService) ListPromptSets(ctx context.Context, projectID uuid.UUID) ([]*models.PromptSet, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.promptSets.ListByProject(ctx, projectID)
}

func (s *projectService) DeletePromptSet(ctx context.Context, id uuid.UUID) error {
	return s.promptSets.Delete(ctx, id)
}

func (s *projectService) CreatePrompt(ctx context.Context, prompt *models.Prompt) error {
	if _, err := s.promptSets.Get(ctx, prompt.PromptSetID); err != nil {
		return err
	}
	return s.promptsRepo.Create(ctx, prompt)
}

func (s *projectService) ListPrompts(ctx context.Context, promptSetID uuid.UUID) ([]*models.Prompt, error) {
	if _, err := s.promptSets.Get(ctx, promptSetID); err != nil {
		return nil, err
	}
	return s.promptsRepo.ListBySet(ctx, promptSetID)
}

func (s *projectService) DeletePrompt(ctx context.Context, id uuid.UUID) error {
	return s.promptsRepo.Delete(ctx, id)
}

// Ensure projectService implements ProjectService at compile time.
var _ ProjectService = (*projectService)(nil)
