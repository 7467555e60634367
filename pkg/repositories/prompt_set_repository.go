package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/brandlens-ai/brandlens-engine/pkg/apperrors"
	"github.com/brandlens-ai/brandlens-engine/pkg/database"
	"github.com/brandlens-ai/brandlens-engine/pkg/models"
)

// PromptSetRepository defines the interface for prompt set data access.
type PromptSetRepository interface {
	Create(ctx context.Context, set *models.PromptSet) error
	Get(ctx context.Context, id uuid.UUID) (*models.PromptSet, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.PromptSet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type promptSetRepository struct {
	db *database.DB
}

// NewPromptSetRepository creates a new prompt set repository.
func NewPromptSetRepository(db *database.DB) PromptSetRepository {
	return &promptSetRepository{db: db}
}

// Create inserts a new prompt set.
func (r *promptSetRepository) Create(ctx context.Context, set *models.PromptSet) error {
	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}
	set.CreatedAt = time.Now()

	query := `
		INSERT INTO prompt_sets (id, project_id, name, persona, funnel_stage, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		set.ID, set.ProjectID, set.Name, set.Persona, set.FunnelStage, set.Country, set.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create prompt set: %w", err)
	}

	return nil
}

// Get retrieves a prompt set by ID.
func (r *promptSetRepository) Get(ctx context.Context, id uuid.UUID) (*models.PromptSet, error) {
	query := `
		SELECT id, project_id, name, persona, funnel_stage, country, created_at
		FROM prompt_sets
		WHERE id = $1`

	var set models.PromptSet
	err := r.db.QueryRow(ctx, query, id).Scan(
		&set.ID, &set.ProjectID, &set.Name, &set.Persona, &set.FunnelStage, &set.Country, &set.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPromptSetNotFound
		}
		return nil, fmt.Errorf("failed to get prompt set: %w", err)
	}

	return &set, nil
}

// ListByProject retrieves a project's prompt sets ordered by creation time.
func (r *promptSetRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.PromptSet, error) {
	query := `
		SELECT id, project_id, name, persona, funnel_stage, country, created_at
		FROM prompt_sets
		WHERE project_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt sets: %w", err)
	}
	defer rows.Close()

	var sets []*models.PromptSet
	for rows.Next() {
		var set models.PromptSet
		if err := rows.Scan(&set.ID, &set.ProjectID, &set.Name, &set.Persona, &set.FunnelStage, &set.Country, &set.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prompt set row: %w", err)
		}
		sets = append(sets, &set)
	}

	return sets, rows.Err()
}

// Delete removes a prompt set by ID. Prompts are deleted via CASCADE.
func (r *promptSetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM prompt_sets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prompt set: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrPromptSetNotFound
	}

	return nil
}

// Ensure promptSetRepository implements PromptSetRepository at compile time.
var _ PromptSetRepository = (*promptSetRepository)(nil)
