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

// PromptRepository defines the interface for prompt data access.
type PromptRepository interface {
	Create(ctx context.Context, prompt *models.Prompt) error
	Get(ctx context.Context, id uuid.UUID) (*models.Prompt, error)
	ListBySet(ctx context.Context, promptSetID uuid.UUID) ([]*models.Prompt, error)
	// ListByProject returns every prompt across all of a project's prompt
	// sets in stored order. The multi-engine prompt cap takes a prefix of
	// this ordering.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Prompt, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type promptRepository struct {
	db *database.DB
}

// NewPromptRepository creates a new prompt repository.
func NewPromptRepository(db *database.DB) PromptRepository {
	return &promptRepository{db: db}
}

// Create inserts a new prompt. Position defaults to the end of the set.
func (r *promptRepository) Create(ctx context.Context, prompt *models.Prompt) error {
	if prompt.ID == uuid.Nil {
		prompt.ID = uuid.New()
	}
	prompt.CreatedAt = time.Now()

	query := `
		INSERT INTO prompts (id, prompt_set_id, text, position, created_at)
		VALUES ($1, $2, $3,
			CASE WHEN $4 > 0 THEN $4
			     ELSE (SELECT COALESCE(MAX(position), 0) + 1 FROM prompts WHERE prompt_set_id = $2)
			END,
			$5)
		RETURNING position`

	err := r.db.QueryRow(ctx, query,
		prompt.ID, prompt.PromptSetID, prompt.Text, prompt.Position, prompt.CreatedAt).Scan(&prompt.Position)
	if err != nil {
		return fmt.Errorf("failed to create prompt: %w", err)
	}

	return nil
}

// Get retrieves a prompt by ID.
func (r *promptRepository) Get(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	query := `
		SELECT id, prompt_set_id, text, position, created_at
		FROM prompts
		WHERE id = $1`

	var prompt models.Prompt
	err := r.db.QueryRow(ctx, query, id).Scan(
		&prompt.ID, &prompt.PromptSetID, &prompt.Text, &prompt.Position, &prompt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPromptNotFound
		}
		return nil, fmt.Errorf("failed to get prompt: %w", err)
	}

	return &prompt, nil
}

// ListBySet retrieves a prompt set's prompts in stored order.
func (r *promptRepository) ListBySet(ctx context.Context, promptSetID uuid.UUID) ([]*models.Prompt, error) {
	query := `
		SELECT id, prompt_set_id, text, position, created_at
		FROM prompts
		WHERE prompt_set_id = $1
		ORDER BY position, created_at`

	return r.queryPrompts(ctx, query, promptSetID)
}

// ListByProject retrieves every prompt across a project's prompt sets,
// ordered by prompt set creation then prompt position.
func (r *promptRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Prompt, error) {
	query := `
		SELECT p.id, p.prompt_set_id, p.text, p.position, p.created_at
		FROM prompts p
		JOIN prompt_sets ps ON ps.id = p.prompt_set_id
		WHERE ps.project_id = $1
		ORDER BY ps.created_at, p.position, p.created_at`

	return r.queryPrompts(ctx, query, projectID)
}

// Delete removes a prompt by ID. Historical scan results for the prompt are
// deleted via CASCADE.
func (r *promptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM prompts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prompt: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrPromptNotFound
	}

	return nil
}

func (r *promptRepository) queryPrompts(ctx context.Context, query string, arg any) ([]*models.Prompt, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []*models.Prompt
	for rows.Next() {
		var prompt models.Prompt
		if err := rows.Scan(&prompt.ID, &prompt.PromptSetID, &prompt.Text, &prompt.Position, &prompt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prompt row: %w", err)
		}
		prompts = append(prompts, &prompt)
	}

	return prompts, rows.Err()
}

// Ensure promptRepository implements PromptRepository at compile time.
var _ PromptRepository = (*promptRepository)(nil)
