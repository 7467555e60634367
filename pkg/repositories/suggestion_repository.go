package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brandlens-ai/brandlens-engine/pkg/database"
	"github.com/brandlens-ai/brandlens-engine/pkg/models"
)

// SuggestionRepository defines the interface for gap suggestion data access.
// Suggestions are keyed by prompt id and survive across scans until
// regenerated.
type SuggestionRepository interface {
	Upsert(ctx context.Context, suggestion *models.GapSuggestion) error
	GetByPromptIDs(ctx context.Context, promptIDs []uuid.UUID) (map[uuid.UUID]*models.GapSuggestion, error)
}

type suggestionRepository struct {
	db *database.DB
}

// NewSuggestionRepository creates a new suggestion repository.
func NewSuggestionRepository(db *database.DB) SuggestionRepository {
	return &suggestionRepository{db: db}
}

// Upsert inserts or replaces the suggestion for a prompt.
func (r *suggestionRepository) Upsert(ctx context.Context, suggestion *models.GapSuggestion) error {
	now := time.Now()
	suggestion.UpdatedAt = now
	if suggestion.CreatedAt.IsZero() {
		suggestion.CreatedAt = now
	}

	query := `
		INSERT INTO gap_suggestions (prompt_id, suggested_answer, suggested_page_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (prompt_id) DO UPDATE
		SET suggested_answer = EXCLUDED.suggested_answer,
		    suggested_page_type = EXCLUDED.suggested_page_type,
		    updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		suggestion.PromptID,
		suggestion.SuggestedAnswer,
		suggestion.SuggestedPageType,
		suggestion.CreatedAt,
		suggestion.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert gap suggestion: %w", err)
	}

	return nil
}

// GetByPromptIDs retrieves stored suggestions for the given prompts.
// Prompts without a suggestion are simply absent from the returned map.
func (r *suggestionRepository) GetByPromptIDs(ctx context.Context, promptIDs []uuid.UUID) (map[uuid.UUID]*models.GapSuggestion, error) {
	suggestions := make(map[uuid.UUID]*models.GapSuggestion)
	if len(promptIDs) == 0 {
		return suggestions, nil
	}

	query := `
		SELECT prompt_id, suggested_answer, suggested_page_type, created_at, updated_at
		FROM gap_suggestions
		WHERE prompt_id = ANY($1)`

	rows, err := r.db.Query(ctx, query, promptIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get gap suggestions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.GapSuggestion
		if err := rows.Scan(&s.PromptID, &s.SuggestedAnswer, &s.SuggestedPageType, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gap suggestion row: %w", err)
		}
		suggestions[s.PromptID] = &s
	}

	return suggestions, rows.Err()
}

// Ensure suggestionRepository implements SuggestionRepository at compile time.
var _ SuggestionRepository = (*suggestionRepository)(nil)
