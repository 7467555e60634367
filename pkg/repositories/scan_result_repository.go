package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brandlens-ai/brandlens-engine/pkg/database"
	"github.com/brandlens-ai/brandlens-engine/pkg/models"
)

// ScanResultRepository defines the interface for scan result data access.
// Scan results are write-once: there is no update path.
type ScanResultRepository interface {
	Create(ctx context.Context, result *models.ScanResult) error
	ListByScan(ctx context.Context, scanID uuid.UUID) ([]*models.ScanResult, error)
	// ListByScanWithPrompts returns the scan's results joined with each
	// prompt's text, in creation order.
	ListByScanWithPrompts(ctx context.Context, scanID uuid.UUID) ([]*models.ScanReportRow, error)
}

type scanResultRepository struct {
	db *database.DB
}

// NewScanResultRepository creates a new scan result repository.
func NewScanResultRepository(db *database.DB) ScanResultRepository {
	return &scanResultRepository{db: db}
}

// Create inserts a new scan result.
func (r *scanResultRepository) Create(ctx context.Context, result *models.ScanResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	result.CreatedAt = time.Now()
	if result.CompetitorScores == nil {
		result.CompetitorScores = map[string]int{}
	}

	scores, err := json.Marshal(result.CompetitorScores)
	if err != nil {
		return fmt.Errorf("failed to marshal competitor scores: %w", err)
	}

	query := `
		INSERT INTO scan_results (id, scan_id, prompt_id, engine, answer, brand_score, competitor_scores, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.Exec(ctx, query,
		result.ID,
		result.ScanID,
		result.PromptID,
		result.Engine,
		result.Answer,
		result.BrandScore,
		scores,
		result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create scan result: %w", err)
	}

	return nil
}

// ListByScan retrieves a scan's results in creation order.
func (r *scanResultRepository) ListByScan(ctx context.Context, scanID uuid.UUID) ([]*models.ScanResult, error) {
	query := `
		SELECT id, scan_id, prompt_id, engine, answer, brand_score, competitor_scores, created_at
		FROM scan_results
		WHERE scan_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan results: %w", err)
	}
	defer rows.Close()

	var results []*models.ScanResult
	for rows.Next() {
		var result models.ScanResult
		var scores []byte
		if err := rows.Scan(&result.ID, &result.ScanID, &result.PromptID, &result.Engine,
			&result.Answer, &result.BrandScore, &scores, &result.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		if err := json.Unmarshal(scores, &result.CompetitorScores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal competitor scores: %w", err)
		}
		results = append(results, &result)
	}

	return results, rows.Err()
}

// ListByScanWithPrompts retrieves a scan's results joined with prompt text.
func (r *scanResultRepository) ListByScanWithPrompts(ctx context.Context, scanID uuid.UUID) ([]*models.ScanReportRow, error) {
	query := `
		SELECT sr.id, sr.scan_id, sr.prompt_id, sr.engine, sr.answer, sr.brand_score, sr.competitor_scores, sr.created_at, p.text
		FROM scan_results sr
		JOIN prompts p ON p.id = sr.prompt_id
		WHERE sr.scan_id = $1
		ORDER BY sr.created_at`

	rows, err := r.db.Query(ctx, query, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan results with prompts: %w", err)
	}
	defer rows.Close()

	var results []*models.ScanReportRow
	for rows.Next() {
		var row models.ScanReportRow
		var scores []byte
		if err := rows.Scan(&row.ID, &row.ScanID, &row.PromptID, &row.Engine,
			&row.Answer, &row.BrandScore, &scores, &row.CreatedAt, &row.PromptText); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		if err := json.Unmarshal(scores, &row.CompetitorScores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal competitor scores: %w", err)
		}
		results = append(results, &row)
	}

	return results, rows.Err()
}

// Ensure scanResultRepository implements ScanResultRepository at compile time.
var _ ScanResultRepository = (*scanResultRepository)(nil)
