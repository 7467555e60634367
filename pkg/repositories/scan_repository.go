package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/brandlens-ai/brandlens-engine/pkg/apperrors"
	"github.com/brandlens-ai/brandlens-engine/pkg/database"
	"github.com/brandlens-ai/brandlens-engine/pkg/models"
)

// ScanRepository defines the interface for scan data access.
type ScanRepository interface {
	Create(ctx context.Context, scan *models.Scan) error
	Get(ctx context.Context, id uuid.UUID) (*models.Scan, error)
	// GetLatestByProject returns the project's most recent scan by creation
	// time, or apperrors.ErrNoScansYet when the project has none.
	GetLatestByProject(ctx context.Context, projectID uuid.UUID) (*models.Scan, error)
	// CountByProjectSince counts scans created at or after the given time,
	// used for monthly quota enforcement.
	CountByProjectSince(ctx context.Context, projectID uuid.UUID, since time.Time) (int, error)
	// UpdateNotes edits the one mutable field of a scan.
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error
}

type scanRepository struct {
	db *database.DB
}

// NewScanRepository creates a new scan repository.
func NewScanRepository(db *database.DB) ScanRepository {
	return &scanRepository{db: db}
}

// Create inserts a new scan.
func (r *scanRepository) Create(ctx context.Context, scan *models.Scan) error {
	if scan.ID == uuid.Nil {
		scan.ID = uuid.New()
	}
	scan.CreatedAt = time.Now()

	engines, err := json.Marshal(scan.Engines)
	if err != nil {
		return fmt.Errorf("failed to marshal engines: %w", err)
	}

	query := `
		INSERT INTO scans (id, project_id, engines, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.Exec(ctx, query, scan.ID, scan.ProjectID, engines, scan.Notes, scan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create scan: %w", err)
	}

	return nil
}

// Get retrieves a scan by ID.
func (r *scanRepository) Get(ctx context.Context, id uuid.UUID) (*models.Scan, error) {
	query := `
		SELECT id, project_id, engines, notes, created_at
		FROM scans
		WHERE id = $1`

	scan, err := scanScan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrScanNotFound
		}
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}

	return scan, nil
}

// GetLatestByProject retrieves the newest scan for a project.
func (r *scanRepository) GetLatestByProject(ctx context.Context, projectID uuid.UUID) (*models.Scan, error) {
	query := `
		SELECT id, project_id, engines, notes, created_at
		FROM scans
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	scan, err := scanScan(r.db.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoScansYet
		}
		return nil, fmt.Errorf("failed to get latest scan: %w", err)
	}

	return scan, nil
}

// CountByProjectSince counts scans created at or after since.
func (r *scanRepository) CountByProjectSince(ctx context.Context, projectID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM scans WHERE project_id = $1 AND created_at >= $2`,
		projectID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count scans: %w", err)
	}

	return count, nil
}

// UpdateNotes edits a scan's notes.
func (r *scanRepository) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	result, err := r.db.Exec(ctx, `UPDATE scans SET notes = $2 WHERE id = $1`, id, notes)
	if err != nil {
		return fmt.Errorf("failed to update scan notes: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrScanNotFound
	}

	return nil
}

func scanScan(row pgx.Row) (*models.Scan, error) {
	var scan models.Scan
	var engines []byte

	err := row.Scan(&scan.ID, &scan.ProjectID, &engines, &scan.Notes, &scan.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(engines, &scan.Engines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal engines: %w", err)
	}

	return &scan, nil
}

// Ensure scanRepository implements ScanRepository at compile time.
var _ ScanRepository = (*scanRepository)(nil)
