package models

import (
	"time"

	"github.com/google/uuid"
)

// Scan is one execution of the visibility pipeline against a project's full
// prompt list. Immutable after creation except for Notes.
type Scan struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Engines   []string  `json:"engines"` // non-empty whenever scan creation succeeds
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ScanResult is the atomic unit of measurement: one (scan, prompt, engine)
// triple. CompetitorScores covers every competitor configured on the project
// at scan time; competitors added later do not appear retroactively.
// Immutable once created.
type ScanResult struct {
	ID               uuid.UUID      `json:"id"`
	ScanID           uuid.UUID      `json:"scan_id"`
	PromptID         uuid.UUID      `json:"prompt_id"`
	Engine           string         `json:"engine"`
	Answer           string         `json:"answer"`
	BrandScore       int            `json:"brand_score"` // 0-2
	CompetitorScores map[string]int `json:"competitor_scores"`
	CreatedAt        time.Time      `json:"created_at"`
}

// ScanRunResult is the orchestrator's summary of one completed scan run.
// A run in which every pair failed still succeeds with ResultsCount 0;
// callers distinguish that from a hard failure by the count, not an error.
type ScanRunResult struct {
	Scan            *Scan    `json:"scan"`
	ResultsCount    int      `json:"results_count"`
	VisibilityScore float64  `json:"visibility_score"`
	EnginesUsed     []string `json:"engines_used"`
	PromptsScanned  int      `json:"prompts_scanned"`
}

// ScanReportRow is one scan result joined with its prompt text for reporting.
type ScanReportRow struct {
	ScanResult
	PromptText string `json:"prompt_text"`
}

// ScanReport is the latest-scan view for a project: every result joined with
// its prompt plus the aggregate scores.
type ScanReport struct {
	Scan             *Scan              `json:"scan"`
	Results          []ScanReportRow    `json:"results"`
	VisibilityScore  float64            `json:"visibility_score"`
	CompetitorScores map[string]float64 `json:"competitor_scores"`
}
