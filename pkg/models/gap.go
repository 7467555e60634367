package models

import (
	"time"

	"github.com/google/uuid"
)

// GapAnalysis is one prompt where the brand scored 0 while at least one
// competitor scored 1 or more in the latest scan. Derived on read, never
// persisted; only the suggestion fields live in a side table keyed by prompt
// id. A stored suggestion stays attached to its prompt across later scans
// even if the gap condition no longer holds.
type GapAnalysis struct {
	PromptID          uuid.UUID      `json:"prompt_id"`
	PromptText        string         `json:"prompt_text"`
	BrandScore        int            `json:"brand_score"` // always 0 by construction
	CompetitorScores  map[string]int `json:"competitor_scores"`
	SuggestedAnswer   string         `json:"suggested_answer,omitempty"`
	SuggestedPageType string         `json:"suggested_page_type,omitempty"`
}

// GapSuggestion is a drafted answer and content-type recommendation for a
// gap, stored keyed by prompt id.
type GapSuggestion struct {
	PromptID          uuid.UUID `json:"prompt_id"`
	SuggestedAnswer   string    `json:"suggested_answer"`
	SuggestedPageType string    `json:"suggested_page_type"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
