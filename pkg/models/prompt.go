package models

import (
	"time"

	"github.com/google/uuid"
)

// PromptSet is a named grouping of prompts sharing optional targeting
// metadata. Deleting a prompt set cascades to its prompts.
type PromptSet struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Name        string    `json:"name"`
	Persona     string    `json:"persona,omitempty"`
	FunnelStage string    `json:"funnel_stage,omitempty"`
	Country     string    `json:"country,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Prompt is a single natural-language question tracked for visibility.
// Position orders prompts within their set; the multi-engine prompt cap
// takes the first N prompts in stored order.
type Prompt struct {
	ID          uuid.UUID `json:"id"`
	PromptSetID uuid.UUID `json:"prompt_set_id"`
	Text        string    `json:"text"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}
