// Package models contains domain types for brandlens-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a tracked brand context: the brand being measured and the
// competitors it is measured against. Competitor names are opaque strings
// used as map keys in scan results; the system does not deduplicate them.
type Project struct {
	ID          uuid.UUID  `json:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty"` // nullable: a project may exist without an owner
	Name        string     `json:"name"`
	BrandName   string     `json:"brand_name"`
	BrandDomain string     `json:"brand_domain"`
	Competitors []string   `json:"competitors"`
	CreatedAt   time.Time  `json:"created_at"`
}
