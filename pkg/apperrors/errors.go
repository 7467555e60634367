package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrPromptSetNotFound   = errors.New("prompt set not found")
	ErrPromptNotFound      = errors.New("prompt not found")
	ErrScanNotFound        = errors.New("scan not found")
	ErrNoScansYet          = errors.New("no scans yet")
	ErrNoPromptsToScan     = errors.New("project has no prompts to scan")
	ErrSuggestionFailed    = errors.New("suggestion generation failed")
	ErrNoEnginesConfigured = errors.New("no engines configured")
)

// QuotaExceededError is returned when a plan's monthly scan quota is
// exhausted. It carries the plan name and limit so callers can render a
// specific upgrade message.
type QuotaExceededError struct {
	Plan  string
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("monthly scan quota exceeded: plan %q allows %d scans per month", e.Plan, e.Limit)
}

// IsQuotaExceeded reports whether err is a QuotaExceededError.
func IsQuotaExceeded(err error) (*QuotaExceededError, bool) {
	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
