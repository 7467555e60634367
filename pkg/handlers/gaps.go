package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/brandlens-ai/brandlens-engine/pkg/apperrors"
	"github.com/brandlens-ai/brandlens-engine/pkg/models"
	"github.com/brandlens-ai/brandlens-engine/pkg/services"
)

// GapListResponse for GET /api/projects/{pid}/gaps
type GapListResponse struct {
	Gaps  []*models.GapAnalysis `json:"gaps"`
	Total int                   `json:"total"`
}

// GapsHandler handles gap analysis HTTP requests.
type GapsHandler struct {
	gapService services.GapService
	logger     *zap.Logger
}

// NewGapsHandler creates a new gaps handler.
func NewGapsHandler(gapService services.GapService, logger *zap.Logger) *GapsHandler {
	return &GapsHandler{
		gapService: gapService,
		logger:     logger,
	}
}

// RegisterRoutes registers the gaps handler's routes on the given mux.
func (h *GapsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/projects/{pid}/gaps", h.List)
	mux.HandleFunc("POST /api/prompts/{id}/suggestion", h.GenerateSuggestion)
}

// List handles GET /api/projects/{pid}/gaps
func (h *GapsHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	gaps, err := h.gapService.GetGaps(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrProjectNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "project_not_found", "Project not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to get gaps",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "get_gaps_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := GapListResponse{
		Gaps:  gaps,
		Total: len(gaps),
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GenerateSuggestion handles POST /api/prompts/{id}/suggestion
func (h *GapsHandler) GenerateSuggestion(w http.ResponseWriter, r *http.Request) {
	promptID, ok := ParsePromptID(w, r, h.logger)
	if !ok {
		return
	}

	suggestion, err := h.gapService.GenerateSuggestion(r.Context(), promptID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPromptNotFound):
			if err := ErrorResponse(w, http.StatusNotFound, "prompt_not_found", "Prompt not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrPromptSetNotFound), errors.Is(err, apperrors.ErrProjectNotFound):
			if err := ErrorResponse(w, http.StatusNotFound, "prompt_orphaned", "Prompt's project no longer exists"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrSuggestionFailed):
			h.logger.Warn("Suggestion generation failed",
				zap.String("prompt_id", promptID.String()),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusBadGateway, "suggestion_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Failed to generate suggestion",
				zap.String("prompt_id", promptID.String()),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "generate_suggestion_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: suggestion}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
