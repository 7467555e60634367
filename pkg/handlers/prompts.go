package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/brandlens-ai/brandlens-engine/pkg/apperrors"
	"github.com/brandlens-ai/brandlens-engine/pkg/models"
	"github.com/brandlens-ai/brandlens-engine/pkg/services"
)

// CreatePromptSetRequest for POST /api/projects/{pid}/prompt-sets
type CreatePromptSetRequest struct {
	Name        string `json:"name" validate:"required"`
	Persona     string `json:"persona,omitempty"`
	FunnelStage string `json:"funnel_stage,omitempty"`
	Country     string `json:"country,omitempty"`
}

// CreatePromptRequest for POST /api/prompt-sets/{sid}/prompts
type CreatePromptRequest struct {
	Text     string `json:"text" validate:"required"`
	Position int    `json:"position,omitempty"`
}

// PromptSetListResponse for GET /api/projects/{pid}/prompt-sets
type PromptSetListResponse struct {
	PromptSets []*models.PromptSet `json:"prompt_sets"`
	Total      int                 `json:"total"`
}

// PromptListResponse for GET /api/prompt-sets/{sid}/prompts
type PromptListResponse struct {
	Prompts []*models.Prompt `json:"prompts"`
	Total   int              `json:"total"`
}

// PromptsHandler handles prompt set and prompt HTTP requests.
type PromptsHandler struct {
	projectService services.ProjectService
	logger         *zap.Logger
}

// NewPromptsHandler creates a new prompts handler.
func NewPromptsHandler(projectService services.ProjectService, logger *zap.Logger) *PromptsHandler {
	return &PromptsHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// RegisterRoutes registers the prompts handler's routes on the given mux.
func (h *PromptsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/projects/{pid}/prompt-sets", h.CreateSet)
	mux.HandleFunc("GET /api/projects/{pid}/prompt-sets", h.ListSets)
	mux.HandleFunc("DELETE /api/prompt-sets/{sid}", h.DeleteSet)
	mux.HandleFunc("POST /api/prompt-sets/{sid}/prompts", h.CreatePrompt)
	mux.HandleFunc("GET /api/prompt-sets/{sid}/prompts", h.ListPrompts)
	mux.HandleFunc("DELETE /api/prompts/{id}", h.DeletePrompt)
}

// CreateSet handles POST /api/projects/{pid}/prompt-sets
func (h *PromptsHandler) CreateSet(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	var req CreatePromptSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := validate.Struct(req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	set := &models.PromptSet{
		ProjectID:   projectID,
		Name:        req.Name,
		Persona:     req.Persona,
		FunnelStage: req.FunnelStage,
		Country:     req.Country,
	}

	if err := h.projectService.CreatePromptSet(r.Context(), set); err != nil {
		if errors.Is(err, apperrors.ErrProjectNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "project_not_found", "Project not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to create prompt set",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "create_prompt_set_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: set}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListSets handles GET /api/projects/{pid}/prompt-sets
func (h *PromptsHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	sets, err := h.projectService.ListPromptSets(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrProjectNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "project_not_found", "Project not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to list prompt sets",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_prompt_sets_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := PromptSetListResponse{
		PromptSets: sets,
		Total:      len(sets),
	}
	if response.PromptSets == nil {
		response.PromptSets = []*models.PromptSet{}
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteSet handles DELETE /api/prompt-sets/{sid}
func (h *PromptsHandler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	setID, ok := ParsePromptSetID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.projectService.DeletePromptSet(r.Context(), setID); err != nil {
		if errors.Is(err, apperrors.ErrPromptSetNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "prompt_set_not_found", "Prompt set not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to delete prompt set",
			zap.String("prompt_set_id", setID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "delete_prompt_set_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Prompt set deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreatePrompt handles POST /api/prompt-sets/{sid}/prompts
func (h *PromptsHandler) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	setID, ok := ParsePromptSetID(w, r, h.logger)
	if !ok {
		return
	}

	var req CreatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if err := validate.Struct(req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	prompt := &models.Prompt{
		PromptSetID: setID,
		Text:        req.Text,
		Position:    req.Position,
	}

	if err := h.projectService.CreatePrompt(r.Context(), prompt); err != nil {
		if errors.Is(err, apperrors.ErrPromptSetNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "prompt_set_not_found", "Prompt set not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to create prompt",
			zap.String("prompt_set_id", setID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "create_prompt_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: prompt}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListPrompts handles GET /api/prompt-sets/{sid}/prompts
func (h *PromptsHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	setID, ok := ParsePromptSetID(w, r, h.logger)
	if !ok {
		return
	}

	prompts, err := h.projectService.ListPrompts(r.Context(), setID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPromptSetNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "prompt_set_not_found", "Prompt set not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to list prompts",
			zap.String("prompt_set_id", setID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_prompts_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := PromptListResponse{
		Prompts: prompts,
		Total:   len(prompts),
	}
	if response.Prompts == nil {
		response.Prompts = []*models.Prompt{}
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeletePrompt handles DELETE /api/prompts/{id}
func (h *PromptsHandler) DeletePrompt(w http.ResponseWriter, r *http.Request) {
	promptID, ok := ParsePromptID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.projectService.DeletePrompt(r.Context(), promptID); err != nil {
		if errors.Is(err, apperrors.ErrPromptNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "prompt_not_found", "Prompt not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to delete prompt",
			zap.String("prompt_id", promptID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "delete_prompt_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Prompt deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
