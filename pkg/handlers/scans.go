package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brandlens-ai/brandlens-engine/pkg/apperrors"
	"github.com/brandlens-ai/brandlens-engine/pkg/models"
	"github.com/brandlens-ai/brandlens-engine/pkg/services"
)

// RunScanRequest for POST /api/projects/{pid}/scans
type RunScanRequest struct {
	MultiEngine bool   `json:"multi_engine,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// UpdateScanNotesRequest for PATCH /api/scans/{id}/notes
type UpdateScanNotesRequest struct {
	Notes string `json:"notes"`
}

// LatestScanResponse for GET /api/projects/{pid}/scans/latest. Status is
// "ok" when a report is present and "no_scans_yet" for a project that has
// never been scanned.
type LatestScanResponse struct {
	Status string             `json:"status"`
	Report *models.ScanReport `json:"report,omitempty"`
}

// ScansHandler handles scan HTTP requests.
type ScansHandler struct {
	scanService services.ScanService
	logger      *zap.Logger
}

// NewScansHandler creates a new scans handler.
func NewScansHandler(scanService services.ScanService, logger *zap.Logger) *ScansHandler {
	return &ScansHandler{
		scanService: scanService,
		logger:      logger,
	}
}

// RegisterRoutes registers the scans handler's routes on the given mux.
func (h *ScansHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/projects/{pid}/scans", h.Run)
	mux.HandleFunc("GET /api/projects/{pid}/scans/latest", h.Latest)
	mux.HandleFunc("PATCH /api/scans/{id}/notes", h.UpdateNotes)
}

// Run handles POST /api/projects/{pid}/scans
func (h *ScansHandler) Run(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	var req RunScanRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
	}

	result, err := h.scanService.RunScan(r.Context(), projectID, nil, req.MultiEngine, req.Notes)
	if err != nil {
		h.writeRunScanError(w, projectID, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *ScansHandler) writeRunScanError(w http.ResponseWriter, projectID uuid.UUID, err error) {
	if errors.Is(err, apperrors.ErrProjectNotFound) {
		if err := ErrorResponse(w, http.StatusNotFound, "project_not_found", "Project not found"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if quotaErr, ok := apperrors.IsQuotaExceeded(err); ok {
		message := fmt.Sprintf("Monthly scan limit of %d reached for the %s plan", quotaErr.Limit, quotaErr.Plan)
		if err := ErrorResponse(w, http.StatusTooManyRequests, "quota_exceeded", message); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if errors.Is(err, apperrors.ErrNoPromptsToScan) {
		if err := ErrorResponse(w, http.StatusBadRequest, "no_prompts_to_scan", "Project has no prompts to scan"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if errors.Is(err, apperrors.ErrNoEnginesConfigured) {
		if err := ErrorResponse(w, http.StatusServiceUnavailable, "no_engines_configured", "No scan engines are configured"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	h.logger.Error("Failed to run scan",
		zap.String("project_id", projectID.String()),
		zap.Error(err))
	if err := ErrorResponse(w, http.StatusInternalServerError, "run_scan_failed", err.Error()); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

// Latest handles GET /api/projects/{pid}/scans/latest
func (h *ScansHandler) Latest(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	report, err := h.scanService.GetLatestReport(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoScansYet) {
			response := LatestScanResponse{Status: "no_scans_yet"}
			if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
				h.logger.Error("Failed to write response", zap.Error(err))
			}
			return
		}
		if errors.Is(err, apperrors.ErrProjectNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "project_not_found", "Project not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to get latest scan report",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "get_latest_scan_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := LatestScanResponse{Status: "ok", Report: report}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateNotes handles PATCH /api/scans/{id}/notes
func (h *ScansHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	scanID, ok := ParseScanID(w, r, h.logger)
	if !ok {
		return
	}

	var req UpdateScanNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.scanService.UpdateNotes(r.Context(), scanID, req.Notes); err != nil {
		if errors.Is(err, apperrors.ErrScanNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "scan_not_found", "Scan not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to update scan notes",
			zap.String("scan_id", scanID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "update_scan_notes_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Notes updated"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
