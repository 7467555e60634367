package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brandlens-ai/brandlens-engine/pkg/apperrors"
	"github.com/brandlens-ai/brandlens-engine/pkg/models"
)

func newScansMux(service *mockScanService) *http.ServeMux {
	mux := http.NewServeMux()
	NewScansHandler(service, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestScansHandler_Run_Success(t *testing.T) {
	projectID := uuid.New()
	service := &mockScanService{
		runScanFunc: func(ctx context.Context, pid uuid.UUID, userID *uuid.UUID, multiEngine bool, notes string) (*models.ScanRunResult, error) {
			assert.Equal(t, projectID, pid)
			assert.True(t, multiEngine)
			assert.Equal(t, "quarterly check", notes)
			return &models.ScanRunResult{
				Scan:            &models.Scan{ID: uuid.New(), ProjectID: pid},
				ResultsCount:    4,
				VisibilityScore: 1.25,
				EnginesUsed:     []string{"chatgpt", "claude"},
				PromptsScanned:  2,
			}, nil
		},
	}
	mux := newScansMux(service)

	body := strings.NewReader(`{"multi_engine": true, "notes": "quarterly check"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+projectID.String()+"/scans", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var response ApiResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.True(t, response.Success)
}

func TestScansHandler_Run_EmptyBodyDefaults(t *testing.T) {
	var gotMulti bool
	service := &mockScanService{
		runScanFunc: func(ctx context.Context, pid uuid.UUID, userID *uuid.UUID, multiEngine bool, notes string) (*models.ScanRunResult, error) {
			gotMulti = multiEngine
			return &models.ScanRunResult{Scan: &models.Scan{ID: uuid.New()}}, nil
		},
	}
	mux := newScansMux(service)

	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+uuid.New().String()+"/scans", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.False(t, gotMulti)
}

func TestScansHandler_Run_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"project missing", apperrors.ErrProjectNotFound, http.StatusNotFound, "project_not_found"},
		{"quota", &apperrors.QuotaExceededError{Plan: "Free", Limit: 3}, http.StatusTooManyRequests, "quota_exceeded"},
		{"no prompts", apperrors.ErrNoPromptsToScan, http.StatusBadRequest, "no_prompts_to_scan"},
		{"no engines", apperrors.ErrNoEnginesConfigured, http.StatusServiceUnavailable, "no_engines_configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockScanService{
				runScanFunc: func(ctx context.Context, pid uuid.UUID, userID *uuid.UUID, multiEngine bool, notes string) (*models.ScanRunResult, error) {
					return nil, tt.err
				},
			}
			mux := newScansMux(service)

			req := httptest.NewRequest(http.MethodPost, "/api/projects/"+uuid.New().String()+"/scans", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body["error"])
		})
	}
}

func TestScansHandler_Run_InvalidProjectID(t *testing.T) {
	mux := newScansMux(&mockScanService{})

	req := httptest.NewRequest(http.MethodPost, "/api/projects/not-a-uuid/scans", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScansHandler_Latest_NoScansYet(t *testing.T) {
	mux := newScansMux(&mockScanService{})

	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+uuid.New().String()+"/scans/latest", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no_scans_yet")
}

func TestScansHandler_Latest_WithReport(t *testing.T) {
	service := &mockScanService{
		getLatestReportFunc: func(ctx context.Context, pid uuid.UUID) (*models.ScanReport, error) {
			return &models.ScanReport{
				Scan:             &models.Scan{ID: uuid.New(), ProjectID: pid},
				Results:          []models.ScanReportRow{},
				VisibilityScore:  1.5,
				CompetitorScores: map[string]float64{"Acme": 0.5},
			}, nil
		},
	}
	mux := newScansMux(service)

	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+uuid.New().String()+"/scans/latest", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"visibility_score":1.5`)
}

func TestScansHandler_UpdateNotes(t *testing.T) {
	var gotNotes string
	service := &mockScanService{
		updateNotesFunc: func(ctx context.Context, scanID uuid.UUID, notes string) error {
			gotNotes = notes
			return nil
		},
	}
	mux := newScansMux(service)

	body := strings.NewReader(`{"notes": "updated"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/scans/"+uuid.New().String()+"/notes", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "updated", gotNotes)
}

func TestScansHandler_UpdateNotes_ScanNotFound(t *testing.T) {
	service := &mockScanService{
		updateNotesFunc: func(ctx context.Context, scanID uuid.UUID, notes string) error {
			return apperrors.ErrScanNotFound
		},
	}
	mux := newScansMux(service)

	body := strings.NewReader(`{"notes": "x"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/scans/"+uuid.New().String()+"/notes", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
