package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brandlens-ai/brandlens-engine/pkg/apperrors"
	"github.com/brandlens-ai/brandlens-engine/pkg/engines"
	"github.com/brandlens-ai/brandlens-engine/pkg/models"
	"github.com/brandlens-ai/brandlens-engine/pkg/repositories"
)

// ScanService orchestrates scan runs: precondition checks, engine and prompt
// resolution, the sequential generate+score loop, and aggregation.
type ScanService interface {
	// RunScan executes the pipeline for a project. userID identifies the
	// requesting user when known and is recorded for attribution; plan
	// resolution does not depend on it until a billing backend exists.
	// Individual pair failures are absorbed: a run in which every pair
	// failed still returns a result with ResultsCount 0 rather than an
	// error.
	RunScan(ctx context.Context, projectID uuid.UUID, userID *uuid.UUID, multiEngine bool, notes string) (*models.ScanRunResult, error)

	// GetLatestReport returns the project's most recent scan joined with
	// prompt text and aggregate scores. Returns apperrors.ErrNoScansYet when
	// the project has never been scanned.
	GetLatestReport(ctx context.Context, projectID uuid.UUID) (*models.ScanReport, error)

	// UpdateNotes edits a scan's notes, the one mutable field after creation.
	UpdateNotes(ctx context.Context, scanID uuid.UUID, notes string) error
}

type scanService struct {
	projects    repositories.ProjectRepository
	promptsRepo repositories.PromptRepository
	scans       repositories.ScanRepository
	results     repositories.ScanResultRepository
	plans       PlanService
	registry    engines.Registry
	generator   AnswerGenerator
	scorer      VisibilityScorer
	defaultPlan string
	logger      *zap.Logger
}

// NewScanService creates the scan orchestrator.
func NewScanService(
	projects repositories.ProjectRepository,
	promptsRepo repositories.PromptRepository,
	scans repositories.ScanRepository,
	results repositories.ScanResultRepository,
	plans PlanService,
	registry engines.Registry,
	generator AnswerGenerator,
	scorer VisibilityScorer,
	defaultPlan string,
	logger *zap.Logger,
) ScanService {
	return &scanService{
		projects:    projects,
		promptsRepo: promptsRepo,
		scans:       scans,
		results:     results,
		plans:       plans,
		registry:    registry,
		generator:   generator,
		scorer:      scorer,
		defaultPlan: defaultPlan,
		logger:      logger.Named("scan"),
	}
}

// RunScan implements ScanService.
func (s *scanService) RunScan(ctx context.Context, projectID uuid.UUID, userID *uuid.UUID, multiEngine bool, notes string) (*models.ScanRunResult, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// Plan resolution. Without a billing integration every owner resolves to
	// the deployment's default plan; the quota check still runs against it.
	planID := s.defaultPlan
	plan := s.plans.Get(planID)

	monthStart := startOfMonth(time.Now())
	scansThisMonth, err := s.scans.CountByProjectSince(ctx, projectID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("count scans for quota check: %w", err)
	}
	if !s.plans.CanRunScan(planID, scansThisMonth) {
		return nil, &apperrors.QuotaExceededError{Plan: plan.Name, Limit: plan.MaxScansPerMonth}
	}

	prompts, err := s.promptsRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	if len(prompts) == 0 {
		return nil, apperrors.ErrNoPromptsToScan
	}

	engineSet := s.resolveEngines(planID, multiEngine)
	if len(engineSet) == 0 {
		return nil, apperrors.ErrNoEnginesConfigured
	}

	// Multi-engine scans cap the prompt list to bound prompts x engines cost.
	// Single-engine scans are never capped.
	if len(engineSet) > 1 {
		if maxPrompts := s.plans.MaxPromptsForMultiEngine(planID, len(prompts)); maxPrompts < len(prompts) {
			prompts = prompts[:maxPrompts]
		}
	}

	engineIDs := make([]string, len(engineSet))
	for i, e := range engineSet {
		engineIDs[i] = string(e)
	}

	scan := &models.Scan{
		ProjectID: projectID,
		Engines:   engineIDs,
		Notes:     notes,
	}
	if err := s.scans.Create(ctx, scan); err != nil {
		return nil, fmt.Errorf("create scan: %w", err)
	}

	requestedBy := "unknown"
	if userID != nil {
		requestedBy = userID.String()
	}
	s.logger.Info("scan started",
		zap.String("scan_id", scan.ID.String()),
		zap.String("project_id", projectID.String()),
		zap.String("requested_by", requestedBy),
		zap.Strings("engines", engineIDs),
		zap.Int("prompts", len(prompts)))

	// Sequential, prompt-major/engine-minor. A failed generation means no
	// row for the pair; a failed scoring after a successful generation means
	// a zero-filled row (the scorer never errors). Downstream consumers rely
	// on that distinction when using row counts as denominators.
	resultsCount := 0
	var brandScoreSum int

	for _, prompt := range prompts {
		if ctx.Err() != nil {
			s.logger.Warn("scan interrupted by caller; stopping before next pair",
				zap.String("scan_id", scan.ID.String()))
			break
		}

		for _, engine := range engineSet {
			answer, err := s.generator.Generate(ctx, prompt.Text, engine)
			if err != nil {
				s.logger.Warn("pair skipped: answer generation failed",
					zap.String("scan_id", scan.ID.String()),
					zap.String("prompt_id", prompt.ID.String()),
					zap.String("engine", string(engine)),
					zap.Error(err))
				continue
			}

			brandScore, competitorScores := s.scorer.Score(ctx, answer, project.BrandName, project.BrandDomain, project.Competitors)

			result := &models.ScanResult{
				ScanID:           scan.ID,
				PromptID:         prompt.ID,
				Engine:           string(engine),
				Answer:           answer,
				BrandScore:       brandScore,
				CompetitorScores: competitorScores,
			}
			if err := s.results.Create(ctx, result); err != nil {
				s.logger.Warn("pair skipped: persisting result failed",
					zap.String("scan_id", scan.ID.String()),
					zap.String("prompt_id", prompt.ID.String()),
					zap.String("engine", string(engine)),
					zap.Error(err))
				continue
			}

			resultsCount++
			brandScoreSum += brandScore
		}
	}

	visibilityScore := 0.0
	if resultsCount > 0 {
		visibilityScore = float64(brandScoreSum) / float64(resultsCount)
	}

	s.logger.Info("scan completed",
		zap.String("scan_id", scan.ID.String()),
		zap.Int("results", resultsCount),
		zap.Float64("visibility_score", visibilityScore))

	return &models.ScanRunResult{
		Scan:            scan,
		ResultsCount:    resultsCount,
		VisibilityScore: visibilityScore,
		EnginesUsed:     engineIDs,
		PromptsScanned:  len(prompts),
	}, nil
}

// resolveEngines picks the engine set for a scan. Multi-engine comparison is
// opt-in and plan-gated; engines entitled by plan but never configured are
// silently excluded. The default path is the single primary engine
// regardless of tier, which bounds API cost per scan.
func (s *scanService) resolveEngines(planID string, multiEngine bool) []engines.Engine {
	plan := s.plans.Get(planID)

	if multiEngine && plan.AllowMultiEngine {
		var resolved []engines.Engine
		for _, engine := range s.plans.AllowedEngines(planID) {
			if s.registry.Configured(engine) {
				resolved = append(resolved, engine)
			}
		}
		if len(resolved) > 0 {
			return resolved
		}
	}

	if s.registry.Configured(engines.PrimaryEngine) {
		return []engines.Engine{engines.PrimaryEngine}
	}
	return nil
}

// GetLatestReport implements ScanService.
func (s *scanService) GetLatestReport(ctx context.Context, projectID uuid.UUID) (*models.ScanReport, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}

	scan, err := s.scans.GetLatestByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	rows, err := s.results.ListByScanWithPrompts(ctx, scan.ID)
	if err != nil {
		return nil, fmt.Errorf("list scan results: %w", err)
	}

	report := &models.ScanReport{
		Scan:             scan,
		Results:          make([]models.ScanReportRow, 0, len(rows)),
		CompetitorScores: make(map[string]float64),
	}

	var brandScoreSum int
	competitorSums := make(map[string]int)
	for _, row := range rows {
		report.Results = append(report.Results, *row)
		brandScoreSum += row.BrandScore
		for name, score := range row.CompetitorScores {
			competitorSums[name] += score
		}
	}

	if len(rows) > 0 {
		report.VisibilityScore = float64(brandScoreSum) / float64(len(rows))
		for name, sum := range competitorSums {
			report.CompetitorScores[name] = float64(sum) / float64(len(rows))
		}
	}

	return report, nil
}

// UpdateNotes implements ScanService.
func (s *scanService) UpdateNotes(ctx context.Context, scanID uuid.UUID, notes string) error {
	return s.scans.UpdateNotes(ctx, scanID, notes)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Ensure scanService implements ScanService at compile time.
var _ ScanService = (*scanService)(nil)
