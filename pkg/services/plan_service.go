// Package services contains the business logic for brandlens-engine.
package services

import (
	"github.com/brandlens-ai/brandlens-engine/pkg/engines"
	"github.com/brandlens-ai/brandlens-engine/pkg/models"
)

// PlanService is the entitlement gate the scan orchestrator consults. The
// catalog implementation below is in-process; a billing integration can
// replace it behind this interface.
type PlanService interface {
	// Get resolves a plan id, falling back to the default plan for unknown ids.
	Get(planID string) *models.Plan

	// AllowedEngines returns the engines a plan may use in a scan.
	AllowedEngines(planID string) []engines.Engine

	// MaxPromptsForMultiEngine caps the prompt count for a multi-engine
	// scan. Single-engine scans are never capped.
	MaxPromptsForMultiEngine(planID string, totalPrompts int) int

	// CanRunScan reports whether another scan fits in the plan's monthly quota.
	CanRunScan(planID string, scansThisMonth int) bool
}

// Plan tiers.
const (
	PlanFree   = "free"
	PlanPro    = "pro"
	PlanAgency = "agency"
)

// planCatalog is the built-in entitlement catalog.
var planCatalog = map[string]*models.Plan{
	PlanFree: {
		ID:                  PlanFree,
		Name:                "Free",
		AllowedEngines:      []string{string(engines.EngineChatGPT)},
		AllowMultiEngine:    false,
		MaxPromptsPerScan:   5,
		MaxScansPerMonth:    3,
		IncludesGapAnalysis: false,
	},
	PlanPro: {
		ID:                  PlanPro,
		Name:                "Pro",
		AllowedEngines:      []string{string(engines.EngineChatGPT), string(engines.EngineClaude), string(engines.EngineGemini)},
		AllowMultiEngine:    true,
		MaxPromptsPerScan:   10,
		MaxScansPerMonth:    30,
		IncludesGapAnalysis: true,
	},
	PlanAgency: {
		ID:                  PlanAgency,
		Name:                "Agency",
		AllowedEngines:      []string{string(engines.EngineChatGPT), string(engines.EngineClaude), string(engines.EngineGemini), string(engines.EnginePerplexity), string(engines.EngineGrok)},
		AllowMultiEngine:    true,
		MaxPromptsPerScan:   25,
		MaxScansPerMonth:    200,
		IncludesGapAnalysis: true,
	},
}

type planService struct {
	defaultPlan string
}

// NewPlanService creates the catalog-backed plan service.
func NewPlanService(defaultPlan string) PlanService {
	if _, ok := planCatalog[defaultPlan]; !ok {
		defaultPlan = PlanFree
	}
	return &planService{defaultPlan: defaultPlan}
}

// Get implements PlanService.
func (s *planService) Get(planID string) *models.Plan {
	if plan, ok := planCatalog[planID]; ok {
		return plan
	}
	return planCatalog[s.defaultPlan]
}

// AllowedEngines implements PlanService.
func (s *planService) AllowedEngines(planID string) []engines.Engine {
	plan := s.Get(planID)
	allowed := make([]engines.Engine, 0, len(plan.AllowedEngines))
	for _, id := range plan.AllowedEngines {
		allowed = append(allowed, engines.Engine(id))
	}
	return allowed
}

// MaxPromptsForMultiEngine implements PlanService.
func (s *planService) MaxPromptsForMultiEngine(planID string, totalPrompts int) int {
	plan := s.Get(planID)
	if plan.MaxPromptsPerScan <= 0 || totalPrompts <= plan.MaxPromptsPerScan {
		return totalPrompts
	}
	return plan.MaxPromptsPerScan
}

// CanRunScan implements PlanService.
func (s *planService) CanRunScan(planID string, scansThisMonth int) bool {
	plan := s.Get(planID)
	if plan.MaxScansPerMonth <= 0 {
		return true
	}
	return scansThisMonth < plan.MaxScansPerMonth
}

// Ensure planService implements PlanService at compile time.
var _ PlanService = (*planService)(nil)
