package models

// Plan is an entitlement profile bounding engines per scan, prompts per
// multi-engine scan, and scans per month. Consumed by the scan orchestrator;
// owned by the billing system.
type Plan struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	AllowedEngines      []string `json:"allowed_engines"`
	AllowMultiEngine    bool     `json:"allow_multi_engine"`
	MaxPromptsPerScan   int      `json:"max_prompts_per_scan"` // cap applied only in multi-engine mode; 0 = unlimited
	MaxScansPerMonth    int      `json:"max_scans_per_month"`  // 0 = unlimited
	IncludesGapAnalysis bool     `json:"includes_gap_analysis"`
}
