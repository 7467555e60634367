package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for brandlens-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (provider API keys, database password) must only come from
// environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8090"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// MigrationsPath is the directory containing SQL migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// Engine credentials and call behavior
	Engines EnginesConfig `yaml:"engines"`

	// Scoring configuration
	Scoring ScoringConfig `yaml:"scoring"`

	// Plans configuration
	Plans PlansConfig `yaml:"plans"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"brandlens"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"brandlens_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// EnginesConfig holds per-provider credentials and shared call settings.
// An engine is considered configured only when its API key is present; this
// is the explicit configuration object the adapter registry is built from.
type EnginesConfig struct {
	OpenAIAPIKey     string `yaml:"-" env:"OPENAI_API_KEY"`
	AnthropicAPIKey  string `yaml:"-" env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey     string `yaml:"-" env:"GEMINI_API_KEY"`
	PerplexityAPIKey string `yaml:"-" env:"PERPLEXITY_API_KEY"`
	GrokAPIKey       string `yaml:"-" env:"GROK_API_KEY"`

	// Model overrides. Defaults match the reference deployment.
	OpenAIModel     string `yaml:"openai_model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	AnthropicModel  string `yaml:"anthropic_model" env:"ANTHROPIC_MODEL" env-default:"claude-3-5-haiku-20241022"`
	GeminiModel     string `yaml:"gemini_model" env:"GEMINI_MODEL" env-default:"gemini-1.5-flash"`
	PerplexityModel string `yaml:"perplexity_model" env:"PERPLEXITY_MODEL" env-default:"sonar"`
	GrokModel       string `yaml:"grok_model" env:"GROK_MODEL" env-default:"grok-2-latest"`

	// RequestTimeoutSeconds bounds each individual provider call so one
	// stuck provider cannot hang an entire scan.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" env:"ENGINE_REQUEST_TIMEOUT_SECONDS" env-default:"30"`
}

// RequestTimeout returns the per-call timeout as a duration.
func (c *EnginesConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ScoringConfig selects the engine used as the semantic score extractor.
type ScoringConfig struct {
	// Engine is the engine id used for score extraction and gap suggestions.
	Engine string `yaml:"engine" env:"SCORING_ENGINE" env-default:"chatgpt"`
}

// PlansConfig holds plan/entitlement settings.
type PlansConfig struct {
	// DefaultPlan is the plan applied when no billing integration resolves one.
	DefaultPlan string `yaml:"default_plan" env:"DEFAULT_PLAN" env-default:"free"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. If config.yaml does not exist, configuration comes from the
// environment alone. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment config: %w", err)
		}
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
