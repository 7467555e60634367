package engines

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/brandlens-ai/brandlens-engine/pkg/config"
	"github.com/brandlens-ai/brandlens-engine/pkg/logging"
)

// Registry resolves engine ids to configured adapters. Which engines are
// available is decided once at construction time from the credentials present
// in configuration, never from ambient process state.
type Registry interface {
	// Get returns the adapter for an engine, or a *ConfigError if the engine
	// was never configured with a credential. No network I/O is attempted.
	Get(engine Engine) (Adapter, error)

	// Configured reports whether an engine has a credential.
	Configured(engine Engine) bool

	// Available returns the configured engines in AllEngines order.
	Available() []Engine
}

type registry struct {
	adapters map[Engine]Adapter
	logger   *zap.Logger
}

// NewRegistry builds a registry from the engine credentials present in cfg.
// Engines without an API key are simply absent; requesting them yields a
// *ConfigError.
func NewRegistry(ctx context.Context, cfg *config.EnginesConfig, logger *zap.Logger) (Registry, error) {
	log := logger.Named("engines")
	timeout := cfg.RequestTimeout()
	adapters := make(map[Engine]Adapter)

	if cfg.OpenAIAPIKey != "" {
		adapters[EngineChatGPT] = newOpenAIAdapter(EngineChatGPT, cfg.OpenAIAPIKey, cfg.OpenAIModel, "", timeout, log)
	}
	if cfg.AnthropicAPIKey != "" {
		adapters[EngineClaude] = newAnthropicAdapter(cfg.AnthropicAPIKey, cfg.AnthropicModel, timeout, log)
	}
	if cfg.GeminiAPIKey != "" {
		adapter, err := newGeminiAdapter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, timeout, log)
		if err != nil {
			return nil, fmt.Errorf("initialize gemini adapter: %w", err)
		}
		adapters[EngineGemini] = adapter
	}
	if cfg.PerplexityAPIKey != "" {
		adapters[EnginePerplexity] = newOpenAIAdapter(EnginePerplexity, cfg.PerplexityAPIKey, cfg.PerplexityModel, perplexityBaseURL, timeout, log)
	}
	if cfg.GrokAPIKey != "" {
		adapters[EngineGrok] = newOpenAIAdapter(EngineGrok, cfg.GrokAPIKey, cfg.GrokModel, grokBaseURL, timeout, log)
	}

	for _, engine := range AllEngines {
		if _, ok := adapters[engine]; ok {
			log.Info("engine configured",
				zap.String("engine", string(engine)),
				zap.String("api_key", logging.RedactKey(apiKeyFor(cfg, engine))))
		}
	}

	return &registry{adapters: adapters, logger: log}, nil
}

// Get implements Registry.
func (r *registry) Get(engine Engine) (Adapter, error) {
	adapter, ok := r.adapters[engine]
	if !ok {
		return nil, &ConfigError{Engine: engine}
	}
	return adapter, nil
}

// Configured implements Registry.
func (r *registry) Configured(engine Engine) bool {
	_, ok := r.adapters[engine]
	return ok
}

// Available implements Registry.
func (r *registry) Available() []Engine {
	var available []Engine
	for _, engine := range AllEngines {
		if _, ok := r.adapters[engine]; ok {
			available = append(available, engine)
		}
	}
	return available
}

func apiKeyFor(cfg *config.EnginesConfig, engine Engine) string {
	switch engine {
	case EngineChatGPT:
		return cfg.OpenAIAPIKey
	case EngineClaude:
		return cfg.AnthropicAPIKey
	case EngineGemini:
		return cfg.GeminiAPIKey
	case EnginePerplexity:
		return cfg.PerplexityAPIKey
	case EngineGrok:
		return cfg.GrokAPIKey
	}
	return ""
}

// Ensure registry implements Registry at compile time.
var _ Registry = (*registry)(nil)
