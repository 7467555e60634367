package engines

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError indicates an engine was requested but never configured with a
// credential. It is surfaced before any network I/O so operators can tell
// "never configured" from "provider is down".
type ConfigError struct {
	Engine Engine
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("engine %q is not configured: missing API key", e.Engine)
}

// IsConfigError reports whether err is an engine configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ProviderError wraps a runtime failure from a provider call with the engine
// it came from and whether a retry could plausibly succeed.
type ProviderError struct {
	Engine    Engine
	Message   string
	Retryable bool
	Cause     error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("engine %s: %s: %v", e.Engine, e.Message, e.Cause)
	}
	return fmt.Sprintf("engine %s: %s", e.Engine, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// IsRetryable implements the retry.RetryableError interface. This allows the
// retry package to check retryability without importing engines.
func (e *ProviderError) IsRetryable() bool {
	return e.Retryable
}

// classifyProviderError wraps a raw provider error, marking transient
// failures (timeouts, rate limits, 5xx) as retryable.
func classifyProviderError(engine Engine, err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}

	lower := strings.ToLower(err.Error())

	switch {
	case strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key"):
		return &ProviderError{Engine: engine, Message: "authentication failed", Retryable: false, Cause: err}
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded") ||
		strings.Contains(lower, "context canceled"):
		return &ProviderError{Engine: engine, Message: "request timeout", Retryable: true, Cause: err}
	case strings.Contains(lower, "429") || strings.Contains(lower, "rate limit"):
		return &ProviderError{Engine: engine, Message: "rate limited", Retryable: true, Cause: err}
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host"):
		return &ProviderError{Engine: engine, Message: "connection failed", Retryable: true, Cause: err}
	case strings.Contains(lower, "500") || strings.Contains(lower, "502") ||
		strings.Contains(lower, "503") || strings.Contains(lower, "504"):
		return &ProviderError{Engine: engine, Message: "server error", Retryable: true, Cause: err}
	default:
		return &ProviderError{Engine: engine, Message: "provider error", Retryable: false, Cause: err}
	}
}
