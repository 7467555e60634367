package engines

import (
	"context"
)

// MockAdapter is a configurable mock for testing engine calls.
// Set the function field to control behavior in tests.
type MockAdapter struct {
	// InvokeFunc is called when Invoke is invoked.
	// If nil, returns empty string and nil error.
	InvokeFunc func(ctx context.Context, messages []Message, maxTokens int, temperature float32) (string, error)

	// EngineID is returned by Engine. Defaults to "chatgpt".
	EngineID Engine

	// Call tracking for verification
	InvokeCalls int
}

// NewMockAdapter creates a new mock adapter with sensible defaults.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{EngineID: EngineChatGPT}
}

// Invoke implements Adapter.
func (m *MockAdapter) Invoke(ctx context.Context, messages []Message, maxTokens int, temperature float32) (string, error) {
	m.InvokeCalls++
	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, messages, maxTokens, temperature)
	}
	return "", nil
}

// Engine implements Adapter.
func (m *MockAdapter) Engine() Engine {
	if m.EngineID == "" {
		return EngineChatGPT
	}
	return m.EngineID
}

// Reset clears call tracking counters.
func (m *MockAdapter) Reset() {
	m.InvokeCalls = 0
}

// Ensure MockAdapter implements Adapter at compile time.
var _ Adapter = (*MockAdapter)(nil)

// MockRegistry is a configurable mock registry keyed by engine id.
type MockRegistry struct {
	Adapters map[Engine]Adapter
}

// NewMockRegistry creates a mock registry serving the given adapters.
func NewMockRegistry(adapters ...Adapter) *MockRegistry {
	m := &MockRegistry{Adapters: make(map[Engine]Adapter)}
	for _, a := range adapters {
		m.Adapters[a.Engine()] = a
	}
	return m
}

// Get implements Registry.
func (m *MockRegistry) Get(engine Engine) (Adapter, error) {
	adapter, ok := m.Adapters[engine]
	if !ok {
		return nil, &ConfigError{Engine: engine}
	}
	return adapter, nil
}

// Configured implements Registry.
func (m *MockRegistry) Configured(engine Engine) bool {
	_, ok := m.Adapters[engine]
	return ok
}

// Available implements Registry.
func (m *MockRegistry) Available() []Engine {
	var available []Engine
	for _, engine := range AllEngines {
		if _, ok := m.Adapters[engine]; ok {
			available = append(available, engine)
		}
	}
	return available
}

// Ensure MockRegistry implements Registry at compile time.
var _ Registry = (*MockRegistry)(nil)
