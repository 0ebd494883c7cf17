package mock

import (
	"context"

	"github.com/trafficlens/roadrag/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields and records every
// prompt it receives.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, Responses are returned in order, then the default completion.
	GenerateFunc func(ctx context.Context, prompt string, opts ai.GenerateOptions) (string, error)

	// Responses are returned one per call when GenerateFunc is nil.
	// After the slice is exhausted the default completion is returned.
	Responses []string

	// Err, when set, is returned by every call (GenerateFunc takes precedence).
	Err error

	callCount int
	prompts   []string
}

// NewMockGenerator creates a mock generator with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns the next canned response, the injected error, or the
// result of GenerateFunc.
func (m *MockGenerator) Generate(ctx context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
	m.callCount++
	m.prompts = append(m.prompts, prompt)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, opts)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if idx := m.callCount - 1; idx < len(m.Responses) {
		return m.Responses[idx], nil
	}
	return "mock completion", nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Prompts returns every prompt passed to Generate, in call order.
func (m *MockGenerator) Prompts() []string {
	return m.prompts
}

// Reset clears call state and custom behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.prompts = nil
	m.GenerateFunc = nil
	m.Responses = nil
	m.Err = nil
}
