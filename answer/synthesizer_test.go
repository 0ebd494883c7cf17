package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficlens/roadrag/ai"
	"github.com/trafficlens/roadrag/ai/mock"
	"github.com/trafficlens/roadrag/core"
)

func fusedStopSignContext() *core.FusedContext {
	citation := core.Citation{
		Code:     "IRC:67-2022",
		Clause:   "14.4",
		Category: "Road Sign",
		Type:     "STOP Sign",
	}
	return &core.FusedContext{
		Hits: []core.RetrievalHit{
			{
				Source:   core.SourceGraph,
				Text:     "type: STOP Sign, problem: Damaged, code: IRC:67-2022, clause: 14.4",
				Citation: citation,
				Problem:  "Damaged",
				Score:    1.0,
			},
			{
				Source: core.SourceVector,
				Text:   "Damaged STOP signs shall be replaced within 30 days.",
				Score:  0.82,
			},
		},
		Citations: map[string]core.Citation{citation.Key(): citation},
	}
}

func TestSynthesizeEmptyContext(t *testing.T) {
	generator := mock.NewMockGenerator()
	s, err := NewSynthesizer(generator)
	require.NoError(t, err)

	tests := []struct {
		name  string
		fused *core.FusedContext
	}{
		{"nil context", nil},
		{"empty context", &core.FusedContext{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Synthesize(context.Background(), "anything", tt.fused)
			assert.ErrorIs(t, err, core.ErrEmptyContext)
		})
	}

	// The model is never consulted without grounding material.
	assert.Equal(t, 0, generator.CallCount())
}

func TestSynthesizeStructuredAnswer(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.Responses = []string{sampleCompletion}

	s, err := NewSynthesizer(generator)
	require.NoError(t, err)

	ans, err := s.Synthesize(context.Background(),
		"What are the regulations for damaged STOP signs?", fusedStopSignContext())
	require.NoError(t, err)

	assert.False(t, ans.Failed)
	assert.Contains(t, ans.DirectAnswer, "IRC:67-2022")
	assert.Contains(t, strings.Join(ans.StandardReferences, " "), "Clause 14.4")
	require.Len(t, ans.Citations, 1)
	assert.Equal(t, "IRC:67-2022", ans.Citations[0].Code)
	assert.Equal(t, "14.4", ans.Citations[0].Clause)
}

func TestSynthesizeStripsOutOfContextCitations(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.Responses = []string{`**Direct and Professional Answer:**
- Replace per IRC:67-2022, Clause 14.4, and allegedly IRC:45-2010.

**Standard Codes and Clause Numbers:**
- *IRC:67-2022, Clause 14.4*
- *IRC:45-2010, Clause 2.2*
`}

	s, err := NewSynthesizer(generator)
	require.NoError(t, err)

	ans, err := s.Synthesize(context.Background(), "damaged stop signs", fusedStopSignContext())
	require.NoError(t, err)

	assert.NotContains(t, ans.DirectAnswer, "IRC:45-2010")
	require.Len(t, ans.CodesClauses, 1)
	assert.Contains(t, ans.CodesClauses[0], "IRC:67-2022")
	require.Len(t, ans.Citations, 1)
	assert.Equal(t, "IRC:67-2022", ans.Citations[0].Code)
}

func TestSynthesizePromptConstraints(t *testing.T) {
	generator := mock.NewMockGenerator()
	s, err := NewSynthesizer(generator)
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "damaged stop signs", fusedStopSignContext())
	require.NoError(t, err)

	require.Len(t, generator.Prompts(), 1)
	prompt := generator.Prompts()[0]
	assert.Contains(t, prompt, "Use ONLY the information provided in the context")
	assert.Contains(t, prompt, "damaged stop signs")
	assert.Contains(t, prompt, "[graph]")
	assert.Contains(t, prompt, "[vector]")
	assert.Contains(t, prompt, "IRC:67-2022")
	for _, heading := range []string{
		headingDirect, headingReferences, headingInterventions,
		headingCodes, headingRecommendations,
	} {
		assert.Contains(t, prompt, heading)
	}
}

func TestSynthesizeRetriesOnce(t *testing.T) {
	generator := mock.NewMockGenerator()
	calls := 0
	generator.GenerateFunc = func(ctx context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("transient")
		}
		return sampleCompletion, nil
	}

	s, err := NewSynthesizer(generator)
	require.NoError(t, err)

	ans, err := s.Synthesize(context.Background(), "stop signs", fusedStopSignContext())
	require.NoError(t, err)
	assert.False(t, ans.Failed)
	assert.Equal(t, 2, calls)
}

func TestSynthesizeFailureAnswerAfterRetry(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.Err = errors.New("model unavailable")

	s, err := NewSynthesizer(generator)
	require.NoError(t, err)

	ans, err := s.Synthesize(context.Background(), "stop signs", fusedStopSignContext())

	assert.ErrorIs(t, err, core.ErrGenerationTimeout)
	assert.True(t, ans.Failed)
	assert.Equal(t, failureText, ans.DirectAnswer)
	assert.Equal(t, 2, generator.CallCount())
}

func TestSynthesizeTimeoutBounded(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.GenerateFunc = func(ctx context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	s, err := NewSynthesizer(generator,
		WithSynthesisTimeout(20*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	ans, err := s.Synthesize(context.Background(), "stop signs", fusedStopSignContext())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.ErrorIs(t, err, core.ErrGenerationTimeout)
	assert.True(t, ans.Failed)
}

func TestSynthesizeNoRetryOnCanceledParent(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.Err = context.Canceled

	s, err := NewSynthesizer(generator)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Synthesize(ctx, "stop signs", fusedStopSignContext())
	assert.Error(t, err)
	assert.Equal(t, 1, generator.CallCount())
}

func TestRenderContextBounded(t *testing.T) {
	fused := fusedStopSignContext()

	full := renderContext(fused, 8000)
	assert.Contains(t, full, "[graph]")
	assert.Contains(t, full, "[vector]")
	assert.Contains(t, full, "(cite: IRC:67-2022, Clause 14.4)")

	// Tight limit keeps whole lines only.
	truncated := renderContext(fused, len(full)-5)
	assert.Contains(t, truncated, "[graph]")
	assert.NotContains(t, truncated, "[vector]")
}
