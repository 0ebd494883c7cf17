// Copyright 2026 Trafficlens
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package answer turns a fused retrieval context into a structured, cited
// answer. The generative model is only ever invoked with grounding material,
// and every citation in its output is verified against that material before
// the answer leaves the package.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/trafficlens/roadrag/ai"
	"github.com/trafficlens/roadrag/core"
)

const (
	defaultSynthesisTimeout = 60 * time.Second
	defaultMaxContextChars  = 8000
	synthesisTemperature    = 0.7
	synthesisMaxTokens      = 500
)

// failureText is the deterministic user-visible answer produced when
// generation fails past its retry. It is a terminal failure, never a
// silent one.
const failureText = "The assistant could not generate an answer for this " +
	"request. Please try again; the retrieved material has been logged."

// Synthesizer produces structured answers from a fused context.
type Synthesizer struct {
	generator       ai.Generator
	timeout         time.Duration
	maxContextChars int
	logger          *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithSynthesisTimeout bounds each generation attempt.
// Default is 60 seconds.
func WithSynthesisTimeout(timeout time.Duration) Option {
	return func(s *Synthesizer) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithMaxContextChars bounds the rendered context block in the prompt.
func WithMaxContextChars(n int) Option {
	return func(s *Synthesizer) {
		if n > 0 {
			s.maxContextChars = n
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSynthesizer creates an answer synthesizer.
func NewSynthesizer(generator ai.Generator, opts ...Option) (*Synthesizer, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	s := &Synthesizer{
		generator:       generator,
		timeout:         defaultSynthesisTimeout,
		maxContextChars: defaultMaxContextChars,
		logger:          slog.Default().With("component", "synthesizer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Synthesize generates a grounded answer for the query. An empty context is
// rejected with core.ErrEmptyContext before any model call is made. Each
// generation attempt is bounded by the
// synthesis timeout and retried once; past the retry the deterministic
// failure answer is returned alongside a core.ErrGenerationTimeout-wrapped
// error so callers can still render a well-formed response.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, fused *core.FusedContext) (core.Answer, error) {
	if fused == nil || fused.Empty() {
		return core.Answer{}, core.ErrEmptyContext
	}

	prompt := buildPrompt(query, renderContext(fused, s.maxContextChars))

	raw, err := s.generate(ctx, prompt)
	if err != nil {
		s.logger.Error("answer generation failed", "query", query, "err", err)
		return core.Answer{
			DirectAnswer: failureText,
			Failed:       true,
		}, fmt.Errorf("%w: %w", core.ErrGenerationTimeout, err)
	}

	ans := parseAnswer(raw)
	enforceGrounding(&ans, fused.Citations)

	s.logger.Debug("answer synthesized",
		"query", query,
		"citations", len(ans.Citations),
		"chars", len(raw))
	return ans, nil
}

// generate runs the bounded generation with a single retry.
func (s *Synthesizer) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			s.logger.Warn("retrying answer generation", "err", lastErr)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		raw, err := s.generator.Generate(attemptCtx, prompt, ai.GenerateOptions{
			Temperature: synthesisTemperature,
			MaxTokens:   synthesisMaxTokens,
		})
		cancel()

		if err == nil && strings.TrimSpace(raw) != "" {
			return raw, nil
		}
		if err == nil {
			err = fmt.Errorf("empty completion")
		}
		lastErr = err

		// A canceled parent is not worth retrying against.
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}
