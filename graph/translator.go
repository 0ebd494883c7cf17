package graph

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/trafficlens/roadrag/ai"
	"github.com/trafficlens/roadrag/core"
)

const (
	defaultTranslateTimeout = 15 * time.Second
	translateTemperature    = 0.1
	translateMaxTokens      = 256
)

// Translator converts natural-language questions into structured graph
// queries. Generation is attempted first; any failure (timeout, malformed
// output, validation rejection) falls back to the template policy, so
// Translate always returns a usable read-only query.
type Translator struct {
	generator ai.Generator
	schema    *Schema
	policy    TemplatePolicy
	timeout   time.Duration
	logger    *slog.Logger
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithTemplatePolicy overrides the default keyword template policy.
func WithTemplatePolicy(policy TemplatePolicy) TranslatorOption {
	return func(t *Translator) {
		if policy != nil {
			t.policy = policy
		}
	}
}

// WithTranslateTimeout bounds the generative translation attempt.
// Default is 15 seconds.
func WithTranslateTimeout(timeout time.Duration) TranslatorOption {
	return func(t *Translator) {
		if timeout > 0 {
			t.timeout = timeout
		}
	}
}

// WithTranslatorLogger sets a custom logger.
// Default is slog.Default().
func WithTranslatorLogger(logger *slog.Logger) TranslatorOption {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTranslator creates a new query translator.
func NewTranslator(generator ai.Generator, schema *Schema, opts ...TranslatorOption) (*Translator, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	if schema == nil {
		return nil, ErrSchemaRequired
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	t := &Translator{
		generator: generator,
		schema:    schema,
		policy:    NewKeywordPolicy(schema),
		timeout:   defaultTranslateTimeout,
		logger:    slog.Default().With("component", "translator"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Translate converts the question into a structured query. It never fails:
// when the generative attempt does not produce a valid query the template
// policy supplies one, and the result is tagged with its provenance.
func (t *Translator) Translate(ctx context.Context, question string) core.StructuredQuery {
	candidate, err := t.generate(ctx, question)
	if err == nil {
		if findings := ValidateQuery(candidate, t.schema); len(findings) == 0 {
			t.logger.Debug("generated query accepted", "query", candidate)
			return core.StructuredQuery{Text: candidate, Provenance: core.ProvenanceGenerated}
		} else {
			t.logger.Warn("generated query rejected",
				"query", candidate,
				"findings", strings.Join(findings, "; "))
		}
	} else {
		t.logger.Warn("query generation failed, using template",
			"err", fmt.Errorf("%w: %w", core.ErrQueryGeneration, err))
	}

	template := t.policy.Select(question)
	t.logger.Debug("template query selected", "query", template)
	return core.StructuredQuery{Text: template, Provenance: core.ProvenanceFallback}
}

// generate runs the bounded generative attempt and cleans its output.
func (t *Translator) generate(ctx context.Context, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	prompt := t.buildPrompt(question)
	raw, err := t.generator.Generate(ctx, prompt, ai.GenerateOptions{
		Temperature: translateTemperature,
		MaxTokens:   translateMaxTokens,
	})
	if err != nil {
		return "", err
	}

	cleaned := cleanQuery(raw)
	if cleaned == "" {
		return "", fmt.Errorf("empty completion")
	}
	return cleaned, nil
}

func (t *Translator) buildPrompt(question string) string {
	return fmt.Sprintf(`You are a Neo4j Cypher query generator.
Convert natural language to Cypher queries ONLY.
Output ONLY the Cypher query, no explanations.

%s
RULES:
1. Always start with MATCH
2. Use WHERE for filtering
3. Always end with RETURN
4. Use case-sensitive values
5. NO markdown, NO explanations, ONLY Cypher

Question: %s

Cypher Query:`, t.schema.PromptText(), question)
}

var chatterPrefix = regexp.MustCompile(`(?i)^(query:|cypher:|the query|here|answer:).*`)

// cleanQuery strips markdown fences and explanatory chatter from a model
// completion, leaving only the query text.
func cleanQuery(raw string) string {
	query := raw

	// Take the contents of the first fenced block if present.
	if strings.Contains(query, "```") {
		parts := strings.Split(query, "```")
		if len(parts) >= 2 {
			query = parts[1]
			query = strings.TrimPrefix(query, "cypher")
		}
	}

	var lines []string
	for _, line := range strings.Split(query, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if chatterPrefix.MatchString(line) && len(lines) == 0 {
			continue
		}
		lines = append(lines, line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
