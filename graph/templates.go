package graph

import (
	"fmt"
	"strings"
)

// TemplatePolicy selects a read-only template query for a question when
// generative translation is unavailable. Selection must always succeed;
// a maximally generic query is the last resort.
//
// The matching heuristic is deliberately pluggable: the default keyword
// policy works well on the road-safety dataset but is not assumed optimal
// for other schemas.
type TemplatePolicy interface {
	// Select returns a template query for the question. Never returns
	// an empty string.
	Select(question string) string
}

// KeywordPolicy is the default TemplatePolicy. It matches the question
// against the schema vocabularies (types, problems, categories, codes) and
// substitutes the best match into a parameterized query skeleton.
type KeywordPolicy struct {
	schema *Schema
}

// NewKeywordPolicy creates the default keyword-matching template policy.
func NewKeywordPolicy(schema *Schema) *KeywordPolicy {
	return &KeywordPolicy{schema: schema}
}

var countWords = []string{"count", "how many", "total", "statistics"}

// Select walks the vocabularies in decreasing specificity: a type match
// first, then problem, code, category, count questions, then the generic
// catch-all returning a page of everything.
func (p *KeywordPolicy) Select(question string) string {
	q := strings.ToLower(question)
	label := p.schema.Label

	matchedType := matchVocabulary(q, p.schema.Types)
	matchedProblem := matchVocabulary(q, p.schema.Problems)
	matchedCode := matchCode(q, p.schema.Codes)
	matchedCategory := matchVocabulary(q, p.schema.Categories)

	switch {
	case matchedType != "" && matchedCode != "":
		return fmt.Sprintf("MATCH (i:%s) WHERE i.type = '%s' AND i.code = '%s' RETURN i.s_no, i.type, i.code, i.clause LIMIT 10",
			label, matchedType, matchedCode)

	case matchedType != "" && wantsRegulations(q):
		return fmt.Sprintf("MATCH (i:%s) WHERE i.type = '%s' RETURN i.s_no, i.type, i.code, i.clause LIMIT 10",
			label, matchedType)

	case matchedType != "":
		return fmt.Sprintf("MATCH (i:%s) WHERE i.type = '%s' RETURN i.s_no, i.type, i.problem, i.category LIMIT 10",
			label, matchedType)

	case matchedProblem != "" && matchedCategory != "":
		return fmt.Sprintf("MATCH (i:%s) WHERE i.problem = '%s' AND i.category = '%s' RETURN i.type, i.problem, i.code LIMIT 10",
			label, matchedProblem, matchedCategory)

	case matchedProblem != "":
		return fmt.Sprintf("MATCH (i:%s) WHERE i.problem = '%s' RETURN i.type, i.problem, i.category LIMIT 10",
			label, matchedProblem)

	case matchedCode != "":
		return fmt.Sprintf("MATCH (i:%s) WHERE i.code = '%s' RETURN i.type, i.problem, i.clause LIMIT 10",
			label, matchedCode)

	case wantsRegulations(q):
		return fmt.Sprintf("MATCH (i:%s) RETURN DISTINCT i.code, count(i) AS total ORDER BY total DESC LIMIT 10", label)

	case matchedCategory != "":
		return fmt.Sprintf("MATCH (i:%s) WHERE i.category = '%s' RETURN i.type, i.problem, i.code LIMIT 10",
			label, matchedCategory)

	case containsAny(q, countWords):
		return fmt.Sprintf("MATCH (i:%s) RETURN i.problem, count(i) AS total ORDER BY total DESC LIMIT 10", label)

	default:
		// Last resort: a page of everything.
		return fmt.Sprintf("MATCH (i:%s) RETURN i.type, i.problem, i.category, i.code LIMIT 10", label)
	}
}

// matchVocabulary returns the first vocabulary value whose lowercase form
// appears in the question.
func matchVocabulary(question string, values []string) string {
	for _, v := range values {
		if strings.Contains(question, strings.ToLower(v)) {
			return v
		}
	}
	return ""
}

// matchCode tolerates the loose way codes get typed: "IRC:67-2022" matches
// "irc:67", "irc 67" and the exact form.
func matchCode(question string, codes []string) string {
	for _, code := range codes {
		lower := strings.ToLower(code)
		if strings.Contains(question, lower) {
			return code
		}
		// "irc:67-2022" -> "irc:67" and "irc 67"
		if idx := strings.Index(lower, "-"); idx > 0 {
			short := lower[:idx]
			if strings.Contains(question, short) || strings.Contains(question, strings.Replace(short, ":", " ", 1)) {
				return code
			}
		}
	}
	return ""
}

func wantsRegulations(question string) bool {
	return containsAny(question, []string{"regulation", "govern", "standard", "code", "clause", "irc"})
}

func containsAny(question string, words []string) bool {
	for _, w := range words {
		if strings.Contains(question, w) {
			return true
		}
	}
	return false
}
