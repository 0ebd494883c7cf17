package graph

import (
	"fmt"
	"regexp"
	"strings"
)

// forbiddenKeywords are Cypher clauses that mutate the store or escape the
// read-only query surface. A candidate containing any of them is rejected
// outright; this channel never writes.
var forbiddenKeywords = []string{
	"CREATE", "MERGE", "DELETE", "DETACH", "SET", "REMOVE", "DROP",
	"LOAD CSV", "FOREACH", "CALL",
}

var (
	labelPattern    = regexp.MustCompile(`:\s*([A-Za-z_][A-Za-z0-9_]*)`)
	propertyPattern = regexp.MustCompile(`\b[a-z][a-z0-9_]*\.([A-Za-z_][A-Za-z0-9_]*)`)
)

// ValidateQuery checks a candidate Cypher query against the schema whitelist
// and basic structural rules. It returns all findings, not just the first,
// so rejection logs are actionable.
func ValidateQuery(query string, schema *Schema) []string {
	var findings []string

	if strings.TrimSpace(query) == "" {
		return []string{"empty query"}
	}

	upper := strings.ToUpper(query)
	if !strings.Contains(upper, "MATCH") {
		findings = append(findings, "missing MATCH clause")
	}
	if !strings.Contains(upper, "RETURN") {
		findings = append(findings, "missing RETURN clause")
	}

	if strings.Count(query, "(") != strings.Count(query, ")") {
		findings = append(findings, "unbalanced parentheses")
	}
	if strings.Count(query, "{") != strings.Count(query, "}") {
		findings = append(findings, "unbalanced braces")
	}
	if strings.Count(query, "[") != strings.Count(query, "]") {
		findings = append(findings, "unbalanced brackets")
	}

	// Strip string literals so quoted values cannot trip the keyword and
	// identifier checks.
	stripped := stripStringLiterals(query)
	strippedUpper := strings.ToUpper(stripped)

	for _, kw := range forbiddenKeywords {
		if containsKeyword(strippedUpper, kw) {
			findings = append(findings, fmt.Sprintf("forbidden clause %s", kw))
		}
	}

	for _, m := range labelPattern.FindAllStringSubmatch(stripped, -1) {
		if m[1] != schema.Label {
			findings = append(findings, fmt.Sprintf("unknown label %s", m[1]))
		}
	}

	for _, m := range propertyPattern.FindAllStringSubmatch(stripped, -1) {
		if !schema.HasProperty(m[1]) {
			findings = append(findings, fmt.Sprintf("unknown property %s", m[1]))
		}
	}

	return findings
}

// containsKeyword reports whether kw occurs as a whole word in upper.
func containsKeyword(upper, kw string) bool {
	idx := 0
	for {
		i := strings.Index(upper[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		beforeOK := start == 0 || !isWordChar(upper[start-1])
		afterOK := end == len(upper) || !isWordChar(upper[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// stripStringLiterals replaces the contents of single- and double-quoted
// strings with spaces, preserving offsets.
func stripStringLiterals(query string) string {
	out := []byte(query)
	var quote byte
	for i := 0; i < len(out); i++ {
		c := out[i]
		if quote == 0 {
			if c == '\'' || c == '"' {
				quote = c
			}
			continue
		}
		if c == quote {
			quote = 0
			continue
		}
		out[i] = ' '
	}
	return string(out)
}
