package answer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/trafficlens/roadrag/core"
)

var (
	// codePattern matches standard codes the way they appear in the data,
	// e.g. "IRC:67-2022" or "IRC:35".
	codePattern = regexp.MustCompile(`\b[A-Z]{2,6}:\s?\d{1,4}(?:-\d{4})?\b`)

	// clausePattern matches clause references, e.g. "Clause 14.2".
	clausePattern = regexp.MustCompile(`(?i)\bclause\s+(\d+(?:\.\d+)*[a-z]?)\b`)
)

// citationIndex is the verification view of a fused context's citation set:
// which codes and clauses the context actually contains.
type citationIndex struct {
	codes   map[string]struct{}
	clauses map[string]struct{}
}

func buildCitationIndex(citations map[string]core.Citation) citationIndex {
	idx := citationIndex{
		codes:   make(map[string]struct{}),
		clauses: make(map[string]struct{}),
	}
	for _, c := range citations {
		if c.Code != "" {
			idx.codes[normalizeCode(c.Code)] = struct{}{}
		}
		if c.Clause != "" {
			idx.clauses[strings.ToLower(c.Clause)] = struct{}{}
		}
	}
	return idx
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(code, " ", ""))
}

// enforceGrounding strips every citation token in the answer that does not
// trace back to the fused context, then records which context citations
// survive in the final text. The generative step cannot be trusted to only
// cite what it was given; this pass is what makes the answer verifiable.
func enforceGrounding(ans *core.Answer, citations map[string]core.Citation) {
	idx := buildCitationIndex(citations)

	ans.DirectAnswer = stripUnverified(ans.DirectAnswer, idx)
	ans.StandardReferences = stripUnverifiedAll(ans.StandardReferences, idx)
	ans.Interventions = stripUnverifiedAll(ans.Interventions, idx)
	ans.CodesClauses = stripUnverifiedAll(ans.CodesClauses, idx)
	ans.Recommendations = stripUnverifiedAll(ans.Recommendations, idx)

	ans.Citations = survivingCitations(ans, citations)
}

// stripUnverified removes code and clause tokens absent from the context.
func stripUnverified(text string, idx citationIndex) string {
	text = codePattern.ReplaceAllStringFunc(text, func(code string) string {
		if _, ok := idx.codes[normalizeCode(code)]; ok {
			return code
		}
		return ""
	})
	text = clausePattern.ReplaceAllStringFunc(text, func(ref string) string {
		m := clausePattern.FindStringSubmatch(ref)
		if _, ok := idx.clauses[strings.ToLower(m[1])]; ok {
			return ref
		}
		return ""
	})
	return collapseWhitespace(text)
}

// stripUnverifiedAll applies stripUnverified per item, dropping items that
// end up empty once their fabricated citation is removed.
func stripUnverifiedAll(items []string, idx citationIndex) []string {
	if items == nil {
		return nil
	}
	kept := items[:0]
	for _, item := range items {
		cleaned := stripUnverified(item, idx)
		if cleaned != "" {
			kept = append(kept, cleaned)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// survivingCitations returns the context citations whose code still appears
// in the validated answer text, in deterministic key order.
func survivingCitations(ans *core.Answer, citations map[string]core.Citation) []core.Citation {
	var all []string
	all = append(all, ans.DirectAnswer)
	all = append(all, ans.StandardReferences...)
	all = append(all, ans.Interventions...)
	all = append(all, ans.CodesClauses...)
	all = append(all, ans.Recommendations...)
	text := normalizeCode(strings.Join(all, "\n"))

	keys := make([]string, 0, len(citations))
	for key := range citations {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var surviving []core.Citation
	for _, key := range keys {
		c := citations[key]
		if c.Code == "" || !strings.Contains(text, normalizeCode(c.Code)) {
			continue
		}
		if c.Clause != "" && !strings.Contains(text, normalizeCode(c.Clause)) {
			continue
		}
		surviving = append(surviving, c)
	}
	return surviving
}

var spaceRun = regexp.MustCompile(`[ \t]{2,}`)

func collapseWhitespace(text string) string {
	text = spaceRun.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, " ,", ",")
	text = strings.ReplaceAll(text, " )", ")")
	text = strings.ReplaceAll(text, "( ", "(")
	text = strings.TrimSpace(text)
	text = strings.Trim(text, ",")
	return strings.TrimSpace(text)
}
