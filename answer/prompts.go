package answer

import (
	"fmt"
	"strings"

	"github.com/trafficlens/roadrag/core"
)

// Canonical section headings the model is instructed to emit and the parser
// recognizes. The wording is load-bearing: it matches the output format in
// the prompt exactly.
const (
	headingDirect          = "Direct and Professional Answer"
	headingReferences      = "Reference to IRC Standards"
	headingInterventions   = "Interventions with Specifications"
	headingCodes           = "Standard Codes and Clause Numbers"
	headingRecommendations = "Actionable Recommendations"
)

// renderContext flattens the fused context into the text block the prompt
// embeds. Hits keep their fused order, each tagged with its source channel
// and citation. Output is truncated at maxChars on a line boundary so a
// large retrieval never blows up the prompt.
func renderContext(fused *core.FusedContext, maxChars int) string {
	var b strings.Builder
	for _, hit := range fused.Hits {
		line := fmt.Sprintf("[%s] %s", hit.Source, hit.Text)
		if !hit.Citation.Empty() {
			line += fmt.Sprintf(" (cite: %s, Clause %s)", hit.Citation.Code, hit.Citation.Clause)
		}
		if b.Len()+len(line)+1 > maxChars {
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildPrompt constructs the constrained generation prompt: answer only from
// the supplied context, state what is missing, cite verbatim.
func buildPrompt(query, context string) string {
	return fmt.Sprintf(`You are a Road Safety Expert Assistant. Use ONLY the information provided in the context.
Do NOT add external knowledge. If any information is missing, clearly state it.

QUESTION:
%s

CONTEXT:
%s

RESPONSE RULES:
1. Answer must be clear, explainable, and strictly based on context.
2. Use **bold headings** exactly as shown below.
3. Use bullet points for lists.
4. Cite IRC standards, codes, and clauses exactly as present in context.
5. Provide only context-supported interventions and recommendations.
6. If information is missing, write: "Insufficient information in the provided context."

OUTPUT FORMAT (STRICT):

**%s:**
- straight answer without any unrelated explanation

**%s:**
- standards and clauses mentioned in context

**%s:**
- intervention (with clause), if available

**%s:**
- IRC code + clause list

**%s:**
- recommendation, if available

FINAL RESPONSE:
`, query, context,
		headingDirect, headingReferences, headingInterventions,
		headingCodes, headingRecommendations)
}
