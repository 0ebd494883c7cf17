package answer

import (
	"strings"

	"github.com/trafficlens/roadrag/core"
)

// sectionKey identifies one of the five canonical answer sections.
type sectionKey int

const (
	sectionNone sectionKey = iota
	sectionDirect
	sectionReferences
	sectionInterventions
	sectionCodes
	sectionRecommendations
)

var headingKeys = map[string]sectionKey{
	strings.ToLower(headingDirect):          sectionDirect,
	strings.ToLower(headingReferences):      sectionReferences,
	strings.ToLower(headingInterventions):   sectionInterventions,
	strings.ToLower(headingCodes):           sectionCodes,
	strings.ToLower(headingRecommendations): sectionRecommendations,
}

// parseAnswer splits the generated text into the five canonical sections.
// Text before the first recognized heading belongs to the direct answer;
// sections the model did not produce stay empty.
func parseAnswer(raw string) core.Answer {
	answer := core.Answer{Raw: raw}

	current := sectionDirect
	var direct []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if key, ok := matchHeading(line); ok {
			current = key
			continue
		}

		item := cleanItem(line)
		if item == "" {
			continue
		}

		switch current {
		case sectionDirect:
			direct = append(direct, item)
		case sectionReferences:
			answer.StandardReferences = append(answer.StandardReferences, item)
		case sectionInterventions:
			answer.Interventions = append(answer.Interventions, item)
		case sectionCodes:
			answer.CodesClauses = append(answer.CodesClauses, item)
		case sectionRecommendations:
			answer.Recommendations = append(answer.Recommendations, item)
		}
	}

	answer.DirectAnswer = strings.Join(direct, " ")
	return answer
}

// matchHeading reports whether the line is one of the canonical bold
// headings. Emphasis markers, trailing colons, and case are all tolerated.
func matchHeading(line string) (sectionKey, bool) {
	stripped := strings.Trim(line, "*# ")
	stripped = strings.TrimSuffix(stripped, ":")
	stripped = strings.ToLower(strings.TrimSpace(stripped))

	key, ok := headingKeys[stripped]
	return key, ok
}

// cleanItem strips bullet markers and emphasis from a content line.
func cleanItem(line string) string {
	line = strings.TrimLeft(line, "-*•")
	line = strings.TrimSpace(line)
	line = strings.Trim(line, "*")
	line = strings.TrimSpace(line)
	// A line that was only markup, like a bare "---" rule.
	if strings.Trim(line, "-_= ") == "" {
		return ""
	}
	return line
}
