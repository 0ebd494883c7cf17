package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordPolicySelect(t *testing.T) {
	policy := NewKeywordPolicy(DefaultSchema())

	tests := []struct {
		name     string
		question string
		contains []string
	}{
		{
			name:     "type with code",
			question: "What does IRC:67-2022 say about a STOP sign?",
			contains: []string{"i.type = 'STOP Sign'", "i.code = 'IRC:67-2022'"},
		},
		{
			name:     "type asking for regulations",
			question: "Which standards govern speed bump placement?",
			contains: []string{"i.type = 'Speed Bump'", "i.code", "i.clause"},
		},
		{
			name:     "type only",
			question: "Tell me about pedestrian crossing issues",
			contains: []string{"i.type = 'Pedestrian Crossing'"},
		},
		{
			name:     "problem with category",
			question: "List damaged road sign entries",
			contains: []string{"i.problem = 'Damaged'", "i.category = 'Road Sign'"},
		},
		{
			name:     "problem only",
			question: "What issues are faded?",
			contains: []string{"i.problem = 'Faded'"},
		},
		{
			name:     "short code form",
			question: "Show everything under irc 35",
			contains: []string{"i.code = 'IRC:35-2015'"},
		},
		{
			name:     "regulations without a subject",
			question: "Which codes apply here?",
			contains: []string{"DISTINCT i.code", "count(i)"},
		},
		{
			name:     "category only",
			question: "Show traffic calming measures",
			contains: []string{"i.category = 'Traffic Calming Measures'"},
		},
		{
			name:     "count question",
			question: "How many entries are there in total?",
			contains: []string{"count(i)"},
		},
		{
			name:     "no match falls to catch-all",
			question: "hello there",
			contains: []string{"RETURN i.type, i.problem, i.category, i.code"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := policy.Select(tt.question)

			assert.NotEmpty(t, query)
			for _, want := range tt.contains {
				assert.Contains(t, query, want)
			}
		})
	}
}

func TestKeywordPolicyQueriesValidate(t *testing.T) {
	// Every template the policy can produce must pass the same validation
	// that generated queries are held to.
	schema := DefaultSchema()
	policy := NewKeywordPolicy(schema)

	questions := []string{
		"What does IRC:67-2022 say about a STOP sign?",
		"Which standards govern speed bump placement?",
		"Tell me about pedestrian crossing issues",
		"List damaged road sign entries",
		"What issues are faded?",
		"Show everything under irc 35",
		"Which codes apply here?",
		"Show traffic calming measures",
		"How many entries are there?",
		"completely unrelated question",
	}

	for _, q := range questions {
		query := policy.Select(q)
		assert.Empty(t, ValidateQuery(query, schema), "question %q produced invalid template %q", q, query)
	}
}

func TestMatchCode(t *testing.T) {
	codes := []string{"IRC:67-2022", "IRC:35-2015"}

	assert.Equal(t, "IRC:67-2022", matchCode("what about irc:67-2022", codes))
	assert.Equal(t, "IRC:67-2022", matchCode("what about irc:67", codes))
	assert.Equal(t, "IRC:67-2022", matchCode("what about irc 67", codes))
	assert.Equal(t, "IRC:35-2015", matchCode("see irc:35 for details", codes))
	assert.Equal(t, "", matchCode("no code mentioned", codes))
}
