package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficlens/roadrag/core"
)

func contextCitations(citations ...core.Citation) map[string]core.Citation {
	m := make(map[string]core.Citation, len(citations))
	for _, c := range citations {
		m[c.Key()] = c
	}
	return m
}

func TestEnforceGroundingKeepsVerifiedCitations(t *testing.T) {
	citations := contextCitations(
		core.Citation{Code: "IRC:67-2022", Clause: "14.4", Type: "STOP Sign"},
	)

	ans := core.Answer{
		DirectAnswer:       "Replace per IRC:67-2022, Clause 14.4.",
		StandardReferences: []string{"IRC:67-2022, Clause 14.4"},
	}
	enforceGrounding(&ans, citations)

	assert.Equal(t, "Replace per IRC:67-2022, Clause 14.4.", ans.DirectAnswer)
	assert.Equal(t, []string{"IRC:67-2022, Clause 14.4"}, ans.StandardReferences)
	require.Len(t, ans.Citations, 1)
	assert.Equal(t, "IRC:67-2022", ans.Citations[0].Code)
}

func TestEnforceGroundingStripsFabricatedCode(t *testing.T) {
	citations := contextCitations(
		core.Citation{Code: "IRC:67-2022", Clause: "14.4", Type: "STOP Sign"},
	)

	ans := core.Answer{
		DirectAnswer: "See IRC:67-2022 and also IRC:99-2019 for details.",
		CodesClauses: []string{"IRC:99-2019"},
	}
	enforceGrounding(&ans, citations)

	assert.NotContains(t, ans.DirectAnswer, "IRC:99-2019")
	assert.Contains(t, ans.DirectAnswer, "IRC:67-2022")
	// The fabricated-only item disappears entirely.
	assert.Empty(t, ans.CodesClauses)
}

func TestEnforceGroundingStripsFabricatedClause(t *testing.T) {
	citations := contextCitations(
		core.Citation{Code: "IRC:67-2022", Clause: "14.4", Type: "STOP Sign"},
	)

	ans := core.Answer{
		StandardReferences: []string{"IRC:67-2022, Clause 99.9 applies here."},
	}
	enforceGrounding(&ans, citations)

	require.Len(t, ans.StandardReferences, 1)
	assert.NotContains(t, ans.StandardReferences[0], "99.9")
	assert.Contains(t, ans.StandardReferences[0], "IRC:67-2022")
}

func TestEnforceGroundingEmptyContextStripsEverything(t *testing.T) {
	ans := core.Answer{
		DirectAnswer: "Consult IRC:67-2022, Clause 14.4.",
		CodesClauses: []string{"IRC:67-2022"},
	}
	enforceGrounding(&ans, nil)

	assert.NotContains(t, ans.DirectAnswer, "IRC:67-2022")
	assert.Empty(t, ans.CodesClauses)
	assert.Empty(t, ans.Citations)
}

func TestSurvivingCitationsRequireClauseMention(t *testing.T) {
	citations := contextCitations(
		core.Citation{Code: "IRC:67-2022", Clause: "14.4", Type: "STOP Sign"},
		core.Citation{Code: "IRC:67-2022", Clause: "14.9", Type: "STOP Sign"},
	)

	ans := core.Answer{DirectAnswer: "See IRC:67-2022, Clause 14.4."}
	enforceGrounding(&ans, citations)

	// Only the clause actually mentioned survives, not every clause
	// sharing the code.
	require.Len(t, ans.Citations, 1)
	assert.Equal(t, "14.4", ans.Citations[0].Clause)
}

func TestSurvivingCitationsDeterministicOrder(t *testing.T) {
	citations := contextCitations(
		core.Citation{Code: "IRC:67-2022", Clause: "14.4", Type: "STOP Sign"},
		core.Citation{Code: "IRC:35-2015", Clause: "3.1", Type: "Speed Bump"},
	)
	text := "Covered by IRC:35-2015 Clause 3.1 and IRC:67-2022 Clause 14.4."

	var orders [][]core.Citation
	for i := 0; i < 5; i++ {
		ans := core.Answer{DirectAnswer: text}
		enforceGrounding(&ans, citations)
		orders = append(orders, ans.Citations)
	}

	for i := 1; i < len(orders); i++ {
		assert.Equal(t, orders[0], orders[i])
	}
	require.Len(t, orders[0], 2)
}

func TestGroundingInvariantAdversarial(t *testing.T) {
	// Whatever the model fabricates, every surviving citation is a member
	// of the context citation set.
	citations := contextCitations(
		core.Citation{Code: "IRC:67-2022", Clause: "14.4", Type: "STOP Sign"},
		core.Citation{Code: "IRC:35-2015", Clause: "3.1", Type: "Speed Bump"},
	)

	adversarial := []string{
		"Trust me: IRC:12-1999 Clause 1.1 mandates this.",
		"IRC:67-2022, Clause 14.4 and the invented MORTH:700-2010.",
		"Clause 88.8 of IRC:35-2015 (real code, fake clause).",
		"No citations at all.",
	}

	for _, text := range adversarial {
		ans := core.Answer{DirectAnswer: text, CodesClauses: []string{text}}
		enforceGrounding(&ans, citations)

		for _, c := range ans.Citations {
			_, ok := citations[c.Key()]
			assert.True(t, ok, "citation %q escaped the context set", c.Key())
		}
		assert.NotContains(t, ans.DirectAnswer, "IRC:12-1999")
		assert.NotContains(t, ans.DirectAnswer, "MORTH:700-2010")
	}
}
