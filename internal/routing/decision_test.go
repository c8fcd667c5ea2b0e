package routing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func knownSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestParseSingle(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		agent string
	}{
		{"plain", "SINGLE: Content Writer", "Content Writer"},
		{"extra whitespace", "SINGLE:    Data Analyst   ", "Data Analyst"},
		{"indented line", "  SINGLE: Web Scraper", "Web Scraper"},
		{
			"commentary around the decision",
			"Let me think about this.\nSINGLE: Market Research Analyst\nThat agent fits best.",
			"Market Research Analyst",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Parse(tc.raw, nil)
			assert.Equal(t, KindSingle, d.Kind)
			assert.Equal(t, tc.agent, d.Agent)
			assert.Equal(t, tc.agent, d.Label())
		})
	}
}

func TestParseMulti(t *testing.T) {
	raw := "MULTI: Market Research Analyst -> Content Writer -> PDF Producer\nWORKFLOW: Research, then write, then create PDF"
	d := Parse(raw, nil)

	assert.Equal(t, KindMulti, d.Kind)
	want := []string{"Market Research Analyst", "Content Writer", "PDF Producer"}
	if diff := cmp.Diff(want, d.Agents); diff != "" {
		t.Errorf("agents mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Research, then write, then create PDF", d.Description)
	assert.Equal(t, "Multi-agent workflow: Market Research Analyst -> Content Writer -> PDF Producer", d.Label())
}

func TestParseMultiWithoutWorkflowLine(t *testing.T) {
	d := Parse("MULTI: Data Analyst -> Content Writer", nil)
	assert.Equal(t, KindMulti, d.Kind)
	assert.Equal(t, []string{"Data Analyst", "Content Writer"}, d.Agents)
	assert.Equal(t, DefaultWorkflowDescription, d.Description)
}

func TestParseMultiTrimsRaggedTokens(t *testing.T) {
	d := Parse("MULTI:  Web Scraper  ->   Data Analyst ->", nil)
	assert.Equal(t, KindMulti, d.Kind)
	assert.Equal(t, []string{"Web Scraper", "Data Analyst"}, d.Agents)
}

func TestParseMultiEmptyAgentList(t *testing.T) {
	d := Parse("MULTI:\nWORKFLOW: do things", nil)
	assert.Equal(t, KindMalformed, d.Kind)
	assert.Contains(t, d.Message, "no agent names")
	assert.Equal(t, "MULTI:\nWORKFLOW: do things", d.Raw)
}

func TestParseWorkflowWithoutMulti(t *testing.T) {
	d := Parse("WORKFLOW: research then write", nil)
	assert.Equal(t, KindMalformed, d.Kind)
	assert.Contains(t, d.Message, "without a MULTI agent list")
}

func TestParseNone(t *testing.T) {
	d := Parse("NONE: No suitable agent for this quantum physics calculation", nil)
	assert.Equal(t, KindNone, d.Kind)
	assert.Equal(t, "No suitable agent for this quantum physics calculation", d.Message)
	assert.Equal(t, "None", d.Label())
}

func TestParseLegacyBareName(t *testing.T) {
	known := knownSet("Content Writer", "Data Analyst")

	d := Parse("Content Writer", known)
	assert.Equal(t, KindSingle, d.Kind)
	assert.Equal(t, "Content Writer", d.Agent)

	d = Parse("  Data Analyst \n", known)
	assert.Equal(t, KindSingle, d.Kind)
	assert.Equal(t, "Data Analyst", d.Agent)
}

func TestParseMalformedPreservesRaw(t *testing.T) {
	raw := "I am not sure which agent to pick here, sorry."
	d := Parse(raw, knownSet("Content Writer"))

	assert.Equal(t, KindMalformed, d.Kind)
	assert.Equal(t, raw, d.Raw)
	assert.Equal(t, "None", d.Label())
}

func TestParseFirstRecognizedLineWins(t *testing.T) {
	d := Parse("SINGLE: Content Writer\nNONE: ignored", nil)
	assert.Equal(t, KindSingle, d.Kind)

	d = Parse("NONE: nothing fits\nSINGLE: Content Writer", nil)
	assert.Equal(t, KindNone, d.Kind)
}

func TestParseEmptyInput(t *testing.T) {
	d := Parse("", knownSet("Content Writer"))
	assert.Equal(t, KindMalformed, d.Kind)
	assert.Equal(t, "", d.Raw)
}
