package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatternCleanerDropsFiller(t *testing.T) {
	c := NewPatternCleaner()

	in := "I'll help you create this document.\n" +
		"As a Content Writer AI, I specialize in prose.\n" +
		"\n" +
		"Marketing Strategy Overview\n" +
		"\n" +
		"Digital channels now dominate customer acquisition.\n" +
		"\n" +
		"Let me know if you need any changes!"
	out := c.Clean(in)

	assert.Contains(t, out, "Marketing Strategy Overview")
	assert.Contains(t, out, "Digital channels now dominate")
	assert.NotContains(t, out, "I'll help you")
	assert.NotContains(t, out, "As a Content Writer")
	assert.NotContains(t, out, "Let me know")
}

func TestPatternCleanerKeepsPlainProse(t *testing.T) {
	c := NewPatternCleaner()
	in := "Quarterly Results\n\nRevenue grew 12% year over year.\n\nCosts were flat."
	assert.Equal(t, in, c.Clean(in))
}

func TestPatternCleanerDropsHeresTheDocument(t *testing.T) {
	c := NewPatternCleaner()
	out := c.Clean("Here's the document you requested:\n\nActual body text.")
	assert.Equal(t, "Actual body text.", out)
}

func TestStripDocumentPhrasing(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{
			"Create a PDF about sustainable energy trends",
			"sustainable energy trends",
		},
		{
			"Write a summary of Q3 and save it as a PDF",
			"Write a summary of Q3 and",
		},
		{
			"Generate a PDF report on market conditions",
			"market conditions",
		},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StripDocumentPhrasing(tc.in), "input: %s", tc.in)
	}
}

func TestStripDocumentPhrasingFallsBackWhenEmpty(t *testing.T) {
	assert.Equal(t, "Create a PDF", StripDocumentPhrasing("Create a PDF"))
}

func TestInferTitleFromShortLine(t *testing.T) {
	body := "## Renewable Energy Outlook\n\nSolar capacity continues to expand."
	assert.Equal(t, "Renewable Energy Outlook", InferTitle(body))
}

func TestInferTitleSkipsBullets(t *testing.T) {
	body := "- first point\n- second point\nClosing Summary\nmore text"
	assert.Equal(t, "Closing Summary", InferTitle(body))
}

func TestInferTitleFallsBackToLeadingWords(t *testing.T) {
	body := "The quarterly revenue analysis for the northern region shows a sustained improvement across all product lines despite seasonal headwinds."
	assert.Equal(t, "The quarterly revenue analysis for the northern region", InferTitle(body))
}

func TestInferTitleEmptyBody(t *testing.T) {
	assert.Equal(t, "Document", InferTitle(""))
}
