package render

import (
	"regexp"
	"strings"
)

// ContentCleaner strips text that should not appear in a rendered document.
// The orchestrator holds one as a replaceable strategy; PatternCleaner is
// the default.
type ContentCleaner interface {
	Clean(text string) string
}

// PatternCleaner removes conversational filler and agent self-introductions
// using a fixed rule set. It operates line by line so document prose is
// left intact.
type PatternCleaner struct {
	linePatterns []*regexp.Regexp
}

// NewPatternCleaner builds the default cleaner.
func NewPatternCleaner() *PatternCleaner {
	return &PatternCleaner{
		linePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^(sure[,!.]?\s*)?(i('|’)?(ll| will| can| would be happy to)\s+help\b|happy to help\b).*$`),
			regexp.MustCompile(`(?i)^(as|i am|i'm)\s+(a|an|the|your)\s+[a-z ]{2,40}\s+(ai|agent|assistant)\b.*$`),
			regexp.MustCompile(`(?i)^(here('|’)?s|here is|below is|the following is)\s+(the|a|your)\s+(document|content|text|report|draft)\b.*[:.]?\s*$`),
			regexp.MustCompile(`(?i)^(let me know|feel free|if you (need|have|would like))\b.*$`),
			regexp.MustCompile(`(?i)^(certainly|of course|absolutely)[,!.]?\s*$`),
		},
	}
}

// Clean drops matching lines and collapses the leftover blank runs.
func (c *PatternCleaner) Clean(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		dropped := false
		for _, re := range c.linePatterns {
			if re.MatchString(trimmed) {
				dropped = true
				break
			}
		}
		if !dropped {
			kept = append(kept, line)
		}
	}

	out := strings.Join(kept, "\n")
	out = regexp.MustCompile(`\n{3,}`).ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

var documentRequestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(create|make|generate|produce|write)\s+(a|the|me a|me the)?\s*pdf(\s+(document|file|report))?\s*(about|on|of|for|with)?\s*`),
	regexp.MustCompile(`(?i)\b(save|export|output)\s+(it|this|the result)?\s*(as|to)\s+(a\s+)?pdf(\s+file)?\.?`),
	regexp.MustCompile(`(?i)\b(as|in|into)\s+(a\s+)?pdf(\s+(format|document|file))?\b`),
	regexp.MustCompile(`(?i)\bpdf\s+(version|copy)\s+of\b`),
}

// StripDocumentPhrasing removes wording that asks for PDF output so the
// text-generation call produces prose instead of talking about file
// creation. Falls back to the original text if stripping leaves nothing.
func StripDocumentPhrasing(request string) string {
	out := request
	for _, re := range documentRequestPatterns {
		out = re.ReplaceAllString(out, " ")
	}
	out = strings.Join(strings.Fields(out), " ")
	if out == "" {
		return strings.TrimSpace(request)
	}
	return out
}

var (
	headingMarkers = regexp.MustCompile("^[#*=\\s]+|[#*=\\s]+$")
	bulletPrefix   = regexp.MustCompile(`^\s*([-*•]|\d+[.)])\s+`)
)

// InferTitle picks a short document title: the first short non-bulleted
// line if one exists, otherwise the leading words of the first paragraph.
func InferTitle(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || bulletPrefix.MatchString(trimmed) {
			continue
		}
		candidate := headingMarkers.ReplaceAllString(trimmed, "")
		if candidate == "" {
			continue
		}
		if len(candidate) <= 80 {
			return strings.TrimSuffix(candidate, ":")
		}
		break
	}

	words := strings.Fields(body)
	if len(words) == 0 {
		return "Document"
	}
	if len(words) > 8 {
		words = words[:8]
	}
	return strings.TrimRight(strings.Join(words, " "), ".,;:")
}
