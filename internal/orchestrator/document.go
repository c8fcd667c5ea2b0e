package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"workforce/internal/logging"
	"workforce/internal/render"
	"workforce/internal/roster"
)

// dispatchDocument handles the document-producing route. When the prompt
// carries a prior-step output block the body is taken from the chain and no
// new content is generated; otherwise the specialist is asked to write the
// body first. Either way the cleaned title and body go to the renderer and
// its report is returned unmodified, followed by a note listing earlier
// documents if any exist.
func (o *Orchestrator) dispatchDocument(ctx context.Context, spec roster.Specialist, prompt string) string {
	var body string

	if prior, ok := extractPriorOutput(prompt); ok {
		logging.Render("Document route: using prior step output (%d chars)", len(prior))
		body = prior
	} else {
		request := render.StripDocumentPhrasing(prompt)
		logging.Render("Document route: generating content for %q", truncate(request, 80))

		generated, err := o.client.CompleteWithSystem(ctx, spec.Instructions, request)
		if err != nil {
			return fmt.Sprintf("Error: Agent %s failed to process the task - %v", spec.Name, err)
		}
		body = generated
	}

	body = o.cleaner.Clean(body)
	title := render.InferTitle(body)

	result := o.renderer.Render(title, body)
	return result.Message() + o.previousDocumentsNote(spec.Name)
}

// extractPriorOutput pulls the most recent labeled step block out of a
// chain prompt. When the prompt signals prior outputs but no labeled block
// parses, the generically delimited section after the last marker line is
// used instead.
func extractPriorOutput(prompt string) (string, bool) {
	matches := stepHeaderRe.FindAllStringIndex(prompt, -1)
	if len(matches) > 0 {
		last := matches[len(matches)-1]
		body := prompt[last[1]:]
		// A later instruction paragraph may follow the final block.
		if i := strings.Index(body, "\n\nBuild on the previous outputs"); i >= 0 {
			body = body[:i]
		}
		return strings.TrimSpace(body), true
	}

	marker := "Previous step outputs:"
	if i := strings.Index(prompt, marker); i >= 0 {
		return strings.TrimSpace(prompt[i+len(marker):]), true
	}
	return "", false
}

// previousDocumentsNote summarizes up to three earlier requests that went
// to the same document route.
func (o *Orchestrator) previousDocumentsNote(routeName string) string {
	var prior []string
	for _, rec := range o.history.Recent(o.recentWindow) {
		if rec.RouteLabel != routeName {
			continue
		}
		prior = append(prior, fmt.Sprintf("%d. [%s] %s",
			len(prior)+1, rec.Timestamp.Format("2006-01-02 15:04:05"), truncate(rec.UserPrompt, 100)))
		if len(prior) == 3 {
			break
		}
	}
	if len(prior) == 0 {
		return ""
	}
	return "\n\nPrevious document requests:\n" + strings.Join(prior, "\n")
}
