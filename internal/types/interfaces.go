// Package types holds the small shared interfaces and value types that cross
// package boundaries. Keeping them here breaks import cycles between the
// orchestrator, the LLM clients and the history store.
package types

import (
	"context"
	"fmt"
)

// LLMClient defines the interface for LLM interactions.
// Every external call is attempted exactly once; callers convert errors to
// user-facing text rather than retrying.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Renderer is the document-rendering collaborator. It never returns an error:
// failures are reported inside the RenderResult and formatted for the user.
type Renderer interface {
	Render(title, body string) RenderResult
}

// RenderResult is the structured outcome of a document render.
type RenderResult struct {
	Success        bool
	Path           string
	Title          string
	WordCount      int
	ParagraphCount int
	FileSize       string
	CreatedAt      string
	Err            string
}

// Message formats the result for display. Success and failure both produce
// a complete user-facing report, so callers can return it unmodified.
func (r RenderResult) Message() string {
	if !r.Success {
		return fmt.Sprintf("❌ Document Creation Failed!\n\nError: %s\n\nPlease check your request and try again.", r.Err)
	}
	return fmt.Sprintf(`✅ PDF Created Successfully!

📄 File Path: %s

📊 Document Details:
   • Title: %s
   • Word Count: %d
   • Paragraphs: %d
   • File Size: %s
   • Created: %s

The document has been saved and is ready to use.`,
		r.Path, r.Title, r.WordCount, r.ParagraphCount, r.FileSize, r.CreatedAt)
}
