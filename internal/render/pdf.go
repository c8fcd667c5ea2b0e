// Package render produces PDF documents from generated text. The renderer
// never returns an error to callers: every render yields a structured
// outcome that formats as a complete success or failure report.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"workforce/internal/logging"
	"workforce/internal/types"
)

// PDFRenderer writes documents into a fixed output directory.
type PDFRenderer struct {
	outputDir string
	now       func() time.Time
}

// NewPDFRenderer creates a renderer writing into outputDir.
func NewPDFRenderer(outputDir string) *PDFRenderer {
	if outputDir == "" {
		outputDir = "."
	}
	return &PDFRenderer{outputDir: outputDir, now: time.Now}
}

// Render lays out title and body as an A4 document and writes it to disk.
// The result carries word and paragraph counts, the file size, and the
// output path; failures are reported in the result, never raised.
func (r *PDFRenderer) Render(title, body string) types.RenderResult {
	if strings.TrimSpace(title) == "" {
		title = "Document"
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return types.RenderResult{Err: "document body is empty"}
	}

	paragraphs := splitParagraphs(body)

	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return types.RenderResult{Err: fmt.Sprintf("failed to create output directory: %v", err)}
	}

	createdAt := r.now()
	path := filepath.Join(r.outputDir, r.filename(title, createdAt))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(title), "", "C", false)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	for _, para := range paragraphs {
		pdf.MultiCell(0, 5.5, tr(para), "", "L", false)
		pdf.Ln(3)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		logging.Get(logging.CategoryRender).Error("PDF write failed: %v", err)
		return types.RenderResult{Err: fmt.Sprintf("failed to write PDF: %v", err)}
	}

	result := types.RenderResult{
		Success:        true,
		Path:           path,
		Title:          title,
		WordCount:      len(strings.Fields(body)),
		ParagraphCount: len(paragraphs),
		FileSize:       fileSize(path),
		CreatedAt:      createdAt.Format("2006-01-02 15:04:05"),
	}
	logging.Render("Created %s (%d words, %d paragraphs, %s)",
		path, result.WordCount, result.ParagraphCount, result.FileSize)
	return result
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]+`)

// filename builds a slug-and-timestamp name so repeated titles never
// collide.
func (r *PDFRenderer) filename(title string, at time.Time) string {
	slug := unsafeFilenameChars.ReplaceAllString(strings.ToLower(title), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "document"
	}
	if len(slug) > 48 {
		slug = slug[:48]
	}
	return fmt.Sprintf("%s_%s.pdf", slug, at.Format("20060102_150405"))
}

func splitParagraphs(body string) []string {
	var out []string
	for _, p := range strings.Split(body, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown"
	}
	size := info.Size()
	switch {
	case size < 1024:
		return fmt.Sprintf("%d bytes", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}
