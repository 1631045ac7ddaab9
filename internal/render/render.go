package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/ppiankov/storybook/internal/model"
)

var excessiveLinesRe = regexp.MustCompile(`\n{3,}`)

// Renderer writes reports as JSON, Markdown previews and terminal summaries
type Renderer struct {
	includeFooter bool
	converter     *md.Converter
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{
		includeFooter: includeFooter,
		converter:     md.NewConverter("", true, nil),
	}
}

// RenderJSON writes the report as indented JSON. "-" means stdout.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeTo(path, func(w io.Writer) error {
		return r.WriteJSON(w, report)
	})
}

// WriteJSON encodes the report to w
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the Markdown preview. "-" means stdout.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeTo(path, func(w io.Writer) error {
		_, err := io.WriteString(w, r.Markdown(report))
		return err
	})
}

// Markdown builds the preview document for a report
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	if report.Book != nil {
		r.writeBook(&b, report.Book)
	}

	for i := range report.Result.Stories {
		writeStory(&b, &report.Result.Stories[i])
	}

	writeDiagnostics(&b, report.Result.Errors)

	if r.includeFooter {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "_%d stories, %d questions, %d errors, %d warnings._\n",
			report.Summary.Stories, report.Summary.Questions, report.Summary.Errors, report.Summary.Warnings)
	}

	return excessiveLinesRe.ReplaceAllString(b.String(), "\n\n")
}

func (r *Renderer) writeBook(b *strings.Builder, book *model.BookInfo) {
	meta := book.Metadata
	if meta.Title != "" {
		fmt.Fprintf(b, "# %s\n\n", meta.Title)
	}
	if meta.Author != "" {
		fmt.Fprintf(b, "_by %s_\n\n", meta.Author)
	}

	for _, section := range book.Generated {
		fmt.Fprintf(b, "## %s\n\n", sectionHeading(section.Type))
		content := section.Content
		if section.Type == model.GenerateDescription {
			content = r.HTMLToMarkdown(content)
		}
		b.WriteString(strings.TrimSpace(content))
		b.WriteString("\n\n")
	}
}

// HTMLToMarkdown converts sanitised description HTML for the preview.
// On conversion failure the input is returned unchanged.
func (r *Renderer) HTMLToMarkdown(html string) string {
	out, err := r.converter.ConvertString(html)
	if err != nil {
		return html
	}
	return strings.TrimSpace(out)
}

func sectionHeading(t model.GenerationType) string {
	switch t {
	case model.GenerateIntroduction:
		return "Introduction"
	case model.GenerateHowToUse:
		return "How to Use This Book"
	case model.GenerateConclusion:
		return "Conclusion"
	case model.GenerateDescription:
		return "Description"
	}
	return string(t)
}

func writeStory(b *strings.Builder, s *model.Story) {
	fmt.Fprintf(b, "## Story %d: %s / %s\n\n", s.Number, s.TitleOriginal, s.TitleTranslated)

	b.WriteString("### Vocabulary\n\n")
	b.WriteString("| Word | IPA | Pronunciation | Translation |\n")
	b.WriteString("|------|-----|---------------|-------------|\n")
	for _, v := range s.Vocabulary {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", cell(v.Word), cell(v.IPA), cell(v.Pronunciation), cell(v.Translation))
	}
	b.WriteString("\n")

	fmt.Fprintf(b, "### %s\n\n%s\n\n", s.TitleOriginal, s.TextOriginal)
	fmt.Fprintf(b, "### %s\n\n%s\n\n", s.TitleTranslated, s.TextTranslated)

	if len(s.Questions) > 0 {
		b.WriteString("### Comprehension Questions\n\n")
		for _, q := range s.Questions {
			fmt.Fprintf(b, "%d. %s / %s\n", q.Number, q.QuestionOriginal, q.QuestionTranslated)
			for _, o := range q.Options {
				fmt.Fprintf(b, "   - %s) %s / %s\n", o.Letter, o.TextOriginal, o.TextTranslated)
			}
		}
		b.WriteString("\n")
	}

	if len(s.Answers) > 0 {
		b.WriteString("### Answers\n\n")
		for i, a := range s.Answers {
			fmt.Fprintf(b, "%d. %s\n", i+1, a)
		}
		b.WriteString("\n")
	}

	if s.IllustrationPrompt != "" {
		fmt.Fprintf(b, "### Illustration\n\n> %s\n\n", s.IllustrationPrompt)
	}
}

// writeDiagnostics lists errors before warnings, each group in reported order
func writeDiagnostics(b *strings.Builder, diags []model.Diagnostic) {
	if len(diags) == 0 {
		return
	}

	b.WriteString("## Diagnostics\n\n")
	for _, sev := range []model.Severity{model.SeverityError, model.SeverityWarning} {
		for _, d := range diags {
			if d.Severity != sev {
				continue
			}
			if d.Line > 0 {
				fmt.Fprintf(b, "- **%s** (line %d): %s\n", sev, d.Line, d.Message)
			} else {
				fmt.Fprintf(b, "- **%s**: %s\n", sev, d.Message)
			}
		}
	}
	b.WriteString("\n")
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// RenderSummary prints a short human summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	status := "✓"
	if !report.Valid {
		status = "✗"
	}

	fmt.Fprintf(w, "%s %s: %d stories, %d questions, %d errors, %d warnings\n",
		status, report.Source, report.Summary.Stories, report.Summary.Questions,
		report.Summary.Errors, report.Summary.Warnings)

	for _, d := range report.Result.Errors {
		marker := "error"
		if !d.IsError() {
			marker = "warn"
		}
		if d.Line > 0 {
			fmt.Fprintf(w, "  [%s] line %d: %s\n", marker, d.Line, d.Message)
		} else {
			fmt.Fprintf(w, "  [%s] %s\n", marker, d.Message)
		}
	}
}

func writeTo(path string, fn func(io.Writer) error) error {
	if path == "-" {
		return fn(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
