package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/storybook/internal/model"
)

func sampleReport() *model.Report {
	story := model.Story{
		Number:          1,
		TitleOriginal:   "La Casa",
		TitleTranslated: "The House",
		Vocabulary: []model.VocabularyWord{
			{Word: "casa", IPA: "/ˈka.sa/", Pronunciation: "KAH-sah", Translation: "house | home"},
		},
		TextOriginal:   "Había una casa.",
		TextTranslated: "There was a house.",
		Questions: []model.Question{
			{
				Number:             1,
				QuestionOriginal:   "¿Qué había?",
				QuestionTranslated: "What was there?",
				Options: []model.QuestionOption{
					{Letter: "a", TextOriginal: "Una casa", TextTranslated: "A house"},
					{Letter: "b", TextOriginal: "Un perro", TextTranslated: "A dog"},
					{Letter: "c", TextOriginal: "Un gato", TextTranslated: "A cat"},
				},
			},
		},
		Answers:            []string{"a"},
		IllustrationPrompt: "An old house at dusk",
	}

	result := model.ParseResult{
		Stories: []model.Story{story},
		Errors: []model.Diagnostic{
			{Message: "Story numbers are not sequential. Expected 1, found 2", Severity: model.SeverityWarning},
			{Line: 4, Message: "Story 2: Expected 10 vocabulary words, found 9", Severity: model.SeverityError},
		},
	}
	return model.NewReport("stories.txt", result)
}

func TestMarkdown_Story(t *testing.T) {
	out := NewRenderer(false).Markdown(sampleReport())

	wants := []string{
		"## Story 1: La Casa / The House",
		"| casa | /ˈka.sa/ | KAH-sah | house \\| home |",
		"### La Casa\n\nHabía una casa.",
		"### The House\n\nThere was a house.",
		"1. ¿Qué había? / What was there?",
		"   - a) Una casa / A house",
		"   - c) Un gato / A cat",
		"### Answers\n\n1. a",
		"> An old house at dusk",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("Expected markdown to contain %q\n%s", want, out)
		}
	}

	// The vocabulary table has its own |---| separator, so look for the footer itself
	if strings.Contains(out, "---\n\n_") || strings.Contains(out, " stories, 1 questions") {
		t.Errorf("Expected no footer when disabled, got:\n%s", out)
	}
}

func TestMarkdown_DiagnosticsErrorsFirst(t *testing.T) {
	out := NewRenderer(false).Markdown(sampleReport())

	errIdx := strings.Index(out, "**error** (line 4)")
	warnIdx := strings.Index(out, "**warning**: Story numbers")
	if errIdx < 0 || warnIdx < 0 {
		t.Fatalf("Expected both diagnostics in output:\n%s", out)
	}
	if errIdx > warnIdx {
		t.Error("Expected errors to be listed before warnings")
	}
}

func TestMarkdown_Footer(t *testing.T) {
	out := NewRenderer(true).Markdown(sampleReport())
	if !strings.Contains(out, "---\n\n_1 stories, 1 questions, 1 errors, 1 warnings._") {
		t.Errorf("Expected footer with counts, got:\n%s", out)
	}
}

func TestMarkdown_BookSections(t *testing.T) {
	report := sampleReport()
	report.Book = &model.BookInfo{
		Metadata: model.BookMetadata{Title: "Cuentos", Author: "Ana"},
		Generated: []model.GeneratedSection{
			{Type: model.GenerateIntroduction, Content: "Welcome, reader."},
			{Type: model.GenerateDescription, Content: "<p>A <b>bold</b> book.</p><ul><li>Ten stories</li></ul>"},
		},
	}

	out := NewRenderer(false).Markdown(report)

	for _, want := range []string{"# Cuentos", "_by Ana_", "## Introduction\n\nWelcome, reader.", "## Description", "**bold**", "- Ten stories"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected markdown to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "<p>") {
		t.Error("Expected description HTML to be converted")
	}
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := NewRenderer(false).RenderJSON(sampleReport(), path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected valid JSON: %v", err)
	}
	if decoded.Summary.Stories != 1 {
		t.Errorf("Expected 1 story, got %d", decoded.Summary.Stories)
	}
	if decoded.Result.Stories[0].TitleOriginal != "La Casa" {
		t.Errorf("Expected title La Casa, got %s", decoded.Result.Stories[0].TitleOriginal)
	}
}

func TestRenderMarkdown_BadPath(t *testing.T) {
	err := NewRenderer(false).RenderMarkdown(sampleReport(), filepath.Join(t.TempDir(), "missing", "out.md"))
	if err == nil {
		t.Error("Expected error for unwritable path")
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(false).RenderSummary(&buf, sampleReport())

	out := buf.String()
	if !strings.HasPrefix(out, "✗ stories.txt: 1 stories, 1 questions, 1 errors, 1 warnings") {
		t.Errorf("Unexpected summary header: %q", out)
	}
	if !strings.Contains(out, "[error] line 4: Story 2") {
		t.Errorf("Expected error line, got %q", out)
	}
	if !strings.Contains(out, "[warn] Story numbers") {
		t.Errorf("Expected warning line, got %q", out)
	}
}
