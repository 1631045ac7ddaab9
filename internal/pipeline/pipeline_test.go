package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/ppiankov/storybook/internal/llm"
	"github.com/ppiankov/storybook/internal/model"
)

const validStory = `Story 1: La Casa / The House
+Vocabulario / Vocabulary
casa → /ˈka.sa/ → KAH-sah → house
vieja → /ˈbje.xa/ → BYEH-hah → old
pueblo → /ˈpwe.βlo/ → PWEH-bloh → town
nadie → /ˈna.ðje/ → NAH-dyeh → nobody
niños → /ˈni.ɲos/ → NEE-nyohs → children
noche → /ˈno.tʃe/ → NOH-cheh → night
luz → /lus/ → loos → light
ventana → /benˈta.na/ → behn-TAH-nah → window
miedo → /ˈmje.ðo/ → MYEH-doh → fear
puerta → /ˈpweɾ.ta/ → PWEHR-tah → door

La Casa
Había una casa vieja en el pueblo. Nadie vivía allí.

+The House
There was an old house in the town. Nobody lived there.

+Preguntas de Comprensión / Comprehension Questions
¿Dónde estaba la casa? / Where was the house?
a) En el pueblo / In the town
b) En el bosque / In the forest
c) En la playa / On the beach

+Respuestas Correctas / Correct Answers
a) En el pueblo / In the town
`

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = ""
	cfg.Cache.Enabled = false
	return cfg
}

func TestProcess_ValidStory(t *testing.T) {
	p := NewPipeline(testConfig())

	report := p.Process("stories.txt", validStory)

	if !report.Valid {
		t.Fatalf("Expected valid report, got errors: %+v", report.Result.Errors)
	}
	if report.Summary.Stories != 1 {
		t.Errorf("Expected 1 story, got %d", report.Summary.Stories)
	}
	if report.Summary.Questions != 1 {
		t.Errorf("Expected 1 question, got %d", report.Summary.Questions)
	}
	if report.Source != "stories.txt" {
		t.Errorf("Expected source stories.txt, got %s", report.Source)
	}
}

func TestProcess_ParseErrorsBeforeValidation(t *testing.T) {
	p := NewPipeline(testConfig())

	broken := strings.Replace(validStory, "Story 1:", "Story 2:", 1)
	broken = strings.Replace(broken, "puerta → /ˈpweɾ.ta/ → PWEHR-tah → door\n", "", 1)
	input := validStory + "\n" + broken + "\n" + strings.Replace(validStory, "Story 1:", "Story 3:", 1)

	report := p.Process("mixed.txt", input)

	if report.Summary.Stories != 2 {
		t.Fatalf("Expected 2 stories, got %d", report.Summary.Stories)
	}
	if len(report.Result.Errors) != 2 {
		t.Fatalf("Expected 2 diagnostics, got %+v", report.Result.Errors)
	}

	first := report.Result.Errors[0]
	if first.Severity != model.SeverityError || !strings.Contains(first.Message, "Story 2: Expected 10 vocabulary words, found 9") {
		t.Errorf("Expected parse error first, got %+v", first)
	}

	second := report.Result.Errors[1]
	if second.Severity != model.SeverityWarning || second.Message != "Story numbers are not sequential. Expected 2, found 3" {
		t.Errorf("Expected numbering warning second, got %+v", second)
	}
	if report.Valid {
		t.Error("Expected report with errors to be invalid")
	}
}

func TestProcess_Empty(t *testing.T) {
	report := NewPipeline(testConfig()).Process("-", "")

	if report.Summary.Stories != 0 {
		t.Errorf("Expected 0 stories, got %d", report.Summary.Stories)
	}
	if report.Summary.Warnings != 1 || report.Summary.Errors != 0 {
		t.Errorf("Expected a single warning, got %+v", report.Summary)
	}
}

func TestDecode(t *testing.T) {
	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("Story 1: Añejo"))
	if err != nil {
		t.Fatal(err)
	}
	utf16be, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("Story 1: Añejo"))
	if err != nil {
		t.Fatal(err)
	}
	latin, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Story 1: Añejo"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"plain utf-8", []byte("Story 1: Añejo"), "Story 1: Añejo"},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("Story 1: Añejo")...), "Story 1: Añejo"},
		{"utf-16le bom", utf16le, "Story 1: Añejo"},
		{"utf-16be bom", utf16be, "Story 1: Añejo"},
		{"windows-1252", latin, "Story 1: Añejo"},
		{"crlf", []byte("a\r\nb\rc"), "a\nb\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "story.txt")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(strings.ReplaceAll(validStory, "\n", "\r\n"))...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := NewPipeline(testConfig()).ParseFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if !report.Valid {
		t.Errorf("Expected valid report, got %+v", report.Result.Errors)
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := NewPipeline(testConfig()).ParseFile(context.Background(), filepath.Join(t.TempDir(), "none.txt"))
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

type stubProvider struct {
	content string
	err     error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.content, Model: "stub-model"}, nil
}

func (s *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func TestGenerate_AttachesSections(t *testing.T) {
	cfg := testConfig()
	gen := llm.NewGeneratorWithProvider(&stubProvider{content: "  Welcome.  "}, llm.ConfigFromModel(cfg.LLM))
	p := NewPipelineWithGenerator(cfg, gen)

	report := p.Process("stories.txt", validStory)
	meta := model.BookMetadata{Title: "Cuentos", Author: "Ana", Language: "es"}

	err := p.Generate(context.Background(), report, meta, []model.GenerationType{model.GenerateIntroduction, model.GenerateConclusion})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.Book == nil || len(report.Book.Generated) != 2 {
		t.Fatalf("Expected 2 generated sections, got %+v", report.Book)
	}
	if report.Book.Generated[0].Content != "Welcome." {
		t.Errorf("Expected trimmed content, got %q", report.Book.Generated[0].Content)
	}
	if report.Book.Metadata.Title != "Cuentos" {
		t.Errorf("Expected metadata title Cuentos, got %s", report.Book.Metadata.Title)
	}
}

func TestGenerate_ReportsFirstFailure(t *testing.T) {
	cfg := testConfig()
	boom := errors.New("boom")
	gen := llm.NewGeneratorWithProvider(&stubProvider{err: boom}, llm.ConfigFromModel(cfg.LLM),
		llm.WithRetry(1, time.Millisecond))
	p := NewPipelineWithGenerator(cfg, gen)

	report := p.Process("stories.txt", validStory)
	err := p.Generate(context.Background(), report, model.BookMetadata{Title: "T", Author: "A", Language: "es"},
		[]model.GenerationType{model.GenerateIntroduction})
	if err == nil {
		t.Fatal("Expected error from failing provider")
	}
	if !strings.Contains(err.Error(), "generate introduction") {
		t.Errorf("Expected wrapped error, got %v", err)
	}
	if len(report.Book.Generated) != 0 {
		t.Errorf("Expected no sections, got %d", len(report.Book.Generated))
	}
}

func TestGenerate_Disabled(t *testing.T) {
	p := NewPipeline(testConfig())
	report := p.Process("stories.txt", validStory)

	err := p.Generate(context.Background(), report, model.BookMetadata{Title: "T", Author: "A", Language: "es"},
		[]model.GenerationType{model.GenerateIntroduction})
	if !errors.Is(err, llm.ErrDisabled) {
		t.Errorf("Expected ErrDisabled, got %v", err)
	}
}

func TestNewPipeline_MissingAPIKeyIsQuietUntilGenerate(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	cfg := testConfig()
	cfg.LLM.Provider = "openrouter"
	cfg.LLM.APIKey = ""

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	stderr := os.Stderr
	os.Stderr = w
	p := NewPipeline(cfg)
	os.Stderr = stderr
	_ = w.Close()

	var buf strings.Builder
	b := make([]byte, 512)
	for {
		n, readErr := r.Read(b)
		buf.Write(b[:n])
		if readErr != nil {
			break
		}
	}
	_ = r.Close()

	if buf.Len() != 0 {
		t.Errorf("Expected no output while building the pipeline, got %q", buf.String())
	}
	if p.GeneratorErr() == nil {
		t.Fatal("Expected the provider error to be kept")
	}

	report := p.Process("stories.txt", validStory)
	if report.Summary.Stories != 1 {
		t.Errorf("Expected parsing to work without a provider, got %d stories", report.Summary.Stories)
	}

	err = p.Generate(context.Background(), report, model.BookMetadata{Title: "T", Author: "A", Language: "es"},
		[]model.GenerationType{model.GenerateIntroduction})
	if !errors.Is(err, p.GeneratorErr()) {
		t.Errorf("Expected Generate to report the provider error, got %v", err)
	}
}

func TestOutputPaths(t *testing.T) {
	j, m := OutputPaths("stories/a.txt", "out")
	if j != filepath.Join("out", "a")+".json" || m != filepath.Join("out", "a")+".md" {
		t.Errorf("Unexpected paths: %s %s", j, m)
	}

	j, _ = OutputPaths("b.story.txt", "")
	if j != "b.story.json" {
		t.Errorf("Expected b.story.json, got %s", j)
	}
}
