package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
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

// brokenStory has no vocabulary section
const brokenStory = `Story 1: La Casa / The House
Había una casa vieja en el pueblo.
`

// execute runs the root command with fresh flag values
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("STORYBOOK_LLM_PROVIDER", "none")
	t.Setenv("STORYBOOK_CACHE_ENABLED", "false")

	outJSON, outMD, strict, noFooter = "", "", false, false
	genTypes, bookTitle, bookAuthor, bookLang = nil, "", "", ""
	dbPath, docOutput, storiesCount = "", "", 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "storybook "+Version) {
		t.Errorf("Expected version line, got %q", out)
	}
}

func TestParseCommand_WritesJSON(t *testing.T) {
	input := writeInput(t, "stories.txt", validStory)
	jsonPath := filepath.Join(t.TempDir(), "out.json")

	if _, err := execute(t, "parse", input, "--json", jsonPath); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}

	var report struct {
		Summary struct {
			Stories int `json:"stories"`
			Errors  int `json:"errors"`
		} `json:"summary"`
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if report.Summary.Stories != 1 {
		t.Errorf("Expected 1 story, got %d", report.Summary.Stories)
	}
	if !report.Valid {
		t.Errorf("Expected valid report, got %d errors", report.Summary.Errors)
	}
}

func TestParseCommand_Strict(t *testing.T) {
	input := writeInput(t, "broken.txt", brokenStory)

	if _, err := execute(t, "parse", input); err != nil {
		t.Errorf("Expected errors to be reported without failing, got %v", err)
	}

	_, err := execute(t, "parse", input, "--strict")
	if !errors.Is(err, errStrict) {
		t.Errorf("Expected strict failure, got %v", err)
	}
}

func TestParseCommand_InvalidGenerationType(t *testing.T) {
	input := writeInput(t, "stories.txt", validStory)

	_, err := execute(t, "parse", input, "--generate", "preface")
	if err == nil || !strings.Contains(err.Error(), "invalid generation type") {
		t.Errorf("Expected invalid generation type error, got %v", err)
	}
}

func TestParseGenerationTypes(t *testing.T) {
	types, err := parseGenerationTypes([]string{"introduction", "howToUse"})
	if err != nil {
		t.Fatalf("parseGenerationTypes failed: %v", err)
	}
	if len(types) != 2 || types[1] != "howToUse" {
		t.Errorf("Expected [introduction howToUse], got %v", types)
	}
}

func TestSchemaCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"schema"}, "ParseResult"},
		{[]string{"schema", "--report"}, "Report"},
	}

	for _, tt := range tests {
		schemaReport = false
		out, err := execute(t, tt.args...)
		if err != nil {
			t.Fatalf("%v failed: %v", tt.args, err)
		}
		if !strings.Contains(out, tt.want) {
			t.Errorf("%v: expected schema for %s", tt.args, tt.want)
		}
		if !strings.Contains(out, `"stories"`) {
			t.Errorf("%v: expected stories property", tt.args)
		}
	}
	schemaReport = false
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".storybook", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{"llm:", "provider: openrouter", "store:", "debounce:"} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected config to contain %q", want)
		}
	}
	if strings.Contains(content, "api_key") {
		t.Error("Expected API key to be left out of the config file")
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("Expected error when config already exists")
	}
}

func TestDocsCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "docs.db")
	book := writeInput(t, "book.docx", "PK fake docx")

	out, err := execute(t, "docs", "save", book, "--db", db, "--title", "Cuentos", "--language", "es", "--stories", "3")
	if err != nil {
		t.Fatalf("docs save failed: %v", err)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		t.Fatal("Expected document ID on stdout")
	}

	out, err = execute(t, "docs", "list", "--db", db)
	if err != nil {
		t.Fatalf("docs list failed: %v", err)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "Cuentos") {
		t.Errorf("Expected listing to contain %s and title, got %q", id, out)
	}

	target := filepath.Join(t.TempDir(), "copy.docx")
	if _, err := execute(t, "docs", "get", id, "--db", db, "-o", target); err != nil {
		t.Fatalf("docs get failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil || string(data) != "PK fake docx" {
		t.Errorf("Expected stored bytes, got %q (%v)", data, err)
	}

	if _, err := execute(t, "docs", "delete", id, "--db", db); err != nil {
		t.Fatalf("docs delete failed: %v", err)
	}

	_, err = execute(t, "docs", "get", id, "--db", db, "-o", target)
	if err == nil || !strings.Contains(err.Error(), "document not found") {
		t.Errorf("Expected not found error, got %v", err)
	}

	_, err = execute(t, "docs", "delete", "not-a-uuid", "--db", db)
	if err == nil || !strings.Contains(err.Error(), "invalid document ID") {
		t.Errorf("Expected invalid ID error, got %v", err)
	}
}
