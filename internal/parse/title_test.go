package parse

import (
	"strings"
	"testing"
)

func parseTitleLine(t *testing.T, line string) (title, error) {
	t.Helper()
	p := NewParser()
	bp := &blockParser{p: p, block: Block{Line: 1}, lines: []string{line}, startLine: 1}
	return bp.parseTitle()
}

func TestParseTitle_Grammars(t *testing.T) {
	tests := []struct {
		line           string
		wantNumber     int
		wantOriginal   string
		wantTranslated string
	}{
		{"Story 1: La Casa / The House", 1, "La Casa", "The House"},
		{"Cuento 12:   El Perro   (The Dog)", 12, "El Perro", "The Dog"},
		{"Storia 3: Il Gatto - The Cat", 3, "Il Gatto", "The Cat"},
		{"Geschichte 4: Der Mond", 4, "Der Mond", "Der Mond"},
		{"STORY 5: Upper / Case", 5, "Upper", "Case"},
		// Slash wins over parentheses when both are present
		{"Story 6: A (x) / B", 6, "A (x)", "B"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseTitleLine(t, tt.line)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got.number != tt.wantNumber || got.original != tt.wantOriginal || got.translated != tt.wantTranslated {
				t.Errorf("Expected %d %q %q, got %d %q %q",
					tt.wantNumber, tt.wantOriginal, tt.wantTranslated,
					got.number, got.original, got.translated)
			}
		})
	}
}

func TestParseTitle_Malformed(t *testing.T) {
	_, err := parseTitleLine(t, "Once upon a time")
	if err == nil {
		t.Fatal("Expected error for a line without a header")
	}

	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if perr.Kind != KindMalformedTitle {
		t.Errorf("Expected kind %s, got %s", KindMalformedTitle, perr.Kind)
	}
	if !strings.Contains(perr.Message, `"Once upon a time"`) {
		t.Errorf("Expected message to quote the line, got %q", perr.Message)
	}
	for _, usage := range []string{
		"Story [number]: Title / Translated Title",
		"Story [number]: Title (Translated Title)",
		"Story [number]: Title - Translated Title",
		"Story [number]: Title",
	} {
		if !strings.Contains(perr.Message, usage) {
			t.Errorf("Expected message to list %q", usage)
		}
	}
}

func TestSnippet(t *testing.T) {
	if got := snippet("short", 10); got != "short" {
		t.Errorf("Expected unchanged string, got %q", got)
	}
	if got := snippet("ñandúñandú", 3); got != "ñan…" {
		t.Errorf("Expected rune-safe truncation, got %q", got)
	}
}
