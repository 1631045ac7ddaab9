package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// titleGrammar is one accepted shape of the header line
type titleGrammar struct {
	usage   string // Shown to the user when no grammar matches
	pattern *regexp.Regexp
}

// newTitleGrammars returns the header grammars in the order they are tried.
// The bare form comes last so that a separator is always preferred.
func newTitleGrammars(header string) []titleGrammar {
	prefix := `(?i)` + header + ` (\d+):\s*`
	return []titleGrammar{
		{usage: "Story [number]: Title / Translated Title", pattern: regexp.MustCompile(prefix + `(.+?)\s*/\s*(.+)`)},
		{usage: "Story [number]: Title (Translated Title)", pattern: regexp.MustCompile(prefix + `(.+?)\s*\(\s*(.+?)\s*\)`)},
		{usage: "Story [number]: Title - Translated Title", pattern: regexp.MustCompile(prefix + `(.+?)\s*-\s*(.+)`)},
		{usage: "Story [number]: Title", pattern: regexp.MustCompile(prefix + `(.+)`)},
	}
}

type title struct {
	number     int
	original   string
	translated string
}

// parseTitle reads the story number and both titles from the first line
func (bp *blockParser) parseTitle() (title, error) {
	line := ""
	if len(bp.lines) > 0 {
		line = bp.lines[0]
	}

	for _, g := range bp.p.titles {
		m := g.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		number, err := strconv.Atoi(m[1])
		if err != nil {
			break
		}

		t := title{
			number:   number,
			original: strings.TrimSpace(m[2]),
		}
		t.translated = t.original
		if len(m) > 3 {
			t.translated = strings.TrimSpace(m[3])
		}

		bp.pos = 1
		return t, nil
	}

	return title{}, bp.malformedTitle(line)
}

func (bp *blockParser) malformedTitle(line string) *Error {
	var b strings.Builder
	fmt.Fprintf(&b, "Story block %d (%q): Invalid story title format. Supported formats:", bp.block.Index+1, snippet(line, 40))
	for _, g := range bp.p.titles {
		b.WriteString("\n- ")
		b.WriteString(g.usage)
	}

	return &Error{
		Kind:    KindMalformedTitle,
		Line:    bp.lineAt(0),
		Message: b.String(),
	}
}

// snippet shortens s to at most n runes for use in messages
func snippet(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
