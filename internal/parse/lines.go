package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// linePredicate classifies a single trimmed line
type linePredicate func(line string) bool

func allOf(preds ...linePredicate) linePredicate {
	return func(line string) bool {
		for _, p := range preds {
			if !p(line) {
				return false
			}
		}
		return true
	}
}

func anyOf(preds ...linePredicate) linePredicate {
	return func(line string) bool {
		for _, p := range preds {
			if p(line) {
				return true
			}
		}
		return false
	}
}

func not(p linePredicate) linePredicate {
	return func(line string) bool { return !p(line) }
}

func nonEmpty(line string) bool {
	return line != ""
}

func hasPrefix(prefix string) linePredicate {
	return func(line string) bool { return strings.HasPrefix(line, prefix) }
}

// containsAny matches when the line holds any of the given substrings verbatim
func containsAny(subs ...string) linePredicate {
	return func(line string) bool {
		for _, s := range subs {
			if strings.Contains(line, s) {
				return true
			}
		}
		return false
	}
}

// containsFold matches when the lower-cased line holds any of the lower-cased words
func containsFold(words []string) linePredicate {
	return func(line string) bool {
		lower := strings.ToLower(line)
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
}

// lengthBetween bounds the rune length exclusively: min < len < max
func lengthBetween(min, max int) linePredicate {
	return func(line string) bool {
		n := utf8.RuneCountInString(line)
		return n > min && n < max
	}
}

func longerThan(min int) linePredicate {
	return func(line string) bool { return utf8.RuneCountInString(line) > min }
}

func shorterThan(max int) linePredicate {
	return func(line string) bool { return utf8.RuneCountInString(line) < max }
}

// leadingUpper reports whether the first rune is unchanged by upper-casing.
// Digits and punctuation therefore count as capitalized.
func leadingUpper(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	if r == utf8.RuneError {
		return false
	}
	return unicode.ToUpper(r) == r
}

var isMarker = hasPrefix(MarkerPrefix)

// stripMarker removes the marker prefix and surrounding space
func stripMarker(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, MarkerPrefix))
}

// splitLines splits a block into trimmed lines
func splitLines(block string) []string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}

// indexOf returns the index of the first line matching pred, or -1
func indexOf(lines []string, pred linePredicate) int {
	for i, l := range lines {
		if pred(l) {
			return i
		}
	}
	return -1
}
