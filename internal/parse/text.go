package parse

// lookaheadWindow is how many lines past a title candidate are inspected
const lookaheadWindow = 5

// boundaryRule decides whether lines[i] is the translated title that ends
// the original-language text
type boundaryRule struct {
	name  string
	match func(bp *blockParser, i int) bool
}

// translatedTitleRules are tried in order; the first match wins.
//
//  1. marker-title: a marker line whose text reads as a clean title and
//     names no section.
//  2. plain-title: an unmarked title-like line followed, within the
//     lookahead window, by prose and by no section opening.
//
// Both rules only apply once some original text has been collected.
var translatedTitleRules = []boundaryRule{
	{name: "marker-title", match: (*blockParser).isMarkerTitle},
	{name: "plain-title", match: (*blockParser).isPlainTitle},
}

func (bp *blockParser) isMarkerTitle(i int) bool {
	line := bp.lines[i]
	return isMarker(line) && bp.p.rules.markerTitle(stripMarker(line))
}

func (bp *blockParser) isPlainTitle(i int) bool {
	if !bp.p.rules.plainTitle(bp.lines[i]) {
		return false
	}

	hasBody := false
	for k := 1; k <= lookaheadWindow && i+k < len(bp.lines); k++ {
		next := bp.lines[i+k]
		if bp.p.rules.lookaheadStop(next) {
			return false
		}
		if bp.p.rules.bodyLike(next) {
			hasBody = true
		}
	}
	return hasBody
}

// boundaryAt returns the name of the rule that ends the original text at
// lines[i], or "" when the line still belongs to it
func (bp *blockParser) boundaryAt(i int) string {
	for _, r := range translatedTitleRules {
		if r.match(bp, i) {
			return r.name
		}
	}
	return ""
}

type storyText struct {
	original   string
	translated string
}

// parseStoryText splits the prose after the vocabulary into the original
// text and its translation. No delimiter exists between them; the second
// title line is located with translatedTitleRules and dropped.
func (bp *blockParser) parseStoryText() (storyText, error) {
	lines := bp.lines
	rules := bp.p.rules

	start := -1
	for i := bp.pos; i < len(lines); i++ {
		if rules.storyStart(lines[i]) {
			start = i
			break
		}
	}
	if start == -1 {
		return storyText{}, newStoryError(KindMissingStoryText, bp.number, bp.lineAt(bp.pos),
			"Missing story text section")
	}

	i := start
	if rules.redundantTitle(lines[start]) {
		i++
	}

	var original []string
	for ; i < len(lines); i++ {
		if len(original) > 0 && bp.boundaryAt(i) != "" {
			break
		}
		if lines[i] != "" {
			original = append(original, lines[i])
		}
	}

	// Skip the translated title
	i++

	var translated []string
	for ; i < len(lines) && !rules.questionsMarker(lines[i]); i++ {
		if lines[i] != "" {
			translated = append(translated, lines[i])
		}
	}
	bp.pos = i

	text := storyText{
		original:   joinLines(original),
		translated: joinLines(translated),
	}
	if text.original == "" || text.translated == "" {
		return storyText{}, newStoryError(KindMissingBilingualText, bp.number, bp.lineAt(start),
			"Story text must include both original and translated versions")
	}
	return text, nil
}
