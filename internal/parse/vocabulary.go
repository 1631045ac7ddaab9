package parse

import (
	"regexp"
	"strings"

	"github.com/ppiankov/storybook/internal/model"
)

var (
	// word → /ipa/ → pronunciation → translation
	vocabEntryRe = regexp.MustCompile(`^(.+?)\s*→\s*/(.+?)/\s*→\s*(.+?)\s*→\s*(.+)`)
	numberedRe   = regexp.MustCompile(`^\d+\.`)
)

// parseVocabulary collects entries after the vocabulary marker. Lines that do
// not match the entry pattern are skipped without counting.
func (bp *blockParser) parseVocabulary() ([]model.VocabularyWord, error) {
	start := indexOf(bp.lines, bp.p.rules.vocabularyMarker)
	if start == -1 {
		return nil, newStoryError(KindMissingSection, bp.number, bp.lineAt(0),
			"Missing +Vocabulario / +Vocabulary section")
	}

	lines := bp.lines
	words := make([]model.VocabularyWord, 0, model.VocabularySize)
	i := start + 1

	for i < len(lines) {
		line := lines[i]

		if isMarker(line) || (line == "" && i+1 < len(lines) && isMarker(lines[i+1])) {
			break
		}
		if line == "" {
			i++
			continue
		}
		if bp.p.rules.vocabularyStop(line) {
			break
		}

		if m := vocabEntryRe.FindStringSubmatch(line); m != nil {
			words = append(words, model.VocabularyWord{
				Word:          strings.TrimSpace(m[1]),
				IPA:           strings.TrimSpace(m[2]),
				Pronunciation: strings.TrimSpace(m[3]),
				Translation:   strings.TrimSpace(m[4]),
			})
		}
		i++
	}

	bp.pos = i

	if len(words) != model.VocabularySize {
		return nil, newStoryError(KindWrongVocabularyCount, bp.number, bp.lineAt(start),
			"Expected %d vocabulary words, found %d", model.VocabularySize, len(words))
	}
	return words, nil
}
