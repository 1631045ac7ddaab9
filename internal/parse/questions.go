package parse

import (
	"regexp"
	"strings"

	"github.com/ppiankov/storybook/internal/model"
)

var (
	// original / translated, optionally opened with an inverted question mark
	questionRe     = regexp.MustCompile(`^¿?(.+?)\s*/\s*(.+?)$`)
	optionRe       = regexp.MustCompile(`^([a-c])\)\s*(.+?)\s*/\s*(.+)`)
	optionPrefixRe = regexp.MustCompile(`^[a-c]\)`)
)

// parseQuestions reads question/option groups after the questions marker.
// A question whose three option slots do not hold a), b), c) in order is
// dropped without a diagnostic; numbering is dense over kept questions.
func (bp *blockParser) parseQuestions() ([]model.Question, error) {
	lines := bp.lines
	start := indexOf(lines, bp.p.rules.questionsMarker)
	if start == -1 {
		return nil, newStoryError(KindMissingSection, bp.number, bp.lineAt(0),
			"Missing +Preguntas de Comprensión / +Comprehension Questions section")
	}

	var questions []model.Question
	i := start + 1

	for i < len(lines) && !isMarker(lines[i]) {
		line := lines[i]

		if m := questionRe.FindStringSubmatch(line); m != nil && !optionPrefixRe.MatchString(line) {
			options := make([]model.QuestionOption, 0, model.OptionsPerQuestion)

			for slot := 0; slot < model.OptionsPerQuestion; slot++ {
				i++
				if i >= len(lines) {
					continue
				}
				om := optionRe.FindStringSubmatch(lines[i])
				if om == nil || om[1] != model.OptionLetters[slot] {
					continue
				}
				options = append(options, model.QuestionOption{
					Letter:         om[1],
					TextOriginal:   strings.TrimSpace(om[2]),
					TextTranslated: strings.TrimSpace(om[3]),
				})
			}

			if len(options) == model.OptionsPerQuestion {
				questions = append(questions, model.Question{
					Number:             len(questions) + 1,
					QuestionOriginal:   strings.TrimSpace(m[1]),
					QuestionTranslated: strings.TrimSpace(m[2]),
					Options:            options,
				})
			}
		}

		i++
	}
	bp.pos = i

	if len(questions) == 0 {
		return nil, newStoryError(KindNoQuestionsFound, bp.number, bp.lineAt(start),
			"No comprehension questions found")
	}
	return questions, nil
}

// parseAnswers collects answer letters after the answers marker. A missing
// marker yields no answers, which then fails the count check.
func (bp *blockParser) parseAnswers(questionCount int) ([]string, error) {
	lines := bp.lines
	answers := []string{}
	line := bp.lineAt(bp.pos)

	if start := indexOf(lines, bp.p.rules.answersMarker); start != -1 {
		line = bp.lineAt(start)
		for i := start + 1; i < len(lines); i++ {
			l := lines[i]
			if isMarker(l) || bp.p.isStoryHeader(l) {
				break
			}
			if m := optionPrefixRe.FindString(l); m != "" {
				answers = append(answers, m[:1])
			}
		}
	}

	if len(answers) != questionCount {
		return nil, newStoryError(KindAnswerCountMismatch, bp.number, line,
			"Expected %d answers (found %d questions), but found %d answers",
			questionCount, questionCount, len(answers))
	}
	return answers, nil
}
