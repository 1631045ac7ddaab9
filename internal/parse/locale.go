package parse

import (
	"regexp"
	"strings"
)

// MarkerPrefix starts every section marker line
const MarkerPrefix = "+"

// Locale holds the keywords one input language contributes.
// Section keywords are matched case-insensitively as substrings; an empty
// field means the locale contributes nothing for that section.
type Locale struct {
	Code   string
	Header string // Word introducing a story, followed by " <N>:"

	Vocabulary string

	Questions     string // Full marker phrase opening the comprehension questions
	QuestionsWord string // Bare word that also excludes a line from being story text

	Answers     string
	AnswersWord string

	Illustration     string
	IllustrationWord string
}

// DefaultLocales are the languages recognized out of the box.
// Only English and Spanish define section keywords.
var DefaultLocales = []Locale{
	{
		Code:             "en",
		Header:           "Story",
		Vocabulary:       "vocabulary",
		Questions:        "comprehension questions",
		QuestionsWord:    "comprehension",
		Answers:          "correct answers",
		AnswersWord:      "answers",
		Illustration:     "illustration prompt",
		IllustrationWord: "illustration",
	},
	{
		Code:             "es",
		Header:           "Cuento",
		Vocabulary:       "vocabulario",
		Questions:        "preguntas de comprensión",
		QuestionsWord:    "preguntas",
		Answers:          "respuestas correctas",
		AnswersWord:      "respuestas",
		Illustration:     "prompt de ilustración",
		IllustrationWord: "prompt",
	},
	{Code: "fr", Header: "Histoire"},
	{Code: "de", Header: "Geschichte"},
	{Code: "it", Header: "Storia"},
}

// keywords is the flattened, lower-cased view of a locale set
type keywords struct {
	headers []string

	vocabulary    []string
	questions     []string
	questionWords []string
	answers       []string
	answerWords   []string
	illustration  []string

	// textStartExclusions keep question and answer headings from opening the story text
	textStartExclusions []string

	// sectionWords keep marker lines naming a section from passing as a translated title
	sectionWords []string

	headerPattern string // Alternation of quoted header words
}

func newKeywords(locales []Locale) *keywords {
	kw := &keywords{}
	add := func(dst *[]string, v string) {
		if v != "" {
			*dst = append(*dst, strings.ToLower(v))
		}
	}

	var quoted []string
	for _, l := range locales {
		if l.Header != "" {
			kw.headers = append(kw.headers, l.Header)
			quoted = append(quoted, regexp.QuoteMeta(l.Header))
		}
		add(&kw.vocabulary, l.Vocabulary)
		add(&kw.questions, l.Questions)
		add(&kw.questionWords, l.QuestionsWord)
		add(&kw.answers, l.Answers)
		add(&kw.answerWords, l.AnswersWord)
		add(&kw.illustration, l.Illustration)
	}

	kw.textStartExclusions = append(kw.textStartExclusions, kw.questionWords...)
	kw.textStartExclusions = append(kw.textStartExclusions, kw.answerWords...)

	kw.sectionWords = append(kw.sectionWords, kw.vocabulary...)
	kw.sectionWords = append(kw.sectionWords, kw.questionWords...)
	kw.sectionWords = append(kw.sectionWords, kw.answerWords...)
	for _, l := range locales {
		add(&kw.sectionWords, l.IllustrationWord)
	}

	kw.headerPattern = "(?:" + strings.Join(quoted, "|") + ")"
	return kw
}
