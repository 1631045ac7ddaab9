package model

// VocabularyWord is one entry of a story's vocabulary list
type VocabularyWord struct {
	Word          string `json:"word"`
	IPA           string `json:"ipa"`
	Pronunciation string `json:"pronunciation"` // Human-readable pronunciation guide
	Translation   string `json:"translation"`
}

// QuestionOption is one multiple-choice answer
type QuestionOption struct {
	Letter         string `json:"letter"` // a, b or c
	TextOriginal   string `json:"textOriginal"`
	TextTranslated string `json:"textTranslated"`
}

// Question is a bilingual comprehension question with exactly three options
type Question struct {
	Number             int              `json:"number"` // 1-based, assigned while parsing
	QuestionOriginal   string           `json:"questionOriginal"`
	QuestionTranslated string           `json:"questionTranslated"`
	Options            []QuestionOption `json:"options"`
}

// Story is a fully parsed language-learning story.
// Stories are built once per parse pass and never mutated afterwards.
type Story struct {
	Number             int              `json:"number"`
	TitleOriginal      string           `json:"titleOriginal"`
	TitleTranslated    string           `json:"titleTranslated"`
	Vocabulary         []VocabularyWord `json:"vocabulary"`
	TextOriginal       string           `json:"textOriginal"`
	TextTranslated     string           `json:"textTranslated"`
	Questions          []Question       `json:"questions"`
	Answers            []string         `json:"answers"` // Positional: Answers[i] belongs to Questions[i]
	IllustrationPrompt string           `json:"illustrationPrompt,omitempty"`
}

// VocabularySize is the number of vocabulary entries every story carries
const VocabularySize = 10

// OptionsPerQuestion is the number of options every question carries
const OptionsPerQuestion = 3

// OptionLetters lists the option letters in their required order
var OptionLetters = []string{"a", "b", "c"}

// Severity classifies a diagnostic
type Severity string

const (
	SeverityError   Severity = "error"   // Story is unusable and excluded
	SeverityWarning Severity = "warning" // Advisory only
)

// Diagnostic is a parse or validation problem reported to the person editing the input
type Diagnostic struct {
	Line     int      `json:"line,omitempty"` // 1-based line in the raw input, 0 when unknown
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// IsError reports whether the diagnostic blocks downstream use
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// ParseResult is the outcome of one parse pass.
// Errors may be non-empty even when Stories is non-empty.
type ParseResult struct {
	Stories []Story      `json:"stories"`
	Errors  []Diagnostic `json:"errors"`
}

// ErrorCount returns the number of error-severity diagnostics
func (r ParseResult) ErrorCount() int {
	count := 0
	for _, d := range r.Errors {
		if d.IsError() {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-severity diagnostics
func (r ParseResult) WarningCount() int {
	return len(r.Errors) - r.ErrorCount()
}

// IsValid mirrors the readiness check of the editor: at least one story and no errors
func (r ParseResult) IsValid() bool {
	return len(r.Stories) > 0 && r.ErrorCount() == 0
}
