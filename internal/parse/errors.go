package parse

import (
	"fmt"
)

// ErrorKind classifies why a story block could not be parsed
type ErrorKind string

const (
	KindMalformedTitle       ErrorKind = "malformed_title"
	KindMissingSection       ErrorKind = "missing_section"
	KindWrongVocabularyCount ErrorKind = "wrong_vocabulary_count"
	KindMissingStoryText     ErrorKind = "missing_story_text"
	KindMissingBilingualText ErrorKind = "missing_bilingual_text"
	KindNoQuestionsFound     ErrorKind = "no_questions_found"
	KindAnswerCountMismatch  ErrorKind = "answer_count_mismatch"
	KindInternal             ErrorKind = "internal"
)

// Error is a story-level parse failure. The message is user-facing and
// names the story and the violated expectation.
type Error struct {
	Kind    ErrorKind
	Story   int // Story number, 0 when the title could not be read
	Line    int // 1-based line in the raw input, 0 when unknown
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newStoryError(kind ErrorKind, story, line int, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Story:   story,
		Line:    line,
		Message: fmt.Sprintf("Story %d: ", story) + fmt.Sprintf(format, args...),
	}
}
