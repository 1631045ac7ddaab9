package validate

import (
	"fmt"
	"sort"

	"github.com/ppiankov/storybook/internal/model"
)

// storyCheck inspects one story and returns error messages for it
type storyCheck func(s model.Story) []string

// Validator runs collection-wide and per-story checks over parsed stories.
// It is also used on story collections that never went through the parser,
// so it repeats the count checks the parser already enforces.
type Validator struct {
	checks []storyCheck
}

// NewValidator creates a validator with the standard story checks
func NewValidator() *Validator {
	return &Validator{
		checks: []storyCheck{
			checkVocabulary,
			checkQuestions,
			checkAnswers,
			checkOptions,
			checkText,
		},
	}
}

var defaultValidator = NewValidator()

// Validate runs the standard checks
func Validate(stories []model.Story) []model.Diagnostic {
	return defaultValidator.Validate(stories)
}

// Validate returns diagnostics for the given stories. An empty collection
// produces a single warning and nothing else.
func (v *Validator) Validate(stories []model.Story) []model.Diagnostic {
	diags := []model.Diagnostic{}

	if len(stories) == 0 {
		return append(diags, model.Diagnostic{
			Message:  "No stories found. Please add at least one story.",
			Severity: model.SeverityWarning,
		})
	}

	for _, s := range stories {
		for _, check := range v.checks {
			for _, msg := range check(s) {
				diags = append(diags, model.Diagnostic{
					Message:  msg,
					Severity: model.SeverityError,
				})
			}
		}
	}

	if d, ok := checkNumbering(stories); ok {
		diags = append(diags, d)
	}

	return diags
}

// checkNumbering warns once when the sorted story numbers are not 1..N,
// naming the first position that differs
func checkNumbering(stories []model.Story) (model.Diagnostic, bool) {
	numbers := make([]int, len(stories))
	for i, s := range stories {
		numbers[i] = s.Number
	}
	sort.Ints(numbers)

	for i, n := range numbers {
		if n != i+1 {
			return model.Diagnostic{
				Message:  fmt.Sprintf("Story numbers are not sequential. Expected %d, found %d", i+1, n),
				Severity: model.SeverityWarning,
			}, true
		}
	}
	return model.Diagnostic{}, false
}

func checkVocabulary(s model.Story) []string {
	if len(s.Vocabulary) != model.VocabularySize {
		return []string{fmt.Sprintf("Story %d: Must have exactly %d vocabulary words", s.Number, model.VocabularySize)}
	}
	return nil
}

func checkQuestions(s model.Story) []string {
	if len(s.Questions) == 0 {
		return []string{fmt.Sprintf("Story %d: Must have at least one comprehension question", s.Number)}
	}
	return nil
}

func checkAnswers(s model.Story) []string {
	if len(s.Answers) != len(s.Questions) {
		return []string{fmt.Sprintf("Story %d: Number of answers (%d) must match number of questions (%d)",
			s.Number, len(s.Answers), len(s.Questions))}
	}
	return nil
}

func checkOptions(s model.Story) []string {
	var msgs []string
	for _, q := range s.Questions {
		if len(q.Options) != model.OptionsPerQuestion {
			msgs = append(msgs, fmt.Sprintf("Story %d, Question %d: Must have exactly %d options",
				s.Number, q.Number, model.OptionsPerQuestion))
		}
	}
	return msgs
}

func checkText(s model.Story) []string {
	if s.TextOriginal == "" || s.TextTranslated == "" {
		return []string{fmt.Sprintf("Story %d: Story text cannot be empty", s.Number)}
	}
	return nil
}
