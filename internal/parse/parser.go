package parse

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ppiankov/storybook/internal/model"
)

// Parser turns raw story text into typed stories.
// A Parser holds only compiled patterns and is safe for concurrent use;
// every Parse call owns its own line cursor.
type Parser struct {
	kw *keywords

	headerRe     *regexp.Regexp // Split point, anywhere in the input
	headerLineRe *regexp.Regexp // Header at the start of a line
	titles       []titleGrammar
	rules        lineRules
}

// NewParser creates a parser for the default locales
func NewParser() *Parser {
	return NewParserWithLocales(DefaultLocales)
}

// NewParserWithLocales creates a parser recognizing the given locales
func NewParserWithLocales(locales []Locale) *Parser {
	kw := newKeywords(locales)
	return &Parser{
		kw:           kw,
		headerRe:     regexp.MustCompile(`(?i)` + kw.headerPattern + ` \d+:`),
		headerLineRe: regexp.MustCompile(`(?i)^` + kw.headerPattern + ` \d+:`),
		titles:       newTitleGrammars(kw.headerPattern),
		rules:        newLineRules(kw),
	}
}

var defaultParser = NewParser()

// Parse parses input with the default locales
func Parse(input string) model.ParseResult {
	return defaultParser.Parse(input)
}

// Parse segments input and parses every block independently. A failing
// block contributes one error diagnostic and is left out of the stories.
func (p *Parser) Parse(input string) model.ParseResult {
	result := model.ParseResult{
		Stories: []model.Story{},
		Errors:  []model.Diagnostic{},
	}

	for _, block := range p.Segment(input) {
		story, err := p.ParseBlock(block)
		if err != nil {
			result.Errors = append(result.Errors, Diagnose(err))
			continue
		}
		result.Stories = append(result.Stories, story)
	}

	return result
}

// Diagnose converts a block parse error into an error-severity diagnostic
func Diagnose(err error) model.Diagnostic {
	d := model.Diagnostic{
		Message:  err.Error(),
		Severity: model.SeverityError,
	}
	var perr *Error
	if errors.As(err, &perr) {
		d.Line = perr.Line
	}
	return d
}

// ParseBlock parses one story block. Panics are converted into errors so
// that one block can never take down its siblings.
func (p *Parser) ParseBlock(block Block) (story model.Story, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Kind: KindInternal, Line: block.Line, Message: "Failed to parse story"}
		}
	}()

	bp := &blockParser{
		p:         p,
		block:     block,
		lines:     splitLines(block.Text),
		startLine: block.Line,
	}
	return bp.parse()
}

// blockParser carries the line cursor for one block
type blockParser struct {
	p         *Parser
	block     Block
	lines     []string
	pos       int
	startLine int
	number    int
}

// lineAt maps a block-relative index to a 1-based input line
func (bp *blockParser) lineAt(i int) int {
	if bp.startLine == 0 {
		return 0
	}
	if i < 0 {
		i = 0
	}
	return bp.startLine + i
}

func (bp *blockParser) parse() (model.Story, error) {
	title, err := bp.parseTitle()
	if err != nil {
		return model.Story{}, err
	}
	bp.number = title.number

	vocabulary, err := bp.parseVocabulary()
	if err != nil {
		return model.Story{}, err
	}

	text, err := bp.parseStoryText()
	if err != nil {
		return model.Story{}, err
	}

	questions, err := bp.parseQuestions()
	if err != nil {
		return model.Story{}, err
	}

	answers, err := bp.parseAnswers(len(questions))
	if err != nil {
		return model.Story{}, err
	}

	return model.Story{
		Number:             title.number,
		TitleOriginal:      title.original,
		TitleTranslated:    title.translated,
		Vocabulary:         vocabulary,
		TextOriginal:       text.original,
		TextTranslated:     text.translated,
		Questions:          questions,
		Answers:            answers,
		IllustrationPrompt: bp.parseIllustration(),
	}, nil
}

// isStoryHeader reports whether a line opens a new story
func (p *Parser) isStoryHeader(line string) bool {
	return p.headerLineRe.MatchString(line)
}

// joinLines joins accumulated lines into one trimmed text
func joinLines(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
