package model

// Report is the rendered outcome of processing one input source
type Report struct {
	Source  string      `json:"source"`         // File path, "-" for stdin, or caller label
	Result  ParseResult `json:"result"`         // Stories plus combined parse and validation diagnostics
	Summary Summary     `json:"summary"`        // Counts for quick inspection
	Valid   bool        `json:"valid"`          // At least one story and no errors
	Book    *BookInfo   `json:"book,omitempty"` // Optional metadata and generated sections
}

// Summary holds aggregate counts over a parse result
type Summary struct {
	Stories   int `json:"stories"`
	Questions int `json:"questions"`
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
}

// BookInfo groups book metadata with generated sections
type BookInfo struct {
	Metadata  BookMetadata       `json:"metadata"`
	Generated []GeneratedSection `json:"generated,omitempty"`
}

// NewReport builds a report for a parse result
func NewReport(source string, result ParseResult) *Report {
	questions := 0
	for _, s := range result.Stories {
		questions += len(s.Questions)
	}

	return &Report{
		Source: source,
		Result: result,
		Summary: Summary{
			Stories:   len(result.Stories),
			Questions: questions,
			Errors:    result.ErrorCount(),
			Warnings:  result.WarningCount(),
		},
		Valid: result.IsValid(),
	}
}
