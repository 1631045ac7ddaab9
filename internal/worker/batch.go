package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ppiankov/storybook/internal/model"
)

// FileParser turns one story file into a report
type FileParser interface {
	ParseFile(ctx context.Context, path string) (*model.Report, error)
}

// ParseJob parses a single file
type ParseJob struct {
	Path   string
	Parser FileParser
}

// Execute runs the parse
func (j *ParseJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &FileResult{Path: j.Path, Error: err}
	}

	report, err := j.Parser.ParseFile(ctx, j.Path)
	if err != nil {
		return &FileResult{Path: j.Path, Error: err}
	}
	return &FileResult{Path: j.Path, Report: report}
}

// FileResult is the outcome of parsing one file.
// Error is an I/O or decode failure; content problems live in Report diagnostics.
type FileResult struct {
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the I/O error, if any
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor parses many files concurrently
type BatchProcessor struct {
	parser      FileParser
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(parser FileParser, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		parser:      parser,
		concurrency: concurrency,
	}
}

// ProcessFiles parses paths concurrently. Results follow input order.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	jobs := make([]Job, len(paths))
	for i, path := range paths {
		jobs[i] = &ParseJob{Path: path, Parser: b.parser}
	}

	results := Run(ctx, b.concurrency, jobs)

	fileResults := make([]*FileResult, len(results))
	for i, result := range results {
		if result == nil {
			// Never ran: the context was cancelled before the job was picked up
			fileResults[i] = &FileResult{Path: paths[i], Error: ctx.Err()}
			continue
		}
		fileResults[i] = result.(*FileResult)
	}

	return fileResults
}

// ProcessPatterns expands glob patterns and parses every match
func (b *BatchProcessor) ProcessPatterns(ctx context.Context, patterns []string) ([]*FileResult, error) {
	paths, err := ExpandPatterns(patterns)
	if err != nil {
		return nil, err
	}
	return b.ProcessFiles(ctx, paths), nil
}

// ProcessList reads paths from a list file and parses them
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string) ([]*FileResult, error) {
	entries, err := ReadInputList(listPath)
	if err != nil {
		return nil, fmt.Errorf("read input list: %w", err)
	}
	return b.ProcessPatterns(ctx, entries)
}

// ExpandPatterns resolves doublestar globs ("stories/**/*.txt").
// Plain paths pass through untouched so a missing file surfaces as a per-file error.
// A glob with no matches is an error. Output is de-duplicated and keeps first-seen order.
func ExpandPatterns(patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)

	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}

	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			add(pattern)
			continue
		}

		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, m := range matches {
			add(m)
		}
	}

	return out, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// ReadInputList reads one path or glob per line. Blank lines and # comments are skipped.
func ReadInputList(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			entries = append(entries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return entries, nil
}
