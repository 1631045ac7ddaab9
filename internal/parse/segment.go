package parse

import "strings"

// Block is the slice of raw input belonging to one story
type Block struct {
	Index int    // 0-based position among the returned blocks
	Line  int    // 1-based input line the block starts on
	Text  string // From the header up to the next header or end of input
}

// Segment splits input immediately before every story header. The header
// belongs to the block it opens; any text before the first header forms
// its own block. Whitespace-only blocks are dropped, so blank input yields
// no blocks at all.
func (p *Parser) Segment(input string) []Block {
	if strings.TrimSpace(input) == "" {
		return []Block{}
	}

	cuts := []int{0}
	for _, loc := range p.headerRe.FindAllStringIndex(input, -1) {
		if loc[0] > 0 {
			cuts = append(cuts, loc[0])
		}
	}
	cuts = append(cuts, len(input))

	blocks := make([]Block, 0, len(cuts)-1)
	line := 1
	for i := 0; i+1 < len(cuts); i++ {
		text := input[cuts[i]:cuts[i+1]]
		start := line
		line += strings.Count(text, "\n")

		if strings.TrimSpace(text) == "" {
			continue
		}
		blocks = append(blocks, Block{
			Index: len(blocks),
			Line:  start,
			Text:  text,
		})
	}

	return blocks
}

// Segment splits input with the default locales
func Segment(input string) []Block {
	return defaultParser.Segment(input)
}
