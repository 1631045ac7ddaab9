package parse

// parseIllustration returns the optional illustration prompt, or "" when the
// block has no illustration marker
func (bp *blockParser) parseIllustration() string {
	lines := bp.lines
	start := indexOf(lines, bp.p.rules.illustrationMarker)
	if start == -1 {
		return ""
	}

	var prompt []string
	for i := start + 1; i < len(lines); i++ {
		l := lines[i]
		if isMarker(l) || bp.p.isStoryHeader(l) {
			break
		}
		if l != "" {
			prompt = append(prompt, l)
		}
	}
	return joinLines(prompt)
}
