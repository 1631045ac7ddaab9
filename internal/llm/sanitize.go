package llm

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var allowedTags = map[atom.Atom]bool{
	atom.P:  true,
	atom.B:  true,
	atom.I:  true,
	atom.Br: true,
	atom.Ul: true,
	atom.Li: true,
}

// droppedTags lose their content as well as the tag
var droppedTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Head:   true,
	atom.Title:  true,
}

// SanitizeHTML restricts generated HTML to the description tag set.
// Disallowed elements are unwrapped so their text survives, attributes are
// removed, and markdown code fences around the HTML are stripped.
func SanitizeHTML(s string) string {
	s = stripCodeFence(s)

	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return html.EscapeString(s)
	}

	var b strings.Builder
	for _, n := range nodes {
		writeSanitized(&b, n)
	}
	return strings.TrimSpace(b.String())
}

func writeSanitized(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
		if droppedTags[n.DataAtom] {
			return
		}
		if allowedTags[n.DataAtom] {
			b.WriteString("<" + n.Data + ">")
			if n.DataAtom == atom.Br {
				return
			}
			writeChildren(b, n)
			b.WriteString("</" + n.Data + ">")
			return
		}
		writeChildren(b, n)
	case html.DocumentNode:
		writeChildren(b, n)
	}
}

func writeChildren(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeSanitized(b, c)
	}
}

// stripCodeFence removes a surrounding ```html ... ``` block
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
