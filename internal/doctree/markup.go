package doctree

import (
	"strings"

	"golang.org/x/net/html"
)

// voidElements are written self-closed when empty. Every other empty element
// gets an explicit end tag so browsers do not swallow the following content.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// InnerMarkup serializes the mixed content of root: its own leading text
// followed by the markup of each direct child, each with its tail.
// A nil root yields ("", false) so optional fragments stay absent.
func InnerMarkup(root *Element) (string, bool) {
	if root == nil {
		return "", false
	}
	var sb strings.Builder
	sb.WriteString(html.EscapeString(root.Text))
	for _, c := range root.Children {
		c.writeMarkup(&sb)
	}
	return sb.String(), true
}

// Markup serializes e, its subtree and its tail.
func Markup(e *Element) string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	e.writeMarkup(&sb)
	return sb.String()
}

func (e *Element) writeMarkup(sb *strings.Builder) {
	sb.WriteByte('<')
	sb.WriteString(e.Tag)
	for _, a := range e.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(a.Value))
		sb.WriteByte('"')
	}

	if e.Text == "" && len(e.Children) == 0 && voidElements[e.Tag] {
		sb.WriteString("/>")
	} else {
		sb.WriteByte('>')
		sb.WriteString(html.EscapeString(e.Text))
		for _, c := range e.Children {
			c.writeMarkup(sb)
		}
		sb.WriteString("</")
		sb.WriteString(e.Tag)
		sb.WriteByte('>')
	}
	sb.WriteString(html.EscapeString(e.Tail))
}
