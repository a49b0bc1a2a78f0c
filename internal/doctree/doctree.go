package doctree

import (
	"fmt"
	"strings"
)

// Attr is a single attribute on an element. Attributes keep their source order.
type Attr struct {
	Name  string
	Value string
}

// Element is a node in a parsed DITA document. Text that follows an element's
// end tag belongs to that element's Tail, not to its parent.
type Element struct {
	Tag      string
	Attrs    []Attr
	Text     string     // Text before the first child
	Tail     string     // Text after the end tag, before the next sibling
	Children []*Element // Child elements in document order
}

// MissingFieldError reports a node or attribute that a document requires but does not have.
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Path)
}

// Missing returns a MissingFieldError for path.
func Missing(path string) error {
	return &MissingFieldError{Path: path}
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets name to value, replacing an existing attribute in place or appending a new one.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// ChildrenByTag returns the direct children with the given tag.
func (e *Element) ChildrenByTag(tag string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, c := range e.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first element matching a slash-separated path of child tags,
// relative to e, in document order. It returns nil when nothing matches.
func (e *Element) Find(path string) *Element {
	if e == nil {
		return nil
	}
	path = strings.Trim(strings.TrimPrefix(path, "./"), "/")
	if path == "" {
		return e
	}
	head, rest, _ := strings.Cut(path, "/")
	for _, c := range e.Children {
		if c.Tag != head {
			continue
		}
		if found := c.Find(rest); found != nil {
			return found
		}
	}
	return nil
}

// FindText returns the leading text of the element at path. The boolean is false
// only when the element is absent; an element without text yields "".
func (e *Element) FindText(path string) (string, bool) {
	found := e.Find(path)
	if found == nil {
		return "", false
	}
	return found.Text, true
}

// InnerText concatenates all text inside e, descendants included, without markup.
// The tail of e itself is not part of its content.
func (e *Element) InnerText() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	e.writeText(&sb)
	return sb.String()
}

func (e *Element) writeText(sb *strings.Builder) {
	sb.WriteString(e.Text)
	for _, c := range e.Children {
		c.writeText(sb)
		sb.WriteString(c.Tail)
	}
}

// Walk visits e and its descendants depth-first in document order.
func (e *Element) Walk(fn func(*Element)) {
	if e == nil {
		return
	}
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Clone returns a deep copy of e.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := &Element{
		Tag:  e.Tag,
		Text: e.Text,
		Tail: e.Tail,
	}
	if len(e.Attrs) > 0 {
		out.Attrs = append([]Attr(nil), e.Attrs...)
	}
	for _, c := range e.Children {
		out.Children = append(out.Children, c.Clone())
	}
	return out
}
