// Package rewrite turns DITA inline constructs into their HTML equivalents.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/dgallion1/qmldoc/internal/doctree"
	"github.com/dgallion1/qmldoc/internal/parser"
)

// FigureClass marks images that come from DITA figures.
const FigureClass = "materialboxed"

// Highlighter renders source text in the named language as an HTML fragment.
type Highlighter interface {
	Highlight(source, language string) (string, error)
}

// Rewriter rebuilds DITA subtrees with xref, codeblock and fig replaced by
// a, blockquote and img. The input tree is never modified.
type Rewriter struct {
	Highlighter Highlighter
	Links       Links
}

// New returns a Rewriter using h for code blocks and the default link extensions.
func New(h Highlighter) *Rewriter {
	return &Rewriter{Highlighter: h, Links: DefaultLinks()}
}

// Rewrite returns a rewritten copy of root. A nil root yields nil.
func (r *Rewriter) Rewrite(root *doctree.Element) (*doctree.Element, error) {
	if root == nil {
		return nil, nil
	}
	return r.rebuild(root)
}

func (r *Rewriter) rebuild(e *doctree.Element) (*doctree.Element, error) {
	switch e.Tag {
	case "codeblock":
		return r.codeblock(e)
	case "fig":
		return figure(e)
	}

	out := &doctree.Element{
		Tag:  e.Tag,
		Text: e.Text,
		Tail: e.Tail,
	}
	if len(e.Attrs) > 0 {
		out.Attrs = append([]doctree.Attr(nil), e.Attrs...)
	}
	if e.Tag == "xref" {
		out.Tag = "a"
		if href, ok := out.Attr("href"); ok {
			out.SetAttr("href", r.Links.Rewrite(href))
		}
	}

	for _, c := range e.Children {
		rc, err := r.rebuild(c)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, rc)
	}
	return out, nil
}

// codeblock highlights the plain text of e and wraps the result in a blockquote.
func (r *Rewriter) codeblock(e *doctree.Element) (*doctree.Element, error) {
	language, _ := e.Attr("outputclass")
	if r.Highlighter == nil {
		return nil, fmt.Errorf("codeblock %q: no highlighter configured", language)
	}

	markup, err := r.Highlighter.Highlight(e.InnerText(), language)
	if err != nil {
		return nil, fmt.Errorf("highlight codeblock: %w", err)
	}
	code, err := parser.ParseHTMLFragment(markup)
	if err != nil {
		return nil, fmt.Errorf("highlight codeblock %q: %w", language, err)
	}

	return &doctree.Element{
		Tag:      "blockquote",
		Children: []*doctree.Element{code},
		Tail:     e.Tail,
	}, nil
}

// figure replaces a fig with an img carrying the figure's source and caption.
func figure(e *doctree.Element) (*doctree.Element, error) {
	image := e.Find("image")
	if image == nil {
		return nil, doctree.Missing("fig/image")
	}
	src, ok := image.Attr("href")
	if !ok {
		return nil, doctree.Missing("fig/image/@href")
	}
	caption, _ := image.FindText("alt")

	return &doctree.Element{
		Tag: "img",
		Attrs: []doctree.Attr{
			{Name: "src", Value: src},
			{Name: "class", Value: FigureClass},
			{Name: "data-caption", Value: caption},
		},
		Tail: e.Tail,
	}, nil
}

// Links maps hrefs that point at DITA sources onto generated pages.
type Links struct {
	Source string // e.g. ".dita"
	Page   string // e.g. ".html"
}

// DefaultLinks maps .dita onto .html.
func DefaultLinks() Links {
	return Links{Source: ".dita", Page: ".html"}
}

// Rewrite maps href onto a page when its path ends in the source extension,
// compared case-insensitively like input classification. The fragment, if
// any, is kept.
func (l Links) Rewrite(href string) string {
	if l.Source == "" {
		return href
	}
	path, fragment, hasFragment := strings.Cut(href, "#")
	stem := len(path) - len(l.Source)
	if stem < 0 || !strings.EqualFold(path[stem:], l.Source) {
		return href
	}
	path = path[:stem] + l.Page
	if hasFragment {
		return path + "#" + fragment
	}
	return path
}
