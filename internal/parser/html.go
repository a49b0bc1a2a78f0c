package parser

import (
	"fmt"
	"strings"

	"github.com/dgallion1/qmldoc/internal/doctree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTMLFragment parses a fragment of HTML, such as highlighter output, into
// a single element. Fragments with more than one top-level node are wrapped in a div.
func ParseHTMLFragment(markup string) (*doctree.Element, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parse html fragment: %w", err)
	}

	wrapper := &doctree.Element{Tag: "div"}
	for _, n := range nodes {
		appendNode(wrapper, n)
	}

	if len(wrapper.Children) == 1 && strings.TrimSpace(wrapper.Text) == "" {
		only := wrapper.Children[0]
		if strings.TrimSpace(only.Tail) == "" {
			only.Tail = ""
			return only, nil
		}
	}
	return wrapper, nil
}

// appendNode converts n and its subtree into elements under parent.
func appendNode(parent *doctree.Element, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if k := len(parent.Children); k > 0 {
			parent.Children[k-1].Tail += n.Data
		} else {
			parent.Text += n.Data
		}

	case html.ElementNode:
		el := &doctree.Element{Tag: n.Data}
		for _, a := range n.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			el.Attrs = append(el.Attrs, doctree.Attr{Name: name, Value: a.Val})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			appendNode(el, c)
		}
		parent.Children = append(parent.Children, el)

	default:
		// Comments and doctypes carry no content.
	}
}
