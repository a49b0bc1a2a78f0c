// Package render executes the page templates for document and index models.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
)

// Template names understood by Render.
const (
	TemplateIndex    = "index"
	TemplateDocument = "document"
)

//go:embed templates/*.html
var embedded embed.FS

// Templates holds one parsed template set per page kind.
type Templates struct {
	pages map[string]*template.Template
}

// head is the data passed to the shared head and foot partials.
type head struct {
	Title     string
	SiteTitle string
	Author    string
}

// memberSection is the data passed to the members partial.
type memberSection struct {
	Heading string
	Anchor  string
	Items   any
}

var funcs = template.FuncMap{
	"head": func(title, siteTitle, author string) head {
		return head{Title: title, SiteTitle: siteTitle, Author: author}
	},
	"members": func(heading, anchor string, items any) memberSection {
		return memberSection{Heading: heading, Anchor: anchor, Items: items}
	},
}

// New loads templates from dir, or the built-in templates when dir is empty.
// A template directory must provide base.html, index.html and document.html.
func New(dir string) (*Templates, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(embedded, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}
	return NewFS(fsys)
}

// NewFS loads templates from fsys.
func NewFS(fsys fs.FS) (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template)}
	for _, name := range []string{TemplateIndex, TemplateDocument} {
		tpl, err := template.New(name+".html").Funcs(funcs).ParseFS(fsys, "base.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		t.pages[name] = tpl
	}
	return t, nil
}

// Render executes the named page template with data.
func (t *Templates) Render(name string, data any) ([]byte, error) {
	tpl, ok := t.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, name+".html", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
