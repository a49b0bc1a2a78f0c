package model

import (
	"fmt"
	"html/template"
	"sort"

	"github.com/dgallion1/qmldoc/internal/doctree"
)

// BuildIndex extracts the module listing from an index document. Classes are
// sorted by name within each module; modules keep document order.
func (b *Builder) BuildIndex(root *doctree.Element) (*IndexModel, error) {
	if root == nil {
		return nil, doctree.Missing(".")
	}

	siteTitle, _ := root.Attr("title")
	idx := &IndexModel{
		SiteTitle: siteTitle,
		Author:    b.Author,
		Modules:   []Module{},
	}

	for i, ns := range root.ChildrenByTag("namespace") {
		name, ok := ns.Attr("module")
		if !ok {
			return nil, fmt.Errorf("namespace[%d]: %w", i, doctree.Missing("namespace/@module"))
		}
		mod := Module{Name: name, Classes: []ClassEntry{}}
		for j, cls := range ns.ChildrenByTag("qmlclass") {
			entry, err := b.classEntry(cls)
			if err != nil {
				return nil, fmt.Errorf("namespace %q qmlclass[%d]: %w", name, j, err)
			}
			mod.Classes = append(mod.Classes, entry)
		}
		sort.SliceStable(mod.Classes, func(a, c int) bool { return mod.Classes[a].Name < mod.Classes[c].Name })
		idx.Modules = append(idx.Modules, mod)
	}
	return idx, nil
}

func (b *Builder) classEntry(cls *doctree.Element) (ClassEntry, error) {
	name, ok := cls.Attr("name")
	if !ok {
		return ClassEntry{}, doctree.Missing("qmlclass/@name")
	}
	href, ok := cls.Attr("href")
	if !ok {
		return ClassEntry{}, doctree.Missing("qmlclass/@href")
	}
	summary, _ := cls.Attr("brief")
	return ClassEntry{
		Name:    name,
		Summary: summary,
		URL:     b.Rewriter.Links.Rewrite(href),
	}, nil
}

// WithOverview attaches an introductory HTML fragment to the index.
func (m *IndexModel) WithOverview(html string) *IndexModel {
	m.Overview = template.HTML(html)
	return m
}
