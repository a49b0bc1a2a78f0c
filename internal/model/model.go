// Package model assembles the records that page templates are rendered from.
package model

import "html/template"

// DocumentModel is the record behind one QML type page.
type DocumentModel struct {
	Title       string        `json:"title"`
	SiteTitle   string        `json:"siteTitle"`
	Author      string        `json:"author"`
	Description template.HTML `json:"description"`
	Class       ClassInfo     `json:"classInfo"`
}

// ClassInfo describes the documented QML type.
type ClassInfo struct {
	Name        string        `json:"name"`
	Summary     string        `json:"summary"`
	Description template.HTML `json:"descriptionHtml,omitempty"`
	Import      string        `json:"importStatement"`
	Properties  []Member      `json:"properties"`
	Methods     []Member      `json:"methods"`
	Signals     []Member      `json:"signals"`
}

// Member is a property, method or signal. Name and Description are finished
// HTML fragments; an absent fragment is empty.
type Member struct {
	ID          string        `json:"id"`
	Name        template.HTML `json:"nameHtml,omitempty"`
	Description template.HTML `json:"descriptionHtml,omitempty"`
}

// IndexModel is the record behind the site's index page.
type IndexModel struct {
	SiteTitle string        `json:"siteTitle"`
	Author    string        `json:"author"`
	Overview  template.HTML `json:"overview,omitempty"`
	Modules   []Module      `json:"modules"`
}

// Module groups the classes of one QML import module.
type Module struct {
	Name    string       `json:"name"`
	Classes []ClassEntry `json:"classes"`
}

// ClassEntry is one row in a module listing.
type ClassEntry struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}
