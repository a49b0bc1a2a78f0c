package model

import (
	"fmt"
	"html/template"
	"sort"

	"github.com/dgallion1/qmldoc/internal/doctree"
	"github.com/dgallion1/qmldoc/internal/rewrite"
)

// DefaultAuthor is credited on every page unless configured otherwise.
const DefaultAuthor = "Papyros"

// memberKind names the elements that describe one kind of member.
type memberKind struct {
	tag    string // e.g. qmlProperty
	detail string // e.g. qmlPropertyDetail
	def    string // e.g. qmlPropertyDef
}

var (
	propertyKind = memberKind{tag: "qmlProperty", detail: "qmlPropertyDetail", def: "qmlPropertyDef"}
	methodKind   = memberKind{tag: "qmlMethod", detail: "qmlMethodDetail", def: "qmlMethodDef"}
	signalKind   = memberKind{tag: "qmlSignal", detail: "qmlSignalDetail", def: "qmlSignalDef"}
)

// Builder turns parsed DITA documents into page models.
type Builder struct {
	Rewriter *rewrite.Rewriter
	Author   string
}

// NewBuilder returns a Builder crediting author, or DefaultAuthor when empty.
func NewBuilder(rw *rewrite.Rewriter, author string) *Builder {
	if author == "" {
		author = DefaultAuthor
	}
	return &Builder{Rewriter: rw, Author: author}
}

// BuildDocument extracts the page model of one QML type document. It fails
// when apiName or the import module name and version are missing.
func (b *Builder) BuildDocument(root *doctree.Element) (*DocumentModel, error) {
	if root == nil {
		return nil, doctree.Missing(".")
	}

	name, err := requireText(root, "apiName")
	if err != nil {
		return nil, err
	}
	importStmt, err := importStatement(root)
	if err != nil {
		return nil, err
	}
	description, err := b.fragment(root.Find("qmlTypeDetail/apiDesc"))
	if err != nil {
		return nil, fmt.Errorf("description: %w", err)
	}

	class := ClassInfo{
		Name:        name,
		Summary:     optionalText(root, "shortdesc"),
		Description: description,
		Import:      importStmt,
	}
	if class.Properties, err = b.members(root, propertyKind); err != nil {
		return nil, err
	}
	if class.Methods, err = b.members(root, methodKind); err != nil {
		return nil, err
	}
	if class.Signals, err = b.members(root, signalKind); err != nil {
		return nil, err
	}

	return &DocumentModel{
		Title:     name,
		SiteTitle: optionalText(root, "prolog/metadata/prodinfo/prodname"),
		Author:    b.Author,
		Class:     class,
	}, nil
}

// members builds one record per child of the given kind, sorted by ID.
// Members sharing an ID keep document order.
func (b *Builder) members(root *doctree.Element, kind memberKind) ([]Member, error) {
	elems := root.ChildrenByTag(kind.tag)
	out := make([]Member, 0, len(elems))
	for i, el := range elems {
		id, _ := el.Attr("id")
		name, err := b.fragment(el.Find(kind.detail + "/" + kind.def + "/apiData"))
		if err != nil {
			return nil, fmt.Errorf("%s[%d] %q definition: %w", kind.tag, i, id, err)
		}
		desc, err := b.fragment(el.Find(kind.detail + "/apiDesc"))
		if err != nil {
			return nil, fmt.Errorf("%s[%d] %q description: %w", kind.tag, i, id, err)
		}
		out = append(out, Member{ID: id, Name: name, Description: desc})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fragment rewrites and serializes an optional subtree. Absent input gives "".
func (b *Builder) fragment(e *doctree.Element) (template.HTML, error) {
	if e == nil {
		return "", nil
	}
	rewritten, err := b.Rewriter.Rewrite(e)
	if err != nil {
		return "", err
	}
	markup, _ := doctree.InnerMarkup(rewritten)
	return template.HTML(markup), nil
}

func importStatement(root *doctree.Element) (string, error) {
	module, err := requireText(root, "qmlTypeDetail/qmlImportModule/apiItemName")
	if err != nil {
		return "", err
	}
	version, err := requireText(root, "qmlTypeDetail/qmlImportModule/apiData")
	if err != nil {
		return "", err
	}
	return "import " + module + " " + version, nil
}

// requireText returns the text at path, failing when the element is absent or empty.
func requireText(root *doctree.Element, path string) (string, error) {
	text, ok := root.FindText(path)
	if !ok || text == "" {
		return "", doctree.Missing(path)
	}
	return text, nil
}

func optionalText(root *doctree.Element, path string) string {
	text, _ := root.FindText(path)
	return text
}
