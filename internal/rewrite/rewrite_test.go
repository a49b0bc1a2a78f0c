package rewrite

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dgallion1/qmldoc/internal/doctree"
	"github.com/dgallion1/qmldoc/internal/highlight"
	"github.com/dgallion1/qmldoc/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnknown = errors.New("unknown language")

// fakeHighlighter returns predictable markup and records its calls.
type fakeHighlighter struct {
	calls []string
}

func (f *fakeHighlighter) Highlight(source, language string) (string, error) {
	f.calls = append(f.calls, language+":"+source)
	if language != "qml" {
		return "", fmt.Errorf("%w: %s", errUnknown, language)
	}
	return `<div class="highlight"><pre>` + strings.ToUpper(source) + `</pre></div>`, nil
}

func parse(t *testing.T, src string) *doctree.Element {
	t.Helper()
	root, err := parser.ParseXML(strings.NewReader(src))
	require.NoError(t, err)
	return root
}

func rewriteToHTML(t *testing.T, r *Rewriter, src string) string {
	t.Helper()
	out, err := r.Rewrite(parse(t, src))
	require.NoError(t, err)
	html, ok := doctree.InnerMarkup(out)
	require.True(t, ok)
	return html
}

func TestRewrite_Xref(t *testing.T) {
	r := New(&fakeHighlighter{})
	got := rewriteToHTML(t, r, `<apiDesc>See <xref href="x.dita" scope="local">X</xref> now.</apiDesc>`)

	assert.Equal(t, `See <a href="x.html" scope="local">X</a> now.`, got)
	assert.NotContains(t, got, ".dita")
}

func TestRewrite_XrefFragmentAndExternal(t *testing.T) {
	r := New(&fakeHighlighter{})
	got := rewriteToHTML(t, r,
		`<apiDesc><xref href="Item.dita#width">w</xref>, <xref href="https://qt.io/">qt</xref>, <xref>bare</xref></apiDesc>`)

	assert.Equal(t, `<a href="Item.html#width">w</a>, <a href="https://qt.io/">qt</a>, <a>bare</a>`, got)
}

func TestRewrite_Codeblock(t *testing.T) {
	h := &fakeHighlighter{}
	r := New(h)
	got := rewriteToHTML(t, r,
		`<apiDesc>Example:<codeblock outputclass="qml">Item { <b>width</b>: 1 }</codeblock>after code<p>next</p></apiDesc>`)

	want, err := h.Highlight("Item { width: 1 }", "qml")
	require.NoError(t, err)
	assert.Equal(t, "Example:<blockquote>"+want+"</blockquote>after code<p>next</p>", got)
	assert.Equal(t, "qml:Item { width: 1 }", h.calls[0])
}

func TestRewrite_CodeblockKeepsChromaMarkup(t *testing.T) {
	h, err := highlight.New("friendly", 0)
	require.NoError(t, err)
	r := New(h)

	source := `Text { text: "a & b" ; visible: x < 2 && y > 1 }`
	got := rewriteToHTML(t, r,
		`<apiDesc><codeblock outputclass="qml">Text { text: "a &amp; b" ; visible: x &lt; 2 &amp;&amp; y &gt; 1 }</codeblock> after</apiDesc>`)

	want, err := h.Highlight(source, "qml")
	require.NoError(t, err)
	require.Contains(t, want, "&amp;")
	assert.Equal(t, "<blockquote>"+want+"</blockquote> after", got)
}

func TestRewrite_CodeblockUnsupportedLanguagePropagates(t *testing.T) {
	r := New(&fakeHighlighter{})
	_, err := r.Rewrite(parse(t, `<apiDesc><codeblock outputclass="cobol">x</codeblock></apiDesc>`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUnknown), "got %v", err)
}

func TestRewrite_CodeblockWithoutHighlighter(t *testing.T) {
	r := &Rewriter{Links: DefaultLinks()}
	_, err := r.Rewrite(parse(t, `<apiDesc><codeblock outputclass="qml">x</codeblock></apiDesc>`))
	require.Error(t, err)
}

func TestRewrite_Fig(t *testing.T) {
	r := New(&fakeHighlighter{})
	got := rewriteToHTML(t, r,
		`<apiDesc>Look:<fig><title>T</title><image href="images/button.png"><alt>A button</alt></image></fig> tail text</apiDesc>`)

	assert.Equal(t,
		`Look:<img src="images/button.png" class="materialboxed" data-caption="A button"/> tail text`,
		got)
}

func TestRewrite_FigWithoutAlt(t *testing.T) {
	r := New(&fakeHighlighter{})
	got := rewriteToHTML(t, r, `<apiDesc><fig><image href="a.png"/></fig></apiDesc>`)
	assert.Equal(t, `<img src="a.png" class="materialboxed" data-caption=""/>`, got)
}

func TestRewrite_FigMissingImage(t *testing.T) {
	r := New(&fakeHighlighter{})
	_, err := r.Rewrite(parse(t, `<apiDesc><fig><title>empty</title></fig></apiDesc>`))
	var mf *doctree.MissingFieldError
	require.True(t, errors.As(err, &mf), "got %v", err)
	assert.Equal(t, "fig/image", mf.Path)
}

func TestRewrite_NestedInsideParagraph(t *testing.T) {
	r := New(&fakeHighlighter{})
	got := rewriteToHTML(t, r,
		`<apiDesc><p>Use <xref href="A.dita">A</xref> or <fig><image href="b.png"><alt>B</alt></image></fig>!</p></apiDesc>`)

	assert.Equal(t,
		`<p>Use <a href="A.html">A</a> or <img src="b.png" class="materialboxed" data-caption="B"/>!</p>`,
		got)
}

func TestRewrite_DoesNotMutateInput(t *testing.T) {
	r := New(&fakeHighlighter{})
	src := parse(t, `<apiDesc>a<xref href="x.dita">x</xref><codeblock outputclass="qml">c</codeblock><fig><image href="i.png"/></fig></apiDesc>`)
	before := doctree.Markup(src)

	_, err := r.Rewrite(src)
	require.NoError(t, err)
	assert.Equal(t, before, doctree.Markup(src))
}

func TestRewrite_NilRoot(t *testing.T) {
	out, err := New(nil).Rewrite(nil)
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestLinksRewrite(t *testing.T) {
	tests := []struct {
		links Links
		href  string
		want  string
	}{
		{DefaultLinks(), "Button.dita", "Button.html"},
		{DefaultLinks(), "Button.dita#clicked", "Button.html#clicked"},
		{DefaultLinks(), "notes.ditamap", "notes.ditamap"},
		{DefaultLinks(), "#local", "#local"},
		{Links{Source: ".dita", Page: ".htm"}, "a.dita", "a.htm"},
		{Links{}, "a.dita", "a.dita"},
		{DefaultLinks(), "Button.DITA", "Button.html"},
		{DefaultLinks(), "Button.Dita#x", "Button.html#x"},
		{Links{Source: ".DITA", Page: ".html"}, "a.dita", "a.html"},
		{DefaultLinks(), "dita", "dita"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.links.Rewrite(tt.href), "href=%q", tt.href)
	}
}
