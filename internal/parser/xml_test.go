package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/qmldoc/internal/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseXML_TextAndTail(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE qmlClass PUBLIC "-//NOKIA//DTD DITA QML Class//EN" "qmlClass.dtd">
<apiDesc>See <xref href="Item.dita">Item</xref> for <!-- note -->details.<p>Second</p></apiDesc>
`
	root, err := ParseXML(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "apiDesc", root.Tag)
	assert.Equal(t, "See ", root.Text)
	require.Len(t, root.Children, 2)

	xref := root.Children[0]
	assert.Equal(t, "xref", xref.Tag)
	assert.Equal(t, "Item", xref.Text)
	assert.Equal(t, " for details.", xref.Tail)
	href, ok := xref.Attr("href")
	require.True(t, ok)
	assert.Equal(t, "Item.dita", href)

	assert.Equal(t, "Second", root.Children[1].Text)
	assert.Equal(t, "", root.Tail)
}

func TestParseXML_AttributeOrderAndEntities(t *testing.T) {
	input := `<qmlclass name="Button" brief="A &lt;clickable&gt; button&nbsp;!" href="Button.dita"/>`
	root, err := ParseXML(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []doctree.Attr{
		{Name: "name", Value: "Button"},
		{Name: "brief", Value: "A <clickable> button\u00a0!"},
		{Name: "href", Value: "Button.dita"},
	}, root.Attrs)
}

func TestParseXML_XMLLangAttribute(t *testing.T) {
	root, err := ParseXML(strings.NewReader(`<topic xml:lang="en-us" id="t"/>`))
	require.NoError(t, err)
	lang, ok := root.Attr("xml:lang")
	require.True(t, ok)
	assert.Equal(t, "en-us", lang)
}

func TestParseXML_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unclosed tag", `<qmlClass><apiName>Bad</apiName>`},
		{"mismatched end", `<a><b></a></b>`},
		{"empty", ``},
		{"text only", `just text`},
		{"two roots", `<a/><b/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseXML(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "expected ErrMalformed, got %v", err)
		})
	}
}

func TestParseXML_Latin1(t *testing.T) {
	input := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><shortdesc>caf\xe9</shortdesc>"
	root, err := ParseXML(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "café", root.Text)
}
