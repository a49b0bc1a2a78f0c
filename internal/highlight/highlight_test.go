package highlight

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlight_KnownLanguage(t *testing.T) {
	h, err := New("friendly", 16)
	require.NoError(t, err)

	out, err := h.Highlight("\n  Item { width: 10 }\n\n", "qml")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<div class="highlight">`), out)
	assert.True(t, strings.HasSuffix(out, `</div>`), out)
	assert.Contains(t, out, "Item")
	assert.Contains(t, out, `class="chroma"`)
}

func TestHighlight_UnknownLanguage(t *testing.T) {
	h, err := New("friendly", 16)
	require.NoError(t, err)

	for _, lang := range []string{"no-such-language-xyz", ""} {
		_, err := h.Highlight("x", lang)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedLanguage), "lang=%q: got %v", lang, err)
	}
	assert.Equal(t, 0, h.CacheLen())
}

func TestHighlight_Cached(t *testing.T) {
	h, err := New("friendly", 16)
	require.NoError(t, err)

	first, err := h.Highlight("import QtQuick 2.0", "qml")
	require.NoError(t, err)
	second, err := h.Highlight("import QtQuick 2.0", "qml")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, h.CacheLen())
}

func TestHighlight_NoCache(t *testing.T) {
	h, err := New("friendly", 0)
	require.NoError(t, err)

	_, err = h.Highlight("var x = 1;", "javascript")
	require.NoError(t, err)
	assert.Equal(t, 0, h.CacheLen())
}

func TestWriteCSS(t *testing.T) {
	h, err := New("friendly", 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, h.WriteCSS(&buf))
	assert.Contains(t, buf.String(), ".chroma")
}
