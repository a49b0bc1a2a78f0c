package assets

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCSS string

func (c fixedCSS) WriteCSS(w io.Writer) error {
	_, err := io.WriteString(w, string(c))
	return err
}

type failingCSS struct{}

func (failingCSS) WriteCSS(io.Writer) error { return errors.New("boom") }

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestInstall_BuiltinResourcesImagesAndStylesheet(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(in, "images", "icons"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "images", "icons", "menu.png"), []byte("png"), 0o644))

	err := Install(Options{ImagesDir: "images", Stylesheet: fixedCSS(".chroma{}")}, in, out)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "css", "site.css"))
	assert.Equal(t, "png", readFile(t, filepath.Join(out, "images", "icons", "menu.png")))
	assert.Equal(t, ".chroma{}", readFile(t, filepath.Join(out, "css", "highlight.css")))
}

func TestInstall_MissingImagesIsFine(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, Install(Options{ImagesDir: "images"}, t.TempDir(), out))
	assert.NoDirExists(t, filepath.Join(out, "images"))
}

func TestInstall_CustomResourceDirOverwrites(t *testing.T) {
	res := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(res, "app.js"), []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "app.js"), []byte("old"), 0o644))

	require.NoError(t, Install(Options{ResourceDir: res}, t.TempDir(), out))
	assert.Equal(t, "new", readFile(t, filepath.Join(out, "app.js")))
	assert.NoFileExists(t, filepath.Join(out, "css", "site.css"))
}

func TestInstall_MissingResourceDirFails(t *testing.T) {
	err := Install(Options{ResourceDir: filepath.Join(t.TempDir(), "nope")}, t.TempDir(), t.TempDir())
	require.Error(t, err)
}

func TestInstall_StylesheetFailure(t *testing.T) {
	err := Install(Options{Stylesheet: failingCSS{}}, t.TempDir(), t.TempDir())
	require.Error(t, err)
}

func TestCopyTree(t *testing.T) {
	src := fstest.MapFS{
		"a.txt":       {Data: []byte("a")},
		"sub/b.txt":   {Data: []byte("b")},
		"sub/c/d.txt": {Data: []byte("d")},
	}
	dst := t.TempDir()
	require.NoError(t, CopyTree(src, dst))

	assert.Equal(t, "a", readFile(t, filepath.Join(dst, "a.txt")))
	assert.Equal(t, "b", readFile(t, filepath.Join(dst, "sub", "b.txt")))
	assert.Equal(t, "d", readFile(t, filepath.Join(dst, "sub", "c", "d.txt")))
}
