// Package assets copies the static parts of a site into the output directory.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed resources
var embedded embed.FS

// StylesheetPath is where the syntax highlighting stylesheet is written,
// relative to the output directory.
const StylesheetPath = "css/highlight.css"

// Stylesheet writes CSS for highlighted code.
type Stylesheet interface {
	WriteCSS(w io.Writer) error
}

// Options controls what Install copies.
type Options struct {
	ResourceDir string     // Site resources; empty uses the built-in set
	ImagesDir   string     // Name of the images subdirectory of the input, e.g. "images"
	Stylesheet  Stylesheet // Optional
}

// Install copies the site resources and the input's images directory into
// outputDir, overwriting existing files. A missing images directory is not an error.
func Install(opts Options, inputDir, outputDir string) error {
	var resources fs.FS
	if opts.ResourceDir == "" {
		sub, err := fs.Sub(embedded, "resources")
		if err != nil {
			return err
		}
		resources = sub
	} else {
		resources = os.DirFS(opts.ResourceDir)
	}
	if err := CopyTree(resources, outputDir); err != nil {
		return fmt.Errorf("copy resources: %w", err)
	}

	if opts.ImagesDir != "" {
		src := filepath.Join(inputDir, opts.ImagesDir)
		st, err := os.Stat(src)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Nothing to copy.
		case err != nil:
			return fmt.Errorf("stat images: %w", err)
		case !st.IsDir():
			return fmt.Errorf("images path %s is not a directory", src)
		default:
			if err := CopyTree(os.DirFS(src), filepath.Join(outputDir, opts.ImagesDir)); err != nil {
				return fmt.Errorf("copy images: %w", err)
			}
		}
	}

	if opts.Stylesheet != nil {
		if err := writeStylesheet(opts.Stylesheet, filepath.Join(outputDir, filepath.FromSlash(StylesheetPath))); err != nil {
			return fmt.Errorf("write stylesheet: %w", err)
		}
	}
	return nil
}

// CopyTree copies every file of src into dst, creating directories as needed.
func CopyTree(src fs.FS, dst string) error {
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(src, path, target)
	})
}

func copyFile(src fs.FS, path, target string) error {
	in, err := src.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", path, err)
	}
	return out.Close()
}

func writeStylesheet(s Stylesheet, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	if err := s.WriteCSS(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
