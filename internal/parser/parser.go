package parser

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrMalformed marks input that is not well-formed XML.
var ErrMalformed = errors.New("malformed input")

// Kind classifies an entry of the input directory.
type Kind int

const (
	KindOther Kind = iota
	KindDocument
	KindIndex
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindIndex:
		return "index"
	default:
		return "other"
	}
}

// Extensions maps file extensions to the kind of input they carry.
type Extensions struct {
	Document string // e.g. ".dita"
	Index    string // e.g. ".index"
}

// DefaultExtensions returns the DITA document and index extensions.
func DefaultExtensions() Extensions {
	return Extensions{Document: ".dita", Index: ".index"}
}

// ForFile returns the kind of input a filename holds.
func (x Extensions) ForFile(filename string) Kind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case strings.ToLower(x.Document):
		return KindDocument
	case strings.ToLower(x.Index):
		return KindIndex
	default:
		return KindOther
	}
}

// IsSupportedExtension reports whether filename is a document or an index.
func (x Extensions) IsSupportedExtension(filename string) bool {
	return x.ForFile(filename) != KindOther
}
