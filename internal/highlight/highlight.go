// Package highlight turns source snippets into class-annotated HTML using chroma.
package highlight

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrUnsupportedLanguage is returned for a language no lexer is registered for.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Chroma highlights code with chroma lexers and a CSS-class formatter.
// It is safe for concurrent use.
type Chroma struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
	cache     *lru.Cache[string, string]
}

// New creates a highlighter for the named style. cacheSize <= 0 disables caching.
func New(styleName string, cacheSize int) (*Chroma, error) {
	c := &Chroma{
		style:     styles.Get(styleName),
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
	if cacheSize > 0 {
		cache, err := lru.New[string, string](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("highlight cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Highlight returns source rendered as an HTML fragment rooted at a
// <div class="highlight">. Leading and trailing whitespace is stripped first.
func (c *Chroma) Highlight(source, language string) (string, error) {
	key := language + "\x00" + source
	if c.cache != nil {
		if out, ok := c.cache.Get(key); ok {
			return out, nil
		}
	}

	lexer := lookupLexer(language)
	if lexer == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, strings.TrimSpace(source))
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", language, err)
	}

	var sb strings.Builder
	sb.WriteString(`<div class="highlight">`)
	if err := c.formatter.Format(&sb, c.style, it); err != nil {
		return "", fmt.Errorf("format %s: %w", language, err)
	}
	sb.WriteString(`</div>`)

	out := sb.String()
	if c.cache != nil {
		c.cache.Add(key, out)
	}
	return out, nil
}

// WriteCSS writes the stylesheet matching the classes Highlight emits.
func (c *Chroma) WriteCSS(w io.Writer) error {
	return c.formatter.WriteCSS(w, c.style)
}

// CacheLen reports how many highlighted snippets are cached.
func (c *Chroma) CacheLen() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

func lookupLexer(language string) chroma.Lexer {
	language = strings.TrimSpace(language)
	if language == "" {
		return nil
	}
	return lexers.Get(language)
}
