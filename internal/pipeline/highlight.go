package pipeline

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter renders the body of a language-tagged code block.
// lang and code are raw (unescaped) text. ok=false selects the plain rendering.
type Highlighter interface {
	Highlight(lang, code string) (html string, ok bool)
}

// DefaultHighlightStyle is the chroma style used when none is given.
const DefaultHighlightStyle = "github"

// markerEscaper keeps slot markers out of highlighted output.
var markerEscaper = strings.NewReplacer(slotStart, "&#xE000;", slotEnd, "&#xE001;")

// ChromaHighlighter tokenises code with chroma and emits class-annotated spans.
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// Compile-time interface check.
var _ Highlighter = (*ChromaHighlighter)(nil)

// NewChromaHighlighter creates a highlighter for the named chroma style.
// An unknown style name falls back to chroma's default style.
func NewChromaHighlighter(style string) *ChromaHighlighter {
	if style == "" {
		style = DefaultHighlightStyle
	}
	return &ChromaHighlighter{
		style: styles.Get(style),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true), // pairs with CSS()
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// Highlight implements Highlighter.
func (h *ChromaHighlighter) Highlight(lang, code string) (string, bool) {
	lexer := lexers.Get(strings.ToLower(strings.TrimSpace(lang)))
	if lexer == nil {
		return "", false
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", false
	}
	return markerEscaper.Replace(buf.String()), true
}

// CSS returns the stylesheet for the highlighter's classes.
func (h *ChromaHighlighter) CSS() string {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return ""
	}
	return buf.String()
}
