package pipeline

import "strings"

// passes is the fixed rewrite order. Code blocks are fenced before the first
// pass and restored after the last one.
var passes = buildPasses()

func buildPasses() []pass {
	ps := make([]pass, 0, len(simpleTags)+14)
	for _, t := range simpleTags {
		ps = append(ps, simpleTagPass(t))
	}
	return append(ps,
		alignPass,
		sizePass,
		colorPass,
		stylePass,
		labeledURLPass,
		bareURLPass,
		imagePass,
		sizedImagePass,
		compactImagePass,
		spoilerPass,
		listPass,
		tablePass,
		youtubePass,
	)
}

// FragmentConverter abstracts source markup to HTML fragment conversion.
type FragmentConverter interface {
	Convert(source string) string
}

// Converter turns bracket markup into an HTML fragment. A Converter is
// immutable and safe for concurrent use.
type Converter struct {
	highlighter Highlighter
}

// Compile-time interface check.
var _ FragmentConverter = (*Converter)(nil)

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithHighlighter renders language-tagged code blocks through h.
func WithHighlighter(h Highlighter) ConverterOption {
	return func(c *Converter) {
		c.highlighter = h
	}
}

// NewConverter creates a Converter.
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert returns the HTML fragment for source. It never fails: tags that do
// not match a rule stay in the output as escaped literal text.
func (cv *Converter) Convert(source string) string {
	escaped := EscapeHTML(source)

	// Fast path: without a bracket no rule can match.
	if !strings.Contains(source, "[") {
		return escaped
	}

	c := &conversion{fence: fence{highlighter: cv.highlighter}}
	s := c.fence.extract(escaped)
	for _, p := range passes {
		s = p.apply(c, s)
	}
	return c.fence.restore(s)
}

var defaultConverter = NewConverter()

// Convert converts source with a converter that has no highlighter.
func Convert(source string) string {
	return defaultConverter.Convert(source)
}
