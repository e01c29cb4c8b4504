package bbcode

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alnah/go-bbcode/internal/assets"
	"github.com/alnah/go-bbcode/internal/fileutil"
	"github.com/alnah/go-bbcode/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.FragmentConverter = (*pipeline.Converter)(nil)
	_ pipeline.CSSInjector       = (*pipeline.CSSInjection)(nil)
	_ pdfConverter               = (*rodConverter)(nil)
	_ pdfRenderer                = (*rodRenderer)(nil)
)

// Converter runs the BBCode conversion pipeline: fragment conversion,
// optional sanitizing and audit, document assembly, CSS injection and
// optional PDF export.
// Create with NewConverter(), use Convert() for conversion, and Close() when done.
type Converter struct {
	cfg               converterConfig
	assetLoader       AssetLoader
	publicAssetLoader AssetLoader // from WithAssetLoader
	fragments         pipeline.FragmentConverter
	sanitizer         *pipeline.Sanitizer
	cssInjector       pipeline.CSSInjector
	highlightCSS      string
	pdfConverter      pdfConverter
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTheme, WithHighlighting, WithStrict).
// Returns error if an asset cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:         converterConfig{timeout: defaultTimeout},
		assetLoader: &assetLoaderAdapter{loader: assets.NewEmbeddedLoader()},
		cssInjector: &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		loader, err := NewAssetLoader(c.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		c.assetLoader = loader
	}
	if c.publicAssetLoader != nil {
		c.assetLoader = c.publicAssetLoader
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}
	if err := c.resolveTheme(); err != nil {
		return nil, err
	}

	// Fragment converter may be injected by tests.
	if c.fragments == nil {
		var convOpts []pipeline.ConverterOption
		if c.cfg.highlight {
			h := pipeline.NewChromaHighlighter(c.cfg.highlightStyle)
			c.highlightCSS = h.CSS()
			convOpts = append(convOpts, pipeline.WithHighlighter(h))
		}
		c.fragments = pipeline.NewConverter(convOpts...)
	}

	if c.cfg.sanitize {
		c.sanitizer = pipeline.NewSanitizer()
	}

	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c, nil
}

// Convert runs the full pipeline. The fragment and the HTML document are
// always produced; the PDF only when input.PDF is set.
// The context is used for cancellation and timeout.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := input.Theme.Validate(); err != nil {
		return nil, err
	}

	fragment := c.fragments.Convert(input.Source)
	if c.sanitizer != nil {
		fragment = c.sanitizer.Sanitize(fragment)
	}
	if c.cfg.strict {
		if err := audit(fragment); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	theme := input.Theme.merged(c.cfg.theme)
	htmlContent := pipeline.AssembleDocument(fragment, pipeline.DocumentData{
		Title: input.Title,
		Lang:  input.Lang,
		Theme: theme.tokens(),
	})

	// Order matters: converter style first (base), user CSS last (can override).
	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, joinCSS(c.cfg.resolvedStyle, c.highlightCSS, input.CSS))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Fragment: fragment,
		HTML:     []byte(htmlContent),
	}
	if !input.PDF {
		return res, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	res.PDF = pdfBytes
	return res, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// audit fails with ErrUnsafeOutput when the fragment leaves the whitelist.
func audit(fragment string) error {
	violations, err := pipeline.Audit(fragment)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsafeOutput, err)
	}
	if len(violations) == 0 {
		return nil
	}
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.String()
	}
	return fmt.Errorf("%w: %s", ErrUnsafeOutput, strings.Join(msgs, "; "))
}

func joinCSS(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
// Without a style input the built-in default style is used.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		input = DefaultStyle
	}

	switch fileutil.ClassifyStyle(input) {
	case fileutil.StyleInline:
		c.cfg.resolvedStyle = input
		return nil
	case fileutil.StylePath:
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.cfg.resolvedStyle = css
	return nil
}

// resolveTheme loads the configured theme preset over the default theme.
func (c *Converter) resolveTheme() error {
	name := c.cfg.themeName
	if name == "" {
		name = DefaultTheme
	}
	t, err := c.assetLoader.LoadTheme(name)
	if err != nil {
		return fmt.Errorf("loading theme %q: %w", name, err)
	}
	c.cfg.theme = t.merged(defaultTheme())
	return nil
}

// fallbackTheme is used when the embedded default preset cannot be read.
var fallbackTheme = Theme{
	Name:                "system",
	Foreground:          "CanvasText",
	Background:          "Canvas",
	Link:                "LinkText",
	CodeBackground:      "rgba(127, 127, 127, 0.15)",
	SelectionBackground: "Highlight",
}

// defaultTheme returns the embedded default preset, parsed once.
var defaultTheme = sync.OnceValue(func() *Theme {
	data, err := assets.LoadTheme(assets.DefaultThemeName)
	if err != nil {
		return &fallbackTheme
	}
	t, err := ParseTheme(data)
	if err != nil {
		return &fallbackTheme
	}
	return t.merged(&fallbackTheme)
})

// ToHTML converts BBCode source to a safe HTML fragment. It never fails:
// unrecognised or malformed markup stays as escaped text.
func ToHTML(source string) string {
	return pipeline.Convert(source)
}

// Assemble embeds a fragment in a complete HTML document styled by theme.
// A nil theme uses the default preset; empty tokens are taken from it.
// A theme that fails validation is replaced by the default preset.
func Assemble(fragment string, theme *Theme) string {
	if theme.Validate() != nil {
		theme = nil
	}
	return pipeline.AssembleDocument(fragment, pipeline.DocumentData{
		Theme: theme.merged(defaultTheme()).tokens(),
	})
}
