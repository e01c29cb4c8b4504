package bbcode

import (
	"fmt"
	"regexp"
	"time"

	"github.com/alnah/go-bbcode/internal/pipeline"
	"github.com/alnah/go-bbcode/internal/yamlutil"
)

// Theme holds the CSS expressions used for the document colors. Empty
// fields take the value of the default theme.
type Theme struct {
	Name                string `yaml:"name"`
	Foreground          string `yaml:"foreground"`
	Background          string `yaml:"background"`
	Link                string `yaml:"link"`
	CodeBackground      string `yaml:"codeBackground"`
	SelectionBackground string `yaml:"selectionBackground"`
}

// themeToken restricts tokens to characters that cannot leave a CSS
// declaration: no ';', braces, quotes or angle brackets.
var themeToken = regexp.MustCompile(`^[a-zA-Z0-9#(),.%\- ]*$`)

// maxThemeTokenLength bounds a single token.
const maxThemeTokenLength = 256

// Validate checks every token of the theme.
// Returns nil if t is nil (nil means use defaults).
func (t *Theme) Validate() error {
	if t == nil {
		return nil
	}
	fields := []struct {
		name, value string
	}{
		{"foreground", t.Foreground},
		{"background", t.Background},
		{"link", t.Link},
		{"codeBackground", t.CodeBackground},
		{"selectionBackground", t.SelectionBackground},
	}
	for _, f := range fields {
		if len(f.value) > maxThemeTokenLength {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidTheme, f.name, maxThemeTokenLength)
		}
		if !themeToken.MatchString(f.value) {
			return fmt.Errorf("%w: %s %q contains forbidden characters", ErrInvalidTheme, f.name, f.value)
		}
	}
	return nil
}

// ParseTheme decodes a YAML theme preset and validates it. Unknown keys
// are rejected.
func ParseTheme(data []byte) (*Theme, error) {
	var t Theme
	if err := yamlutil.Decode("preset", data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTheme, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// merged fills the empty tokens of t from base.
func (t *Theme) merged(base *Theme) *Theme {
	if t == nil {
		return base
	}
	out := *base
	if t.Name != "" {
		out.Name = t.Name
	}
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&out.Foreground, t.Foreground)
	pick(&out.Background, t.Background)
	pick(&out.Link, t.Link)
	pick(&out.CodeBackground, t.CodeBackground)
	pick(&out.SelectionBackground, t.SelectionBackground)
	return &out
}

func (t *Theme) tokens() pipeline.ThemeTokens {
	return pipeline.ThemeTokens{
		Foreground:          t.Foreground,
		Background:          t.Background,
		Link:                t.Link,
		CodeBackground:      t.CodeBackground,
		SelectionBackground: t.SelectionBackground,
	}
}

// Input contains conversion parameters.
type Input struct {
	Source string // BBCode source; empty is valid
	CSS    string // Custom CSS appended after the converter style (optional)
	Title  string // Document title (optional)
	Lang   string // Document language (optional, default "en")
	Theme  *Theme // Overrides the converter theme (optional)
	PDF    bool   // Also render the document to PDF
}

// Result holds the conversion outputs.
type Result struct {
	Fragment string // Safe HTML fragment
	HTML     []byte // Complete HTML document
	PDF      []byte // PDF bytes, nil unless Input.PDF is set
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout        time.Duration
	assetPath      string
	styleInput     string
	resolvedStyle  string
	themeName      string
	theme          *Theme
	highlight      bool
	highlightStyle string
	sanitize       bool
	strict         bool
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("bbcode: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithAssetPath loads styles and themes from basePath, falling back to the
// embedded assets. The directory holds styles/{name}.css and
// themes/{name}.yaml.
func WithAssetPath(basePath string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = basePath
	}
}

// WithAssetLoader sets a custom asset loader. Takes precedence over
// WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.publicAssetLoader = loader
	}
}

// WithStyle sets the extra stylesheet. The value is a style name, a file path
// (contains a path separator) or CSS text (contains '{').
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithTheme selects a theme preset by name.
func WithTheme(name string) Option {
	return func(c *Converter) {
		c.cfg.themeName = name
	}
}

// WithHighlighting renders language-tagged code blocks with syntax
// highlighting in the named chroma style. An empty style uses the default.
func WithHighlighting(style string) Option {
	return func(c *Converter) {
		c.cfg.highlight = true
		c.cfg.highlightStyle = style
	}
}

// WithSanitizer filters every fragment through an HTML sanitizer policy
// mirroring the converter whitelist.
func WithSanitizer() Option {
	return func(c *Converter) {
		c.cfg.sanitize = true
	}
}

// WithStrict audits every fragment and fails with ErrUnsafeOutput when the
// audit reports a violation.
func WithStrict() Option {
	return func(c *Converter) {
		c.cfg.strict = true
	}
}
