package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-bbcode/internal/fileutil"
	"github.com/alnah/go-bbcode/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory under the user config directory searched for
// named configs.
const AppDirName = "go-bbcode"

// Field length limits.
const (
	MaxPathLength       = 4096
	MaxNameLength       = 64   // Style, theme and highlight style names
	MaxTitleLength      = 200  // Document title
	MaxLangLength       = 35   // BCP 47 tags in practice
	MaxThemeTokenLength = 256  // One CSS expression
	MaxAddrLength       = 255  // host:port
	MaxRefreshSeconds   = 3600 // Refresh header upper bound
)

// Output formats.
const (
	FormatHTML     = "html"
	FormatFragment = "fragment"
	FormatPDF      = "pdf"
)

// Log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Config holds all configuration for the CLI.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Style     string          `yaml:"style"` // Style name, path or CSS text (empty = default)
	Theme     ThemeConfig     `yaml:"theme"`
	Document  DocumentConfig  `yaml:"document"`
	Highlight HighlightConfig `yaml:"highlight"`
	Sanitize  SanitizeConfig  `yaml:"sanitize"`
	Strict    bool            `yaml:"strict"` // Fail on audit violations
	Assets    AssetsConfig    `yaml:"assets"`
	Serve     ServeConfig     `yaml:"serve"`
	Log       LogConfig       `yaml:"log"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Format     string `yaml:"format"`     // "html", "fragment", "pdf" (default: "html")
}

// ThemeConfig selects a theme preset and optionally overrides its tokens.
type ThemeConfig struct {
	Name                string `yaml:"name"` // Preset name (empty = default preset)
	Foreground          string `yaml:"foreground"`
	Background          string `yaml:"background"`
	Link                string `yaml:"link"`
	CodeBackground      string `yaml:"codeBackground"`
	SelectionBackground string `yaml:"selectionBackground"`
}

// DocumentConfig defines document shell options.
type DocumentConfig struct {
	Title string `yaml:"title"` // Empty = source file name
	Lang  string `yaml:"lang"`  // Empty = "en"
}

// HighlightConfig defines syntax highlighting of language-tagged code.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style"` // chroma style name (empty = "github")
}

// SanitizeConfig defines the optional sanitizer pass.
type SanitizeConfig struct {
	Enabled bool `yaml:"enabled"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// ServeConfig defines the preview server options.
type ServeConfig struct {
	Addr    string `yaml:"addr"`    // Listen address (default: "127.0.0.1:8080")
	Refresh int    `yaml:"refresh"` // Refresh header seconds (0 = off)
}

// LogConfig defines diagnostic logging options.
type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error" (default: "warn")
}

var langPattern = regexp.MustCompile(`^[a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*$`)

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"theme.name", c.Theme.Name, MaxNameLength},
		{"theme.foreground", c.Theme.Foreground, MaxThemeTokenLength},
		{"theme.background", c.Theme.Background, MaxThemeTokenLength},
		{"theme.link", c.Theme.Link, MaxThemeTokenLength},
		{"theme.codeBackground", c.Theme.CodeBackground, MaxThemeTokenLength},
		{"theme.selectionBackground", c.Theme.SelectionBackground, MaxThemeTokenLength},
		{"document.title", c.Document.Title, MaxTitleLength},
		{"document.lang", c.Document.Lang, MaxLangLength},
		{"highlight.style", c.Highlight.Style, MaxNameLength},
		{"serve.addr", c.Serve.Addr, MaxAddrLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Output.Format) {
	case "", FormatHTML, FormatFragment, FormatPDF:
	default:
		return fmt.Errorf("%w: output.format %q (must be html, fragment, or pdf)", ErrInvalidValue, c.Output.Format)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}

	if c.Document.Lang != "" && !langPattern.MatchString(c.Document.Lang) {
		return fmt.Errorf("%w: document.lang %q", ErrInvalidValue, c.Document.Lang)
	}

	if c.Serve.Refresh < 0 || c.Serve.Refresh > MaxRefreshSeconds {
		return fmt.Errorf("%w: serve.refresh must be between 0 and %d, got %d", ErrInvalidValue, MaxRefreshSeconds, c.Serve.Refresh)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration with every optional feature off.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Format: FormatHTML},
		Log:    LogConfig{Level: LogLevelWarn},
	}
}

// configExtensions are tried in order when resolving a config name.
var configExtensions = []string{".yaml", ".yml"}

// LoadConfig reads a config file over DefaultConfig and validates it.
// nameOrPath containing a path separator is read as is. A bare name is
// looked up by searchPaths. A missing file is an error, never a silent
// fallback to defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	path := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if path, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.Decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isFilePath(s string) bool {
	return strings.ContainsAny(s, `/\`)
}

// searchPaths lists where a config named name may live: the working
// directory first, then <user config dir>/go-bbcode.
func searchPaths(name string) []string {
	dirs := []string{""}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, AppDirName))
	}
	var paths []string
	for _, dir := range dirs {
		for _, ext := range configExtensions {
			paths = append(paths, filepath.Join(dir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing search path for name.
func resolveConfigPath(name string) (string, error) {
	paths := searchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
