package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	bbcode "github.com/alnah/go-bbcode"
	"github.com/alnah/go-bbcode/internal/config"
	"github.com/alnah/go-bbcode/internal/logging"
)

// maxTimeout bounds --timeout and BBCODE_TIMEOUT.
const maxTimeout = 10 * time.Minute

// settings is everything a command needs after merging flags, environment
// and the config file.
type settings struct {
	cfg     *config.Config
	timeout time.Duration // Zero = library default
	css     string        // Content of --css
	theme   *bbcode.Theme // Token overrides from config (nil = none)
	logger  *slog.Logger
	workers int // From BBCODE_WORKERS when the flag is 0
}

// loadSettings resolves configuration for a command.
// Priority: CLI flags > env vars > config file > defaults.
func loadSettings(common commonFlags, render renderFlags, env *Environment) (*settings, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfigFile(common.config, envCfg)
	if err != nil {
		return nil, err
	}
	applyEnvConfig(envCfg, cfg)
	mergeRenderFlags(render, cfg)

	switch {
	case common.verbose:
		cfg.Log.Level = config.LogLevelDebug
	case common.quiet:
		cfg.Log.Level = config.LogLevelError
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	timeout, err := resolveTimeout(render.timeout, envCfg.Timeout)
	if err != nil {
		return nil, err
	}

	css, err := readCSS(render.css)
	if err != nil {
		return nil, err
	}

	return &settings{
		cfg:     cfg,
		timeout: timeout,
		css:     css,
		theme:   themeOverrides(cfg.Theme),
		logger:  logging.New(env.Stderr, level),
		workers: envCfg.Workers,
	}, nil
}

// loadConfigFile loads the named config, falling back to BBCODE_CONFIG.
// Without either, defaults are returned.
func loadConfigFile(name string, envCfg *envConfig) (*config.Config, error) {
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeRenderFlags merges CLI flags into config. CLI values override config values.
func mergeRenderFlags(f renderFlags, cfg *config.Config) {
	if f.style != "" {
		cfg.Style = f.style
	}
	if f.theme != "" {
		cfg.Theme.Name = f.theme
	}
	if f.title != "" {
		cfg.Document.Title = f.title
	}
	if f.lang != "" {
		cfg.Document.Lang = f.lang
	}
	if f.highlight {
		cfg.Highlight.Enabled = true
	}
	if f.highlightStyle != "" {
		cfg.Highlight.Style = f.highlightStyle
		cfg.Highlight.Enabled = true
	}
	if f.sanitize {
		cfg.Sanitize.Enabled = true
	}
	if f.strict {
		cfg.Strict = true
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
}

// resolveTimeout parses the --timeout flag, falling back to the env value.
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, flagValue)
	}
	if d <= 0 || d > maxTimeout {
		return 0, fmt.Errorf("%w: %s (must be between 0 and %s)", ErrInvalidTimeout, d, maxTimeout)
	}
	return d, nil
}

// readCSS reads the --css file. An empty path yields no CSS.
func readCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(content), nil
}

// themeOverrides returns the configured theme tokens, or nil when the
// config overrides none of them.
func themeOverrides(tc config.ThemeConfig) *bbcode.Theme {
	t := &bbcode.Theme{
		Foreground:          tc.Foreground,
		Background:          tc.Background,
		Link:                tc.Link,
		CodeBackground:      tc.CodeBackground,
		SelectionBackground: tc.SelectionBackground,
	}
	if *t == (bbcode.Theme{}) {
		return nil
	}
	return t
}

// converterOptions translates settings into library options.
func (s *settings) converterOptions() []bbcode.Option {
	var opts []bbcode.Option
	if s.cfg.Assets.BasePath != "" {
		opts = append(opts, bbcode.WithAssetPath(s.cfg.Assets.BasePath))
	}
	if s.cfg.Style != "" {
		opts = append(opts, bbcode.WithStyle(s.cfg.Style))
	}
	if s.cfg.Theme.Name != "" {
		opts = append(opts, bbcode.WithTheme(s.cfg.Theme.Name))
	}
	if s.cfg.Highlight.Enabled {
		opts = append(opts, bbcode.WithHighlighting(s.cfg.Highlight.Style))
	}
	if s.cfg.Sanitize.Enabled {
		opts = append(opts, bbcode.WithSanitizer())
	}
	if s.cfg.Strict {
		opts = append(opts, bbcode.WithStrict())
	}
	if s.timeout > 0 {
		opts = append(opts, bbcode.WithTimeout(s.timeout))
	}
	return opts
}

// input builds the conversion input for one source file.
func (s *settings) input(path, source string) bbcode.Input {
	return bbcode.Input{
		Source: source,
		CSS:    s.css,
		Title:  s.title(path),
		Lang:   s.cfg.Document.Lang,
		Theme:  s.theme,
		PDF:    s.format() == config.FormatPDF,
	}
}

// title returns the configured title, else the source file name without
// its extension.
func (s *settings) title(path string) string {
	if s.cfg.Document.Title != "" {
		return s.cfg.Document.Title
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// format returns the normalized output format.
func (s *settings) format() string {
	f := strings.ToLower(s.cfg.Output.Format)
	if f == "" {
		return config.FormatHTML
	}
	return f
}

// outputExtension returns the file extension for format.
func outputExtension(format string) string {
	switch format {
	case config.FormatPDF:
		return ".pdf"
	case config.FormatFragment:
		return ".fragment.html"
	default:
		return ".html"
	}
}

// outputBytes selects the part of result matching format.
func outputBytes(result *bbcode.Result, format string) []byte {
	switch format {
	case config.FormatPDF:
		return result.PDF
	case config.FormatFragment:
		return []byte(result.Fragment)
	default:
		return result.HTML
	}
}
