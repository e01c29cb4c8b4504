package bbcode

import (
	"errors"

	"github.com/alnah/go-bbcode/internal/assets"
)

// Asset name constants for built-in styles and themes.
const (
	// DefaultStyle is the name of the built-in extra stylesheet.
	DefaultStyle = assets.DefaultStyleName

	// DefaultTheme is the name of the built-in theme preset.
	DefaultTheme = assets.DefaultThemeName
)

// BuiltinStyles lists the names of the embedded stylesheets.
func BuiltinStyles() []string { return assets.Names(assets.Styles) }

// BuiltinThemes lists the names of the embedded theme presets.
func BuiltinThemes() []string { return assets.Names(assets.Themes) }

// AssetLoader defines the contract for loading stylesheets and theme presets.
// Implementations may load from filesystem, embedded assets, a database, etc.
//
// The library provides NewAssetLoader() for filesystem-based loading with
// fallback to embedded defaults. Implement this interface for custom backends.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTheme loads and validates a theme preset by name.
	// Returns ErrThemeNotFound if the theme doesn't exist and
	// ErrInvalidTheme if it cannot be parsed.
	LoadTheme(name string) (*Theme, error)
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, returns a loader using only embedded assets.
// If basePath is set, custom assets take precedence with fallback to embedded.
//
// The basePath directory should contain:
//   - styles/{name}.css for stylesheets
//   - themes/{name}.yaml for theme presets
//
// Returns ErrInvalidAssetPath if basePath is set but not a valid, readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{loader: resolver}, nil
}

// assetLoaderAdapter wraps an internal loader to return public types.
type assetLoaderAdapter struct {
	loader assets.AssetLoader
}

func (a *assetLoaderAdapter) LoadStyle(name string) (string, error) {
	content, err := a.loader.LoadStyle(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

func (a *assetLoaderAdapter) LoadTheme(name string) (*Theme, error) {
	data, err := a.loader.LoadTheme(name)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return ParseTheme(data)
}

// assetErrors pairs internal asset failures with the public sentinel
// callers match on.
var assetErrors = []struct{ internal, public error }{
	{assets.ErrStyleNotFound, ErrStyleNotFound},
	{assets.ErrThemeNotFound, ErrThemeNotFound},
	{assets.ErrInvalidBasePath, ErrInvalidAssetPath},
	{assets.ErrPathTraversal, ErrInvalidAssetPath},
	{assets.ErrInvalidAssetName, ErrInvalidAssetPath},
}

// convertAssetError keeps the message of an internal asset error but makes
// it match the public sentinel instead. Other errors pass through.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range assetErrors {
		if errors.Is(err, m.internal) {
			return &assetError{public: m.public, msg: err.Error()}
		}
	}
	return err
}

// assetError hides the internal error chain behind a public sentinel.
type assetError struct {
	public error
	msg    string
}

func (e *assetError) Error() string { return e.msg }

func (e *assetError) Unwrap() error { return e.public }
