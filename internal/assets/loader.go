package assets

import (
	"fmt"
	"path"
)

// Built-in asset names.
const (
	DefaultStyleName = "default"
	DefaultThemeName = "vscode"
)

// Kind is one family of assets: where its files live and how a missing
// one is reported.
type Kind struct {
	Dir      string
	Ext      string
	NotFound error
}

// Asset families.
var (
	Styles = Kind{Dir: "styles", Ext: ".css", NotFound: ErrStyleNotFound}
	Themes = Kind{Dir: "themes", Ext: ".yaml", NotFound: ErrThemeNotFound}
)

// file returns the slash-separated path of name inside an asset tree.
func (k Kind) file(name string) string {
	return path.Join(k.Dir, name+k.Ext)
}

func (k Kind) missing(name string) error {
	return fmt.Errorf("%w: %q", k.NotFound, name)
}

// AssetLoader loads stylesheets and theme presets by name.
type AssetLoader interface {
	// LoadStyle returns the CSS of a style (name without .css).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTheme returns the YAML source of a theme preset (name without .yaml).
	// Returns ErrThemeNotFound if the theme doesn't exist.
	LoadTheme(name string) ([]byte, error)
}

var builtinLoader = NewEmbeddedLoader()

// LoadTheme loads a built-in theme preset.
func LoadTheme(name string) ([]byte, error) {
	return builtinLoader.LoadTheme(name)
}

// Names lists the built-in assets of kind k, sorted.
func Names(k Kind) []string {
	return builtinLoader.Names(k)
}
