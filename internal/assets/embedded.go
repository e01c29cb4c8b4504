package assets

import (
	"embed"
	"errors"
	"io/fs"
	"sort"
	"strings"
)

//go:embed styles/*.css themes/*.yaml
var builtin embed.FS

// EmbeddedLoader serves the styles and themes compiled into the binary.
type EmbeddedLoader struct {
	fsys fs.FS
}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{fsys: builtin}
}

// LoadStyle implements AssetLoader.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	b, err := e.read(Styles, name)
	return string(b), err
}

// LoadTheme implements AssetLoader.
func (e *EmbeddedLoader) LoadTheme(name string) ([]byte, error) {
	return e.read(Themes, name)
}

// Names lists the assets of kind k without their extension.
func (e *EmbeddedLoader) Names(k Kind) []string {
	entries, err := fs.ReadDir(e.fsys, k.Dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, ent := range entries {
		if n, ok := strings.CutSuffix(ent.Name(), k.Ext); ok && !ent.IsDir() {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

func (e *EmbeddedLoader) read(k Kind, name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	b, err := fs.ReadFile(e.fsys, k.file(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, k.missing(name)
	}
	if err != nil {
		return nil, errors.Join(ErrAssetRead, err)
	}
	return b, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
