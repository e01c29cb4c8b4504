package assets

import "errors"

// AssetResolver layers a user directory over the embedded assets. Assets
// in the directory win, and a name it lacks falls back to the built-in one.
type AssetResolver struct {
	layers []AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty dir yields a
// resolver over the embedded assets only.
func NewAssetResolver(dir string) (*AssetResolver, error) {
	r := &AssetResolver{}
	if dir != "" {
		custom, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		r.layers = append(r.layers, custom)
	}
	r.layers = append(r.layers, NewEmbeddedLoader())
	return r, nil
}

// LoadStyle implements AssetLoader.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return firstFound(r.layers, func(l AssetLoader) (string, error) {
		return l.LoadStyle(name)
	})
}

// LoadTheme implements AssetLoader.
func (r *AssetResolver) LoadTheme(name string) ([]byte, error) {
	return firstFound(r.layers, func(l AssetLoader) ([]byte, error) {
		return l.LoadTheme(name)
	})
}

// firstFound asks each layer in turn. Only "not found" moves on to the
// next layer; any other error stops the lookup.
func firstFound[T any](layers []AssetLoader, load func(AssetLoader) (T, error)) (T, error) {
	var (
		v   T
		err error
	)
	for _, l := range layers {
		v, err = load(l)
		if !isNotFound(err) {
			return v, err
		}
	}
	return v, err
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrThemeNotFound)
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
