package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader serves assets from a user directory laid out like the
// embedded tree. Reads that resolve outside the directory are refused.
type FilesystemLoader struct {
	root string
}

// NewFilesystemLoader opens root as an asset directory. It returns
// ErrInvalidBasePath unless root is a readable directory.
func NewFilesystemLoader(root string) (*FilesystemLoader, error) {
	dir, err := resolveRoot(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	return &FilesystemLoader{root: dir}, nil
}

// resolveRoot returns root as an absolute path with symlinks expanded,
// after checking it can be listed.
func resolveRoot(root string) (string, error) {
	if root == "" {
		return "", errors.New("empty path")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("directory does not exist: %s", abs)
	case err != nil:
		return "", err
	case !info.IsDir():
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return "", fmt.Errorf("cannot read directory: %v", err)
	}
	return abs, nil
}

// Root is the resolved asset directory.
func (f *FilesystemLoader) Root() string { return f.root }

// LoadStyle loads <root>/styles/<name>.css.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	b, err := f.read(Styles, name)
	return string(b), err
}

// LoadTheme loads <root>/themes/<name>.yaml.
func (f *FilesystemLoader) LoadTheme(name string) ([]byte, error) {
	return f.read(Themes, name)
}

// read loads one asset. A missing file is reported with k.NotFound so the
// resolver can fall back to the embedded asset.
func (f *FilesystemLoader) read(k Kind, name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	p := filepath.Join(f.root, filepath.FromSlash(k.file(name)))
	if !f.contains(p) {
		return nil, fmt.Errorf("%w: %s escapes %s", ErrPathTraversal, name, f.root)
	}
	b, err := os.ReadFile(p) // #nosec G304 -- name validated and containment checked
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, k.missing(name)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return b, nil
}

// contains reports whether p, after following symlinks, lies under the
// root. A path that does not exist yet is judged as written.
func (f *FilesystemLoader) contains(p string) bool {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	return strings.HasPrefix(p, f.root+string(filepath.Separator))
}

// Compile-time interface check.
var _ AssetLoader = (*FilesystemLoader)(nil)
