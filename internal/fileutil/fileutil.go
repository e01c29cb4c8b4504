// Package fileutil holds the small filesystem helpers shared by the
// converter, the CLI and the preview server.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceExtensions lists the file extensions recognized as BBCode sources.
var SourceExtensions = []string{".bbcode", ".bb"}

// tempDocumentPattern names the documents handed to the browser for printing.
const tempDocumentPattern = "bbcode-*.html"

// StyleKind says how a --style value is interpreted.
type StyleKind int

const (
	// StyleName is the name of an embedded stylesheet.
	StyleName StyleKind = iota
	// StylePath is a stylesheet on disk.
	StylePath
	// StyleInline is CSS text used as is.
	StyleInline
)

func (k StyleKind) String() string {
	switch k {
	case StylePath:
		return "path"
	case StyleInline:
		return "inline"
	default:
		return "name"
	}
}

// ClassifyStyle reports what kind of style input s is. Anything with a
// brace is CSS, so rules with url(/img.png) are not read as paths. Otherwise
// a path separator makes it a path, and the rest are names.
func ClassifyStyle(s string) StyleKind {
	switch {
	case strings.Contains(s, "{"):
		return StyleInline
	case strings.ContainsAny(s, `/\`):
		return StylePath
	default:
		return StyleName
	}
}

// WriteTempDocument stores an assembled HTML document in the system temp
// directory so a browser can open it by file URL. The returned cleanup
// removes the file and is safe to call more than once.
func WriteTempDocument(document string) (path string, cleanup func(), err error) {
	f, err := os.CreateTemp("", tempDocumentPattern)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp document: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	_, err = f.WriteString(document)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing temp document: %w", err)
	}
	return path, cleanup, nil
}

// FileExists returns true if the path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsSourceFile reports whether path has a BBCode source extension
// (case-insensitive).
func IsSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReplaceExtension swaps the extension of path for ext (with leading dot).
func ReplaceExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
