package fileutil_test

// Notes:
// - The TMPDIR failure case uses t.Setenv and so runs serially.
// - Short write errors are not simulated; they need a full disk.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-bbcode/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestClassifyStyle - --style value interpretation
// ---------------------------------------------------------------------------

func TestClassifyStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  fileutil.StyleKind
	}{
		{"forum", fileutil.StyleName},
		{"default", fileutil.StyleName},
		{"", fileutil.StyleName},
		{"my-style", fileutil.StyleName},
		{"./forum.css", fileutil.StylePath},
		{"/etc/bbcode/site.css", fileutil.StylePath},
		{`C:\styles\site.css`, fileutil.StylePath},
		{"themes/dark", fileutil.StylePath},
		{"blockquote { margin: 0; }", fileutil.StyleInline},
		{".post{background:url(/img/bg.png)}", fileutil.StyleInline},
		{"{", fileutil.StyleInline},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.ClassifyStyle(tt.input); got != tt.want {
				t.Errorf("ClassifyStyle(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStyleKind_String(t *testing.T) {
	t.Parallel()

	want := map[fileutil.StyleKind]string{
		fileutil.StyleName:   "name",
		fileutil.StylePath:   "path",
		fileutil.StyleInline: "inline",
	}
	for k, s := range want {
		if k.String() != s {
			t.Errorf("%d.String() = %q, want %q", int(k), k.String(), s)
		}
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempDocument - Documents handed to the browser
// ---------------------------------------------------------------------------

func TestWriteTempDocument(t *testing.T) {
	t.Parallel()

	doc := "<!DOCTYPE html>\n<html lang=\"fr\"><body><strong>salut</strong></body></html>\n"

	path, cleanup, err := fileutil.WriteTempDocument(doc)
	if err != nil {
		t.Fatalf("WriteTempDocument() error = %v", err)
	}
	defer cleanup()

	if filepath.Ext(path) != ".html" {
		t.Errorf("extension = %q, want .html", filepath.Ext(path))
	}
	if !strings.HasPrefix(filepath.Base(path), "bbcode-") {
		t.Errorf("name = %q, want bbcode- prefix", filepath.Base(path))
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp document: %v", err)
	}
	if string(got) != doc {
		t.Errorf("content = %q, want %q", got, doc)
	}
}

func TestWriteTempDocument_UniquePaths(t *testing.T) {
	t.Parallel()

	a, cleanA, err := fileutil.WriteTempDocument("a")
	if err != nil {
		t.Fatalf("WriteTempDocument() error = %v", err)
	}
	defer cleanA()
	b, cleanB, err := fileutil.WriteTempDocument("b")
	if err != nil {
		t.Fatalf("WriteTempDocument() error = %v", err)
	}
	defer cleanB()

	if a == b {
		t.Errorf("two documents share path %q", a)
	}
}

func TestWriteTempDocument_Cleanup(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempDocument("[b]x[/b]")
	if err != nil {
		t.Fatalf("WriteTempDocument() error = %v", err)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("document still present after cleanup: %v", err)
	}
	cleanup() // second call is a no-op
}

func TestWriteTempDocument_BadTempDir(t *testing.T) {
	t.Setenv("TMPDIR", filepath.Join(t.TempDir(), "missing", "dir"))
	t.Setenv("TMP", filepath.Join(t.TempDir(), "missing", "dir"))
	t.Setenv("TEMP", filepath.Join(t.TempDir(), "missing", "dir"))

	path, cleanup, err := fileutil.WriteTempDocument("x")
	if err == nil {
		cleanup()
		t.Fatalf("WriteTempDocument() = %q, want error", path)
	}
	if cleanup != nil {
		t.Error("cleanup should be nil on error")
	}
	if !strings.Contains(err.Error(), "creating temp document") {
		t.Errorf("error = %q, want it to mention creating temp document", err)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "post.bbcode")
	if err := os.WriteFile(src, []byte("[i]hi[/i]"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"regular file", src, true},
		{"directory", dir, false},
		{"missing", filepath.Join(dir, "gone.bb"), false},
		{"empty path", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsSourceFile / TestReplaceExtension - Batch discovery helpers
// ---------------------------------------------------------------------------

func TestIsSourceFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"post.bbcode", true},
		{"post.bb", true},
		{"POST.BBCODE", true},
		{"dir/thread.Bb", true},
		{"post.bbcode.bak", false},
		{"notes.md", false},
		{"bbcode", false},
		{".bb", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsSourceFile(tt.path); got != tt.want {
				t.Errorf("IsSourceFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestReplaceExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		ext  string
		want string
	}{
		{"post.bbcode", ".html", "post.html"},
		{"out/thread.bb", ".frag.html", "out/thread.frag.html"},
		{"archive.tar.bb", ".pdf", "archive.tar.pdf"},
		{"README", ".html", "README.html"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.ReplaceExtension(tt.path, tt.ext); got != tt.want {
				t.Errorf("ReplaceExtension(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
			}
		})
	}
}
