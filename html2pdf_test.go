package bbcode

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher/flags"
)

type mockRenderer struct {
	Result      []byte
	Err         error
	CalledWith  string
	FileContent string
}

func (m *mockRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	m.CalledWith = filePath
	if data, err := os.ReadFile(filePath); err == nil {
		m.FileContent = string(data)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.Result, m.Err
}

type closeCounter struct {
	calls int
	err   error
}

func (c *closeCounter) Close() error {
	c.calls++
	return c.err
}

func TestRodConverter_ToPDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		mock    *mockRenderer
		wantErr bool
	}{
		{
			name: "successful render returns PDF bytes",
			html: "<html><body>Test</body></html>",
			mock: &mockRenderer{Result: []byte("%PDF-1.4 fake pdf content")},
		},
		{
			name:    "renderer error propagates",
			html:    "<html></html>",
			mock:    &mockRenderer{Err: errors.New("browser crashed")},
			wantErr: true,
		},
		{
			name: "empty HTML is valid",
			html: "",
			mock: &mockRenderer{Result: []byte("%PDF-1.4")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			converter := &rodConverter{renderer: tt.mock}
			got, err := converter.ToPDF(t.Context(), tt.html)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != string(tt.mock.Result) {
				t.Errorf("ToPDF() = %q, want %q", got, tt.mock.Result)
			}
			if !strings.HasSuffix(tt.mock.CalledWith, ".html") {
				t.Errorf("renderer called with %q, want .html temp file", tt.mock.CalledWith)
			}
			if tt.mock.FileContent != tt.html {
				t.Errorf("temp file content = %q, want %q", tt.mock.FileContent, tt.html)
			}
			if _, err := os.Stat(tt.mock.CalledWith); !os.IsNotExist(err) {
				t.Errorf("temp file %q not removed after render", tt.mock.CalledWith)
			}
		})
	}
}

func TestRodConverter_ToPDF_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	converter := &rodConverter{renderer: &mockRenderer{Result: []byte("%PDF")}}
	if _, err := converter.ToPDF(ctx, "<html></html>"); !errors.Is(err, context.Canceled) {
		t.Errorf("ToPDF() error = %v, want context.Canceled", err)
	}
}

func TestRodConverter_Close(t *testing.T) {
	t.Parallel()

	closer := &closeCounter{}
	converter := &rodConverter{renderer: &mockRenderer{}, closer: closer}
	if err := converter.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if closer.calls != 1 {
		t.Errorf("Close() called closer %d times, want 1", closer.calls)
	}

	if err := (&rodConverter{}).Close(); err != nil {
		t.Errorf("Close() on converter without closer error = %v", err)
	}
}

func TestNewRodConverter(t *testing.T) {
	t.Parallel()

	c := newRodConverter(5 * time.Second)
	r, ok := c.renderer.(*rodRenderer)
	if !ok {
		t.Fatalf("renderer is %T, want *rodRenderer", c.renderer)
	}
	if r.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", r.timeout)
	}
	if r.browser != nil {
		t.Error("browser should be created lazily")
	}
	// Closing before any render must not start a browser.
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestRodRenderer_CancelledBeforeLaunch(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	r := newRodRenderer(time.Second)
	if _, err := r.RenderFromFile(ctx, "/nonexistent.html"); !errors.Is(err, context.Canceled) {
		t.Errorf("RenderFromFile() error = %v, want context.Canceled", err)
	}
	if r.browser != nil {
		t.Error("browser launched for a cancelled context")
	}
}

func TestPageSetup_PrintOptions(t *testing.T) {
	t.Parallel()

	opts := a4.printOptions()

	checks := []struct {
		name string
		got  *float64
		want float64
	}{
		{"PaperWidth", opts.PaperWidth, 8.27},
		{"PaperHeight", opts.PaperHeight, 11.69},
		{"MarginTop", opts.MarginTop, 0.5},
		{"MarginBottom", opts.MarginBottom, 0.5},
		{"MarginLeft", opts.MarginLeft, 0.5},
		{"MarginRight", opts.MarginRight, 0.5},
	}
	for _, c := range checks {
		if c.got == nil || *c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if !opts.PrintBackground {
		t.Error("PrintBackground should be true so theme colors are printed")
	}
	if !opts.PreferCSSPageSize {
		t.Error("PreferCSSPageSize should let @page rules win")
	}
	if opts.DisplayHeaderFooter {
		t.Error("DisplayHeaderFooter should be false")
	}

	// Options point at copies; the shared setup stays untouched.
	*opts.PaperWidth = 1
	if a4.width != 8.27 {
		t.Errorf("a4.width = %v after editing options", a4.width)
	}
}

func TestFileURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"/tmp/bbcode-1.html", "file:///tmp/bbcode-1.html"},
		{"/tmp/my post#1.html", "file:///tmp/my%20post%231.html"},
		{"C:/Temp/bbcode-1.html", "file:///C:/Temp/bbcode-1.html"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := fileURL(tt.path); got != tt.want {
				t.Errorf("fileURL(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestNewBrowserLauncher(t *testing.T) {
	t.Parallel()

	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	t.Run("pinned binary", func(t *testing.T) {
		t.Parallel()

		l := newBrowserLauncher(env(map[string]string{"ROD_BROWSER_BIN": "/usr/bin/chromium"}))
		if got := l.Get(flags.Bin); got != "/usr/bin/chromium" {
			t.Errorf("bin = %q", got)
		}
		if !l.Has(flags.NoSandbox) {
			t.Error("pinned binary should run without sandbox")
		}
	})

	for _, vars := range []map[string]string{
		{"CI": "true"},
		{"ROD_NO_SANDBOX": "1"},
	} {
		t.Run("no sandbox", func(t *testing.T) {
			t.Parallel()

			if !newBrowserLauncher(env(vars)).Has(flags.NoSandbox) {
				t.Errorf("%v should disable the sandbox", vars)
			}
		})
	}
}

func TestRodRenderer_CloseWithoutLaunch(t *testing.T) {
	t.Parallel()

	r := newRodRenderer(time.Second)
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	// Second close is a no-op.
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if r.launcher != nil || r.browser != nil {
		t.Error("Close() should clear browser and launcher")
	}
}
