package main

// Notes:
// - runWatch blocks until its context is cancelled, so each test runs it in
//   a goroutine and polls the output file.
// - File events come from fsnotify on a temp directory.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-bbcode/internal/config"
)

func startWatch(t *testing.T, env *testEnv, args []string) (cancel func() error) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, args, env.Environment) }()
	return func() error {
		stop()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("runWatch did not return after cancel")
			return nil
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunWatch - Convert on save
// ---------------------------------------------------------------------------

func TestRunWatch(t *testing.T) {
	t.Parallel()

	t.Run("writes and rewrites the document", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "post.bbcode", "first")
		out := filepath.Join(dir, "post.html")
		env := newTestEnv(&mockPool{conv: &mockConverter{}})

		cancel := startWatch(t, env, []string{src})

		waitFor(t, 5*time.Second, func() bool {
			data, err := os.ReadFile(out)
			return err == nil && string(data) == "<html>first</html>"
		})

		if err := os.WriteFile(src, []byte("second"), 0o600); err != nil {
			t.Fatal(err)
		}
		waitFor(t, 5*time.Second, func() bool {
			data, err := os.ReadFile(out)
			return err == nil && string(data) == "<html>second</html>"
		})

		if err := cancel(); err != nil {
			t.Errorf("runWatch() error = %v", err)
		}
		stdout := env.stdout.String()
		if !strings.Contains(stdout, "Watching "+src) || !strings.Contains(stdout, "Updated "+out) {
			t.Errorf("stdout = %q", stdout)
		}
	})

	t.Run("fragment output", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "post.bb", "x")
		out := filepath.Join(dir, "post.fragment.html")
		env := newTestEnv(&mockPool{conv: &mockConverter{}})

		cancel := startWatch(t, env, []string{src, "--fragment", "-q"})
		waitFor(t, 5*time.Second, func() bool {
			data, err := os.ReadFile(out)
			return err == nil && string(data) == "<em>x</em>"
		})
		if err := cancel(); err != nil {
			t.Errorf("runWatch() error = %v", err)
		}
		if env.stdout.String() != "" {
			t.Errorf("quiet stdout = %q", env.stdout.String())
		}
	})

	t.Run("render failure is reported", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "post.bb", "x")
		env := newTestEnv(&mockPool{conv: &mockConverter{err: errors.New("broken")}})

		cancel := startWatch(t, env, []string{src})
		waitFor(t, 5*time.Second, func() bool {
			return strings.Contains(env.stdout.String(), "Watching")
		})
		if err := cancel(); err != nil {
			t.Errorf("runWatch() error = %v", err)
		}
		if !strings.Contains(env.stderr.String(), "FAILED "+src+": broken") {
			t.Errorf("stderr = %q", env.stderr.String())
		}
	})
}

func TestRunWatch_NotSourceFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(&mockPool{conv: &mockConverter{}})
	if err := runWatch(context.Background(), []string{"notes.md"}, env.Environment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "notes.md is not a BBCode file") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestRunWatch_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		pool    *mockPool
		wantErr error
	}{
		{"no file", nil, &mockPool{}, ErrNoInput},
		{"bad flag", []string{"--pdf", "a.bb"}, &mockPool{}, ErrUsage},
		{"acquire fails", []string{"a.bb"}, &mockPool{acquireErr: errors.New("down")}, ErrConverterInit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(tt.pool)
			err := runWatch(context.Background(), tt.args, env.Environment)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewRenderFunc - Converter to preview adapter
// ---------------------------------------------------------------------------

func TestNewRenderFunc(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return at }
	s := testSettings(config.DefaultConfig())

	var written []byte
	render := newRenderFunc(&mockConverter{}, s, "post.bb", now, func(data []byte) error {
		written = data
		return nil
	})

	snap, err := render(context.Background(), "hello")
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}
	if snap.Fragment != "<em>hello</em>" || snap.HTML != "<html>hello</html>" {
		t.Errorf("snapshot = %+v", snap)
	}
	if !snap.RenderedAt.Equal(at) {
		t.Errorf("RenderedAt = %v, want %v", snap.RenderedAt, at)
	}
	if string(written) != "<html>hello</html>" {
		t.Errorf("written = %q", written)
	}

	writeErr := errors.New("disk full")
	failing := newRenderFunc(&mockConverter{}, s, "post.bb", now, func([]byte) error { return writeErr })
	if _, err := failing(context.Background(), "x"); !errors.Is(err, writeErr) {
		t.Errorf("error = %v, want %v", err, writeErr)
	}
}
