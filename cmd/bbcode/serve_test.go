package main

// Notes:
// - runServe gets its listener from env.Listen; tests bind 127.0.0.1:0 and
//   capture the listener to learn the port.
// - The HTTP handler itself is tested in internal/preview.

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-bbcode/internal/config"
)

// capturingListen binds an ephemeral local port whatever address is asked.
type capturingListen struct {
	mu   sync.Mutex
	addr string
	ln   net.Listener
}

func (c *capturingListen) listen(network, address string) (net.Listener, error) {
	ln, err := net.Listen(network, "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.addr = address
	c.ln = ln
	c.mu.Unlock()
	return ln, nil
}

func (c *capturingListen) url() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ln == nil {
		return ""
	}
	return "http://" + c.ln.Addr().String()
}

// ---------------------------------------------------------------------------
// TestRunServe - Live preview over HTTP
// ---------------------------------------------------------------------------

func TestRunServe(t *testing.T) {
	t.Parallel()

	src := writeFile(t, t.TempDir(), "post.bbcode", "hello")
	env := newTestEnv(&mockPool{conv: &mockConverter{}})
	cl := &capturingListen{}
	env.Listen = cl.listen

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, []string{src, "--addr", "localhost:9999", "--refresh", "5"}, env.Environment) }()

	waitFor(t, 5*time.Second, func() bool { return cl.url() != "" })

	var body string
	var resp *http.Response
	waitFor(t, 5*time.Second, func() bool {
		r, err := http.Get(cl.url() + "/")
		if err != nil {
			return false
		}
		defer func() { _ = r.Body.Close() }()
		data, _ := io.ReadAll(r.Body)
		body, resp = string(data), r
		return true
	})

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if body != "<html>hello</html>" {
		t.Errorf("body = %q", body)
	}
	if got := resp.Header.Get("Refresh"); got != "5" {
		t.Errorf("Refresh = %q, want 5", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runServe() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("runServe did not return after cancel")
	}

	if cl.addr != "localhost:9999" {
		t.Errorf("listen address = %q, want localhost:9999", cl.addr)
	}
	if !strings.Contains(env.stdout.String(), "Serving "+src+" at http://") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestRunServe_ListenError(t *testing.T) {
	t.Parallel()

	src := writeFile(t, t.TempDir(), "post.bb", "x")
	env := newTestEnv(&mockPool{conv: &mockConverter{}})
	env.Listen = func(string, string) (net.Listener, error) { return nil, errors.New("address already in use") }

	err := runServe(context.Background(), []string{src, "--addr", ":8181"}, env.Environment)
	if !errors.Is(err, ErrListen) {
		t.Fatalf("error = %v, want ErrListen", err)
	}
	if exitCodeFor(err) != ExitIO {
		t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitIO)
	}
	if !strings.Contains(hintFor(err), ":8181") {
		t.Errorf("hint = %q", hintFor(err))
	}
}

func TestRunServe_NotSourceFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(&mockPool{conv: &mockConverter{}})
	if err := runServe(context.Background(), []string{"index.html"}, env.Environment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "nothing to serve") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

// ---------------------------------------------------------------------------
// TestResolveServeOptions - Address and refresh priority
// ---------------------------------------------------------------------------

func TestResolveServeOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		flags       serveFlags
		cfgAddr     string
		cfgRefresh  int
		wantAddr    string
		wantRefresh int
		wantErr     bool
	}{
		{"defaults", serveFlags{refresh: refreshUnset}, "", 0, defaultAddr, 0, false},
		{"config values", serveFlags{refresh: refreshUnset}, ":7000", 10, ":7000", 10, false},
		{"flags win", serveFlags{addr: ":9000", refresh: 3}, ":7000", 10, ":9000", 3, false},
		{"explicit zero turns refresh off", serveFlags{refresh: 0}, "", 10, defaultAddr, 0, false},
		{"refresh too large", serveFlags{refresh: config.MaxRefreshSeconds + 1}, "", 0, "", 0, true},
		{"negative refresh", serveFlags{refresh: -5}, "", 0, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Serve.Addr = tt.cfgAddr
			cfg.Serve.Refresh = tt.cfgRefresh

			addr, refresh, err := resolveServeOptions(&tt.flags, cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrUsage) {
					t.Errorf("error = %v, want ErrUsage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if addr != tt.wantAddr || refresh != tt.wantRefresh {
				t.Errorf("got (%q, %d), want (%q, %d)", addr, refresh, tt.wantAddr, tt.wantRefresh)
			}
		})
	}
}
