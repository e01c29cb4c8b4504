package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	bbcode "github.com/alnah/go-bbcode"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock converter, pool and environment
// ---------------------------------------------------------------------------

// mockConverter records inputs and returns a canned or derived result.
type mockConverter struct {
	mu     sync.Mutex
	inputs []bbcode.Input
	err    error
}

func (m *mockConverter) Convert(_ context.Context, in bbcode.Input) (*bbcode.Result, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, in)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return &bbcode.Result{
		Fragment: "<em>" + in.Source + "</em>",
		HTML:     []byte("<html>" + in.Source + "</html>"),
		PDF:      []byte("%PDF-1.4 " + in.Source),
	}, nil
}

func (m *mockConverter) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}

// mockPool hands out one converter.
type mockPool struct {
	mu         sync.Mutex
	conv       CLIConverter
	acquireErr error
	size       int
	released   int
	closed     bool
}

func (p *mockPool) Acquire() (CLIConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.conv, nil
}

func (p *mockPool) Release(CLIConverter) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *mockPool) Size() int {
	if p.size < 1 {
		return 1
	}
	return p.size
}

func (p *mockPool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *syncBuffer
	stderr *syncBuffer
}

// syncBuffer is a bytes.Buffer safe for the concurrent writes of watch and
// serve goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestEnv returns an environment backed by pool. A nil pool uses the
// real converter pool.
func newTestEnv(pool Pool) *testEnv {
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	env := &Environment{
		Now:     func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		Stdout:  stdout,
		Stderr:  stderr,
		NewPool: newConverterPool,
		Listen:  net.Listen,
	}
	if pool != nil {
		env.NewPool = func(int, ...bbcode.Option) (Pool, error) { return pool, nil }
	}
	return &testEnv{Environment: env, stdout: stdout, stderr: stderr}
}

// writeFile creates a file (and parents) under dir.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
