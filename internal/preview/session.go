package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-bbcode/internal/fileutil"
	"github.com/alnah/go-bbcode/internal/logging"
)

// DefaultDebounce is the quiet period after the last change before a
// re-render.
const DefaultDebounce = 100 * time.Millisecond

// Sentinel errors.
var (
	ErrNotSourceFile = errors.New("not a BBCode source file")
	ErrSourceRead    = errors.New("failed to read source")
	ErrWatch         = errors.New("failed to watch source")
	ErrNoDocument    = errors.New("no document rendered yet")
)

// Snapshot is one rendering of the source file.
type Snapshot struct {
	Fragment   string
	HTML       string
	RenderedAt time.Time
}

// RenderFunc converts source text into a snapshot.
type RenderFunc func(ctx context.Context, source string) (*Snapshot, error)

// Sink receives every rendering attempt. Exactly one of snap and err is nil.
type Sink func(snap *Snapshot, err error)

// DocumentSource provides the latest rendered document.
type DocumentSource interface {
	Current() (*Snapshot, error)
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDebounce sets the quiet period between the last change and the
// re-render. Non-positive values keep the default.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session watches one source file and keeps its latest rendering.
type Session struct {
	path     string
	render   RenderFunc
	sink     Sink
	debounce time.Duration
	logger   *slog.Logger

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}

	closeOnce sync.Once
	closeErr  error

	mu      sync.RWMutex
	latest  *Snapshot
	lastErr error
}

// Compile-time interface check.
var _ DocumentSource = (*Session)(nil)

// Open renders path once and subscribes to its changes. The parent
// directory is watched so editors that save through rename keep the
// subscription alive. A nil sink is allowed.
func Open(ctx context.Context, path string, render RenderFunc, sink Sink, opts ...SessionOption) (*Session, error) {
	if !fileutil.IsSourceFile(path) {
		return nil, fmt.Errorf("%w: %s", ErrNotSourceFile, path)
	}
	if render == nil {
		return nil, errors.New("preview: nil render function")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}

	s := &Session{
		path:     abs,
		render:   render,
		sink:     sink,
		debounce: DefaultDebounce,
		logger:   logging.NewNop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	s.refresh(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}
	s.watcher = watcher

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.loop(loopCtx)

	s.logger.Debug("watching source", "path", abs, "debounce", s.debounce)
	return s, nil
}

// Path returns the absolute path of the watched file.
func (s *Session) Path() string {
	return s.path
}

// Current returns the latest snapshot and the error of the latest attempt.
// A failed re-render keeps the previous snapshot available.
func (s *Session) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil && s.lastErr == nil {
		return nil, ErrNoDocument
	}
	return s.latest, s.lastErr
}

// Close releases the change subscription and waits for the watch loop to
// exit. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
	})
	return s.closeErr
}

func (s *Session) loop(ctx context.Context) {
	defer func() {
		s.closeErr = s.watcher.Close()
		close(s.done)
	}()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !s.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watch error", "path", s.path, "error", err)
		case <-fire:
			fire = nil
			s.refresh(ctx)
		}
	}
}

// relevant reports whether ev changes the content of the watched file.
func (s *Session) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != s.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

func (s *Session) refresh(ctx context.Context) {
	snap, err := s.renderFile(ctx)

	s.mu.Lock()
	if err == nil {
		s.latest = snap
	}
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("render failed", "path", s.path, "error", err)
	} else {
		s.logger.Debug("rendered", "path", s.path, "bytes", len(snap.HTML))
	}
	if s.sink != nil {
		s.sink(snap, err)
	}
}

func (s *Session) renderFile(ctx context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(s.path) // #nosec G304 -- path is the user-selected source
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}
	snap, err := s.render(ctx, string(data))
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, errors.New("preview: render returned no document")
	}
	if snap.RenderedAt.IsZero() {
		snap.RenderedAt = time.Now()
	}
	return snap, nil
}
