package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-bbcode/internal/logging"
)

// contentSecurityPolicy sandboxes every served page without script
// permission.
const contentSecurityPolicy = "sandbox; default-src 'none'; img-src http: https: data:; " +
	"style-src 'unsafe-inline'; frame-src https://www.youtube.com"

const shutdownTimeout = 5 * time.Second

// HandlerOption configures the HTTP handler.
type HandlerOption func(*handler)

// WithRefresh makes browsers reload the page every seconds seconds through
// the Refresh header. Zero disables it.
func WithRefresh(seconds int) HandlerOption {
	return func(h *handler) {
		if seconds > 0 {
			h.refresh = strconv.Itoa(seconds)
		}
	}
}

// WithHandlerLogger sets the request logger.
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *handler) {
		if l != nil {
			h.logger = l
		}
	}
}

type handler struct {
	src     DocumentSource
	refresh string
	logger  *slog.Logger
}

// NewHandler serves the documents of src:
//
//	GET /          assembled HTML document
//	GET /fragment  bare HTML fragment
//	GET /healthz   liveness probe
func NewHandler(src DocumentSource, opts ...HandlerOption) http.Handler {
	h := &handler{src: src, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.secureHeaders)

	r.Get("/", h.document)
	r.Get("/fragment", h.fragment)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func (h *handler) secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		hdr.Set("Content-Security-Policy", contentSecurityPolicy)
		hdr.Set("X-Content-Type-Options", "nosniff")
		hdr.Set("Cache-Control", "no-store")
		hdr.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func (h *handler) document(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(s *Snapshot) string { return s.HTML })
}

func (h *handler) fragment(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(s *Snapshot) string { return s.Fragment })
}

// serve writes the selected part of the current snapshot. A failed
// re-render still serves the previous snapshot; with no snapshot at all
// the error is reported as plain text.
func (h *handler) serve(w http.ResponseWriter, r *http.Request, part func(*Snapshot) string) {
	snap, err := h.src.Current()
	if snap == nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNoDocument) {
			status = http.StatusServiceUnavailable
		}
		h.logger.Warn("no document to serve", "path", r.URL.Path, "error", err)
		http.Error(w, fmt.Sprintf("render error: %v", err), status)
		return
	}
	if err != nil {
		h.logger.Warn("serving stale document", "path", r.URL.Path, "error", err)
	}

	if h.refresh != "" {
		w.Header().Set("Refresh", h.refresh)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Last-Modified", snap.RenderedAt.UTC().Format(http.TimeFormat))
	_, _ = w.Write([]byte(part(snap)))
}

// Serve runs handler on ln until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
