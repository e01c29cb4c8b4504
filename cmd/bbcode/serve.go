package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-bbcode/internal/config"
	"github.com/alnah/go-bbcode/internal/fileutil"
	"github.com/alnah/go-bbcode/internal/preview"
)

// defaultAddr keeps the preview server local unless asked otherwise.
const defaultAddr = "127.0.0.1:8080"

// runServe serves a live preview of one file until ctx is cancelled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) == 0 {
		return ErrNoInput
	}
	path := positional[0]
	if !fileutil.IsSourceFile(path) {
		printNotSource(env, path, "serve")
		return nil
	}

	s, err := loadSettings(flags.common, flags.render, env)
	if err != nil {
		return err
	}
	// The preview shows documents; PDF export is convert's job.
	s.cfg.Output.Format = config.FormatHTML

	addr, refresh, err := resolveServeOptions(flags, s.cfg)
	if err != nil {
		return err
	}

	conv, release, err := acquireSingle(env, s)
	if err != nil {
		return err
	}
	defer release()

	session, err := preview.Open(ctx, path, newRenderFunc(conv, s, path, env.Now, nil), nil, preview.WithLogger(s.logger))
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	ln, err := env.Listen("tcp", addr)
	if err != nil {
		return &listenError{addr: addr, err: err}
	}

	handler := preview.NewHandler(session,
		preview.WithRefresh(refresh),
		preview.WithHandlerLogger(s.logger),
	)

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Serving %s at http://%s (Ctrl+C to stop)\n", path, ln.Addr())
	}
	s.logger.Info("preview server started", "addr", ln.Addr().String(), "refresh", refresh)
	return preview.Serve(ctx, ln, handler)
}

// resolveServeOptions merges --addr and --refresh over the config.
func resolveServeOptions(flags *serveFlags, cfg *config.Config) (string, int, error) {
	addr := cfg.Serve.Addr
	if flags.addr != "" {
		addr = flags.addr
	}
	if addr == "" {
		addr = defaultAddr
	}

	refresh := cfg.Serve.Refresh
	if flags.refresh != refreshUnset {
		if flags.refresh < 0 || flags.refresh > config.MaxRefreshSeconds {
			return "", 0, fmt.Errorf("%w: --refresh must be between 0 and %d, got %d",
				ErrUsage, config.MaxRefreshSeconds, flags.refresh)
		}
		refresh = flags.refresh
	}
	return addr, refresh, nil
}

// listenError keeps the address for the hint.
type listenError struct {
	addr string
	err  error
}

func (e *listenError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrListen, e.addr, e.err)
}

func (e *listenError) Unwrap() []error {
	return []error{ErrListen, e.err}
}
