package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-bbcode/internal/config"
	"github.com/alnah/go-bbcode/internal/fileutil"
	"github.com/alnah/go-bbcode/internal/preview"
)

// runWatch converts one file, then converts it again after every change
// until ctx is cancelled.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseWatchFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) == 0 {
		return ErrNoInput
	}
	path := positional[0]
	if !fileutil.IsSourceFile(path) {
		printNotSource(env, path, "watch")
		return nil
	}

	s, err := loadSettings(flags.common, flags.render, env)
	if err != nil {
		return err
	}
	if flags.fragment {
		s.cfg.Output.Format = config.FormatFragment
	}
	out := resolveOutputPath(path, resolveOutputDir(flags.output, s.cfg), "", outputExtension(s.format()))

	conv, release, err := acquireSingle(env, s)
	if err != nil {
		return err
	}
	defer release()

	sink := func(_ *preview.Snapshot, err error) {
		if err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", path, err)
			return
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Updated %s\n", out)
		}
	}

	render := newRenderFunc(conv, s, path, env.Now, func(data []byte) error {
		return writeOutput(out, data)
	})

	session, err := preview.Open(ctx, path, render, sink, preview.WithLogger(s.logger))
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %s (Ctrl+C to stop)\n", path)
	}
	<-ctx.Done()
	return nil
}

// acquireSingle builds a one-converter pool for long-running commands.
// release returns the converter and closes the pool.
func acquireSingle(env *Environment, s *settings) (CLIConverter, func(), error) {
	pool, err := env.NewPool(1, s.converterOptions()...)
	if err != nil {
		return nil, nil, err
	}
	conv, err := pool.Acquire()
	if err != nil {
		_ = pool.Close()
		return nil, nil, fmt.Errorf("%w: %v", ErrConverterInit, err)
	}
	release := func() {
		pool.Release(conv)
		if err := pool.Close(); err != nil {
			s.logger.Warn("closing converter", "error", err)
		}
	}
	return conv, release, nil
}

// newRenderFunc adapts a converter to the preview session. When write is
// non-nil it receives the output bytes of every rendering.
func newRenderFunc(conv CLIConverter, s *settings, path string, now func() time.Time, write func([]byte) error) preview.RenderFunc {
	return func(ctx context.Context, source string) (*preview.Snapshot, error) {
		result, err := conv.Convert(ctx, s.input(path, source))
		if err != nil {
			return nil, err
		}
		if write != nil {
			if err := write(outputBytes(result, s.format())); err != nil {
				return nil, err
			}
		}
		return &preview.Snapshot{
			Fragment:   result.Fragment,
			HTML:       string(result.HTML),
			RenderedAt: now(),
		}, nil
	}
}

// printNotSource tells the user that path is outside the tool's scope.
// This is informational, not an error.
func printNotSource(env *Environment, path, command string) {
	fmt.Fprintf(env.Stdout, "%s is not a BBCode file (.bbcode, .bb); nothing to %s\n", path, command)
}
