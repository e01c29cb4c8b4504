package main

import (
	"context"
	"fmt"

	bbcode "github.com/alnah/go-bbcode"
	"github.com/alnah/go-bbcode/internal/config"
)

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}

	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	s, err := loadSettings(flags.common, flags.render, env)
	if err != nil {
		return err
	}
	mergeConvertFlags(flags, s.cfg)

	inputPath, err := resolveInputPath(positional, s.cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, s.cfg)

	files, err := discoverFiles(inputPath, outputDir, outputExtension(s.format()))
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoSourcesFound, inputPath)
	}

	workers := flags.workers
	if workers == 0 {
		workers = s.workers
	}
	poolSize := min(bbcode.ResolvePoolSize(workers), len(files))
	s.logger.Debug("starting conversion", "files", len(files), "workers", poolSize, "format", s.format())

	pool, err := env.NewPool(poolSize, s.converterOptions()...)
	if err != nil {
		return err
	}
	defer func() {
		if err := pool.Close(); err != nil {
			s.logger.Warn("closing converters", "error", err)
		}
	}()

	results := convertBatch(ctx, pool, files, s)

	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", failed, firstError(results))
	}
	return nil
}

// mergeConvertFlags applies the output format flags. --pdf wins over
// --fragment.
func mergeConvertFlags(flags *convertFlags, cfg *config.Config) {
	switch {
	case flags.pdf:
		cfg.Output.Format = config.FormatPDF
	case flags.fragment:
		cfg.Output.Format = config.FormatFragment
	}
}

// firstError returns the first failure in results, in input order.
func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
