package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Output permissions. Documents are shared artifacts, so they are
// world-readable.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

var (
	ErrNoInput        = errors.New("no input specified")
	ErrReadCSS        = errors.New("failed to read CSS file")
	ErrReadSource     = errors.New("failed to read BBCode file")
	ErrWriteOutput    = errors.New("failed to write output file")
	ErrConverterInit  = errors.New("failed to initialize converter")
	ErrCreateDir      = errors.New("failed to create output directory")
	ErrNoSourcesFound = errors.New("no BBCode files found")
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// convertBatch converts files on min(pool size, file count) workers. Each
// worker holds one pooled converter for its whole run. Results keep the
// order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, s *settings) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	jobs := make(chan int, len(files))
	for i := range files {
		jobs <- i
	}
	close(jobs)

	b := &batch{ctx: ctx, pool: pool, files: files, s: s, results: make([]ConversionResult, len(files))}
	var wg sync.WaitGroup
	for range min(pool.Size(), len(files)) {
		wg.Go(func() { b.work(jobs) })
	}
	wg.Wait()
	return b.results
}

// batch is the state shared by the workers of one convertBatch call. Each
// index of results is written by exactly one worker.
type batch struct {
	ctx     context.Context
	pool    Pool
	files   []FileToConvert
	s       *settings
	results []ConversionResult
}

// work drains jobs. A worker without a converter fails what it takes, so
// the other workers keep going.
func (b *batch) work(jobs <-chan int) {
	conv, err := b.pool.Acquire()
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrConverterInit, err)
	} else {
		defer b.pool.Release(conv)
	}

	for idx := range jobs {
		f := b.files[idx]
		switch {
		case err != nil:
			b.results[idx] = ConversionResult{InputPath: f.InputPath, Err: err}
		case b.ctx.Err() != nil:
			b.results[idx] = ConversionResult{InputPath: f.InputPath, Err: b.ctx.Err()}
		default:
			b.results[idx] = convertFile(b.ctx, conv, f, b.s)
		}
	}
}

// convertFile converts one source and times it.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, s *settings) ConversionResult {
	start := time.Now()
	err := renderToFile(ctx, conv, f, s)
	r := ConversionResult{InputPath: f.InputPath, OutputPath: f.OutputPath, Err: err, Duration: time.Since(start)}
	if err != nil {
		s.logger.Debug("conversion failed", "input", f.InputPath, "error", err)
	} else {
		s.logger.Debug("converted", "input", f.InputPath, "output", f.OutputPath, "duration", r.Duration)
	}
	return r
}

// renderToFile reads the source, converts it and writes the artifact the
// configured format asks for.
func renderToFile(ctx context.Context, conv CLIConverter, f FileToConvert, s *settings) error {
	src, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadSource, err)
	}
	res, err := conv.Convert(ctx, s.input(f.InputPath, string(src)))
	if err != nil {
		return err
	}
	return writeOutput(f.OutputPath, outputBytes(res, s.format()))
}

// writeOutput creates the parent directory and writes data to path.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrCreateDir, err)
	}
	// #nosec G306 -- documents are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// ResultSummary counts the outcomes of a batch.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

func countResults(results []ConversionResult) ResultSummary {
	var sum ResultSummary
	for _, r := range results {
		if r.Err != nil {
			sum.Failed++
			continue
		}
		sum.Succeeded++
	}
	return sum
}

// printResults reports failures on stderr and, unless quiet, created
// files on stdout. It returns the number of failures.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
		case quiet:
		case verbose:
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	sum := countResults(results)
	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", sum.Succeeded, sum.Failed)
	}
	return sum.Failed
}
