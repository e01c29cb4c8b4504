package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	bbcode "github.com/alnah/go-bbcode"
	"github.com/alnah/go-bbcode/internal/config"
	"github.com/alnah/go-bbcode/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .bbcode or .bb extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// discoverFiles lists the sources under inputPath with their output
// paths, which carry ext. A directory is walked recursively in lexical
// order, skipping hidden directories such as .git.
func discoverFiles(inputPath, outputDir, ext string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !fileutil.IsSourceFile(inputPath) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		return []FileToConvert{{InputPath: inputPath, OutputPath: resolveOutputPath(inputPath, outputDir, "", ext)}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return fmt.Errorf("scanning %s: %w", path, err)
		case d.IsDir() && path != inputPath && strings.HasPrefix(d.Name(), "."):
			return filepath.SkipDir
		case d.IsDir() || !fileutil.IsSourceFile(path):
			return nil
		}
		files = append(files, FileToConvert{InputPath: path, OutputPath: resolveOutputPath(path, outputDir, inputPath, ext)})
		return nil
	})
	return files, err
}

// resolveOutputPath places the output for inputPath. Without outputDir it
// sits next to the source. An outputDir ending in ext names the file
// itself. Otherwise the tree below baseInputDir is mirrored in outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) string {
	target := fileutil.ReplaceExtension(inputPath, ext)
	switch {
	case outputDir == "":
		return target
	case strings.HasSuffix(strings.ToLower(outputDir), ext):
		return outputDir
	}

	rel := filepath.Base(target)
	if baseInputDir != "" {
		if r, err := filepath.Rel(baseInputDir, target); err == nil {
			rel = r
		}
	}
	return filepath.Join(outputDir, rel)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > bbcode.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, bbcode.MaxPoolSize)
	}
	return nil
}
