package main

import (
	"errors"
	"os"

	bbcode "github.com/alnah/go-bbcode"
	"github.com/alnah/go-bbcode/internal/config"
	"github.com/alnah/go-bbcode/internal/logging"
	"github.com/alnah/go-bbcode/internal/preview"
)

// Exit codes for the bbcode CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, bbcode.ErrBrowserConnect) ||
		errors.Is(err, bbcode.ErrPageCreate) ||
		errors.Is(err, bbcode.ErrPageLoad) ||
		errors.Is(err, bbcode.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrCreateDir) ||
		errors.Is(err, ErrNoSourcesFound) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrListen) ||
		errors.Is(err, preview.ErrSourceRead) ||
		errors.Is(err, preview.ErrWatch) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logging.ErrUnknownLevel) ||
		errors.Is(err, bbcode.ErrUnsafeOutput) ||
		errors.Is(err, bbcode.ErrInvalidTheme) ||
		errors.Is(err, bbcode.ErrStyleNotFound) ||
		errors.Is(err, bbcode.ErrThemeNotFound) ||
		errors.Is(err, bbcode.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
