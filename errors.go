package bbcode

import "errors"

// Sentinel errors for library operations.
var (
	ErrUnsafeOutput   = errors.New("converter output failed the safety audit")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPoolClosed     = errors.New("converter pool closed")

	// Theme validation errors.
	ErrInvalidTheme = errors.New("invalid theme")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrThemeNotFound    = errors.New("theme not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
