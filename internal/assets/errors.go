package assets

import "errors"

var (
	ErrStyleNotFound = errors.New("style not found")
	ErrThemeNotFound = errors.New("theme not found")

	// ErrInvalidAssetName is returned for names that are not a single
	// plain path element.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath is returned when the custom asset directory
	// cannot be listed.
	ErrInvalidBasePath = errors.New("invalid base path")

	ErrAssetRead     = errors.New("failed to read asset")
	ErrPathTraversal = errors.New("path traversal detected")
)
