package assets

import (
	"fmt"
	"regexp"
)

// assetNamePattern admits plain names such as "forum" or "dark_v2". A name
// can hold no separator or dot, so it cannot leave its directory or pick
// another extension.
var assetNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidateAssetName reports ErrInvalidAssetName for names outside
// assetNamePattern.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case !assetNamePattern.MatchString(name):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
