// Package yamlutil decodes config files and theme presets strictly and
// encodes the effective configuration for display.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxDocumentSize caps the YAML documents accepted by Decode.
const MaxDocumentSize = 1 << 20

var (
	ErrEmpty    = errors.New("empty document")
	ErrTooLarge = errors.New("document too large")
	ErrNoTarget = errors.New("nil decode target")
)

// Error reports a document that could not be decoded. Source names the
// document, such as a config path or "theme".
type Error struct {
	Source string
	Err    error
}

func (e *Error) Error() string {
	if e.Source == "" {
		return "yaml: " + e.Err.Error()
	}
	return e.Source + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Decode parses data into v. Unknown keys are errors, and keys the
// document leaves out keep the values already in v.
func Decode(source string, data []byte, v any) error {
	var err error
	switch {
	case v == nil:
		err = ErrNoTarget
	case len(data) == 0:
		err = ErrEmpty
	case len(data) > MaxDocumentSize:
		err = fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), MaxDocumentSize)
	default:
		err = yaml.UnmarshalWithOptions(data, v, yaml.Strict())
	}
	if err != nil {
		return &Error{Source: source, Err: err}
	}
	return nil
}

// Encode renders v with two-space indentation.
func Encode(v any) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(v, yaml.Indent(2))
	if err != nil {
		return nil, &Error{Err: err}
	}
	return out, nil
}
