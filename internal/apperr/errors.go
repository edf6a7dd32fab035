// Package apperr holds the error values shared across powerwords packages.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidImage      = errors.New("invalid image")
	ErrFinalized         = errors.New("document already finalized")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrUnsupported       = errors.New("not supported by this session format")
)

// ArgumentError marks a bad command-line argument. It aborts startup
// before any session file is touched.
type ArgumentError struct {
	Arg string
	Err error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %v", e.Arg, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// Argument wraps err as an ArgumentError for arg.
func Argument(arg string, err error) error {
	return &ArgumentError{Arg: arg, Err: err}
}

// IsArgument reports whether err carries an ArgumentError.
func IsArgument(err error) bool {
	var ae *ArgumentError
	return errors.As(err, &ae)
}
