// Package apperr defines the error kinds shared by the store and the CLI layer.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNoteExists         = errors.New("zettel already exists")
	ErrNoteNotFound       = errors.New("zettel doesn't exist")
	ErrSerialization      = errors.New("serialization error")
	ErrAlreadyInitialized = errors.New("kasten already initialized")
	ErrNothingSelected    = errors.New("nothing selected")
	ErrNotEmpty           = errors.New("directory is not empty")
)

// IOError wraps a failed filesystem operation together with the path it touched.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IO wraps err as an *IOError. A nil err yields nil.
func IO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

// Serialization marks err as an encoding or decoding failure. The result
// matches both ErrSerialization and err under errors.Is.
func Serialization(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrSerialization, err)
}
