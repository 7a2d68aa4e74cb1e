package parse

import (
	"errors"
	"fmt"

	"github.com/rmfonseca/glicolog/internal/model"
)

// FileError is a terminal per-file failure. Value-level problems never
// surface here; only structure, data, and format failures end a file.
type FileError struct {
	File     string
	Category model.FailureCategory
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.File, e.Category, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// AsFileError unwraps a FileError from an error chain.
func AsFileError(err error) (*FileError, bool) {
	var fe *FileError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func failf(file string, cat model.FailureCategory, format string, args ...any) *FileError {
	return &FileError{File: file, Category: cat, Err: fmt.Errorf(format, args...)}
}
