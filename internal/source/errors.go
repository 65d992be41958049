package source

import (
	"errors"
	"fmt"
)

// ErrEmptyWorkbook indicates the source workbook has no rows.
var ErrEmptyWorkbook = errors.New("workbook has no rows")

// ErrMissingHeader indicates the sheet ends before its header row.
var ErrMissingHeader = errors.New("header row not found")

// ErrMissingColumns indicates required columns could not be located.
var ErrMissingColumns = errors.New("required columns not found")

// ParseError describes a failure to read a source workbook.
type ParseError struct {
	Path   string
	Layout Layout
	Err    error
}

func (e *ParseError) Error() string {
	if e.Layout != "" {
		return fmt.Sprintf("parsing %s as %s: %v", e.Path, e.Layout, e.Err)
	}
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
