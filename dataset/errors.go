package dataset

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is wrapped when a non-empty table lacks a column an
// operation needs.
var ErrMissingColumn = errors.New("missing column")

// NotFoundError indicates an expected dataset file or directory is absent.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dataset not found: %s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// DecodeError indicates a malformed CSV or spreadsheet source.
type DecodeError struct {
	Source string
	Row    int // 1-based source line or sheet row; 0 when unknown
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("decode %s: row %d: %v", e.Source, e.Row, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// QueryError indicates malformed SQL or an unavailable warehouse.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// ExternalServiceError indicates a failed call to a hosted language model.
type ExternalServiceError struct {
	Provider string
	Err      error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// MissingColumn builds an error wrapping ErrMissingColumn.
func MissingColumn(table, column string) error {
	return fmt.Errorf("%s table: %w %q", table, ErrMissingColumn, column)
}
