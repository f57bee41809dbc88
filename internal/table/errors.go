package table

import "errors"

var (
	// ErrInputNotFound is returned when a referenced file or sheet is absent.
	ErrInputNotFound = errors.New("input not found")

	// ErrSchemaMismatch is returned when an expected column is missing from a table.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrUnsupportedFormat is returned when a file extension is not supported.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
