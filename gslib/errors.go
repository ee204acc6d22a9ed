package gslib

import "errors"

// Error types for the gslib package.
var (
	// ErrFormat is returned for malformed headers or short data records.
	ErrFormat = errors.New("malformed GSLIB file")

	// ErrGridMismatch is returned when the record count does not cover the
	// target grid.
	ErrGridMismatch = errors.New("record count does not match grid")

	// ErrNoSuchProperty is returned when a property name or index is not
	// present in the file.
	ErrNoSuchProperty = errors.New("no such property")
)
