package cubemx

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the database root, a part or one of its
	// documents does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDecompression is returned when a document is not a valid gzip stream.
	ErrDecompression = errors.New("decompression error")

	// ErrMalformed is returned when a document is not valid XML or lacks a
	// required element or attribute.
	ErrMalformed = errors.New("malformed database")
)

func malformedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
