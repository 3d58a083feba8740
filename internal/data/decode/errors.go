package decode

import (
	"errors"
	"fmt"
)

// ErrUnknownEncoding is returned for files whose extension maps to no
// supported encoding.
var ErrUnknownEncoding = errors.New("unknown data file encoding")

// ParseError reports a syntactically malformed data file. It isolates to the
// offending file: sibling files and sources keep decoding.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports a well-formed file whose records are missing required
// fields or carry fields of the wrong shape. Like ParseError it isolates to
// the offending file.
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: %s", e.Path, e.Message)
}
