package protocol

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Envelope and file layer.
	ErrIO     = "E_IO"
	ErrFormat = "E_FORMAT"

	// Document layer.
	ErrSchema  = "E_SCHEMA"
	ErrData    = "E_DATA"
	ErrInvalid = "E_INVALID"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrIO:       {},
	ErrFormat:   {},
	ErrSchema:   {},
	ErrData:     {},
	ErrInvalid:  {},
	ErrInternal: {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// IOError is a file read/write failure. The underlying error is kept as-is.
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

// FormatError reports a malformed envelope. Stage names the step that failed:
// "marker", "base64", "zlib", "utf8" or "json".
type FormatError struct {
	Stage string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format: %s: %v", e.Stage, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// SchemaError reports well-formed JSON that does not match the typed schema.
// Path is a JSON pointer to the offending value when known.
type SchemaError struct {
	Path string
	Msg  string
	Err  error
}

func (e *SchemaError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path == "" {
		return "schema: " + msg
	}
	return fmt.Sprintf("schema: %s: %s", e.Path, msg)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// DataError reports JSON that is neither a blueprint nor a blueprint book.
type DataError struct {
	Msg string
}

func (e *DataError) Error() string { return "data: " + e.Msg }

// Problem is one finding of a validation pass.
type Problem struct {
	Path string
	Msg  string
}

func (p Problem) String() string {
	if p.Path == "" {
		return p.Msg
	}
	return p.Path + ": " + p.Msg
}

// ValidationError collects the problems found by a validation pass over a
// structurally valid document.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	switch len(e.Problems) {
	case 0:
		return "invalid document"
	case 1:
		return "invalid document: " + e.Problems[0].String()
	}
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.String())
	}
	return fmt.Sprintf("invalid document (%d problems): %s", len(e.Problems), strings.Join(parts, "; "))
}

// Code maps err onto one of the E_* codes.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var (
		ioErr     *IOError
		formatErr *FormatError
		schemaErr *SchemaError
		dataErr   *DataError
		validErr  *ValidationError
	)
	switch {
	case errors.As(err, &ioErr):
		return ErrIO
	case errors.As(err, &formatErr):
		return ErrFormat
	case errors.As(err, &schemaErr):
		return ErrSchema
	case errors.As(err, &dataErr):
		return ErrData
	case errors.As(err, &validErr):
		return ErrInvalid
	}
	return ErrInternal
}
