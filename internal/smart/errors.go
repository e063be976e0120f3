package smart

import (
	"errors"
	"fmt"
)

// ErrEmptyStatusLine is returned when no health status line follows the data section header
var ErrEmptyStatusLine = errors.New("empty health status line")

// ParseError reports a health report that could not be interpreted
type ParseError struct {
	Reason error
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("parse health status: %v", e.Reason)
	}
	return fmt.Sprintf("parse health status: %v (%s)", e.Reason, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Reason
}

var (
	// ErrTruncatedAttributeLine is returned for a known attribute line without a RAW_VALUE column
	ErrTruncatedAttributeLine = errors.New("truncated attribute line")
	// ErrInvalidRawValue is returned when RAW_VALUE does not start with an integer
	ErrInvalidRawValue = errors.New("invalid raw value")
)

// FormatError reports an attribute line that does not match the expected column layout
type FormatError struct {
	Reason error
	LineNo int
	Line   string
	Fields int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("attribute line %d: %v (%d fields): %q", e.LineNo, e.Reason, e.Fields, e.Line)
}

func (e *FormatError) Unwrap() error {
	return e.Reason
}
