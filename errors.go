package basil

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the input stream yields no bytes at all.
	ErrEmptyInput = errors.New("basil: no input read")
	// ErrInputTooLarge is returned when the input cannot be buffered within the size limit.
	ErrInputTooLarge = errors.New("basil: input exceeds maximum buffer size")

	// ErrBareQuote is returned when a quote appears inside a non-quoted field.
	ErrBareQuote = errors.New("basil: bare quote in non-quoted field")
	// ErrUnterminatedQuote is returned when a quoted field is not closed before the end of input.
	ErrUnterminatedQuote = errors.New("basil: unterminated quoted field")
	// ErrInvalidCharacter is returned for bytes outside the accepted character set.
	ErrInvalidCharacter = errors.New("basil: invalid character")
	// ErrLineEnding is returned when a record is terminated by anything other than CRLF.
	ErrLineEnding = errors.New("basil: record not terminated by CRLF")
	// ErrTrailingQuoteData is returned when a closing quote is followed by more field data.
	ErrTrailingQuoteData = errors.New("basil: extraneous data after quoted field")

	// ErrorFieldCount is returned when a record contains an unexpected number of fields.
	ErrorFieldCount = errors.New("basil: wrong number of fields")
)

// ParseError reports where the input stops conforming to the CSV grammar.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

// Error formats the parse error message with the stored line, column, and Err values.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("basil: parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Unwrap.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FieldCountError reports a record whose width differs from the first record's.
// Record is 1-based and counts the header when one is present.
type FieldCountError struct {
	Record int
	Got    int
	Want   int
}

// Error formats the record number with the actual and expected field counts.
func (e *FieldCountError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("basil: record %d has %d fields, want %d", e.Record, e.Got, e.Want)
}

// Unwrap returns ErrorFieldCount.
func (e *FieldCountError) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrorFieldCount
}

// ReadError wraps a failure of the underlying input stream.
type ReadError struct {
	Offset int
	Err    error
}

// Error formats the byte offset reached and the stream error.
func (e *ReadError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("basil: read error after %d bytes: %v", e.Offset, e.Err)
}

// Unwrap returns the stream error.
func (e *ReadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Failure classifies why a load did not produce a Table.
type Failure int

const (
	// FailureNone means the error is nil.
	FailureNone Failure = iota
	// FailureIO covers stream read errors and empty input.
	FailureIO
	// FailureAllocation covers inputs that cannot be buffered.
	FailureAllocation
	// FailureFormat means the input does not conform to the CSV grammar.
	FailureFormat
	// FailureStructure means a grammatical input whose records disagree on width.
	FailureStructure
	// FailureUnknown is any error not produced by this package.
	FailureUnknown
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureIO:
		return "io"
	case FailureAllocation:
		return "allocation"
	case FailureFormat:
		return "format"
	case FailureStructure:
		return "structure"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by Load onto its Failure kind.
func Classify(err error) Failure {
	if err == nil {
		return FailureNone
	}

	var (
		perr *ParseError
		ferr *FieldCountError
		rerr *ReadError
	)
	switch {
	case errors.As(err, &perr):
		return FailureFormat
	case errors.As(err, &ferr), errors.Is(err, ErrorFieldCount):
		return FailureStructure
	case errors.As(err, &rerr), errors.Is(err, ErrEmptyInput):
		return FailureIO
	case errors.Is(err, ErrInputTooLarge):
		return FailureAllocation
	default:
		return FailureUnknown
	}
}
