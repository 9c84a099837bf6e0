package basil

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var (
	errNilWriter      = errors.New("basil: writer is nil")
	errWriterNoTarget = errors.New("basil: writer destination cannot be nil")
)

// Writer serializes records with a configurable delimiter. NewWriter ends records in
// CRLF and quotes fields that contain the delimiter, a quote or a line break.
//
// Each record is assembled in a reusable line buffer and handed to the underlying
// buffered writer in one call. The first write error sticks: later calls return it.
type Writer struct {
	dst *bufio.Writer

	// Comma is the field delimiter. Zero means ','.
	Comma byte
	// Quote is the quote character. Zero means '"'.
	Quote byte
	// UseCRLF ends records with \r\n instead of \n.
	UseCRLF bool
	// AlwaysQuote quotes every field.
	AlwaysQuote bool
	// Verbatim writes fields exactly as stored with no quoting or escaping, even when
	// the output can no longer be split back into the same fields. It overrides
	// AlwaysQuote.
	Verbatim bool

	line []byte
	err  error
}

// NewWriter returns a Writer on w that emits CRLF-terminated, minimally quoted records.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		panic(errWriterNoTarget.Error())
	}
	return &Writer{
		dst:     bufio.NewWriterSize(w, defaultBufferSize),
		Comma:   ',',
		Quote:   '"',
		UseCRLF: true,
	}
}

// Reset points the writer at dst, keeping its settings and clearing any stored error.
// Unflushed output for the previous destination is discarded.
func (w *Writer) Reset(dst io.Writer) {
	if w == nil {
		panic(errNilWriter.Error())
	}
	if dst == nil {
		panic(errWriterNoTarget.Error())
	}
	if w.dst == nil {
		w.dst = bufio.NewWriterSize(dst, defaultBufferSize)
	} else {
		w.dst.Reset(dst)
	}
	w.err = nil
}

// Write emits one record followed by the line terminator.
func (w *Writer) Write(record []string) error {
	if err := w.ready(); err != nil {
		return err
	}

	comma, quote := w.Comma, w.Quote
	if comma == 0 {
		comma = ','
	}
	if quote == 0 {
		quote = '"'
	}

	line := w.line[:0]
	for i, field := range record {
		if i > 0 {
			line = append(line, comma)
		}
		line = w.appendField(line, field, comma, quote)
	}
	if w.UseCRLF {
		line = append(line, '\r')
	}
	line = append(line, '\n')
	w.line = line

	if _, err := w.dst.Write(line); err != nil {
		w.err = err
		return err
	}
	return nil
}

// WriteAll writes every record and flushes.
func (w *Writer) WriteAll(records [][]string) error {
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes buffered records to the destination.
func (w *Writer) Flush() error {
	if err := w.ready(); err != nil {
		return err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Error returns the first error the writer encountered.
func (w *Writer) Error() error {
	if w == nil {
		return errNilWriter
	}
	return w.err
}

func (w *Writer) ready() error {
	switch {
	case w == nil:
		return errNilWriter
	case w.dst == nil:
		return errWriterNoTarget
	default:
		return w.err
	}
}

func (w *Writer) appendField(dst []byte, field string, comma, quote byte) []byte {
	if w.Verbatim || (!w.AlwaysQuote && !fieldNeedsQuote(field, comma, quote)) {
		return append(dst, field...)
	}

	dst = append(dst, quote)
	for {
		i := strings.IndexByte(field, quote)
		if i < 0 {
			break
		}
		dst = append(dst, field[:i+1]...)
		dst = append(dst, quote)
		field = field[i+1:]
	}
	dst = append(dst, field...)
	return append(dst, quote)
}

func fieldNeedsQuote(field string, comma, quote byte) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case comma, quote, '\r', '\n':
			return true
		}
	}
	return false
}
