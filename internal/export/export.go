// Package export writes a loaded table in one of the dump formats.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/AdamBromiley/basil"
)

// Format names an output encoding.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case CSV, JSON, YAML:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want csv, json or yaml)", s)
	}
}

// Part selects which rows are written.
type Part int

const (
	All Part = iota
	HeaderOnly
	RecordsOnly
)

// Options controls a dump.
type Options struct {
	Format Format
	Part   Part
	// Delimiter separates CSV fields. Zero means comma.
	Delimiter byte
	// Escape re-quotes CSV fields that contain the delimiter, quotes or line breaks.
	// Without it fields are written exactly as stored.
	Escape bool
}

// Document is the structured form of a table used by the JSON and YAML encoders.
type Document struct {
	Header  []string   `json:"header,omitempty" yaml:"header,omitempty"`
	Records [][]string `json:"records" yaml:"records"`
}

// NewDocument copies the selected rows of t.
func NewDocument(t *basil.Table, part Part) Document {
	var doc Document
	if part != RecordsOnly {
		doc.Header, _ = t.Header()
	}
	doc.Records = [][]string{}
	if part != HeaderOnly {
		for _, rec := range t.All() {
			doc.Records = append(doc.Records, rec)
		}
	}
	return doc
}

// Write encodes t to w.
func Write(w io.Writer, t *basil.Table, opts Options) error {
	switch opts.Format {
	case CSV, "":
		return writeCSV(w, t, opts)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(t, opts.Part))
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(t, opts.Part)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}
}

func writeCSV(w io.Writer, t *basil.Table, opts Options) error {
	cw := basil.NewWriter(w)
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}
	cw.Verbatim = !opts.Escape

	switch opts.Part {
	case HeaderOnly:
		return t.WriteHeader(cw)
	case RecordsOnly:
		return t.WriteRecords(cw)
	default:
		return t.WriteAll(cw)
	}
}
