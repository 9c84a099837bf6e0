// Package input opens the CSV source named on the command line and transparently
// decompresses it.
package input

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the encoding of an input stream.
type Compression string

// Supported compressions.
const (
	None   Compression = "none"
	Gzip   Compression = "gzip"
	Zstd   Compression = "zstd"
	LZ4    Compression = "lz4"
	Snappy Compression = "snappy"
)

var magic = []struct {
	kind   Compression
	prefix []byte
}{
	{Gzip, []byte{0x1f, 0x8b}},
	{Zstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{LZ4, []byte{0x04, 0x22, 0x4d, 0x18}},
	// Framed snappy and S2 streams share the stream identifier chunk header.
	{Snappy, []byte{0xff, 0x06, 0x00, 0x00}},
}

// Stream is an opened, possibly decompressing, input.
type Stream struct {
	io.Reader
	// Name is the path, or "-" for standard input.
	Name        string
	Compression Compression

	closers []func() error
}

// Close releases the decoder and the underlying file. Standard input is left open.
func (s *Stream) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

// Open opens path for reading. "" and "-" read stdin instead, which is never closed.
func Open(path string, stdin io.Reader) (*Stream, error) {
	if path == "" || path == "-" {
		s, err := NewStream(stdin)
		if err != nil {
			return nil, err
		}
		s.Name = "-"
		return s, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s, err := NewStream(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Name = path
	s.closers = append([]func() error{f.Close}, s.closers...)
	return s, nil
}

// NewStream sniffs the first bytes of r and wraps it in the matching decoder.
// Uncompressed input is passed through unchanged.
func NewStream(r io.Reader) (*Stream, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, err
	}

	kind := Detect(head)
	s := &Stream{Compression: kind}

	switch kind {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		s.Reader = zr
		s.closers = append(s.closers, zr.Close)
	case Zstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		s.Reader = dec
		s.closers = append(s.closers, func() error {
			dec.Close()
			return nil
		})
	case LZ4:
		s.Reader = lz4.NewReader(br)
	case Snappy:
		s.Reader = s2.NewReader(br)
	default:
		s.Reader = br
	}
	return s, nil
}

// Detect reports the compression whose magic number prefixes head.
func Detect(head []byte) Compression {
	for _, m := range magic {
		if bytes.HasPrefix(head, m.prefix) {
			return m.kind
		}
	}
	return None
}
