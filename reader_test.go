package basil

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestReadInput(t *testing.T) {
	t.Parallel()

	large := strings.Repeat("abcdefgh,", 3*defaultBufferSize)

	tests := []struct {
		name  string
		src   func(string) io.Reader
		input string
	}{
		{
			name:  "small",
			src:   func(s string) io.Reader { return strings.NewReader(s) },
			input: "a,b\r\n",
		},
		{
			name:  "exactlyOneBuffer",
			src:   func(s string) io.Reader { return strings.NewReader(s) },
			input: strings.Repeat("x", defaultBufferSize),
		},
		{
			name:  "growsSeveralTimes",
			src:   func(s string) io.Reader { return strings.NewReader(s) },
			input: large,
		},
		{
			name:  "oneByteReads",
			src:   func(s string) io.Reader { return iotest.OneByteReader(strings.NewReader(s)) },
			input: large,
		},
		{
			name:  "dataWithEOF",
			src:   func(s string) io.Reader { return iotest.DataErrReader(strings.NewReader(s)) },
			input: "name,surname\r\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf, err := readInput(tc.src(tc.input), 0)
			if err != nil {
				t.Fatalf("readInput() error = %v", err)
			}
			if len(buf) != len(tc.input)+1 {
				t.Fatalf("readInput() length = %d, want %d", len(buf), len(tc.input)+1)
			}
			if cap(buf) != len(buf) {
				t.Fatalf("readInput() capacity = %d, want exact size %d", cap(buf), len(buf))
			}
			if buf[len(buf)-1] != 0 {
				t.Fatalf("readInput() last byte = %q, want NUL terminator", buf[len(buf)-1])
			}
			if got := string(buf[:len(buf)-1]); got != tc.input {
				t.Fatalf("readInput() content mismatch")
			}
		})
	}
}

func TestReadInputErrors(t *testing.T) {
	t.Parallel()

	streamErr := errors.New("disk on fire")

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		if _, err := readInput(strings.NewReader(""), 0); !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("readInput() error = %v, want ErrEmptyInput", err)
		}
	})

	t.Run("streamError", func(t *testing.T) {
		t.Parallel()

		src := io.MultiReader(strings.NewReader("abc"), iotest.ErrReader(streamErr))
		_, err := readInput(src, 0)

		var rerr *ReadError
		if !errors.As(err, &rerr) {
			t.Fatalf("readInput() error %T, want *ReadError", err)
		}
		if !errors.Is(err, streamErr) {
			t.Fatalf("readInput() error = %v, want wrapped %v", err, streamErr)
		}
		if rerr.Offset != 3 {
			t.Fatalf("ReadError.Offset = %d, want 3", rerr.Offset)
		}
	})

	t.Run("overLimit", func(t *testing.T) {
		t.Parallel()

		if _, err := readInput(strings.NewReader("abcdef"), 5); !errors.Is(err, ErrInputTooLarge) {
			t.Fatalf("readInput() error = %v, want ErrInputTooLarge", err)
		}
	})

	t.Run("exactlyAtLimit", func(t *testing.T) {
		t.Parallel()

		buf, err := readInput(strings.NewReader("abcde"), 5)
		if err != nil {
			t.Fatalf("readInput() error = %v, want nil", err)
		}
		if !bytes.Equal(buf, []byte("abcde\x00")) {
			t.Fatalf("readInput() = %q", buf)
		}
	})

	t.Run("limitAfterGrowth", func(t *testing.T) {
		t.Parallel()

		input := strings.Repeat("z", defaultBufferSize*2+1)
		if _, err := readInput(strings.NewReader(input), defaultBufferSize*2); !errors.Is(err, ErrInputTooLarge) {
			t.Fatalf("readInput() error = %v, want ErrInputTooLarge", err)
		}
	})
}

func TestGrowBuffer(t *testing.T) {
	t.Parallel()

	buf := []byte("abcd")
	grown := growBuffer(buf, 100)
	if len(grown) != 8 || string(grown[:4]) != "abcd" {
		t.Fatalf("growBuffer() = %q (len %d), want doubled copy", grown, len(grown))
	}

	capped := growBuffer(buf, 6)
	if len(capped) != 6 {
		t.Fatalf("growBuffer() capped length = %d, want 6", len(capped))
	}
}
