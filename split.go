package basil

// The passes below run in order over a buffer that validate has accepted. Every pass
// tracks quote escaping the same way, through scanQuote.

// scanQuote interprets the quote at buf[i] and updates *escaped. It returns the number of
// bytes the quote sequence spans and whether it stands for a literal quote character
// (a doubled quote inside an escaped field).
func scanQuote(buf []byte, i int, escaped *bool) (width int, literal bool) {
	if *escaped && i+1 < len(buf) && buf[i+1] == '"' {
		return 2, true
	}
	*escaped = !*escaped
	return 1, false
}

// isCRLF reports whether an unescaped line terminator starts at buf[i].
func isCRLF(buf []byte, i int) bool {
	return buf[i] == '\r' && i+1 < len(buf) && buf[i+1] == '\n'
}

// countFields returns the width of the first record and the number of records in the
// document, header included. A record ends at each unescaped CRLF; a final line without
// CRLF is a record too, while an empty remainder after a trailing CRLF is not.
func countFields(buf []byte) (fields, records int, err error) {
	end := len(buf) - 1
	escaped := false
	width := 1
	lineStart := true

	closeRecord := func() error {
		records++
		if records == 1 {
			fields = width
		} else if width != fields {
			return &FieldCountError{Record: records, Got: width, Want: fields}
		}
		width = 1
		return nil
	}

	for i := 0; i < end; {
		c := buf[i]
		lineStart = false

		switch {
		case c == '"':
			w, _ := scanQuote(buf, i, &escaped)
			i += w
			continue
		case escaped:
		case c == ',':
			width++
		case isCRLF(buf, i):
			if err := closeRecord(); err != nil {
				return 0, 0, err
			}
			lineStart = true
			i += 2
			continue
		}
		i++
	}

	if !lineStart {
		if err := closeRecord(); err != nil {
			return 0, 0, err
		}
	}
	return fields, records, nil
}

// splitLines overwrites every unescaped CRLF with two NUL bytes.
func splitLines(buf []byte) {
	end := len(buf) - 1
	escaped := false

	for i := 0; i < end; {
		switch {
		case buf[i] == '"':
			w, _ := scanQuote(buf, i, &escaped)
			i += w
			continue
		case !escaped && isCRLF(buf, i):
			buf[i] = 0
			buf[i+1] = 0
			i += 2
			continue
		}
		i++
	}
}

// shrink collapses each NUL pair left by splitLines into a single separator and returns
// an exactly sized copy. The trailing terminator is kept only when the data did not
// already end with a line break.
func shrink(buf []byte) []byte {
	end := len(buf) - 1
	w := 0

	for i := 0; i < end; i++ {
		buf[w] = buf[i]
		w++
		if buf[i] == 0 {
			// Validated data has no NUL bytes of its own: this is the CR half of a
			// split CRLF, and the LF half follows.
			i++
		}
	}
	if buf[w-1] != 0 {
		buf[w] = 0
		w++
	}

	out := make([]byte, w)
	copy(out, buf[:w])
	return out
}

// splitFields overwrites every unescaped comma with a NUL byte.
func splitFields(buf []byte) {
	escaped := false

	for i := 0; i < len(buf); {
		switch {
		case buf[i] == '"':
			w, _ := scanQuote(buf, i, &escaped)
			i += w
			continue
		case !escaped && buf[i] == ',':
			buf[i] = 0
		}
		i++
	}
}

// removeQuotes drops the quotes that delimit escaped fields and collapses doubled quotes
// to one. The result is written to a new, exactly sized buffer in a single linear pass.
func removeQuotes(buf []byte) []byte {
	out := make([]byte, unquote(nil, buf))
	unquote(out, buf)
	return out
}

// unquote copies src to dst without quote escaping and returns the resulting length.
// With a nil dst it only measures.
func unquote(dst, src []byte) int {
	escaped := false
	n := 0

	for i := 0; i < len(src); {
		if src[i] == '"' {
			w, literal := scanQuote(src, i, &escaped)
			if literal {
				if dst != nil {
					dst[n] = '"'
				}
				n++
			}
			i += w
			continue
		}
		if dst != nil {
			dst[n] = src[i]
		}
		n++
		i++
	}
	return n
}
