package basil

import "bytes"

// scanState is the grammar position of the validator.
type scanState uint8

const (
	stateFieldStart scanState = iota
	stateInField
	stateInEscapedField
	stateAfterEscapedQuote
	stateAtFieldEnd
	stateAtLineEnd
)

// regularChars holds the bytes allowed in a non-quoted field: printable ASCII
// except comma and double quote.
var regularChars = func() (set [256]bool) {
	for c := ' '; c <= '~'; c++ {
		set[c] = true
	}
	set[','] = false
	set['"'] = false
	return set
}()

// isSpecialChar reports whether c may only appear inside a quoted field.
func isSpecialChar(c byte) bool {
	return c == ',' || c == '\n' || c == '\r'
}

// Validate reports whether data conforms to the CSV grammar accepted by Load.
// It returns nil for valid input, ErrEmptyInput for empty data and a *ParseError otherwise.
func Validate(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyInput
	}
	buf := make([]byte, len(data)+1)
	copy(buf, data)
	return validate(buf)
}

// validate checks buf, whose final byte is the NUL terminator, one byte at a time.
// It never modifies buf.
func validate(buf []byte) error {
	end := len(buf) - 1
	if end <= 0 {
		return ErrEmptyInput
	}

	pos := 0
	quoted := false
	state := stateFieldStart

	for {
		c := buf[pos]

		switch state {
		case stateFieldStart:
			quoted = c == '"'
			if quoted {
				pos++
				state = stateInEscapedField
				continue
			}
			state = stateInField

		case stateInField:
			switch {
			case regularChars[c]:
				pos++
			case c == ',' || c == '\r' || c == '\n' || pos == end:
				state = stateAtFieldEnd
			case c == '"':
				return parseErrorAt(buf, pos, ErrBareQuote)
			default:
				return parseErrorAt(buf, pos, ErrInvalidCharacter)
			}

		case stateInEscapedField:
			switch {
			case c == '"':
				state = stateAfterEscapedQuote
			case pos == end:
				return parseErrorAt(buf, pos, ErrUnterminatedQuote)
			case regularChars[c] || isSpecialChar(c):
				pos++
			default:
				return parseErrorAt(buf, pos, ErrInvalidCharacter)
			}

		case stateAfterEscapedQuote:
			// A quote never sits on the terminator, so pos+1 is in range.
			if buf[pos+1] == '"' {
				pos += 2
				state = stateInEscapedField
				continue
			}
			pos++
			state = stateAtFieldEnd

		case stateAtFieldEnd:
			if c == ',' {
				pos++
				state = stateFieldStart
				continue
			}
			state = stateAtLineEnd

		case stateAtLineEnd:
			switch {
			case pos == end:
				return nil
			case c == '\r' && buf[pos+1] == '\n':
				pos += 2
				if pos == end {
					return nil
				}
				state = stateFieldStart
			case c == '\r' || c == '\n':
				return parseErrorAt(buf, pos, ErrLineEnding)
			case quoted:
				return parseErrorAt(buf, pos, ErrTrailingQuoteData)
			default:
				return parseErrorAt(buf, pos, ErrInvalidCharacter)
			}
		}
	}
}

// parseErrorAt locates pos as a 1-based line and column. Lines are counted by LF bytes,
// including those embedded in quoted fields.
func parseErrorAt(buf []byte, pos int, err error) *ParseError {
	line := 1 + bytes.Count(buf[:pos], []byte{'\n'})
	column := pos - bytes.LastIndexByte(buf[:pos], '\n')
	return &ParseError{Line: line, Column: column, Err: err}
}
