// # Basil: A Strict CSV Table Loader for Go
//
// Basil loads a whole CSV document into memory, checks it against the RFC 4180 / RFC 7111
// grammar (CRLF line endings, optional final CRLF, quote-escaped fields), and turns the
// validated bytes into a compact table of NUL-terminated fields that can be indexed by
// record and field number.
//
// # Features
//
// - Strict grammar validation before any byte is modified, reported as `*ParseError` with
//   line and column, wrapping `ErrBareQuote`, `ErrUnterminatedQuote`, `ErrInvalidCharacter`,
//   `ErrLineEnding` or `ErrTrailingQuoteData`.
// - Field-count enforcement across every record (header included) via `*FieldCountError`.
// - Optional header row, excluded from record counting and indexing.
// - Positional lookup, first-letter counting and selection over data records.
// - Serialization through `Writer` with any delimiter, CRLF line endings and either
//   verbatim or re-escaped fields.
// - `Classify` maps load errors onto I/O, allocation, format and structure failures.
//
// # Getting Started
//
//	t, err := basil.Load(f, true)
//	if err != nil {
//		// basil.Classify(err) tells format errors from I/O errors
//	}
//	name, ok := t.Value(1, 1)
//
// A loaded Table is never modified again, so it may be shared between goroutines.
package basil
