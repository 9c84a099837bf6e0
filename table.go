package basil

import (
	"bytes"
	"io"
	"iter"
	"unsafe"
)

// Table is a loaded CSV document. Fields are stored back to back in one buffer as
// NUL-terminated runs in row-major order, header first when present.
type Table struct {
	buf     []byte
	header  bool
	fields  int
	records int
}

// Loader configures how Load turns an input stream into a Table.
type Loader struct {
	// HasHeader marks the first record as a header row. The header must have the same
	// number of fields as every data record but is not counted or indexed as one.
	HasHeader bool
	// MaxSize caps the number of input bytes buffered. Zero means no cap beyond the
	// largest representable buffer.
	MaxSize int
}

// Load reads all of r into a new Table. It is shorthand for a Loader with HasHeader set
// to hasHeader.
func Load(r io.Reader, hasHeader bool) (*Table, error) {
	l := Loader{HasHeader: hasHeader}
	return l.Load(r)
}

// Load buffers r, validates it against the CSV grammar and splits it into fields.
// The caller keeps ownership of r and is responsible for closing it. On failure the
// returned Table is nil; Classify tells the kinds of failure apart.
func (l *Loader) Load(r io.Reader) (*Table, error) {
	if r == nil {
		panic("basil: reader source cannot be nil")
	}

	buf, err := readInput(r, l.MaxSize)
	if err != nil {
		return nil, err
	}

	// Nothing is modified until the whole document is known to be well formed.
	if err := validate(buf); err != nil {
		return nil, err
	}

	fields, records, err := countFields(buf)
	if err != nil {
		return nil, err
	}

	splitLines(buf)
	buf = shrink(buf)
	splitFields(buf)
	buf = removeQuotes(buf)

	if l.HasHeader {
		records--
	}

	return &Table{
		buf:     buf,
		header:  l.HasHeader,
		fields:  fields,
		records: records,
	}, nil
}

// Size returns the length of the internal buffer, terminators included.
func (t *Table) Size() int { return len(t.buf) }

// HasHeader reports whether the first stored record is a header row.
func (t *Table) HasHeader() bool { return t.header }

// FieldCount returns the number of fields in every record.
func (t *Table) FieldCount() int { return t.fields }

// RecordCount returns the number of data records, header excluded.
func (t *Table) RecordCount() int { return t.records }

// rows returns the number of stored records, header included.
func (t *Table) rows() int {
	if t.header {
		return t.records + 1
	}
	return t.records
}

// firstDataRow returns the 1-based row of the first data record.
func (t *Table) firstDataRow() int {
	if t.header {
		return 2
	}
	return 1
}

// RawValue returns the value at the 1-based row and field, where row 1 is the header
// when the table has one. The boolean is false when either index is out of range.
func (t *Table) RawValue(row, field int) (string, bool) {
	if row < 1 || row > t.rows() || field < 1 || field > t.fields {
		return "", false
	}
	pos := t.skip(0, (row-1)*t.fields+field-1)
	value, _ := t.field(pos)
	return value, true
}

// Value returns the value at the 1-based data record and field. The header, if any, is
// skipped. The boolean is false when either index is out of range.
func (t *Table) Value(record, field int) (string, bool) {
	if record < 1 || record > t.records {
		return "", false
	}
	return t.RawValue(record+t.firstDataRow()-1, field)
}

// Header returns the header row. The boolean is false for tables without one.
func (t *Table) Header() ([]string, bool) {
	if !t.header {
		return nil, false
	}
	rec, _ := t.row(0, nil)
	return rec, true
}

// Record returns the fields of the 1-based data record n.
func (t *Table) Record(n int) ([]string, bool) {
	if n < 1 || n > t.records {
		return nil, false
	}
	pos := t.skip(0, (n+t.firstDataRow()-2)*t.fields)
	rec, _ := t.row(pos, nil)
	return rec, true
}

// All iterates over the data records in order with their 1-based record numbers.
// Each yielded slice is freshly allocated.
func (t *Table) All() iter.Seq2[int, []string] {
	return func(yield func(int, []string) bool) {
		pos := t.skipHeader()
		for n := 1; n <= t.records; n++ {
			var rec []string
			rec, pos = t.row(pos, nil)
			if !yield(n, rec) {
				return
			}
		}
	}
}

// CountPrefix returns the number of data records whose first field starts with c,
// compared without regard to ASCII case. Records with an empty first field never match.
func (t *Table) CountPrefix(c byte) int {
	count := 0
	pos := t.skipHeader()
	for n := 0; n < t.records; n++ {
		if matchesPrefix(t.buf[pos], c) {
			count++
		}
		pos = t.skip(pos, t.fields)
	}
	return count
}

// SelectPrefix returns the n-th (1-based, in table order) data record whose first field
// starts with c, compared without regard to ASCII case.
func (t *Table) SelectPrefix(n int, c byte) ([]string, bool) {
	if n < 1 {
		return nil, false
	}
	pos := t.skipHeader()
	for i := 0; i < t.records; i++ {
		if matchesPrefix(t.buf[pos], c) {
			n--
			if n == 0 {
				rec, _ := t.row(pos, nil)
				return rec, true
			}
		}
		pos = t.skip(pos, t.fields)
	}
	return nil, false
}

// WriteHeader writes the header row, if any, and flushes w.
func (t *Table) WriteHeader(w *Writer) error {
	if t.header {
		rec, _ := t.row(0, nil)
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteRecords writes every data record and flushes w.
func (t *Table) WriteRecords(w *Writer) error {
	rec := make([]string, t.fields)
	pos := t.skipHeader()
	for n := 0; n < t.records; n++ {
		rec, pos = t.row(pos, rec)
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteAll writes the header, if any, followed by every data record.
func (t *Table) WriteAll(w *Writer) error {
	if err := t.WriteHeader(w); err != nil {
		return err
	}
	return t.WriteRecords(w)
}

// skipHeader returns the offset of the first data record.
func (t *Table) skipHeader() int {
	if t.header {
		return t.skip(0, t.fields)
	}
	return 0
}

// skip advances past n fields starting at pos.
func (t *Table) skip(pos, n int) int {
	for ; n > 0; n-- {
		pos += bytes.IndexByte(t.buf[pos:], 0) + 1
	}
	return pos
}

// field returns the value starting at pos and the offset of the next field.
func (t *Table) field(pos int) (string, int) {
	end := pos + bytes.IndexByte(t.buf[pos:], 0)
	if end == pos {
		return "", end + 1
	}
	// Zero-copy: the buffer is never written after Load returns.
	return unsafe.String(&t.buf[pos], end-pos), end + 1
}

// row reads one record starting at pos into dst (allocated when too small) and returns
// it with the offset of the following record.
func (t *Table) row(pos int, dst []string) ([]string, int) {
	if cap(dst) < t.fields {
		dst = make([]string, t.fields)
	}
	dst = dst[:t.fields]
	for i := range dst {
		dst[i], pos = t.field(pos)
	}
	return dst, pos
}

// matchesPrefix compares the first byte of a field with c, ignoring ASCII case.
func matchesPrefix(first, c byte) bool {
	return first != 0 && toUpper(first) == toUpper(c)
}

func toUpper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
