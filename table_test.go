package basil

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustLoad(t *testing.T, input string, header bool) *Table {
	t.Helper()

	tbl, err := Load(strings.NewReader(input), header)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", input, err)
	}
	return tbl
}

func TestLoadEndToEnd(t *testing.T) {
	t.Parallel()

	tbl := mustLoad(t, "name,surname\r\nAda,Lovelace\r\nAlan,Turing\r\n", true)

	if tbl.FieldCount() != 2 || tbl.RecordCount() != 2 {
		t.Fatalf("counts = (%d, %d), want (2, 2)", tbl.FieldCount(), tbl.RecordCount())
	}
	if v, ok := tbl.Value(1, 1); !ok || v != "Ada" {
		t.Fatalf("Value(1, 1) = %q, %v; want Ada", v, ok)
	}
	if v, ok := tbl.Value(2, 2); !ok || v != "Turing" {
		t.Fatalf("Value(2, 2) = %q, %v; want Turing", v, ok)
	}
	if hdr, ok := tbl.Header(); !ok || !reflect.DeepEqual(hdr, []string{"name", "surname"}) {
		t.Fatalf("Header() = %q, %v", hdr, ok)
	}
	if v, ok := tbl.RawValue(1, 2); !ok || v != "surname" {
		t.Fatalf("RawValue(1, 2) = %q, %v; want surname", v, ok)
	}
	if got, want := tbl.Size(), len("name\x00surname\x00Ada\x00Lovelace\x00Alan\x00Turing\x00"); got != want {
		t.Fatalf("Size() = %d, want %d", got, want)
	}
}

func TestLoadRecordCount(t *testing.T) {
	t.Parallel()

	input := "h1,h2\r\na,b\r\nc,d\r\ne,f"

	tests := []struct {
		name    string
		input   string
		header  bool
		records int
	}{
		{name: "withHeader", input: input, header: true, records: 3},
		{name: "withoutHeader", input: input, header: false, records: 4},
		{name: "trailingCRLFWithHeader", input: input + "\r\n", header: true, records: 3},
		{name: "headerOnly", input: "h1,h2\r\n", header: true, records: 0},
		{name: "singleLineNoCRLF", input: "x", header: false, records: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tbl := mustLoad(t, tc.input, tc.header)
			if got := tbl.RecordCount(); got != tc.records {
				t.Fatalf("RecordCount() = %d, want %d", got, tc.records)
			}
			if tbl.HasHeader() != tc.header {
				t.Fatalf("HasHeader() = %v, want %v", tbl.HasHeader(), tc.header)
			}
		})
	}
}

func TestLoadFieldCountMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		header bool
	}{
		{name: "wideDataRecord", input: "a,b\r\nc,d,e\r\n"},
		{name: "narrowHeader", input: "name\r\nAda,Lovelace\r\n", header: true},
		{name: "narrowLastLine", input: "a,b\r\nc,d\r\ne"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tbl, err := Load(strings.NewReader(tc.input), tc.header)
			if tbl != nil {
				t.Fatalf("Load() returned a table on failure")
			}
			if !errors.Is(err, ErrorFieldCount) {
				t.Fatalf("Load() error = %v, want ErrorFieldCount", err)
			}
			if got := Classify(err); got != FailureStructure {
				t.Fatalf("Classify() = %v, want %v", got, FailureStructure)
			}
		})
	}
}

func TestLoadQuotedValues(t *testing.T) {
	t.Parallel()

	tbl := mustLoad(t, "\"a\"\"b\",\"x,y\"\r\n\"line\r\nbreak\",\"\"\r\n", false)

	tests := []struct {
		record, field int
		want          string
	}{
		{1, 1, "a\"b"},
		{1, 2, "x,y"},
		{2, 1, "line\r\nbreak"},
		{2, 2, ""},
	}
	for _, tc := range tests {
		if got, ok := tbl.Value(tc.record, tc.field); !ok || got != tc.want {
			t.Fatalf("Value(%d, %d) = %q, %v; want %q", tc.record, tc.field, got, ok, tc.want)
		}
	}
}

func TestLookupBounds(t *testing.T) {
	t.Parallel()

	for _, header := range []bool{false, true} {
		input := "r1a,r1b\r\nr2a,r2b\r\nr3a,r3b\r\n"
		if header {
			input = "h1,h2\r\n" + input
		}
		tbl := mustLoad(t, input, header)

		for _, idx := range [][2]int{{0, 1}, {4, 1}, {1, 0}, {1, 3}, {-1, 1}, {1, -1}} {
			if v, ok := tbl.Value(idx[0], idx[1]); ok || v != "" {
				t.Fatalf("header=%v Value(%d, %d) = %q, %v; want miss", header, idx[0], idx[1], v, ok)
			}
		}
		for r := 1; r <= 3; r++ {
			for f := 1; f <= 2; f++ {
				want := "r" + string(rune('0'+r)) + string(rune('a'+f-1))
				if v, ok := tbl.Value(r, f); !ok || v != want {
					t.Fatalf("header=%v Value(%d, %d) = %q, %v; want %q", header, r, f, v, ok, want)
				}
			}
		}
	}
}

func TestRawValueIncludesHeader(t *testing.T) {
	t.Parallel()

	tbl := mustLoad(t, "h\r\nv\r\n", true)
	if v, ok := tbl.RawValue(1, 1); !ok || v != "h" {
		t.Fatalf("RawValue(1, 1) = %q, %v; want h", v, ok)
	}
	if v, ok := tbl.RawValue(2, 1); !ok || v != "v" {
		t.Fatalf("RawValue(2, 1) = %q, %v; want v", v, ok)
	}
	if _, ok := tbl.RawValue(3, 1); ok {
		t.Fatalf("RawValue(3, 1) should miss")
	}
}

func TestPrefixSelection(t *testing.T) {
	t.Parallel()

	tbl := mustLoad(t, "Alice,Smith\r\nalex,Jones\r\nBob,Lee\r\n", false)

	if got := tbl.CountPrefix('a'); got != 2 {
		t.Fatalf("CountPrefix('a') = %d, want 2", got)
	}
	if got := tbl.CountPrefix('A'); got != 2 {
		t.Fatalf("CountPrefix('A') = %d, want 2", got)
	}
	if got := tbl.CountPrefix('z'); got != 0 {
		t.Fatalf("CountPrefix('z') = %d, want 0", got)
	}

	tests := []struct {
		n    int
		c    byte
		want []string
	}{
		{n: 1, c: 'a', want: []string{"Alice", "Smith"}},
		{n: 2, c: 'a', want: []string{"alex", "Jones"}},
		{n: 1, c: 'B', want: []string{"Bob", "Lee"}},
		{n: 3, c: 'a'},
		{n: 0, c: 'a'},
		{n: -1, c: 'a'},
	}
	for _, tc := range tests {
		got, ok := tbl.SelectPrefix(tc.n, tc.c)
		if ok != (tc.want != nil) || !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("SelectPrefix(%d, %q) = %q, %v; want %q", tc.n, tc.c, got, ok, tc.want)
		}
	}
}

func TestPrefixSkipsHeaderAndEmptyFields(t *testing.T) {
	t.Parallel()

	tbl := mustLoad(t, "Anchor,x\r\n,empty\r\nAmy,y\r\n", true)

	if got := tbl.CountPrefix('a'); got != 1 {
		t.Fatalf("CountPrefix('a') = %d, want 1", got)
	}
	if got := tbl.CountPrefix(0); got != 0 {
		t.Fatalf("CountPrefix(0) = %d, want 0", got)
	}
	rec, ok := tbl.SelectPrefix(1, 'a')
	if !ok || !reflect.DeepEqual(rec, []string{"Amy", "y"}) {
		t.Fatalf("SelectPrefix(1, 'a') = %q, %v", rec, ok)
	}
}

func TestBlankLinesAreRecords(t *testing.T) {
	t.Parallel()

	tbl := mustLoad(t, "a\r\n\r\nb\r\n", false)
	if tbl.RecordCount() != 3 {
		t.Fatalf("RecordCount() = %d, want 3", tbl.RecordCount())
	}
	if v, ok := tbl.Value(2, 1); !ok || v != "" {
		t.Fatalf("Value(2, 1) = %q, %v; want empty value", v, ok)
	}
	if v, ok := tbl.Value(3, 1); !ok || v != "b" {
		t.Fatalf("Value(3, 1) = %q, %v; want b", v, ok)
	}
}

func TestRecordAndAll(t *testing.T) {
	t.Parallel()

	tbl := mustLoad(t, "k,v\r\n1,one\r\n2,two\r\n3,three", true)

	if rec, ok := tbl.Record(2); !ok || !reflect.DeepEqual(rec, []string{"2", "two"}) {
		t.Fatalf("Record(2) = %q, %v", rec, ok)
	}
	if _, ok := tbl.Record(0); ok {
		t.Fatalf("Record(0) should miss")
	}
	if _, ok := tbl.Record(4); ok {
		t.Fatalf("Record(4) should miss")
	}

	var got [][]string
	for n, rec := range tbl.All() {
		if n != len(got)+1 {
			t.Fatalf("All() yielded record number %d, want %d", n, len(got)+1)
		}
		got = append(got, rec)
	}
	want := [][]string{{"1", "one"}, {"2", "two"}, {"3", "three"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("All() = %q, want %q", got, want)
	}

	count := 0
	for range tbl.All() {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("All() kept yielding after break")
	}
}

func TestHeaderMissing(t *testing.T) {
	t.Parallel()

	tbl := mustLoad(t, "a,b\r\n", false)
	if hdr, ok := tbl.Header(); ok || hdr != nil {
		t.Fatalf("Header() = %q, %v; want miss", hdr, ok)
	}
}

func TestTableWrite(t *testing.T) {
	t.Parallel()

	const input = "name,note\r\nAda,\"a,b\"\r\nAlan,\"say \"\"hi\"\"\"\r\n"

	tests := []struct {
		name   string
		write  func(*Table, *Writer) error
		config func(*Writer)
		want   string
	}{
		{
			name:  "allVerbatim",
			write: (*Table).WriteAll,
			config: func(w *Writer) {
				w.Comma = ';'
				w.Verbatim = true
			},
			want: "name;note\r\nAda;a,b\r\nAlan;say \"hi\"\r\n",
		},
		{
			name:  "allEscaped",
			write: (*Table).WriteAll,
			want:  input,
		},
		{
			name:  "headerOnly",
			write: (*Table).WriteHeader,
			config: func(w *Writer) {
				w.Comma = '|'
			},
			want: "name|note\r\n",
		},
		{
			name:  "recordsOnly",
			write: (*Table).WriteRecords,
			config: func(w *Writer) {
				w.Comma = '\t'
				w.Verbatim = true
			},
			want: "Ada\ta,b\r\nAlan\tsay \"hi\"\r\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tbl := mustLoad(t, input, true)
			var buf bytes.Buffer
			w := NewWriter(&buf)
			if tc.config != nil {
				tc.config(w)
			}
			if err := tc.write(tbl, w); err != nil {
				t.Fatalf("write error = %v", err)
			}
			if got := buf.String(); got != tc.want {
				t.Fatalf("unexpected output:\n got: %q\nwant: %q", got, tc.want)
			}
		})
	}
}

func TestWriteHeaderWithoutHeader(t *testing.T) {
	t.Parallel()

	tbl := mustLoad(t, "a,b\r\n", false)
	var buf bytes.Buffer
	if err := tbl.WriteHeader(NewWriter(&buf)); err != nil {
		t.Fatalf("WriteHeader() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("WriteHeader() wrote %q for a table without header", buf.String())
	}
}

func TestLoadFailureKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		max   int
		want  Failure
	}{
		{name: "empty", input: "", want: FailureIO},
		{name: "grammar", input: "ab\"c,def\r\n", want: FailureFormat},
		{name: "lfOnly", input: "a,b\nc,d\n", want: FailureFormat},
		{name: "structure", input: "a\r\nb,c\r\n", want: FailureStructure},
		{name: "tooLarge", input: "a,b\r\nc,d\r\n", max: 4, want: FailureAllocation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			l := Loader{MaxSize: tc.max}
			tbl, err := l.Load(strings.NewReader(tc.input))
			if err == nil || tbl != nil {
				t.Fatalf("Load() = %v, %v; want failure", tbl, err)
			}
			if got := Classify(err); got != tc.want {
				t.Fatalf("Classify(%v) = %v, want %v", err, got, tc.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want Failure
	}{
		{err: nil, want: FailureNone},
		{err: &ReadError{Err: errors.New("boom")}, want: FailureIO},
		{err: ErrInputTooLarge, want: FailureAllocation},
		{err: &ParseError{Err: ErrBareQuote}, want: FailureFormat},
		{err: &FieldCountError{Record: 2, Got: 1, Want: 2}, want: FailureStructure},
		{err: errors.New("other"), want: FailureUnknown},
	}
	for _, tc := range tests {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("Classify(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
	if FailureFormat.String() != "format" || Failure(99).String() != "unknown" {
		t.Fatalf("Failure.String() mismatch")
	}
}

func TestLoadNilReaderPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("Load(nil) did not panic")
		}
	}()
	_, _ = Load(nil, false)
}
