package value_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/damedic/tabular-toolbox-go/value"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
)

func TestTypeByName(t *testing.T) {
	tests := []struct {
		name    string
		want    value.Type
		wantErr bool
	}{
		{name: "integer", want: value.Integer},
		{name: "Decimal", want: value.Decimal},
		{name: "text", want: value.Text},
		{name: "boolean", want: value.Boolean},
		{name: "date", want: value.Date},
		{name: "dateTime", want: value.DateTime},
		{name: "date_time", want: value.DateTime},
		{name: "DATETIME", want: value.DateTime},
		{name: " locale ", want: value.Locale},
		{name: "binary", want: value.Binary},
		{name: "point", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := value.TypeByName(tt.name)
			if tt.wantErr {
				var unknown *value.UnknownTypeError
				if !errors.As(err, &unknown) {
					t.Fatalf("expected UnknownTypeError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTypeNames(t *testing.T) {
	for _, typ := range value.Types {
		got, err := value.TypeByName(typ.Name())
		if err != nil {
			t.Fatalf("lookup of %s: %v", typ.Name(), err)
		}
		if got != typ {
			t.Errorf("expected %v, got %v", typ, got)
		}
	}
}

func TestParseAndFormat(t *testing.T) {
	tests := []struct {
		name    string
		typ     value.Type
		input   string
		want    string
		wantErr bool
	}{
		{name: "integer", typ: value.Integer, input: "42", want: "42"},
		{name: "negative integer", typ: value.Integer, input: "-7", want: "-7"},
		{name: "integral decimal text as integer", typ: value.Integer, input: "3.0", want: "3"},
		{name: "fractional integer", typ: value.Integer, input: "1.5", wantErr: true},
		{name: "non numeric integer", typ: value.Integer, input: "abc", wantErr: true},
		{name: "decimal", typ: value.Decimal, input: "1.50", want: "1.50"},
		{name: "decimal exponent", typ: value.Decimal, input: "1E+2", want: "100"},
		{name: "non numeric decimal", typ: value.Decimal, input: "abc", wantErr: true},
		{name: "not a number", typ: value.Decimal, input: "NaN", wantErr: true},
		{name: "text", typ: value.Text, input: " as is ", want: " as is "},
		{name: "boolean", typ: value.Boolean, input: "TRUE", want: "true"},
		{name: "boolean digit", typ: value.Boolean, input: "0", want: "false"},
		{name: "invalid boolean", typ: value.Boolean, input: "maybe", wantErr: true},
		{name: "iso date", typ: value.Date, input: "2020-01-02", want: "2020-01-02"},
		{name: "slashed date", typ: value.Date, input: "2014/3/31", want: "2014-03-31"},
		{name: "written date", typ: value.Date, input: "oct 7, 1970", want: "1970-10-07"},
		{name: "date time", typ: value.DateTime, input: "2020-01-02T03:04:05Z", want: "2020-01-02T03:04:05Z"},
		{name: "invalid date", typ: value.Date, input: "not a date", wantErr: true},
		{name: "locale", typ: value.Locale, input: "en_US", want: "en-US"},
		{name: "binary", typ: value.Binary, input: "aGVsbG8=", want: "aGVsbG8="},
		{name: "invalid binary", typ: value.Binary, input: "%%%", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.typ.Parse(tt.input)
			if tt.wantErr {
				var conv *value.TypeConversionError
				if !errors.As(err, &conv) {
					t.Fatalf("expected TypeConversionError, got %v", err)
				}
				if conv.To != tt.typ {
					t.Errorf("expected target type %v, got %v", tt.typ, conv.To)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Type() != tt.typ {
				t.Errorf("expected type %v, got %v", tt.typ, v.Type())
			}
			if got := tt.typ.Format(v); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEmptyTextIsNull(t *testing.T) {
	for _, typ := range value.Types {
		v, err := typ.Parse("")
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", typ, err)
		}
		if typ == value.Text || typ == value.Binary {
			if v.IsNull() {
				t.Errorf("%v: empty text must not be null", typ)
			}
			continue
		}
		if diff := cmp.Diff(typ.NullValue(), v); diff != "" {
			t.Errorf("%v: unexpected value (-want +got):\n%s", typ, diff)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		typ value.Type
		raw any
	}{
		{value.Integer, 1},
		{value.Integer, int64(-9000000000)},
		{value.Decimal, 1.5},
		{value.Decimal, apd.New(-314, -2)},
		{value.Decimal, 3},
		{value.Text, "hello, world"},
		{value.Boolean, true},
		{value.Boolean, false},
		{value.Date, time.Date(1999, 12, 31, 15, 30, 0, 0, time.UTC)},
		{value.DateTime, time.Date(2001, 2, 3, 4, 5, 6, 700000000, time.UTC)},
		{value.Locale, language.MustParse("fr-CA")},
		{value.Binary, []byte{0, 1, 2, 254, 255}},
		{value.Binary, []byte{}},
		{value.Text, ""},
	}

	for _, tt := range tests {
		t.Run(tt.typ.Name(), func(t *testing.T) {
			want, err := tt.typ.ValueOf(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := tt.typ.Parse(tt.typ.Format(want))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatSequences(t *testing.T) {
	empty, err := value.Integer.SequenceOf([]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	null := value.Integer.NullSequence()

	if got := value.Integer.Format(null); got != "" {
		t.Errorf("unexpected format of null sequence %q", got)
	}
	if got := value.Integer.Format(empty); got != "" {
		t.Errorf("unexpected format of empty sequence %q", got)
	}
	if null.String() != "null" || empty.String() != "[]" {
		t.Errorf("expected null and empty sequence to print differently, got %q and %q", null, empty)
	}
	if null.Equal(empty) {
		t.Errorf("null sequence must not equal the empty sequence")
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		name    string
		typ     value.Type
		raw     any
		want    string
		wantErr bool
	}{
		{name: "int to integer", typ: value.Integer, raw: 3, want: "3"},
		{name: "integral float to integer", typ: value.Integer, raw: 3.0, want: "3"},
		{name: "fractional float to integer", typ: value.Integer, raw: 3.5, wantErr: true},
		{name: "huge unsigned to integer", typ: value.Integer, raw: uint64(1 << 63), wantErr: true},
		{name: "float to decimal", typ: value.Decimal, raw: 1.5, want: "1.5"},
		{name: "int to decimal", typ: value.Decimal, raw: int32(7), want: "7"},
		{name: "apd to decimal", typ: value.Decimal, raw: *apd.New(25, -1), want: "2.5"},
		{name: "string to decimal", typ: value.Decimal, raw: "0.1", want: "0.1"},
		{name: "number to text", typ: value.Text, raw: 12, want: "12"},
		{name: "time to date", typ: value.Date, raw: time.Date(2020, 5, 6, 23, 59, 0, 0, time.UTC), want: "2020-05-06"},
		{name: "int to boolean", typ: value.Boolean, raw: 1, wantErr: true},
		{name: "string to date", typ: value.Date, raw: "2021-02-03", want: "2021-02-03"},
		{name: "integer value to decimal", typ: value.Decimal, raw: value.Integer.MustValueOf(4), want: "4"},
		{name: "decimal value to integer", typ: value.Integer, raw: value.Decimal.MustValueOf(3.0), want: "3"},
		{name: "integer value to text", typ: value.Text, raw: value.Integer.MustValueOf(11), want: "11"},
		{name: "text value to binary", typ: value.Binary, raw: value.Text.MustValueOf("abc"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.typ.ValueOf(tt.raw)
			if tt.wantErr {
				var conv *value.TypeConversionError
				if !errors.As(err, &conv) {
					t.Fatalf("expected TypeConversionError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Type() != tt.typ {
				t.Errorf("expected type %v, got %v", tt.typ, v.Type())
			}
			if got := v.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNullValues(t *testing.T) {
	for _, typ := range value.Types {
		null := typ.NullValue()
		if !null.IsNull() || null.IsSequence() || null.Type() != typ {
			t.Errorf("%v: malformed null value %#v", typ, null)
		}
		if got, _ := typ.ValueOf(nil); !got.Equal(null) {
			t.Errorf("%v: ValueOf(nil) is not null", typ)
		}
		if null.String() != "null" {
			t.Errorf("%v: expected null to print as null, got %q", typ, null.String())
		}
	}

	if value.Integer.NullValue().Equal(value.Decimal.NullValue()) {
		t.Errorf("nulls of different types must not be equal")
	}
	if !(value.Value{}).Equal(value.Text.NullValue()) {
		t.Errorf("zero value must be the null text")
	}
}

func TestSequences(t *testing.T) {
	nullSeq, err := value.Integer.SequenceOf(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	empty, err := value.Integer.SequenceOf([]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !nullSeq.IsNull() || !nullSeq.IsSequence() {
		t.Errorf("expected null sequence, got %v", nullSeq)
	}
	if empty.IsNull() || !empty.IsSequence() || empty.Len() != 0 {
		t.Errorf("expected empty sequence, got %v", empty)
	}
	if nullSeq.Equal(empty) {
		t.Errorf("null sequence must differ from empty sequence")
	}
	if diff := cmp.Diff(value.Integer.NullSequence(), nullSeq); diff != "" {
		t.Errorf("unexpected null sequence (-want +got):\n%s", diff)
	}
	if nullSeq.String() != "null" || empty.String() != "[]" {
		t.Errorf("unexpected display forms %q and %q", nullSeq.String(), empty.String())
	}

	seq, err := value.Decimal.SequenceOf([]any{1, nil, "2.5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seq.Len() != 3 || !seq.At(1).IsNull() {
		t.Fatalf("unexpected sequence %v", seq)
	}
	if got := seq.String(); got != "[1, null, 2.5]" {
		t.Errorf("unexpected display form %q", got)
	}
	if got := value.Decimal.Format(seq); got != "1,,2.5" {
		t.Errorf("unexpected format %q", got)
	}
	if seq.Equal(value.Decimal.MustValueOf(1)) {
		t.Errorf("sequence must differ from scalar")
	}

	if _, err := value.Integer.SequenceOf([]any{"x"}); err == nil {
		t.Errorf("expected conversion error for sequence item")
	}
	if _, err := value.Integer.SequenceOfValues([]value.Value{value.Text.MustValueOf("x")}); err == nil {
		t.Errorf("expected type mismatch for sequence item")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b value.Value
		want bool
	}{
		{"decimal scale", value.Decimal.MustValueOf("1.50"), value.Decimal.MustValueOf(1.5), true},
		{"integer vs decimal", value.Integer.MustValueOf(3), value.Decimal.MustValueOf(3), false},
		{"text", value.Text.MustValueOf("a"), value.Text.MustValueOf("a"), true},
		{"binary", value.Binary.MustValueOf([]byte("x")), value.Binary.MustValueOf([]byte("x")), true},
		{"date", value.Date.MustValueOf("2020-01-01"), value.Date.MustValueOf("2020-01-02"), false},
		{"null vs value", value.Integer.NullValue(), value.Integer.MustValueOf(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		typ    value.Type
		a, b   value.Value
		want   int
		wantOK bool
	}{
		{"integers", value.Integer, value.Integer.MustValueOf(1), value.Integer.MustValueOf(2), -1, true},
		{"decimals", value.Decimal, value.Decimal.MustValueOf("2.0"), value.Decimal.MustValueOf(2), 0, true},
		{"texts", value.Text, value.Text.MustValueOf("b"), value.Text.MustValueOf("a"), 1, true},
		{"booleans", value.Boolean, value.Boolean.MustValueOf(false), value.Boolean.MustValueOf(true), -1, true},
		{"dates", value.Date, value.Date.MustValueOf("2020-01-02"), value.Date.MustValueOf("2020-01-01"), 1, true},
		{"binary", value.Binary, value.Binary.MustValueOf([]byte("a")), value.Binary.MustValueOf([]byte("b")), 0, false},
		{"null", value.Integer, value.Integer.NullValue(), value.Integer.MustValueOf(1), 0, false},
		{"other type", value.Integer, value.Decimal.MustValueOf(1), value.Integer.MustValueOf(1), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.typ.Compare(tt.a, tt.b)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("expected (%d, %v), got (%d, %v)", tt.want, tt.wantOK, got, ok)
			}
		})
	}
}

func TestZero(t *testing.T) {
	zero, ok := value.Integer.Zero()
	if !ok || !zero.Equal(value.Integer.MustValueOf(0)) {
		t.Errorf("unexpected integer zero %v", zero)
	}
	zero, ok = value.Decimal.Zero()
	if !ok || !zero.Equal(value.Decimal.MustValueOf(0)) {
		t.Errorf("unexpected decimal zero %v", zero)
	}
	if _, ok := value.Text.Zero(); ok {
		t.Errorf("text must not have a zero")
	}
}

func TestAccessors(t *testing.T) {
	d, ok := value.Integer.MustValueOf(5).Decimal()
	if !ok || d.Cmp(apd.New(5, 0)) != 0 {
		t.Errorf("expected integer widened to decimal 5, got %v", d)
	}
	if _, ok := value.Text.MustValueOf("5").Decimal(); ok {
		t.Errorf("text must not widen to decimal")
	}

	bin := value.Binary.MustValueOf([]byte("abc"))
	b, _ := bin.Bytes()
	b[0] = 'x'
	if got, _ := bin.Bytes(); string(got) != "abc" {
		t.Errorf("binary payload must not be shared, got %q", got)
	}

	tag, ok := value.Locale.MustValueOf("de").Tag()
	if !ok || tag.String() != language.German.String() {
		t.Errorf("expected german tag, got %v", tag)
	}
}
