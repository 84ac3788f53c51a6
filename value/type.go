// Package value implements the closed set of value types used for tabular data
// and the immutable typed [Value] container.
//
// A Value is either a scalar or a sequence. Both may be null: a null scalar is the
// canonical "null of type T", a null sequence is distinct from an empty sequence.
//
//	v, err := value.Decimal.Parse("1.5")
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Println(v.Type(), v) // Output: decimal 1.5
package value

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/cockroachdb/apd/v3"
	"github.com/iancoleman/strcase"
	"golang.org/x/text/language"
)

//go:generate go run ../internal/cmd/generate

// Type is a value type descriptor.
//
// The set of types is closed. Each type defines its null representation,
// parsing from and formatting to text, an ordering and, for numeric types, a zero.
type Type uint8

const (
	Text Type = iota
	Integer
	Decimal
	Boolean
	Date
	DateTime
	Locale
	Binary
)

// Types lists all value types.
var Types = []Type{Text, Integer, Decimal, Boolean, Date, DateTime, Locale, Binary}

const (
	dateLayout = "2006-01-02"
)

// TypeByName looks up a type by name.
//
// The lookup ignores case and word separators, "dateTime", "date_time" and "DATETIME"
// all resolve to DateTime.
func TypeByName(name string) (Type, error) {
	key := strings.ToLower(strcase.ToCamel(strings.TrimSpace(name)))
	if t, ok := typesByKey[key]; ok {
		return t, nil
	}
	return 0, &UnknownTypeError{Name: name}
}

// Name returns the canonical name of the type.
func (t Type) Name() string {
	return t.String()
}

// IsNumeric reports whether arithmetic applies to values of the type.
func (t Type) IsNumeric() bool {
	return t == Integer || t == Decimal
}

// IsTemporal reports whether the type holds a point in time.
func (t Type) IsTemporal() bool {
	return t == Date || t == DateTime
}

// NullValue returns the canonical null value of the type.
func (t Type) NullValue() Value {
	return Value{typ: t}
}

// NullSequence returns the null sequence of the type.
//
// A null sequence is not an empty sequence.
func (t Type) NullSequence() Value {
	return Value{typ: t, seq: true}
}

// Zero returns the additive identity of numeric types.
func (t Type) Zero() (Value, bool) {
	switch t {
	case Integer:
		return Value{typ: Integer, present: true, v: int64(0)}, true
	case Decimal:
		return Value{typ: Decimal, present: true, v: apd.New(0, 0)}, true
	}
	return Value{}, false
}

// SequenceOf builds a sequence value from raw items.
//
// Each item is converted with ValueOf. A nil slice yields the null sequence,
// an empty slice yields the empty sequence.
func (t Type) SequenceOf(items []any) (Value, error) {
	if items == nil {
		return t.NullSequence(), nil
	}
	values := make([]Value, 0, len(items))
	for i, item := range items {
		v, err := t.ValueOf(item)
		if err != nil {
			return Value{}, fmt.Errorf("sequence item %d: %w", i, err)
		}
		if v.seq {
			return Value{}, &TypeConversionError{Input: item, To: t, Err: errNestedSequence}
		}
		values = append(values, v)
	}
	return Value{typ: t, seq: true, present: true, items: values}, nil
}

// SequenceOfValues builds a sequence from scalar values of the type.
// A nil slice yields the null sequence.
func (t Type) SequenceOfValues(items []Value) (Value, error) {
	if items == nil {
		return t.NullSequence(), nil
	}
	values := make([]Value, len(items))
	for i, item := range items {
		if item.seq || item.typ != t {
			return Value{}, &TypeMismatchError{
				Operation: "sequence",
				Expected:  t.Name(),
				Actual:    item.typ,
			}
		}
		values[i] = item
	}
	return Value{typ: t, seq: true, present: true, items: values}, nil
}

// ValueOf converts a native or textual input into a value of the type.
//
// Strings are parsed with Parse, nil yields the null value and values of
// another type are converted through their text form.
func (t Type) ValueOf(raw any) (Value, error) {
	switch r := raw.(type) {
	case nil:
		return t.NullValue(), nil
	case Value:
		return t.convertValue(r)
	case string:
		return t.Parse(r)
	}

	var (
		payload any
		err     error
	)
	switch t {
	case Integer:
		payload, err = toInt64(raw)
	case Decimal:
		payload, err = toDecimal(raw)
	case Text:
		payload = fmt.Sprint(raw)
	case Boolean:
		b, ok := raw.(bool)
		if !ok {
			err = errUnsupportedInput
		}
		payload = b
	case Date:
		tm, ok := raw.(time.Time)
		if !ok {
			err = errUnsupportedInput
		}
		payload = civilDate(tm)
	case DateTime:
		tm, ok := raw.(time.Time)
		if !ok {
			err = errUnsupportedInput
		}
		payload = tm
	case Locale:
		tag, ok := raw.(language.Tag)
		if !ok {
			err = errUnsupportedInput
		}
		payload = tag
	case Binary:
		b, ok := raw.([]byte)
		switch {
		case !ok:
			err = errUnsupportedInput
		case b == nil:
			return t.NullValue(), nil
		default:
			payload = append([]byte(nil), b...)
		}
	default:
		err = errUnknownType
	}
	if err != nil {
		return Value{}, &TypeConversionError{Input: raw, To: t, Err: err}
	}
	return Value{typ: t, present: true, v: payload}, nil
}

// MustValueOf is like ValueOf but panics if the input can not be converted.
//
// It is intended for literals and tests.
func (t Type) MustValueOf(raw any) Value {
	v, err := t.ValueOf(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func (t Type) convertValue(v Value) (Value, error) {
	if v.typ == t {
		return v, nil
	}
	if v.seq {
		if !v.present {
			return t.NullSequence(), nil
		}
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			converted, err := t.convertValue(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = converted
		}
		return Value{typ: t, seq: true, present: true, items: items}, nil
	}
	if !v.present {
		return t.NullValue(), nil
	}
	if t == Decimal && v.typ == Integer {
		return Value{typ: Decimal, present: true, v: apd.New(v.v.(int64), 0)}, nil
	}
	if t == Binary {
		return Value{}, &TypeConversionError{Input: v, To: t, Err: errUnsupportedInput}
	}
	return t.Parse(v.typ.Format(v))
}

// Parse parses the text representation of a value of the type.
//
// Empty text is the null value for every type but Text and Binary, where it
// is the empty text and the empty byte slice.
func (t Type) Parse(s string) (Value, error) {
	if s == "" && t != Text && t != Binary {
		return t.NullValue(), nil
	}

	var (
		payload any
		err     error
	)
	switch t {
	case Text:
		payload = s
	case Integer:
		payload, err = parseInt64(strings.TrimSpace(s))
	case Decimal:
		payload, err = parseDecimal(strings.TrimSpace(s))
	case Boolean:
		payload, err = parseBool(strings.TrimSpace(s))
	case Date:
		var tm time.Time
		tm, err = parseTime(strings.TrimSpace(s), dateLayout)
		payload = civilDate(tm)
	case DateTime:
		payload, err = parseTime(strings.TrimSpace(s), time.RFC3339Nano)
	case Locale:
		payload, err = language.Parse(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	case Binary:
		payload, err = base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	default:
		err = errUnknownType
	}
	if err != nil {
		return Value{}, &TypeConversionError{Input: s, To: t, Err: err}
	}
	return Value{typ: t, present: true, v: payload}, nil
}

// Format returns the canonical text form of a value of the type.
//
// Null values format as the empty string, sequence items are joined by ",".
// The null sequence and the empty sequence both format as the empty string,
// use [Value.String] to tell them apart ("null" and "[]").
func (t Type) Format(v Value) string {
	if !v.present {
		return ""
	}
	if v.seq {
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = t.Format(item)
		}
		return strings.Join(parts, ",")
	}
	switch p := v.v.(type) {
	case int64:
		return strconv.FormatInt(p, 10)
	case *apd.Decimal:
		return p.Text('f')
	case string:
		return p
	case bool:
		return strconv.FormatBool(p)
	case time.Time:
		if v.typ == Date {
			return p.Format(dateLayout)
		}
		return p.Format(time.RFC3339Nano)
	case language.Tag:
		return p.String()
	case []byte:
		return base64.StdEncoding.EncodeToString(p)
	}
	return fmt.Sprint(v.v)
}

// Compare orders two non-null scalar values of the type.
//
// ok is false if either value is null, a sequence, of another type,
// or if the type has no ordering (Binary).
func (t Type) Compare(a, b Value) (cmp int, ok bool) {
	if a.typ != t || b.typ != t || a.seq || b.seq || !a.present || !b.present {
		return 0, false
	}
	switch t {
	case Integer:
		return compareInts(a.v.(int64), b.v.(int64)), true
	case Decimal:
		return a.v.(*apd.Decimal).Cmp(b.v.(*apd.Decimal)), true
	case Text:
		return strings.Compare(a.v.(string), b.v.(string)), true
	case Boolean:
		x, y := a.v.(bool), b.v.(bool)
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		default:
			return 1, true
		}
	case Date, DateTime:
		return a.v.(time.Time).Compare(b.v.(time.Time)), true
	case Locale:
		return strings.Compare(a.v.(language.Tag).String(), b.v.(language.Tag).String()), true
	}
	return 0, false
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func civilDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseTime(s, layout string) (time.Time, error) {
	if t, err := time.Parse(layout, s); err == nil {
		return t, nil
	}
	return dateparse.ParseIn(s, time.UTC)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

func parseInt64(s string) (int64, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i, nil
	}
	// integral decimal text such as "3.0"
	d, _, derr := apd.NewFromString(s)
	if derr != nil {
		return 0, err
	}
	return decimalToInt64(d)
}

func parseDecimal(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, err
	}
	if d.Form != apd.Finite {
		return nil, errNotFinite
	}
	return d, nil
}

func decimalToInt64(d *apd.Decimal) (int64, error) {
	if d.Form != apd.Finite {
		return 0, errNotFinite
	}
	var integ, frac apd.Decimal
	d.Modf(&integ, &frac)
	if !frac.IsZero() {
		return 0, errNotIntegral
	}
	return integ.Int64()
}

func toInt64(raw any) (int64, error) {
	switch r := raw.(type) {
	case int:
		return int64(r), nil
	case int8:
		return int64(r), nil
	case int16:
		return int64(r), nil
	case int32:
		return int64(r), nil
	case int64:
		return r, nil
	case uint:
		return uintToInt64(uint64(r))
	case uint8:
		return int64(r), nil
	case uint16:
		return int64(r), nil
	case uint32:
		return int64(r), nil
	case uint64:
		return uintToInt64(r)
	case float32:
		return floatToInt64(float64(r))
	case float64:
		return floatToInt64(r)
	case *apd.Decimal:
		if r == nil {
			return 0, errUnsupportedInput
		}
		return decimalToInt64(r)
	case apd.Decimal:
		return decimalToInt64(&r)
	}
	return 0, errUnsupportedInput
}

func uintToInt64(u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, errOutOfRange
	}
	return int64(u), nil
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	if f != math.Trunc(f) {
		return 0, errNotIntegral
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errOutOfRange
	}
	return int64(f), nil
}

func toDecimal(raw any) (*apd.Decimal, error) {
	switch r := raw.(type) {
	case float32:
		return floatToDecimal(float64(r))
	case float64:
		return floatToDecimal(r)
	case *apd.Decimal:
		if r == nil {
			return nil, errUnsupportedInput
		}
		if r.Form != apd.Finite {
			return nil, errNotFinite
		}
		return new(apd.Decimal).Set(r), nil
	case apd.Decimal:
		if r.Form != apd.Finite {
			return nil, errNotFinite
		}
		return new(apd.Decimal).Set(&r), nil
	case uint64:
		d, _, err := apd.NewFromString(strconv.FormatUint(r, 10))
		return d, err
	case uint:
		d, _, err := apd.NewFromString(strconv.FormatUint(uint64(r), 10))
		return d, err
	}
	i, err := toInt64(raw)
	if err != nil {
		return nil, err
	}
	return apd.New(i, 0), nil
}

func floatToDecimal(f float64) (*apd.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errNotFinite
	}
	d := new(apd.Decimal)
	if _, err := d.SetFloat64(f); err != nil {
		return nil, err
	}
	return d, nil
}
