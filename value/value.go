package value

import (
	"bytes"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/text/language"
)

// Value is an immutable typed datum, scalar or sequence, which may be null.
//
// The zero Value is the null Text value.
type Value struct {
	typ     Type
	seq     bool
	present bool
	v       any
	items   []Value
}

// Type returns the value type.
func (v Value) Type() Type {
	return v.typ
}

// IsNull reports whether the value is null.
//
// For sequences this is true only for the null sequence, never for an empty one.
func (v Value) IsNull() bool {
	return !v.present
}

// IsSequence reports whether the value is a sequence.
func (v Value) IsSequence() bool {
	return v.seq
}

// Len returns the number of items of a sequence; scalars have no items.
func (v Value) Len() int {
	return len(v.items)
}

// At returns the i-th item of a sequence.
func (v Value) At(i int) Value {
	return v.items[i]
}

// Items returns a copy of the items of a sequence.
func (v Value) Items() []Value {
	if !v.seq || !v.present {
		return nil
	}
	items := make([]Value, len(v.items))
	copy(items, v.items)
	return items
}

// Int returns the payload of a non-null Integer.
func (v Value) Int() (int64, bool) {
	if v.typ != Integer || v.seq || !v.present {
		return 0, false
	}
	return v.v.(int64), true
}

// Decimal returns a copy of the numeric payload of a non-null Integer or Decimal.
func (v Value) Decimal() (*apd.Decimal, bool) {
	if v.seq || !v.present {
		return nil, false
	}
	switch p := v.v.(type) {
	case int64:
		return apd.New(p, 0), true
	case *apd.Decimal:
		return new(apd.Decimal).Set(p), true
	}
	return nil, false
}

// Text returns the payload of a non-null Text.
func (v Value) Text() (string, bool) {
	if v.typ != Text || v.seq || !v.present {
		return "", false
	}
	return v.v.(string), true
}

// Bool returns the payload of a non-null Boolean.
func (v Value) Bool() (bool, bool) {
	if v.typ != Boolean || v.seq || !v.present {
		return false, false
	}
	return v.v.(bool), true
}

// Time returns the payload of a non-null Date or DateTime.
func (v Value) Time() (time.Time, bool) {
	if !v.typ.IsTemporal() || v.seq || !v.present {
		return time.Time{}, false
	}
	return v.v.(time.Time), true
}

// Tag returns the payload of a non-null Locale.
func (v Value) Tag() (language.Tag, bool) {
	if v.typ != Locale || v.seq || !v.present {
		return language.Und, false
	}
	return v.v.(language.Tag), true
}

// Bytes returns a copy of the payload of a non-null Binary.
func (v Value) Bytes() ([]byte, bool) {
	if v.typ != Binary || v.seq || !v.present {
		return nil, false
	}
	return bytes.Clone(v.v.([]byte)), true
}

// Equal reports whether two values have the same type, the same sequence flag
// and structurally equal payloads.
//
// Decimals are equal if they are numerically equal, 1.50 equals 1.5.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ || v.seq != other.seq || v.present != other.present {
		return false
	}
	if !v.present {
		return true
	}
	if v.seq {
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	}
	switch p := v.v.(type) {
	case *apd.Decimal:
		return p.Cmp(other.v.(*apd.Decimal)) == 0
	case time.Time:
		return p.Equal(other.v.(time.Time))
	case []byte:
		return bytes.Equal(p, other.v.([]byte))
	}
	return v.v == other.v
}

// String returns a display form of the value.
//
// Null values print as "null", sequences as "[a, b]".
func (v Value) String() string {
	if !v.present {
		return "null"
	}
	if v.seq {
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return v.typ.Format(v)
}
