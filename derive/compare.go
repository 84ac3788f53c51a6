package derive

import (
	"context"

	"github.com/damedic/tabular-toolbox-go/value"
)

// Gt reports whether v is greater than every operand.
//
// The result is the null Boolean if v or any operand compared before the
// first failing comparison is null. Without operands the result is false.
func Gt(ctx context.Context, v UnitValue, operands ...UnitValue) (UnitValue, error) {
	return compare("gt", v, operands, func(c int) bool { return c > 0 })
}

// Ge reports whether v is greater than or equal to every operand.
func Ge(ctx context.Context, v UnitValue, operands ...UnitValue) (UnitValue, error) {
	return compare("ge", v, operands, func(c int) bool { return c >= 0 })
}

// Lt reports whether v is less than every operand.
func Lt(ctx context.Context, v UnitValue, operands ...UnitValue) (UnitValue, error) {
	return compare("lt", v, operands, func(c int) bool { return c < 0 })
}

// Le reports whether v is less than or equal to every operand.
func Le(ctx context.Context, v UnitValue, operands ...UnitValue) (UnitValue, error) {
	return compare("le", v, operands, func(c int) bool { return c <= 0 })
}

func compare(op string, v UnitValue, operands []UnitValue, accept func(int) bool) (UnitValue, error) {
	left, ok, err := numeric(op, v.Value)
	if err != nil {
		return UnitValue{}, err
	}
	for _, o := range operands {
		if _, _, err := numeric(op, o.Value); err != nil {
			return UnitValue{}, err
		}
	}

	if !ok {
		return Plain(value.Boolean.NullValue()), nil
	}
	if len(operands) == 0 {
		return Plain(value.Boolean.MustValueOf(false)), nil
	}
	for _, o := range operands {
		x, ok, _ := numeric(op, o.Value)
		if !ok {
			return Plain(value.Boolean.NullValue()), nil
		}
		if !accept(left.Cmp(x)) {
			return Plain(value.Boolean.MustValueOf(false)), nil
		}
	}
	return Plain(value.Boolean.MustValueOf(true)), nil
}
