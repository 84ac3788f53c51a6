package derive

import (
	"context"
	"fmt"
	"math/big"

	"github.com/cockroachdb/apd/v3"
	"github.com/damedic/tabular-toolbox-go/unit"
	"github.com/damedic/tabular-toolbox-go/value"
)

// Plus adds the operands to v from left to right.
//
// The result keeps the unit of v, operands are assumed to be commensurable.
func Plus(ctx context.Context, v UnitValue, operands ...UnitValue) (UnitValue, error) {
	return fold(ctx, "plus", v, operands, arithmetic((*apd.Context).Add), keepUnit)
}

// Minus subtracts the operands from v from left to right.
func Minus(ctx context.Context, v UnitValue, operands ...UnitValue) (UnitValue, error) {
	return fold(ctx, "minus", v, operands, arithmetic((*apd.Context).Sub), keepUnit)
}

// Multiply multiplies v by the operands from left to right.
func Multiply(ctx context.Context, v UnitValue, operands ...UnitValue) (UnitValue, error) {
	return fold(ctx, "multiply", v, operands, arithmetic((*apd.Context).Mul), unit.Multiply)
}

// Div divides v by the divisors from left to right.
//
// Dividing by zero yields the null Decimal.
func Div(ctx context.Context, v UnitValue, divisors ...UnitValue) (UnitValue, error) {
	return fold(ctx, "div", v, divisors, func(c *apd.Context, d, x, y *apd.Decimal) (bool, error) {
		if y.IsZero() {
			return true, nil
		}
		_, err := c.Quo(d, x, y)
		return false, err
	}, unit.Divide)
}

func keepUnit(a, _ unit.Unit) unit.Unit {
	return a
}

// step computes d = x op y. It reports null for undefined results that are not errors.
type step func(c *apd.Context, d, x, y *apd.Decimal) (null bool, err error)

func arithmetic(op func(c *apd.Context, d, x, y *apd.Decimal) (apd.Condition, error)) step {
	return func(c *apd.Context, d, x, y *apd.Decimal) (bool, error) {
		_, err := op(c, d, x, y)
		return false, err
	}
}

func fold(
	ctx context.Context,
	op string,
	v UnitValue,
	operands []UnitValue,
	compute step,
	combine func(a, b unit.Unit) unit.Unit,
) (UnitValue, error) {
	acc, ok, err := numeric(op, v.Value)
	if err != nil {
		return UnitValue{}, err
	}
	u := v.Unit
	xs := make([]*apd.Decimal, len(operands))
	for i, o := range operands {
		x, _, err := numeric(op, o.Value)
		if err != nil {
			return UnitValue{}, err
		}
		xs[i] = x
		u = combine(u, o.Unit)
	}

	if !ok {
		return Quantity(v.Value.Type().NullValue(), u), nil
	}
	result := v.Value
	for i, x := range xs {
		if x == nil {
			typ := promote(result.Type(), operands[i].Value.Type())
			return Quantity(typ.NullValue(), u), nil
		}
		d := new(apd.Decimal)
		null, err := compute(apdContext(ctx), d, acc, x)
		if err != nil {
			return UnitValue{}, fmt.Errorf("%s: %w", op, err)
		}
		if null {
			return Quantity(value.Decimal.NullValue(), u), nil
		}
		if result, err = narrow(d); err != nil {
			return UnitValue{}, fmt.Errorf("%s: %w", op, err)
		}
		acc = d
	}
	return Quantity(result, u), nil
}

// numeric returns the payload of a numeric scalar, ok is false for null.
func numeric(op string, v value.Value) (d *apd.Decimal, ok bool, err error) {
	if v.IsSequence() {
		return nil, false, &value.TypeMismatchError{Operation: op, Expected: "numeric scalar", Actual: v.Type()}
	}
	if !v.Type().IsNumeric() {
		return nil, false, &value.TypeMismatchError{Operation: op, Expected: "numeric", Actual: v.Type()}
	}
	if v.IsNull() {
		return nil, false, nil
	}
	d, _ = v.Decimal()
	return d, true, nil
}

func promote(a, b value.Type) value.Type {
	if a == value.Integer && b == value.Integer {
		return value.Integer
	}
	return value.Decimal
}

// narrow turns a computed decimal into an Integer if it is integral and fits
// into 64 bits, into a Decimal otherwise.
func narrow(d *apd.Decimal) (value.Value, error) {
	d.Reduce(d)
	if i, err := d.Int64(); err == nil {
		return value.Integer.ValueOf(i)
	}
	return value.Decimal.ValueOf(d)
}

func roundTranscendental(d *apd.Decimal) error {
	_, err := transcendentalContext.Round(d, d)
	return err
}

// unaryFunc computes the result for the non-null numeric scalar v with payload x.
type unaryFunc func(c *apd.Context, x *apd.Decimal, v value.Value) (*apd.Decimal, error)

// unary applies fn to a numeric scalar or to every item of a numeric sequence.
func unary(ctx context.Context, op string, v UnitValue, u unit.Unit, fn unaryFunc) (UnitValue, error) {
	if !v.Value.Type().IsNumeric() {
		return UnitValue{}, &value.TypeMismatchError{Operation: op, Expected: "numeric", Actual: v.Value.Type()}
	}
	if !v.Value.IsSequence() {
		r, err := unaryScalar(ctx, v.Value, fn)
		if err != nil {
			return UnitValue{}, err
		}
		return Quantity(r, u), nil
	}
	if v.Value.IsNull() {
		return Quantity(v.Value.Type().NullSequence(), u), nil
	}

	items := v.Value.Items()
	results := make([]value.Value, len(items))
	for i, item := range items {
		r, err := unaryScalar(ctx, item, fn)
		if err != nil {
			return UnitValue{}, fmt.Errorf("item %d: %w", i, err)
		}
		results[i] = r
	}
	seq, err := numericSequence(v.Value.Type(), results)
	if err != nil {
		return UnitValue{}, err
	}
	return Quantity(seq, u), nil
}

func unaryScalar(ctx context.Context, v value.Value, fn unaryFunc) (value.Value, error) {
	if v.IsNull() {
		return v.Type().NullValue(), nil
	}
	x, _ := v.Decimal()
	r, err := fn(apdContext(ctx), x, v)
	if err != nil {
		return value.Value{}, err
	}
	return narrow(r)
}

// numericSequence builds a sequence from narrowed items. The sequence is an
// Integer sequence unless any item is a Decimal.
func numericSequence(typ value.Type, items []value.Value) (value.Value, error) {
	present := false
	for _, item := range items {
		if item.IsNull() {
			continue
		}
		if !present {
			typ = value.Integer
			present = true
		}
		if item.Type() == value.Decimal {
			typ = value.Decimal
		}
	}
	converted := make([]value.Value, len(items))
	for i, item := range items {
		c, err := typ.ValueOf(item)
		if err != nil {
			return value.Value{}, err
		}
		converted[i] = c
	}
	return typ.SequenceOfValues(converted)
}

// Abs returns the absolute value of v, keeping its unit.
func Abs(ctx context.Context, v UnitValue) (UnitValue, error) {
	return unary(ctx, "abs", v, v.Unit, func(c *apd.Context, x *apd.Decimal, _ value.Value) (*apd.Decimal, error) {
		d := new(apd.Decimal)
		_, err := c.Abs(d, x)
		return d, err
	})
}

// Ln returns the natural logarithm of v. The result has no unit.
//
// A *DomainError is returned for values that are not positive.
func Ln(ctx context.Context, v UnitValue) (UnitValue, error) {
	return unary(ctx, "ln", v, unit.Unit{}, func(c *apd.Context, x *apd.Decimal, v value.Value) (*apd.Decimal, error) {
		if x.Sign() <= 0 {
			return nil, &DomainError{Operation: "ln", Operand: v, Reason: "value must be positive"}
		}
		d := new(apd.Decimal)
		if _, err := c.Ln(d, x); err != nil {
			return nil, err
		}
		return d, roundTranscendental(d)
	})
}

// Log returns the logarithm of v to the given base, 10 if none is given.
// The result has no unit.
//
// A *DomainError is returned for values that are not positive and for bases
// that are not positive or equal to 1.
func Log(ctx context.Context, v UnitValue, base ...UnitValue) (UnitValue, error) {
	if len(base) > 1 {
		return UnitValue{}, &ArgumentError{Operation: "log", Msg: fmt.Sprintf("expected at most one base, got %d", len(base))}
	}
	b := apd.New(10, 0)
	if len(base) == 1 {
		x, ok, err := numeric("log", base[0].Value)
		if err != nil {
			return UnitValue{}, err
		}
		if !ok {
			return nullUnary(v, promote(v.Value.Type(), base[0].Value.Type()), unit.Unit{})
		}
		if x.Sign() <= 0 || x.Cmp(apd.New(1, 0)) == 0 {
			return UnitValue{}, &DomainError{Operation: "log", Operand: base[0].Value, Reason: "base must be positive and not 1"}
		}
		b = x
	}

	return unary(ctx, "log", v, unit.Unit{}, func(c *apd.Context, x *apd.Decimal, v value.Value) (*apd.Decimal, error) {
		if x.Sign() <= 0 {
			return nil, &DomainError{Operation: "log", Operand: v, Reason: "value must be positive"}
		}
		var lnX, lnBase apd.Decimal
		if _, err := c.Ln(&lnX, x); err != nil {
			return nil, err
		}
		if _, err := c.Ln(&lnBase, b); err != nil {
			return nil, err
		}
		d := new(apd.Decimal)
		if _, err := c.Quo(d, &lnX, &lnBase); err != nil {
			return nil, err
		}
		return d, roundTranscendental(d)
	})
}

// nullUnary returns the null result of a unary function whose parameter is null.
func nullUnary(v UnitValue, typ value.Type, u unit.Unit) (UnitValue, error) {
	if !v.Value.Type().IsNumeric() {
		return UnitValue{}, &value.TypeMismatchError{Expected: "numeric", Actual: v.Value.Type()}
	}
	if v.Value.IsSequence() {
		return Quantity(typ.NullSequence(), u), nil
	}
	return Quantity(typ.NullValue(), u), nil
}

// Pow raises v to the power of exponent.
//
// Integral exponents are computed exactly within the decimal precision,
// fractional exponents are rounded to 15 significant digits. The unit is
// scaled by the exponent. A *DomainError is returned for zero raised to a
// negative power and for negative values raised to a fractional power.
func Pow(ctx context.Context, v UnitValue, exponent UnitValue) (UnitValue, error) {
	e, ok, err := numeric("pow", exponent.Value)
	if err != nil {
		return UnitValue{}, err
	}
	if !ok {
		return nullUnary(v, promote(v.Value.Type(), exponent.Value.Type()), v.Unit)
	}
	factor, ok := new(big.Rat).SetString(e.Text('f'))
	if !ok {
		return UnitValue{}, &ArgumentError{Operation: "pow", Msg: fmt.Sprintf("invalid exponent %v", e)}
	}
	integral := factor.IsInt()

	return unary(ctx, "pow", v, unit.Scale(v.Unit, factor), func(c *apd.Context, x *apd.Decimal, v value.Value) (*apd.Decimal, error) {
		d := new(apd.Decimal)
		switch {
		case e.IsZero():
			d.SetInt64(1)
			return d, nil
		case x.IsZero() && e.Sign() < 0:
			return nil, &DomainError{Operation: "pow", Operand: v, Reason: "zero raised to a negative power"}
		case x.IsZero():
			return d, nil
		case integral:
			_, err := c.Pow(d, x, e)
			return d, err
		case x.Sign() < 0:
			return nil, &DomainError{Operation: "pow", Operand: v, Reason: "negative value raised to a fractional power"}
		}
		if _, err := c.Pow(d, x, e); err != nil {
			return nil, err
		}
		return d, roundTranscendental(d)
	})
}

// Root returns the n-th root of v; the unit is scaled by 1/n.
//
// Odd roots of negative values are negative. A *DomainError is returned for
// even roots of negative values, for degrees that are zero or not integral,
// and for negative degrees of zero.
func Root(ctx context.Context, v UnitValue, n UnitValue) (UnitValue, error) {
	d, ok, err := numeric("root", n.Value)
	if err != nil {
		return UnitValue{}, err
	}
	if !ok {
		return nullUnary(v, promote(v.Value.Type(), n.Value.Type()), v.Unit)
	}
	degree, err := d.Int64()
	if err != nil || degree == 0 {
		return UnitValue{}, &DomainError{Operation: "root", Operand: n.Value, Reason: "degree must be a non-zero integer"}
	}
	return root(ctx, "root", v, degree)
}

// Sqroot returns the square root of v.
func Sqroot(ctx context.Context, v UnitValue) (UnitValue, error) {
	return root(ctx, "sqroot", v, 2)
}

// Cbroot returns the cube root of v.
func Cbroot(ctx context.Context, v UnitValue) (UnitValue, error) {
	return root(ctx, "cbroot", v, 3)
}

func root(ctx context.Context, op string, v UnitValue, degree int64) (UnitValue, error) {
	return unary(ctx, op, v, unit.Root(v.Unit, degree), func(c *apd.Context, x *apd.Decimal, v value.Value) (*apd.Decimal, error) {
		d := new(apd.Decimal)
		if degree == 2 {
			if x.Sign() < 0 {
				return nil, &DomainError{Operation: op, Operand: v, Reason: "even root of a negative value"}
			}
			_, err := c.Sqrt(d, x)
			return d, err
		}
		if x.Sign() < 0 && degree%2 == 0 {
			return nil, &DomainError{Operation: op, Operand: v, Reason: "even root of a negative value"}
		}
		if x.IsZero() {
			if degree < 0 {
				return nil, &DomainError{Operation: op, Operand: v, Reason: "negative degree root of zero"}
			}
			return d, nil
		}

		abs := new(apd.Decimal).Abs(x)
		positive := degree
		if positive < 0 {
			positive = -positive
		}
		if positive == 3 {
			if _, err := c.Cbrt(d, abs); err != nil {
				return nil, err
			}
		} else {
			inverse := new(apd.Decimal)
			if _, err := c.Quo(inverse, apd.New(1, 0), apd.New(positive, 0)); err != nil {
				return nil, err
			}
			if _, err := c.Pow(d, abs, inverse); err != nil {
				return nil, err
			}
		}
		if degree < 0 {
			if _, err := c.Quo(d, apd.New(1, 0), d); err != nil {
				return nil, err
			}
		}
		if x.Sign() < 0 {
			d.Neg(d)
		}
		return d, roundTranscendental(d)
	})
}
