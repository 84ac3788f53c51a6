// Package derive computes derived values from typed, optionally unit-annotated operands.
//
// It implements null-aware arithmetic with unit algebra, comparisons,
// grouping of numbers into labelled ranges and extraction of calendar fields.
// Every operation returns a fresh [UnitValue]; null operands never cause an
// error but propagate into null results.
//
//	distance := derive.Quantity(value.Integer.MustValueOf(25), unit.MustParse("m"))
//	duration := derive.Quantity(value.Integer.MustValueOf(5), unit.MustParse("s"))
//
//	speed, err := derive.Div(ctx, distance, duration)
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Println(speed) // Output: 5 m/s
//
// # Numeric Results
//
// Arithmetic is carried out with arbitrary precision decimals. Results that
// are integral and fit into 64 bits are Integer values, all others are
// Decimal values: multiplying the Decimal 1.5 by the Integer 2 yields the
// Integer 3, dividing 7 by 2 yields the Decimal 3.5.
//
// Functions can also be dispatched by name through [Call], which resolves
// them in a table of [Functions] that can be extended with [WithFunctions].
package derive

import (
	"github.com/damedic/tabular-toolbox-go/unit"
	"github.com/damedic/tabular-toolbox-go/value"
)

// UnitValue is a value annotated with a physical unit.
//
// The zero Unit marks values without unit.
type UnitValue struct {
	Value value.Value
	Unit  unit.Unit
}

// Plain wraps a value without unit.
func Plain(v value.Value) UnitValue {
	return UnitValue{Value: v}
}

// Quantity wraps a value with a unit.
func Quantity(v value.Value, u unit.Unit) UnitValue {
	return UnitValue{Value: v, Unit: u}
}

// Equal reports whether values and units are equal.
func (uv UnitValue) Equal(other UnitValue) bool {
	return uv.Value.Equal(other.Value) && uv.Unit.Equal(other.Unit)
}

func (uv UnitValue) String() string {
	if uv.Unit.IsDimensionless() {
		return uv.Value.String()
	}
	return uv.Value.String() + " " + uv.Unit.String()
}
