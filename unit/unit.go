// Package unit implements symbolic physical unit algebra.
//
// A Unit maps unit symbols to rational exponents. Units combine under
// multiplication and division by adding or subtracting exponents, and scale
// under powers and roots. No conversion between commensurable units takes
// place: "m" and "cm" are distinct symbols.
//
//	speed := unit.Divide(unit.MustParse("m"), unit.MustParse("s"))
//	fmt.Println(speed) // Output: m/s
package unit

import (
	"math/big"
	"strings"
)

// Op selects how Combine merges the exponents of two units.
type Op uint8

const (
	// OpMultiply adds the exponents of the right unit.
	OpMultiply Op = iota
	// OpDivide subtracts the exponents of the right unit.
	OpDivide
)

// Unit is an immutable mapping of unit symbols to non-zero rational exponents.
//
// The zero Unit means that no unit was declared. Dimensionless is the declared
// empty unit. Both behave identically in the algebra and are Equal, they only
// differ in rendering.
type Unit struct {
	terms    []term
	declared bool
}

type term struct {
	symbol string
	exp    *big.Rat
}

// Dimensionless is the declared unit without any symbol, rendered as "1".
var Dimensionless = Unit{declared: true}

// Of builds a unit from a single symbol raised to the exponent 1.
func Of(symbol string) Unit {
	return Unit{
		terms:    []term{{symbol: symbol, exp: big.NewRat(1, 1)}},
		declared: true,
	}
}

// IsDimensionless reports whether the unit has no symbols.
func (u Unit) IsDimensionless() bool {
	return len(u.terms) == 0
}

// IsDeclared reports whether the unit was declared, which is the case for
// every unit but the zero Unit and results derived only from zero Units.
func (u Unit) IsDeclared() bool {
	return u.declared || len(u.terms) > 0
}

// Symbols returns the symbols of the unit in rendering order.
func (u Unit) Symbols() []string {
	symbols := make([]string, len(u.terms))
	for i, t := range u.terms {
		symbols[i] = t.symbol
	}
	return symbols
}

// Exponent returns the exponent of symbol, zero if the unit does not contain it.
func (u Unit) Exponent(symbol string) *big.Rat {
	for _, t := range u.terms {
		if t.symbol == symbol {
			return new(big.Rat).Set(t.exp)
		}
	}
	return new(big.Rat)
}

// Equal reports whether both units map the same symbols to the same exponents.
//
// Symbol order and whether the unit was declared are ignored.
func (u Unit) Equal(other Unit) bool {
	if len(u.terms) != len(other.terms) {
		return false
	}
	for _, t := range u.terms {
		i := other.index(t.symbol)
		if i < 0 || other.terms[i].exp.Cmp(t.exp) != 0 {
			return false
		}
	}
	return true
}

func (u Unit) index(symbol string) int {
	for i, t := range u.terms {
		if t.symbol == symbol {
			return i
		}
	}
	return -1
}

// Combine merges two units.
//
// Symbols keep the order of their first appearance, left unit first.
// Symbols whose exponents cancel out are dropped.
func Combine(a, b Unit, op Op) Unit {
	result := Unit{
		terms:    make([]term, 0, len(a.terms)+len(b.terms)),
		declared: a.IsDeclared() || b.IsDeclared(),
	}
	for _, t := range a.terms {
		result.terms = append(result.terms, term{symbol: t.symbol, exp: new(big.Rat).Set(t.exp)})
	}
	for _, t := range b.terms {
		exp := new(big.Rat).Set(t.exp)
		if op == OpDivide {
			exp.Neg(exp)
		}
		result.add(t.symbol, exp)
	}
	result.compact()
	return result
}

// Multiply returns a·b.
func Multiply(a, b Unit) Unit {
	return Combine(a, b, OpMultiply)
}

// Divide returns a/b.
func Divide(a, b Unit) Unit {
	return Combine(a, b, OpDivide)
}

// Scale multiplies every exponent by factor.
//
// A zero factor yields a dimensionless unit.
func Scale(u Unit, factor *big.Rat) Unit {
	result := Unit{
		terms:    make([]term, 0, len(u.terms)),
		declared: u.IsDeclared(),
	}
	for _, t := range u.terms {
		result.terms = append(result.terms, term{
			symbol: t.symbol,
			exp:    new(big.Rat).Mul(t.exp, factor),
		})
	}
	result.compact()
	return result
}

// Pow raises the unit to the integer power n.
func Pow(u Unit, n int64) Unit {
	return Scale(u, big.NewRat(n, 1))
}

// Root takes the n-th root of the unit. n must not be zero.
func Root(u Unit, n int64) Unit {
	if n < 0 {
		return Scale(u, big.NewRat(-1, -n))
	}
	return Scale(u, big.NewRat(1, n))
}

// add merges exp into the exponent of symbol, appending unknown symbols.
func (u *Unit) add(symbol string, exp *big.Rat) {
	if i := u.index(symbol); i >= 0 {
		u.terms[i].exp = new(big.Rat).Add(u.terms[i].exp, exp)
		return
	}
	u.terms = append(u.terms, term{symbol: symbol, exp: exp})
}

func (u *Unit) compact() {
	terms := u.terms[:0]
	for _, t := range u.terms {
		if t.exp.Sign() != 0 {
			terms = append(terms, t)
		}
	}
	u.terms = terms
}

// String renders the unit in the notation accepted by Parse.
//
// Positive exponents form the numerator, negative exponents a single
// denominator: "m.s", "m/s2", "1/m", "m/s.kg", "m^(1/2)".
// Declared dimensionless units render as "1", the zero Unit as "".
func (u Unit) String() string {
	if len(u.terms) == 0 {
		if u.declared {
			return "1"
		}
		return ""
	}

	var num, den []string
	for _, t := range u.terms {
		if t.exp.Sign() > 0 {
			num = append(num, t.symbol+formatExponent(t.exp))
		} else {
			den = append(den, t.symbol+formatExponent(new(big.Rat).Neg(t.exp)))
		}
	}

	var b strings.Builder
	if len(num) == 0 {
		b.WriteString("1")
	} else {
		b.WriteString(strings.Join(num, "."))
	}
	if len(den) > 0 {
		b.WriteString("/")
		b.WriteString(strings.Join(den, "."))
	}
	return b.String()
}

func formatExponent(exp *big.Rat) string {
	if exp.IsInt() {
		if exp.Num().IsInt64() && exp.Num().Int64() == 1 {
			return ""
		}
		return exp.Num().String()
	}
	return "^(" + exp.Num().String() + "/" + exp.Denom().String() + ")"
}
