package unit

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseError is returned by Parse for malformed unit expressions.
type ParseError struct {
	Input string
	// Offset is the byte offset of the offending character.
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid unit %q at offset %d: %s", e.Input, e.Offset, e.Msg)
}

// Parse parses a unit expression.
//
// The accepted notation is the one produced by String:
//
//	unit     = "" | "1" | product [ "/" product ] | "1" "/" product
//	product  = factor { "." factor }
//	factor   = symbol [ exponent ]
//	exponent = [ "-" ] digits | "^(" [ "-" ] digits "/" digits ")" | "^" [ "-" ] digits
//
// Symbols consist of letters and the characters "%", "_" and "'", and may
// contain bracketed groups like "[in_i]" or annotations like "{cells}".
// Repeated symbols are merged, "m.m" equals "m2".
// The empty string yields the zero Unit, "1" yields Dimensionless.
func Parse(s string) (Unit, error) {
	p := parser{input: s}
	return p.parse()
}

// MustParse is like Parse but panics if the expression can not be parsed.
func MustParse(s string) Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

type parser struct {
	input string
	pos   int
}

func (p *parser) parse() (Unit, error) {
	p.skipSpace()
	if p.eof() {
		return Unit{}, nil
	}

	u := Dimensionless
	if p.peek() == '1' {
		p.pos++
		p.skipSpace()
		if p.eof() {
			return u, nil
		}
		if p.peek() != '/' {
			return Unit{}, p.errorf("expected '/' after '1'")
		}
	} else if err := p.product(&u, false); err != nil {
		return Unit{}, err
	}

	if !p.eof() && p.peek() == '/' {
		p.pos++
		if err := p.product(&u, true); err != nil {
			return Unit{}, err
		}
	}

	p.skipSpace()
	if !p.eof() {
		if p.peek() == '/' {
			return Unit{}, p.errorf("only one '/' is allowed")
		}
		return Unit{}, p.errorf("unexpected character %q", p.peekRune())
	}
	u.compact()
	return u, nil
}

func (p *parser) product(u *Unit, negate bool) error {
	for {
		if err := p.factor(u, negate); err != nil {
			return err
		}
		if p.eof() || p.peek() != '.' {
			return nil
		}
		p.pos++
	}
}

func (p *parser) factor(u *Unit, negate bool) error {
	symbol, err := p.symbol()
	if err != nil {
		return err
	}
	exp, err := p.exponent()
	if err != nil {
		return err
	}
	if negate {
		exp.Neg(exp)
	}
	u.add(symbol, exp)
	return nil
}

func (p *parser) symbol() (string, error) {
	start := p.pos
scan:
	for !p.eof() {
		r := p.peekRune()
		switch {
		case r == '[' || r == '{':
			if err := p.group(r); err != nil {
				return "", err
			}
		case unicode.IsLetter(r) || r == '%' || r == '_' || r == '\'':
			p.pos += utf8.RuneLen(r)
		default:
			break scan
		}
	}
	if p.pos == start {
		if p.eof() {
			return "", p.errorf("expected unit symbol")
		}
		return "", p.errorf("expected unit symbol, got %q", p.peekRune())
	}
	return p.input[start:p.pos], nil
}

// group consumes a bracketed symbol part including its closing delimiter.
func (p *parser) group(open rune) error {
	closing := byte(']')
	if open == '{' {
		closing = '}'
	}
	start := p.pos
	end := strings.IndexByte(p.input[start+1:], closing)
	if end < 0 {
		return p.errorf("unterminated %q", open)
	}
	p.pos = start + 1 + end + 1
	return nil
}

func (p *parser) exponent() (*big.Rat, error) {
	if p.eof() {
		return big.NewRat(1, 1), nil
	}
	switch c := p.peek(); {
	case c == '^':
		p.pos++
		if !p.eof() && p.peek() == '(' {
			p.pos++
			num, err := p.integer(true)
			if err != nil {
				return nil, err
			}
			if err := p.expect('/'); err != nil {
				return nil, err
			}
			denStart := p.pos
			den, err := p.integer(false)
			if err != nil {
				return nil, err
			}
			if den.Sign() == 0 {
				p.pos = denStart
				return nil, p.errorf("zero exponent denominator")
			}
			if err := p.expect(')'); err != nil {
				return nil, err
			}
			return new(big.Rat).SetFrac(num, den), nil
		}
		num, err := p.integer(true)
		if err != nil {
			return nil, err
		}
		return new(big.Rat).SetInt(num), nil
	case c == '-' || isDigit(c):
		num, err := p.integer(true)
		if err != nil {
			return nil, err
		}
		return new(big.Rat).SetInt(num), nil
	}
	return big.NewRat(1, 1), nil
}

func (p *parser) integer(signed bool) (*big.Int, error) {
	start := p.pos
	if signed && !p.eof() && p.peek() == '-' {
		p.pos++
	}
	digits := p.pos
	for !p.eof() && isDigit(p.peek()) {
		p.pos++
	}
	if p.pos == digits {
		return nil, p.errorf("expected digits")
	}
	n, _ := new(big.Int).SetString(p.input[start:p.pos], 10)
	return n, nil
}

func (p *parser) expect(c byte) error {
	if p.eof() || p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *parser) skipSpace() {
	for !p.eof() && p.peek() == ' ' {
		p.pos++
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	return p.input[p.pos]
}

func (p *parser) peekRune() rune {
	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])
	return r
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Input: p.input, Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
