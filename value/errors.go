package value

import (
	"errors"
	"fmt"
)

var (
	errUnsupportedInput = errors.New("unsupported input")
	errNestedSequence   = errors.New("sequences can not be nested")
	errUnknownType      = errors.New("unknown value type")
	errNotFinite        = errors.New("not a finite number")
	errNotIntegral      = errors.New("not an integral number")
	errOutOfRange       = errors.New("out of range")
)

// TypeConversionError is returned if an input can not be interpreted as a value of the target type.
type TypeConversionError struct {
	Input any
	To    Type
	Err   error
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("can not convert %T %v to %s: %v", e.Input, e.Input, e.To, e.Err)
}

func (e *TypeConversionError) Unwrap() error {
	return e.Err
}

// TypeMismatchError is returned if an operand is not of the type an operation requires.
type TypeMismatchError struct {
	Operation string
	// Expected names the required type or type family, e.g. "date" or "numeric".
	Expected string
	Actual   Type
}

func (e *TypeMismatchError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("invalid value type: expected '%s' got '%s'", e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: invalid value type: expected '%s' got '%s'", e.Operation, e.Expected, e.Actual)
}

// UnknownTypeError is returned by TypeByName for names that denote no value type.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown value type %q", e.Name)
}
