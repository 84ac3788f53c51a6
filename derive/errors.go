package derive

import (
	"fmt"

	"github.com/damedic/tabular-toolbox-go/value"
)

// DomainError is returned if an operand lies outside the domain of a
// mathematical function, e.g. the logarithm of a negative number.
type DomainError struct {
	Operation string
	Operand   value.Value
	Reason    string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s(%v): %s", e.Operation, e.Operand, e.Reason)
}

// ArgumentError is returned for malformed non-operand arguments such as group boundaries.
type ArgumentError struct {
	Operation string
	Msg       string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument: %s", e.Operation, e.Msg)
}

// ArityError is returned by Call if a function receives an unsupported number of arguments.
type ArityError struct {
	Name string
	Min  int
	// Max is negative for variadic functions.
	Max int
	Got int
}

func (e *ArityError) Error() string {
	switch {
	case e.Max < 0:
		return fmt.Sprintf("%s expects at least %d arguments, got %d", e.Name, e.Min, e.Got)
	case e.Min == e.Max:
		return fmt.Sprintf("%s expects %d arguments, got %d", e.Name, e.Min, e.Got)
	}
	return fmt.Sprintf("%s expects %d to %d arguments, got %d", e.Name, e.Min, e.Max, e.Got)
}

// UnknownFunctionError is returned by Call for names not in the function table.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("function %q not found", e.Name)
}
