package table

import "fmt"

// LookupError reports a failed lookup of a table, an entity or a variable.
//
// Err is one of ErrNoSuchTable, ErrNoSuchEntity and ErrNoSuchVariable.
type LookupError struct {
	Err   error
	Table string
	Name  string
}

func (e *LookupError) Error() string {
	if e.Table == "" || e.Err == ErrNoSuchTable {
		return fmt.Sprintf("%v: %q", e.Err, e.Name)
	}
	return fmt.Sprintf("table %q: %v: %q", e.Table, e.Err, e.Name)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
