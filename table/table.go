// Package table provides the interfaces through which derived values read
// their inputs: tables of entities with typed variables, grouped into datasources.
//
// Implementations adapt concrete storage, for example spreadsheet or
// statistical file formats, behind the small interfaces defined here.
// [MemoryTable] is a ready-made implementation for tests and small data sets.
//
//	t, _ := table.NewMemoryTable("vitals", "Participant",
//		table.Variable{Name: "height", Type: value.Decimal, Unit: unit.Of("m")},
//	)
//	_ = t.Set("p1", "height", 1.82)
//
//	ds, _ := table.NewDatasource("study", t)
//	height, _ := ds.Cell(ctx, "vitals", "p1", "height")
package table

import (
	"context"
	"errors"

	"github.com/damedic/tabular-toolbox-go/unit"
	"github.com/damedic/tabular-toolbox-go/value"
)

var (
	ErrNoSuchTable    = errors.New("no such table")
	ErrNoSuchEntity   = errors.New("no such entity")
	ErrNoSuchVariable = errors.New("no such variable")
)

// Variable describes a column of a table.
type Variable struct {
	Name string
	Type value.Type
	// Unit is the zero Unit if the variable has no unit.
	Unit unit.Unit
	// Repeatable variables hold a sequence per entity.
	Repeatable bool
}

// NullValue returns the value of the variable for entities without data.
func (v Variable) NullValue() value.Value {
	if v.Repeatable {
		return v.Type.NullSequence()
	}
	return v.Type.NullValue()
}

// The Table interface provides access to the variables and values of a single table.
type Table interface {
	Name() string
	// EntityType names the kind of entities the table holds rows for, e.g. "Participant".
	EntityType() string
	Variables() []Variable
	// Variable looks up a variable by name.
	// An error wrapping ErrNoSuchVariable is returned for unknown names.
	Variable(name string) (Variable, error)
	Entities() []string
	// Value returns the value of a variable for an entity.
	//
	// Entities without data for the variable yield its null value.
	Value(ctx context.Context, entity string, variable Variable) (value.Value, error)
}

// The Reader interface provides cell reads addressed by table, entity and variable name.
type Reader interface {
	Cell(ctx context.Context, table, entity, variable string) (value.Value, error)
	// Variable resolves the metadata of a variable.
	Variable(ctx context.Context, table, variable string) (Variable, error)
}

// Empty is the table without variables and entities.
//
// It stands in wherever a table is required but none exists.
// Reading any variable from it yields the null value of that variable.
var Empty Table = emptyTable{}

type emptyTable struct{}

func (emptyTable) Name() string {
	return ""
}

func (emptyTable) EntityType() string {
	return ""
}

func (emptyTable) Variables() []Variable {
	return nil
}

func (emptyTable) Variable(name string) (Variable, error) {
	return Variable{}, &LookupError{Err: ErrNoSuchVariable, Name: name}
}

func (emptyTable) Entities() []string {
	return nil
}

func (emptyTable) Value(_ context.Context, _ string, variable Variable) (value.Value, error) {
	return variable.NullValue(), nil
}
