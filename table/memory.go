package table

import (
	"context"
	"fmt"
	"slices"

	"github.com/damedic/tabular-toolbox-go/value"
)

// MemoryTable is a Table holding its values in memory.
//
// A MemoryTable must not be modified concurrently with reads.
type MemoryTable struct {
	name       string
	entityType string
	variables  []Variable
	index      map[string]int
	entities   []string
	rows       map[string]map[string]value.Value
}

// NewMemoryTable creates an empty table with the given variables.
func NewMemoryTable(name, entityType string, variables ...Variable) (*MemoryTable, error) {
	t := &MemoryTable{
		name:       name,
		entityType: entityType,
		variables:  slices.Clone(variables),
		index:      make(map[string]int, len(variables)),
		rows:       map[string]map[string]value.Value{},
	}
	for i, v := range variables {
		if v.Name == "" {
			return nil, fmt.Errorf("table %q: variable %d has no name", name, i)
		}
		if _, ok := t.index[v.Name]; ok {
			return nil, fmt.Errorf("table %q: duplicate variable %q", name, v.Name)
		}
		t.index[v.Name] = i
	}
	return t, nil
}

func (t *MemoryTable) Name() string {
	return t.name
}

func (t *MemoryTable) EntityType() string {
	return t.entityType
}

func (t *MemoryTable) Variables() []Variable {
	return slices.Clone(t.variables)
}

func (t *MemoryTable) Variable(name string) (Variable, error) {
	i, ok := t.index[name]
	if !ok {
		return Variable{}, &LookupError{Err: ErrNoSuchVariable, Table: t.name, Name: name}
	}
	return t.variables[i], nil
}

// Entities returns the entity identifiers in insertion order.
func (t *MemoryTable) Entities() []string {
	return slices.Clone(t.entities)
}

// AddEntity registers an entity without any values.
func (t *MemoryTable) AddEntity(entity string) {
	if _, ok := t.rows[entity]; ok {
		return
	}
	t.rows[entity] = map[string]value.Value{}
	t.entities = append(t.entities, entity)
}

// Set stores the value of a variable for an entity, registering the entity if needed.
//
// The raw input is converted to the variable type. Repeatable variables accept
// a []any or a sequence value, a single scalar is stored as a one-item sequence.
func (t *MemoryTable) Set(entity, variable string, raw any) error {
	v, err := t.Variable(variable)
	if err != nil {
		return err
	}
	converted, err := convert(v, raw)
	if err != nil {
		return fmt.Errorf("table %q, entity %q, variable %q: %w", t.name, entity, variable, err)
	}
	t.AddEntity(entity)
	t.rows[entity][variable] = converted
	return nil
}

func convert(v Variable, raw any) (value.Value, error) {
	if !v.Repeatable {
		return v.Type.ValueOf(raw)
	}
	switch r := raw.(type) {
	case nil:
		return v.Type.NullSequence(), nil
	case []any:
		return v.Type.SequenceOf(r)
	}
	item, err := v.Type.ValueOf(raw)
	if err != nil {
		return value.Value{}, err
	}
	if item.IsSequence() {
		return item, nil
	}
	if item.IsNull() {
		return v.Type.NullSequence(), nil
	}
	return v.Type.SequenceOfValues([]value.Value{item})
}

func (t *MemoryTable) Value(_ context.Context, entity string, variable Variable) (value.Value, error) {
	row, ok := t.rows[entity]
	if !ok {
		return value.Value{}, &LookupError{Err: ErrNoSuchEntity, Table: t.name, Name: entity}
	}
	if _, err := t.Variable(variable.Name); err != nil {
		return value.Value{}, err
	}
	if v, ok := row[variable.Name]; ok {
		return v, nil
	}
	return variable.NullValue(), nil
}
