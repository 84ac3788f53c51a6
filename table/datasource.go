package table

import (
	"context"
	"fmt"
	"slices"

	"github.com/damedic/tabular-toolbox-go/value"
)

// Datasource is a named registry of tables.
//
// It implements Reader on top of the tables' Value methods.
type Datasource struct {
	name   string
	tables map[string]Table
	order  []string
}

// NewDatasource creates a datasource from tables with distinct names.
func NewDatasource(name string, tables ...Table) (*Datasource, error) {
	d := &Datasource{
		name:   name,
		tables: make(map[string]Table, len(tables)),
	}
	for _, t := range tables {
		if err := d.Add(t); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Datasource) Name() string {
	return d.name
}

// Add registers a table. Table names must be unique within a datasource.
func (d *Datasource) Add(t Table) error {
	if t == nil || t == Empty {
		return fmt.Errorf("datasource %q: can not add empty table", d.name)
	}
	if _, ok := d.tables[t.Name()]; ok {
		return fmt.Errorf("datasource %q: duplicate table %q", d.name, t.Name())
	}
	d.tables[t.Name()] = t
	d.order = append(d.order, t.Name())
	return nil
}

// Tables returns the registered tables in registration order.
func (d *Datasource) Tables() []Table {
	tables := make([]Table, 0, len(d.order))
	for _, name := range d.order {
		tables = append(tables, d.tables[name])
	}
	return tables
}

// TableNames returns the names of the registered tables, sorted.
func (d *Datasource) TableNames() []string {
	names := slices.Clone(d.order)
	slices.Sort(names)
	return names
}

// Table looks up a table by name.
func (d *Datasource) Table(name string) (Table, error) {
	t, ok := d.tables[name]
	if !ok {
		return nil, &LookupError{Err: ErrNoSuchTable, Name: name}
	}
	return t, nil
}

// TableOrEmpty is like Table but returns Empty for unknown names.
func (d *Datasource) TableOrEmpty(name string) Table {
	if t, ok := d.tables[name]; ok {
		return t
	}
	return Empty
}

func (d *Datasource) Variable(_ context.Context, table, variable string) (Variable, error) {
	t, err := d.Table(table)
	if err != nil {
		return Variable{}, err
	}
	return t.Variable(variable)
}

func (d *Datasource) Cell(ctx context.Context, table, entity, variable string) (value.Value, error) {
	t, err := d.Table(table)
	if err != nil {
		return value.Value{}, err
	}
	v, err := t.Variable(variable)
	if err != nil {
		return value.Value{}, err
	}
	return t.Value(ctx, entity, v)
}
