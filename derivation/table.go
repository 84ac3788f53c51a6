package derivation

import (
	"context"
	"fmt"

	"github.com/damedic/tabular-toolbox-go/derive"
	"github.com/damedic/tabular-toolbox-go/table"
	"github.com/damedic/tabular-toolbox-go/value"
)

// Derive evaluates the set for every entity of its source table and collects
// the results in a new table.
//
// A source table missing from the datasource has no entities and yields an
// empty table. Variables without declared type take the type of their
// results, Integer and Decimal results mixed give Decimal, no results give Text.
func (s *Set) Derive(ctx context.Context, ds *table.Datasource, name string) (*table.MemoryTable, error) {
	source := ds.TableOrEmpty(s.Table)
	entities := source.Entities()

	rows := make([]map[string]derive.UnitValue, len(entities))
	for i, entity := range entities {
		row, err := s.Evaluate(ctx, ds, entity)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}

	vars := make([]table.Variable, len(s.Variables))
	for i, d := range s.Variables {
		v, err := d.variable(rows)
		if err != nil {
			return nil, err
		}
		vars[i] = v
	}

	result, err := table.NewMemoryTable(name, source.EntityType(), vars...)
	if err != nil {
		return nil, err
	}
	for i, entity := range entities {
		result.AddEntity(entity)
		for _, d := range s.Variables {
			if err := result.Set(entity, d.Name, rows[i][d.Name].Value); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

func (d Definition) variable(rows []map[string]derive.UnitValue) (table.Variable, error) {
	v := table.Variable{Name: d.Name, Type: value.Text, Unit: d.Unit}
	if d.HasType {
		v.Type = d.Type
	}
	typed := d.HasType
	for _, row := range rows {
		result := row[d.Name]
		if result.Value.IsSequence() {
			v.Repeatable = true
		}
		if !v.Unit.IsDeclared() && result.Unit.IsDeclared() {
			v.Unit = result.Unit
		}
		t := result.Value.Type()
		switch {
		case d.HasType:
		case !typed:
			v.Type, typed = t, true
		case v.Type == t:
		case v.Type.IsNumeric() && t.IsNumeric():
			v.Type = value.Decimal
		default:
			return table.Variable{}, &value.TypeMismatchError{
				Operation: fmt.Sprintf("derive %s", d.Name),
				Expected:  v.Type.Name(),
				Actual:    t,
			}
		}
	}
	return v, nil
}
