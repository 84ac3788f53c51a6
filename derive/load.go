package derive

import (
	"context"

	"github.com/damedic/tabular-toolbox-go/table"
)

// Load reads the value of a variable for an entity and annotates it with the unit of the variable.
func Load(ctx context.Context, reader table.Reader, tableName, entity, variable string) (UnitValue, error) {
	v, err := reader.Variable(ctx, tableName, variable)
	if err != nil {
		return UnitValue{}, err
	}
	cell, err := reader.Cell(ctx, tableName, entity, variable)
	if err != nil {
		return UnitValue{}, err
	}
	return Quantity(cell, v.Unit), nil
}
