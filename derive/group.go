package derive

import (
	"context"
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"github.com/damedic/tabular-toolbox-go/value"
)

// Group labels v with the range of boundaries it falls into.
//
// Boundaries b0 < b1 < … < bn partition the number line into the ranges
// labelled "-b0", "b0-b1", …, "bn+", lower bounds included. Values equal to
// one of the outliers, as well as all values if there are no boundaries, are
// labelled with their own text form. Sequences are grouped item by item.
// The result is a Text value without unit.
func Group(ctx context.Context, v UnitValue, boundaries []value.Value, outliers []value.Value) (UnitValue, error) {
	if !v.Value.Type().IsNumeric() {
		return UnitValue{}, &value.TypeMismatchError{Operation: "group", Expected: "numeric", Actual: v.Value.Type()}
	}
	bounds, err := groupBoundaries(boundaries)
	if err != nil {
		return UnitValue{}, err
	}
	excluded, err := groupOutliers(outliers)
	if err != nil {
		return UnitValue{}, err
	}

	label := func(v value.Value) (value.Value, error) {
		if v.IsNull() {
			return value.Text.NullValue(), nil
		}
		return value.Text.ValueOf(groupLabel(v, boundaries, bounds, excluded))
	}
	result, err := mapSequence(v.Value, value.Text, label)
	if err != nil {
		return UnitValue{}, err
	}
	return Plain(result), nil
}

func groupBoundaries(boundaries []value.Value) ([]*apd.Decimal, error) {
	bounds := make([]*apd.Decimal, len(boundaries))
	for i, b := range boundaries {
		if b.IsSequence() || !b.Type().IsNumeric() || b.IsNull() {
			return nil, &ArgumentError{Operation: "group", Msg: fmt.Sprintf("boundary %d is not a number: %v", i, b)}
		}
		bounds[i], _ = b.Decimal()
		if i > 0 && bounds[i-1].Cmp(bounds[i]) >= 0 {
			return nil, &ArgumentError{Operation: "group", Msg: fmt.Sprintf("boundaries must be strictly ascending: %v after %v", b, boundaries[i-1])}
		}
	}
	return bounds, nil
}

func groupOutliers(outliers []value.Value) ([]*apd.Decimal, error) {
	excluded := make([]*apd.Decimal, 0, len(outliers))
	for i, o := range outliers {
		if o.IsSequence() || !o.Type().IsNumeric() {
			return nil, &ArgumentError{Operation: "group", Msg: fmt.Sprintf("outlier %d is not a number: %v", i, o)}
		}
		if d, ok := o.Decimal(); ok {
			excluded = append(excluded, d)
		}
	}
	return excluded, nil
}

func groupLabel(v value.Value, boundaries []value.Value, bounds, outliers []*apd.Decimal) string {
	text := v.Type().Format(v)
	if len(bounds) == 0 {
		return text
	}
	x, _ := v.Decimal()
	for _, o := range outliers {
		if x.Cmp(o) == 0 {
			return text
		}
	}

	format := func(i int) string {
		return boundaries[i].Type().Format(boundaries[i])
	}
	if x.Cmp(bounds[0]) < 0 {
		return "-" + format(0)
	}
	for i := 1; i < len(bounds); i++ {
		if x.Cmp(bounds[i]) < 0 {
			return format(i-1) + "-" + format(i)
		}
	}
	return format(len(bounds)-1) + "+"
}

// mapSequence applies fn to a scalar or to every item of a sequence,
// building a sequence of type typ.
func mapSequence(v value.Value, typ value.Type, fn func(value.Value) (value.Value, error)) (value.Value, error) {
	if !v.IsSequence() {
		return fn(v)
	}
	if v.IsNull() {
		return typ.NullSequence(), nil
	}
	items := v.Items()
	results := make([]value.Value, len(items))
	for i, item := range items {
		r, err := fn(item)
		if err != nil {
			return value.Value{}, fmt.Errorf("item %d: %w", i, err)
		}
		results[i] = r
	}
	return typ.SequenceOfValues(results)
}
